// Package logging wires up logrus the way the rest of the pack does:
// structured fields, text formatter to stderr, and a mapping from the
// --debug bitmask (spec §6) onto logrus levels/fields.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dump1090/go1090/internal/config"
)

// New builds the process-wide logger, raising the level when any --debug
// bit is set.
func New(debug int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case debug&config.DebugDemodVerb != 0:
		log.SetLevel(logrus.TraceLevel)
	case debug != 0:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// Categories reports which human-readable debug categories are active in
// the bitmask, for inclusion in log fields.
func Categories(debug int) []string {
	names := []string{"D", "d", "C", "c", "p", "n", "j"}
	bits := []int{
		config.DebugDemod, config.DebugDemodVerb, config.DebugNoDiscard,
		config.DebugCRCCheck, config.DebugPhaseCorr, config.DebugNoPreamble,
		config.DebugJS,
	}
	var out []string
	for i, b := range bits {
		if debug&b != 0 {
			out = append(out, names[i])
		}
	}
	return out
}
