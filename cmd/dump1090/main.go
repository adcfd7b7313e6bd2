// Command dump1090 ingests Mode S / ADS-B hex frames from a serial device,
// file, stdin, or TCP input, decodes and tracks them, and fans the result
// out to raw/SBS/trajectory/JSON TCP sinks (see SPEC_FULL.md).
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dump1090/go1090/internal/config"
	"github.com/dump1090/go1090/internal/format"
	"github.com/dump1090/go1090/internal/ingest"
	"github.com/dump1090/go1090/internal/logging"
	"github.com/dump1090/go1090/internal/modes"
	"github.com/dump1090/go1090/internal/netfanout"
	"github.com/dump1090/go1090/internal/presenter"
	"github.com/dump1090/go1090/internal/rtlsdr"
	"github.com/dump1090/go1090/internal/serial"
	"github.com/dump1090/go1090/internal/tracker"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logging.New(cfg.Debug)
	entry := logrus.NewEntry(log)
	if cats := logging.Categories(cfg.Debug); len(cats) > 0 {
		entry.WithField("categories", cats).Debug("debug trace categories active")
	}

	decCfg := modes.DefaultConfig()
	decCfg.FixErrors = !cfg.NoFix
	decCfg.CheckCRC = !cfg.NoCRCCheck
	decCfg.Aggressive = cfg.Aggressive
	dec := modes.NewDecoder(decCfg, entry)

	ttl := time.Duration(cfg.InteractiveTTL) * time.Second
	sky := tracker.NewSky(ttl)

	app := &application{cfg: cfg, log: entry, dec: dec, sky: sky}

	if cfg.Debug&config.DebugJS != 0 {
		sink, err := format.OpenDebugJSSink()
		if err != nil {
			log.WithError(err).Warn("could not open frames.js debug sink")
		} else {
			app.debugJS = sink
			defer sink.Close()
		}
	}

	if cfg.Net || cfg.NetOnly {
		if err := app.startNetwork(); err != nil {
			log.WithError(err).Error("fatal: network service failed to start")
			return 1
		}
		defer app.closeNetwork()
	}

	var tableStop chan struct{}
	if cfg.Interactive {
		table, err := presenter.NewTable(sky, cfg.InteractiveRows)
		if err != nil {
			log.WithError(err).Error("fatal: interactive table failed to start")
			return 1
		}
		defer table.Close()
		app.table = table

		tableStop = make(chan struct{})
		go func() {
			if err := table.Run(tableStop); err != nil {
				log.WithError(err).Warn("interactive table exited")
			}
		}()
	}

	if !cfg.NetOnly {
		src, closeSrc, err := app.openInput()
		if err != nil {
			log.WithError(err).Error("fatal: could not open input")
			return 1
		}
		if closeSrc != nil {
			defer closeSrc()
		}
		app.runIngest(src)
	} else {
		app.runAgeOutOnly()
	}

	if tableStop != nil {
		close(tableStop)
	}

	if cfg.Stats {
		fmt.Fprintf(os.Stdout, "%d messages decoded, %d ICAO addresses recently seen\n",
			app.decodedCount, app.dec.Cache.Len())
	}

	return 0
}

// application wires decoder, tracker, and every fan-out sink together.
type application struct {
	cfg *config.Config
	log *logrus.Entry
	dec *modes.Decoder
	sky *tracker.Sky

	rawOut  *netfanout.BroadcastService
	rawIn   *netfanout.RawInService
	httpSvc *netfanout.HTTPService
	sbsOut  *netfanout.BroadcastService
	trjOut  *netfanout.BroadcastService

	table *presenter.Table

	debugJS *format.DebugJSSink

	decodedCount int64
}

func (a *application) openInput() (io.Reader, func(), error) {
	cfg := a.cfg
	switch {
	case cfg.RTLAdsbExec != "":
		src, err := rtlsdr.Open(cfg.RTLAdsbExec)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil

	case cfg.FilePath != "":
		if cfg.FilePath == "-" {
			return os.Stdin, nil, nil
		}
		f, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil

	case cfg.SerialName != "":
		f, err := serial.Open(cfg.SerialName, cfg.SerialSpeed, cfg.SerialParity)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil

	default:
		return os.Stdin, nil, nil
	}
}

func (a *application) startNetwork() error {
	cfg := a.cfg
	var err error

	a.rawOut, err = netfanout.ListenBroadcast("raw-out", fmt.Sprintf(":%d", cfg.RawOutPort), a.log)
	if err != nil {
		return err
	}
	a.sbsOut, err = netfanout.ListenBroadcast("sbs-out", fmt.Sprintf(":%d", cfg.SBSPort), a.log)
	if err != nil {
		return err
	}
	a.trjOut, err = netfanout.ListenBroadcast("trj-out", fmt.Sprintf(":%d", cfg.TrajPort), a.log)
	if err != nil {
		return err
	}
	a.rawIn, err = netfanout.ListenRawIn(fmt.Sprintf(":%d", cfg.RawInPort), a.handleFrame, a.log)
	if err != nil {
		return err
	}
	a.httpSvc, err = netfanout.ListenHTTP(fmt.Sprintf(":%d", cfg.HTTPPort), a.sky, cfg.Metric, a.log)
	if err != nil {
		return err
	}
	return nil
}

func (a *application) closeNetwork() {
	a.rawOut.Close()
	a.sbsOut.Close()
	a.trjOut.Close()
	a.rawIn.Close()
	a.httpSvc.Close()
}

// runIngest drives the reader/consumer rendezvous (spec §4.6, §5): the
// reader goroutine assembles hex lines, the main goroutine decodes and
// dispatches them, then periodically ages out stale aircraft.
func (a *application) runIngest(src io.Reader) {
	reader := ingest.NewReader(src, a.log)
	ageOut := time.NewTicker(time.Second)
	defer ageOut.Stop()

	for {
		select {
		case line, ok := <-reader.Lines:
			if !ok {
				return
			}
			a.handleLine(line)
		case <-ageOut.C:
			a.sky.AgeOut()
		}
	}
}

func (a *application) runAgeOutOnly() {
	ageOut := time.NewTicker(100 * time.Millisecond)
	defer ageOut.Stop()
	for range ageOut.C {
		a.sky.AgeOut()
	}
}

func (a *application) handleLine(line string) {
	hexDigits, ok := ingest.ParseHexLine(line)
	if !ok {
		return
	}
	a.handleFrame(ingest.HexToBytes(hexDigits))
}

func (a *application) handleFrame(raw []byte) {
	if len(raw) == 0 {
		return
	}
	m := a.dec.Decode(raw)
	a.decodedCount++

	checkCRC := !a.cfg.NoCRCCheck
	if checkCRC && !m.CRCOk {
		// CRC invalid and --no-crc-check was not given: drop (spec §4.1, §7).
		return
	}

	ac := a.sky.Ingest(checkCRC, m)
	a.printLocal(m)
	a.fanOut(m, ac)

	if a.debugJS != nil {
		a.debugJS.Write(m, fmt.Sprintf("DF%d", m.DF))
	}
}

func (a *application) printLocal(m *modes.Message) {
	switch {
	case a.cfg.Raw:
		fmt.Print(format.Raw(m))
	case a.cfg.OnlyAddr:
		fmt.Print(format.OnlyAddr(m))
	}
}

func (a *application) fanOut(m *modes.Message, ac *tracker.Aircraft) {
	if a.rawOut != nil {
		a.rawOut.Broadcast([]byte(format.Raw(m)))
	}
	if a.sbsOut != nil {
		if line := format.SBSWithAircraft(m, ac, a.cfg.Metric); line != "" {
			a.sbsOut.Broadcast([]byte(line))
		}
	}
	if a.trjOut != nil && ac != nil {
		if line := format.Trajectory(ac, a.cfg.Metric); line != "" {
			a.trjOut.Broadcast([]byte(line))
		}
	}
}
