package format

import (
	"fmt"
	"time"

	"github.com/dump1090/go1090/internal/tracker"
)

// Trajectory renders an aircraft as "!CALLSIGN,lon,lat,alt,speed,track,seen*"
// (spec §4.8). Returns "" when the aircraft has no resolved position.
func Trajectory(a *tracker.Aircraft, metric bool) string {
	if !a.HasPosition() {
		return ""
	}

	seen := int(time.Since(a.LastSeen).Seconds())
	return fmt.Sprintf("!%s,%.4f,%.4f,%s,%s,%d,%d*\n",
		a.Callsign, a.Longitude, a.Latitude,
		alt(a.Altitude, metric), speed(a.GroundSpeed, metric), a.Track, seen)
}
