package format

import (
	"encoding/json"

	"github.com/dump1090/go1090/internal/tracker"
)

// AircraftJSON is one row of the "/data.json" HTTP snapshot (spec §4.8).
type AircraftJSON struct {
	Hex      string  `json:"hex"`
	Flight   string  `json:"flight"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Altitude int     `json:"altitude"`
	Track    int     `json:"track"`
	Speed    int     `json:"speed"`
}

// JSONSnapshot renders every aircraft with a resolved position as the
// "/data.json" body, converting units when metric is set.
func JSONSnapshot(aircrafts []*tracker.Aircraft, metric bool) ([]byte, error) {
	rows := make([]AircraftJSON, 0, len(aircrafts))
	for _, a := range aircrafts {
		if !a.HasPosition() {
			continue
		}
		altitude := a.Altitude
		gs := a.GroundSpeed
		if metric {
			altitude = int(float64(altitude) / 3.2828)
			gs = int(float64(gs) * 1.852)
		}
		rows = append(rows, AircraftJSON{
			Hex:      a.HexAddr,
			Flight:   a.Callsign,
			Lat:      a.Latitude,
			Lon:      a.Longitude,
			Altitude: altitude,
			Track:    a.Track,
			Speed:    gs,
		})
	}
	return json.Marshal(rows)
}
