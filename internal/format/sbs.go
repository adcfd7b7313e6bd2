package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dump1090/go1090/internal/modes"
	"github.com/dump1090/go1090/internal/tracker"
)

// sbsField is a 22-column BaseStation/SBS row. Empty string renders as an
// empty CSV field, matching the literal per-DF templates in spec §6.
type sbsField = string

// sbsLine joins 22 columns with commas and a trailing newline.
func sbsLine(cols [22]sbsField) string {
	return "MSG," + strings.Join(cols[1:], ",") + "\n"
}

func flag(b bool) string {
	if b {
		return "-1"
	}
	return "0"
}

func alertFlag(fs int) bool  { return fs == 2 || fs == 3 || fs == 4 }
func spiFlag(fs int) bool    { return fs == 4 || fs == 5 }
func groundFlag(fs int) bool { return fs == 1 || fs == 3 }
func emergFlag(squawk int) bool {
	return squawk == 7500 || squawk == 7600 || squawk == 7700
}

// SBS renders a decoded message as a BaseStation/SBS text line per the
// per-DF schema in spec §6. Returns "" for DFs with no defined SBS line.
func SBS(m *modes.Message, metric bool) string {
	id := strings.ToUpper(fmt.Sprintf("%06x", m.ICAO))
	alert := flag(alertFlag(m.FS))
	emerg := flag(emergFlag(m.Identity))
	spi := flag(spiFlag(m.FS))
	ground := flag(groundFlag(m.FS))

	var cols [22]sbsField
	cols[4] = id

	switch {
	case m.DF == 0:
		cols[1] = "5"
		cols[11] = alt(m.Altitude, metric)

	case m.DF == 4:
		cols[1] = "5"
		cols[11] = alt(m.Altitude, metric)
		cols[18], cols[19], cols[20], cols[21] = alert, emerg, spi, ground

	case m.DF == 5:
		cols[1] = "6"
		cols[17] = strconv.Itoa(m.Identity)
		cols[18], cols[19], cols[20], cols[21] = alert, emerg, spi, ground

	case m.DF == 11:
		cols[1] = "8"

	case m.DF == 17 && m.METype >= 1 && m.METype <= 4:
		cols[1] = "1"
		cols[10] = m.Ident
		cols[18], cols[19], cols[20], cols[21] = "0", "0", "0", "0"

	case m.DF == 17 && m.METype >= 9 && m.METype <= 18:
		cols[1] = "3"
		cols[11] = alt(m.Altitude, metric)
		cols[18], cols[19], cols[20], cols[21] = "0", "0", "0", "0"
		// lat/lon columns left empty unless the caller resolved a position
		// via the tracker; see SBSWithAircraft.

	case m.DF == 17 && m.METype == 19 && m.MESub == 1:
		cols[1] = "4"
		cols[12] = speed(m.GroundSpeed, metric)
		cols[13] = strconv.Itoa(m.Heading)
		cols[16] = strconv.Itoa(m.VerticalRateSigned())
		cols[18], cols[19], cols[20], cols[21] = "0", "0", "0", "0"

	case m.DF == 21:
		cols[1] = "6"
		cols[17] = strconv.Itoa(m.Identity)
		cols[18], cols[19], cols[20], cols[21] = alert, emerg, spi, ground

	default:
		return ""
	}

	return sbsLine(cols)
}

// SBSWithAircraft is SBS but also fills in the lat/lon columns for DF17
// airborne position reports (me_type 9-18) when the tracker has resolved a
// position; omitted when unresolved (spec §6).
func SBSWithAircraft(m *modes.Message, a *tracker.Aircraft, metric bool) string {
	line := SBS(m, metric)
	if line == "" || !(m.DF == 17 && m.METype >= 9 && m.METype <= 18) {
		return line
	}
	if a == nil || !a.HasPosition() {
		return line
	}

	id := strings.ToUpper(fmt.Sprintf("%06x", m.ICAO))
	var cols [22]sbsField
	cols[4] = id
	cols[1] = "3"
	cols[11] = alt(m.Altitude, metric)
	cols[14] = fmt.Sprintf("%.5f", a.Latitude)
	cols[15] = fmt.Sprintf("%.5f", a.Longitude)
	cols[18], cols[19], cols[20], cols[21] = "0", "0", "0", "0"
	return sbsLine(cols)
}

func alt(feet int, metric bool) string {
	if metric {
		return strconv.Itoa(int(float64(feet) / 3.2828))
	}
	return strconv.Itoa(feet)
}

func speed(knots int, metric bool) string {
	if metric {
		return strconv.Itoa(int(float64(knots) * 1.852))
	}
	return strconv.Itoa(knots)
}
