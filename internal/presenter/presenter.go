// Package presenter renders the interactive live table (spec §4, an
// external collaborator named only because it consumes the tracker).
// Adapted from the teacher's main.go gocui wiring.
package presenter

import (
	"fmt"
	"sort"
	"time"

	"github.com/jroimartin/gocui"
	. "github.com/logrusorgru/aurora"

	"github.com/dump1090/go1090/internal/tracker"
)

// Table drives a gocui live table over a Sky, refreshed on a timer.
type Table struct {
	g    *gocui.Gui
	sky  *tracker.Sky
	rows int
}

// NewTable builds (but does not run) the interactive table.
func NewTable(sky *tracker.Sky, rows int) (*Table, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	t := &Table{g: g, sky: sky, rows: rows}
	g.SetManagerFunc(t.layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, err
	}
	return t, nil
}

// Close releases the terminal.
func (t *Table) Close() {
	t.g.Close()
}

// Run blocks, refreshing the table once a second until Ctrl-C or until
// stop is closed.
func (t *Table) Run(stop <-chan struct{}) error {
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
				return
			case <-tick.C:
				t.g.Update(t.update)
			}
		}
	}()

	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (t *Table) layout(g *gocui.Gui) error {
	const maxX = 80
	_, maxY := g.Size()

	v, err := g.SetView("status", 0, 0, maxX-2, 2)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Title = " STATUS "

	v, err = g.SetView("list", 0, 3, maxX-2, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Title = " A/C "
	return nil
}

func (t *Table) update(g *gocui.Gui) error {
	s, err := g.View("status")
	if err != nil {
		return nil
	}
	s.Clear()
	fmt.Fprintf(s, " A/C: %02d  LAST UPDATE: %s\n",
		Green(t.sky.Count()),
		Bold(Green(time.Now().Format("2006-01-02 15:04:05"))))

	l, err := g.View("list")
	if err != nil {
		return nil
	}
	l.Clear()
	fmt.Fprintln(l, " ICAO ADDR    FLIGHT     ALT    SPD    HDG     LAT     LON  SEEN")
	fmt.Fprintln(l, " ===================================================================")

	aircrafts := t.sky.Snapshot()
	sort.Slice(aircrafts, func(i, j int) bool { return aircrafts[i].ICAO < aircrafts[j].ICAO })

	max := t.rows
	if max <= 0 || max > len(aircrafts) {
		max = len(aircrafts)
	}
	for _, ac := range aircrafts[:max] {
		fmt.Fprintln(l, Sprintf(Yellow(" %6s       %9s  %-5d  %-5d  %-3d  %6.2f  %6.2f  %s"),
			ac.HexAddr, ac.Callsign, ac.Altitude, ac.GroundSpeed, ac.Track,
			ac.Latitude, ac.Longitude, ac.LastSeen.Format("15:04:05")))
	}

	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
