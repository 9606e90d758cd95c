// Package export renders the resolved board for offline surfaces: a
// standalone 1920x1080 HTML page for signage players and a printable weekly
// rate sheet.
package export

import (
	_ "embed"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/venue-price-board/internal/board"
	"github.com/iliyamo/venue-price-board/internal/model"
)

//go:embed board.html.tmpl
var boardHTML string

var boardTemplate = template.Must(template.New("board").Funcs(template.FuncMap{
	"price":     FormatPrice,
	"upper":     strings.ToUpper,
	"cardTitle": cardTitle,
	"wait":      waitText,
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
}).Parse(boardHTML))

// HTMLOptions controls the page chrome around the board.
type HTMLOptions struct {
	Version     int64
	GeneratedAt time.Time
	// RefreshSeconds adds a meta refresh so players pick up new prices
	// without scripting. Zero disables it.
	RefreshSeconds int
}

type card struct {
	board.ActivityState
	Title     string
	LateNight *model.LateNightLanes
}

type page struct {
	Board       board.ResolvedBoard
	Cards       []card
	Clock       string
	Version     int64
	GeneratedAt string
	Refresh     int
}

// RenderHTML writes a self-contained board page for b. During late night
// the bowling card shows the late night special instead of the slot price.
func RenderHTML(w io.Writer, b board.ResolvedBoard, opts HTMLOptions) error {
	p := page{
		Board:       b,
		Clock:       board.FormatTime(b.HHMM),
		Version:     opts.Version,
		GeneratedAt: opts.GeneratedAt.Format(time.RFC1123),
		Refresh:     opts.RefreshSeconds,
	}
	for _, a := range model.Activities {
		c := card{ActivityState: b.Activity(a), Title: cardTitle(a)}
		if a == model.Bowling && b.LateNightActive {
			ln := b.LateNight
			c.LateNight = &ln
		}
		p.Cards = append(p.Cards, c)
	}
	return boardTemplate.Execute(w, p)
}

// FormatPrice drops the cents of whole prices: 42 renders as "42", 14.99
// as "14.99".
func FormatPrice(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func cardTitle(a model.ActivityID) string {
	switch a {
	case model.Bowling:
		return "BOWLING"
	case model.Darts:
		return "INTERACTIVE DARTS"
	case model.LaserTag:
		return "LASER TAG"
	}
	return strings.ToUpper(string(a))
}

func waitText(w *board.WaitTime) string {
	if w == nil {
		return ""
	}
	switch {
	case w.Hours > 0 && w.Minutes > 0:
		return strconv.Itoa(w.Hours) + " HR " + strconv.Itoa(w.Minutes) + " MIN"
	case w.Hours > 0:
		return strconv.Itoa(w.Hours) + " HR"
	}
	return strconv.Itoa(w.Minutes) + " MIN"
}
