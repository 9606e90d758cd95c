package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/iliyamo/venue-price-board/internal/board"
	"github.com/iliyamo/venue-price-board/internal/model"
)

// RateSheet is the input of RenderRateSheet.
type RateSheet struct {
	Schedule    []model.DayPrices
	Promotions  []model.Promotion
	LateNight   model.LateNightLanes
	Version     int64
	GeneratedAt time.Time
}

// RenderRateSheet writes a landscape A4 PDF with one row per weekday and
// one column per activity, followed by the late night special and the
// promotions still running at GeneratedAt.
func RenderRateSheet(w io.Writer, rs RateSheet) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Weekly Rate Sheet", false)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Weekly Rate Sheet")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, version %d", rs.GeneratedAt.Format("Mon 2 Jan 2006 15:04 MST"), rs.Version))
	pdf.Ln(10)

	const dayW, colW, lineH = 34.0, 81.0, 6.0
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(45, 69, 90)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(dayW, 8, "Day", "1", 0, "C", true, 0, "")
	for _, a := range model.Activities {
		pdf.CellFormat(colW, 8, cardTitle(a), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "", 9)
	for _, d := range ordered(rs.Schedule) {
		cells := make([]string, len(model.Activities))
		lines := 1
		for i, a := range model.Activities {
			cells[i] = activityLines(d.Activity(a))
			if n := strings.Count(cells[i], "\n") + 1; n > lines {
				lines = n
			}
		}
		h := float64(lines) * lineH
		x, y := pdf.GetX(), pdf.GetY()
		if y+h > 198 {
			pdf.AddPage()
			x, y = pdf.GetX(), pdf.GetY()
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(dayW, h, string(d.Day), "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for i, text := range cells {
			cx := x + dayW + float64(i)*colW
			pdf.Rect(cx, y, colW, h, "D")
			pdf.SetXY(cx, y)
			pdf.MultiCell(colW, lineH, text, "", "L", false)
		}
		pdf.SetXY(x, y+h)
	}

	pdf.Ln(6)
	if l := rs.LateNight; l.IsActive {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 7, "Late Night Lanes")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		days := make([]string, len(l.ApplicableDays))
		for i, d := range l.ApplicableDays {
			days[i] = string(d)
		}
		pdf.MultiCell(0, 5, fmt.Sprintf("%s, %s: $%s. %s", strings.Join(days, ", "),
			board.FormatTimeRange(l.StartTime, l.EndTime), FormatPrice(l.Price), l.Description), "", "L", false)
		if l.Disclaimer != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, l.Disclaimer, "", "L", false)
		}
		pdf.Ln(4)
	}

	var running []model.Promotion
	for _, p := range rs.Promotions {
		if p.IsActive && board.InDateRange(p, rs.GeneratedAt) {
			running = append(running, p)
		}
	}
	if len(running) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 7, "Promotions")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		for _, p := range running {
			pdf.MultiCell(0, 5, fmt.Sprintf("%s: %s", p.Title, p.Description), "", "L", false)
			if p.Terms != "" {
				pdf.SetFont("Arial", "I", 8)
				pdf.MultiCell(0, 4, p.Terms, "", "L", false)
				pdf.SetFont("Arial", "", 10)
			}
		}
	}

	return pdf.Output(w)
}

// ordered returns the schedule Sunday first, keeping unknown days at the end
// in their stored order.
func ordered(schedule []model.DayPrices) []model.DayPrices {
	out := make([]model.DayPrices, 0, len(schedule))
	used := make([]bool, len(schedule))
	for _, w := range model.Weekdays {
		for i, d := range schedule {
			if !used[i] && d.Day == w {
				out = append(out, d)
				used[i] = true
			}
		}
	}
	for i, d := range schedule {
		if !used[i] {
			out = append(out, d)
		}
	}
	return out
}

func activityLines(a model.ActivityPrice) string {
	if !a.IsAvailable || len(a.TimeSlots) == 0 {
		return "Unavailable"
	}
	lines := make([]string, 0, len(a.TimeSlots))
	for _, s := range a.TimeSlots {
		lines = append(lines, fmt.Sprintf("%s  $%s", board.FormatTimeRange(s.StartTime, s.EndTime), FormatPrice(s.Price)))
	}
	return strings.Join(lines, "\n")
}
