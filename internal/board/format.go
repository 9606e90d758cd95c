package board

import (
	"fmt"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// FormatTime renders "16:00" as "4:00 PM". CLOSE is returned unchanged and
// malformed input is returned as given.
func FormatTime(hhmm string) string {
	if hhmm == model.Close {
		return model.Close
	}
	mins, ok := model.MinutesOf(hhmm)
	if !ok {
		return hhmm
	}
	h, m := mins/60, mins%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, period)
}

// FormatTimeRange renders a slot for display, e.g. "4:00 PM - CLOSE".
func FormatTimeRange(start, end string) string {
	return FormatTime(start) + " - " + FormatTime(end)
}
