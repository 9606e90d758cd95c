package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// Layouts accepted for promotion dates that carry no zone. They are read in
// the location of the instant being tested.
var localDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate parses a stored promotion date. RFC 3339 values keep their
// offset; a bare date is midnight UTC; a date-time without a zone is read in
// loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// InDateRange reports whether now lies within [startDate, endDate], both ends
// inclusive. Either date failing to parse yields false.
func InDateRange(p model.Promotion, now time.Time) bool {
	start, err := ParseDate(p.StartDate, now.Location())
	if err != nil {
		return false
	}
	end, err := ParseDate(p.EndDate, now.Location())
	if err != nil {
		return false
	}
	return !now.Before(start) && !now.After(end)
}

// IsPromotionActive applies the day-level predicate: the active flag, the
// date window and the weekday.
func IsPromotionActive(p model.Promotion, day model.Weekday, now time.Time) bool {
	return p.IsActive && p.AppliesToDay(day) && InDateRange(p, now)
}

// ActivePromotions returns every promotion active on day at now, in input
// order. The result is never nil.
func ActivePromotions(promotions []model.Promotion, day model.Weekday, now time.Time) []model.Promotion {
	out := make([]model.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if IsPromotionActive(p, day, now) {
			out = append(out, p)
		}
	}
	return out
}

// ForActivity narrows promotions to those listing activity. The result is
// never nil.
func ForActivity(promotions []model.Promotion, activity model.ActivityID) []model.Promotion {
	out := make([]model.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.AppliesToActivity(activity) {
			out = append(out, p)
		}
	}
	return out
}

// UnparsableDates returns the promotions whose start or end date cannot be
// parsed, so callers can log them. loc is used for zone-less values.
func UnparsableDates(promotions []model.Promotion, loc *time.Location) []model.Promotion {
	var bad []model.Promotion
	for _, p := range promotions {
		_, errStart := ParseDate(p.StartDate, loc)
		_, errEnd := ParseDate(p.EndDate, loc)
		if errStart != nil || errEnd != nil {
			bad = append(bad, p)
		}
	}
	return bad
}
