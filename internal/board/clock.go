// Package board resolves the raw price schedule, promotions and late night
// configuration into the snapshot every display surface renders. Everything
// in this package is a pure function of its arguments; the current time is
// always passed in.
package board

import (
	"fmt"
	"time"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// Clock supplies the current instant. Callers inject it so that resolution
// can be tested at any day and time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the venue's time zone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	t := time.Now()
	if c.Location != nil {
		t = t.In(c.Location)
	}
	return t
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Weekday returns the weekday name of t in t's own location.
func Weekday(t time.Time) model.Weekday {
	return model.Weekdays[t.Weekday()]
}

// HHMM returns the zero-padded 24h wall-clock time of t, e.g. "07:05".
func HHMM(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
