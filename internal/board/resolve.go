package board

import (
	"time"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// Mode is the macro state of the board.
type Mode string

const (
	ModeNormal    Mode = "NORMAL"
	ModeLateNight Mode = "LATE_NIGHT"
)

// DisplayStatus tells a renderer what to draw in an activity card.
type DisplayStatus string

const (
	StatusAvailable   DisplayStatus = "AVAILABLE"
	StatusWaitTime    DisplayStatus = "WAIT_TIME"
	StatusUnavailable DisplayStatus = "UNAVAILABLE"
)

// DefaultWaitMinutes is shown when wait time display is on but no value was
// configured.
const DefaultWaitMinutes = 30

// WaitTime is a wait in minutes split for display as "1 HR 15 MIN".
type WaitTime struct {
	TotalMinutes int `json:"totalMinutes"`
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
}

func splitWait(total int) *WaitTime {
	return &WaitTime{TotalMinutes: total, Hours: total / 60, Minutes: total % 60}
}

// ActivityState is the resolved card of one activity.
type ActivityState struct {
	Activity    model.ActivityID  `json:"activity"`
	Status      DisplayStatus     `json:"status"`
	Slot        *model.TimeSlot   `json:"slot"`
	Price       *float64          `json:"price"`
	TimeRange   string            `json:"timeRange,omitempty"`
	IsAvailable bool              `json:"isAvailable"`
	Note        string            `json:"note,omitempty"`
	WaitTime    *WaitTime         `json:"waitTime,omitempty"`
	Promotions  []model.Promotion `json:"promotions"`
}

// PerActivity holds the three activity cards.
type PerActivity struct {
	Bowling  ActivityState `json:"bowling"`
	Darts    ActivityState `json:"darts"`
	LaserTag ActivityState `json:"laserTag"`
}

// ResolvedBoard is the snapshot every display surface renders. It is built
// fresh on every call and never mutated afterwards.
type ResolvedBoard struct {
	Day             model.Weekday        `json:"day"`
	HHMM            string               `json:"hhmm"`
	PricesDay       model.Weekday        `json:"pricesDay"`
	Mode            Mode                 `json:"mode"`
	PerActivity     PerActivity          `json:"perActivity"`
	Promotions      []model.Promotion    `json:"promotions"`
	LateNightActive bool                 `json:"lateNightActive"`
	LateNight       model.LateNightLanes `json:"lateNight"`
}

// Activity returns the card for a. Unknown ids return the zero state.
func (b ResolvedBoard) Activity(a model.ActivityID) ActivityState {
	switch a {
	case model.Bowling:
		return b.PerActivity.Bowling
	case model.Darts:
		return b.PerActivity.Darts
	case model.LaserTag:
		return b.PerActivity.LaserTag
	}
	return ActivityState{}
}

// Input carries everything Resolve needs. Day and HHMM override the values
// derived from Now, which lets the admin preview any day and time; promotion
// date windows are always checked against Now.
type Input struct {
	Schedule       []model.DayPrices
	Promotions     []model.Promotion
	LateNight      model.LateNightLanes
	Now            time.Time
	Day            model.Weekday
	HHMM           string
	ForceLateNight bool
}

// ResolveBoard resolves the board at now.
func ResolveBoard(schedule []model.DayPrices, promotions []model.Promotion, lateNight model.LateNightLanes, now time.Time, forceLateNight bool) ResolvedBoard {
	return Resolve(Input{
		Schedule:       schedule,
		Promotions:     promotions,
		LateNight:      lateNight,
		Now:            now,
		ForceLateNight: forceLateNight,
	})
}

// Resolve builds a ResolvedBoard from in.
func Resolve(in Input) ResolvedBoard {
	day := in.Day
	if day == "" {
		day = Weekday(in.Now)
	}
	hhmm := in.HHMM
	if hhmm == "" {
		hhmm = HHMM(in.Now)
	}

	prices := pricesFor(in.Schedule, day)
	active := ActivePromotions(in.Promotions, day, in.Now)

	lateNight := in.ForceLateNight || LateNightActive(in.LateNight, day, hhmm)
	mode := ModeNormal
	if lateNight {
		mode = ModeLateNight
	}

	return ResolvedBoard{
		Day:       day,
		HHMM:      hhmm,
		PricesDay: prices.Day,
		Mode:      mode,
		PerActivity: PerActivity{
			Bowling:  resolveActivity(model.Bowling, prices.Bowling, active, hhmm),
			Darts:    resolveActivity(model.Darts, prices.Darts, active, hhmm),
			LaserTag: resolveActivity(model.LaserTag, prices.LaserTag, active, hhmm),
		},
		Promotions:      active,
		LateNightActive: lateNight,
		LateNight:       in.LateNight,
	}
}

// pricesFor picks the record for day, falling back to the first record. An
// empty schedule yields a record with every activity unavailable.
func pricesFor(schedule []model.DayPrices, day model.Weekday) model.DayPrices {
	for _, d := range schedule {
		if d.Day == day {
			return d
		}
	}
	if len(schedule) > 0 {
		return schedule[0]
	}
	return model.DayPrices{Day: day}
}

func resolveActivity(id model.ActivityID, a model.ActivityPrice, active []model.Promotion, hhmm string) ActivityState {
	st := ActivityState{
		Activity:    id,
		IsAvailable: a.IsAvailable,
		Note:        a.Note,
		Promotions:  ForActivity(active, id),
	}
	slot := ResolveSlot(a.TimeSlots, a.IsAvailable, hhmm)
	switch {
	case slot != nil:
		price := slot.Price
		st.Status = StatusAvailable
		st.Slot = slot
		st.Price = &price
		st.TimeRange = FormatTimeRange(slot.StartTime, slot.EndTime)
	case a.ShowWaitTime:
		st.Status = StatusWaitTime
		wait := DefaultWaitMinutes
		if a.WaitTime != nil && *a.WaitTime > 0 {
			wait = *a.WaitTime
		}
		st.WaitTime = splitWait(wait)
	default:
		st.Status = StatusUnavailable
	}
	return st
}

// LateNightActive reports whether the late night special covers day at hhmm.
// A malformed window is never active.
func LateNightActive(l model.LateNightLanes, day model.Weekday, hhmm string) bool {
	if !l.IsActive || !l.AppliesToDay(day) {
		return false
	}
	return inWindow(hhmm, l.StartTime, l.EndTime)
}
