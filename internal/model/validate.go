package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure so handlers can map it to
// a 400 response with errors.Is.
var ErrInvalid = errors.New("invalid record")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// ValidateSlot checks the shape of a single slot. Overlaps between slots are
// not an error here; see board.CheckSchedule.
func ValidateSlot(s TimeSlot) error {
	start, ok := MinutesOf(s.StartTime)
	if !ok {
		return invalid("startTime %q must be HH:MM", s.StartTime)
	}
	if s.EndTime != Close {
		end, ok := MinutesOf(s.EndTime)
		if !ok {
			return invalid("endTime %q must be HH:MM or %s", s.EndTime, Close)
		}
		if end <= start {
			return invalid("slot %s-%s ends before it starts", s.StartTime, s.EndTime)
		}
	}
	if s.Price < 0 {
		return invalid("price must not be negative")
	}
	return nil
}

// ValidateActivity checks every slot of an activity.
func ValidateActivity(a ActivityPrice) error {
	for i, s := range a.TimeSlots {
		if err := ValidateSlot(s); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	if a.WaitTime != nil && *a.WaitTime < 0 {
		return invalid("waitTime must not be negative")
	}
	return nil
}

// ValidateSchedule checks a full week before it replaces the stored one.
// Every day must be a known weekday and appear at most once.
func ValidateSchedule(days []DayPrices) error {
	if len(days) == 0 {
		return invalid("schedule is empty")
	}
	seen := make(map[Weekday]bool, len(days))
	for _, d := range days {
		if !d.Day.Valid() {
			return invalid("unknown day %q", d.Day)
		}
		if seen[d.Day] {
			return invalid("day %s listed twice", d.Day)
		}
		seen[d.Day] = true
		for _, a := range Activities {
			if err := ValidateActivity(d.Activity(a)); err != nil {
				return fmt.Errorf("%s %s: %w", d.Day, a, err)
			}
		}
	}
	return nil
}

// ValidatePromotion checks the fields an admin must supply. Dates are only
// required to be present; unparsable values are tolerated and resolve as
// inactive.
func ValidatePromotion(p Promotion) error {
	if strings.TrimSpace(p.ID) == "" {
		return invalid("id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title is required")
	}
	if p.StartDate == "" || p.EndDate == "" {
		return invalid("startDate and endDate are required")
	}
	for _, d := range p.ApplicableDays {
		if !d.Valid() {
			return invalid("unknown day %q", d)
		}
	}
	for _, a := range p.ApplicableActivities {
		if !a.Valid() {
			return invalid("unknown activity %q", a)
		}
	}
	return nil
}

// ValidateLateNight checks the late night window and days.
func ValidateLateNight(l LateNightLanes) error {
	if err := ValidateSlot(TimeSlot{StartTime: l.StartTime, EndTime: l.EndTime, Price: l.Price}); err != nil {
		return err
	}
	for _, d := range l.ApplicableDays {
		if !d.Valid() {
			return invalid("unknown day %q", d)
		}
	}
	return nil
}
