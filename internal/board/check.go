package board

import (
	"fmt"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// IssueKind classifies a schedule authoring problem.
type IssueKind string

const (
	IssueMissingDay   IssueKind = "missing_day"
	IssueDuplicateDay IssueKind = "duplicate_day"
	IssueMalformed    IssueKind = "malformed_time"
	IssueOverlap      IssueKind = "overlap"
	IssueGap          IssueKind = "gap"
	IssueUnordered    IssueKind = "unordered"
)

// Issue is one finding of CheckSchedule.
type Issue struct {
	Day      model.Weekday    `json:"day"`
	Activity model.ActivityID `json:"activity,omitempty"`
	Kind     IssueKind        `json:"kind"`
	Detail   string           `json:"detail"`
}

func (i Issue) String() string {
	if i.Activity == "" {
		return fmt.Sprintf("%s: %s (%s)", i.Day, i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s %s: %s (%s)", i.Day, i.Activity, i.Kind, i.Detail)
}

// CheckSchedule reports authoring problems in a week. Nothing it finds stops
// resolution: overlaps resolve to the first slot, gaps to unavailable.
func CheckSchedule(schedule []model.DayPrices) []Issue {
	var issues []Issue
	count := make(map[model.Weekday]int, len(schedule))
	for _, d := range schedule {
		count[d.Day]++
	}
	for _, w := range model.Weekdays {
		switch n := count[w]; {
		case n == 0:
			issues = append(issues, Issue{Day: w, Kind: IssueMissingDay, Detail: "no prices configured"})
		case n > 1:
			issues = append(issues, Issue{Day: w, Kind: IssueDuplicateDay, Detail: fmt.Sprintf("%d records", n)})
		}
	}
	for _, d := range schedule {
		for _, a := range model.Activities {
			issues = append(issues, checkSlots(d.Day, a, d.Activity(a).TimeSlots)...)
		}
	}
	return issues
}

func checkSlots(day model.Weekday, a model.ActivityID, slots []model.TimeSlot) []Issue {
	var issues []Issue
	add := func(kind IssueKind, format string, args ...any) {
		issues = append(issues, Issue{Day: day, Activity: a, Kind: kind, Detail: fmt.Sprintf(format, args...)})
	}
	prevEnd, prevStart := -1, -1
	prevOpen := false
	for i, s := range slots {
		start, ok := model.MinutesOf(s.StartTime)
		if !ok {
			add(IssueMalformed, "slot %d startTime %q", i, s.StartTime)
			prevEnd, prevStart, prevOpen = -1, -1, false
			continue
		}
		end, open := 0, s.EndTime == model.Close
		if !open {
			if end, ok = model.MinutesOf(s.EndTime); !ok {
				add(IssueMalformed, "slot %d endTime %q", i, s.EndTime)
				prevEnd, prevStart, prevOpen = -1, -1, false
				continue
			}
		}
		if prevStart >= 0 {
			switch {
			case start < prevStart:
				add(IssueUnordered, "slot %d starts at %s before slot %d", i, s.StartTime, i-1)
			case prevOpen || start < prevEnd:
				add(IssueOverlap, "slot %d starts at %s inside slot %d", i, s.StartTime, i-1)
			case start > prevEnd:
				add(IssueGap, "nothing covers %s-%s", fmtMinutes(prevEnd), s.StartTime)
			}
		}
		prevStart, prevEnd, prevOpen = start, end, open
	}
	return issues
}

func fmtMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
