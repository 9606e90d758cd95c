package board

import "github.com/iliyamo/venue-price-board/internal/model"

// ResolveSlot returns the slot covering nowHHMM, or nil.
//
// Slots are scanned in list order and the first one with
// start <= now < end (or end == CLOSE) wins. A nil result with
// isAvailable=true means the time falls in a gap of the schedule, which is
// displayed as unavailable right now. Malformed times never match.
func ResolveSlot(slots []model.TimeSlot, isAvailable bool, nowHHMM string) *model.TimeSlot {
	if !isAvailable || len(slots) == 0 {
		return nil
	}
	for _, s := range slots {
		if inWindow(nowHHMM, s.StartTime, s.EndTime) {
			found := s
			return &found
		}
	}
	return nil
}

// inWindow reports whether now lies in [start, end). An end of CLOSE leaves
// the window open. Comparison uses minutes since midnight, which orders
// identically to the zero-padded strings.
func inWindow(now, start, end string) bool {
	n, ok := model.MinutesOf(now)
	if !ok {
		return false
	}
	s, ok := model.MinutesOf(start)
	if !ok || n < s {
		return false
	}
	if end == model.Close {
		return true
	}
	e, ok := model.MinutesOf(end)
	return ok && n < e
}
