package model

// LateNightLanes is the singleton late night special. While it is active for
// the current day and time it replaces the standard bowling price display.
// The row lives in the late_night_lanes table with snake_case columns; the
// JSON form keeps the camelCase names used by the display pages.
type LateNightLanes struct {
    ID             *int64    `json:"id,omitempty"`
    IsActive       bool      `json:"isActive"`
    ApplicableDays []Weekday `json:"applicableDays"`
    StartTime      string    `json:"startTime"`
    EndTime        string    `json:"endTime"`
    Price          float64   `json:"price"`
    Description    string    `json:"description"`
    Subtitle       string    `json:"subtitle"`
    Disclaimer     string    `json:"disclaimer"`
}

// AppliesToDay reports whether day is listed in ApplicableDays.
func (l LateNightLanes) AppliesToDay(day Weekday) bool {
    for _, d := range l.ApplicableDays {
        if d == day {
            return true
        }
    }
    return false
}
