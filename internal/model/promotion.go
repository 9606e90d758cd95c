package model

// Promotion is a dated special shown alongside the prices of the activities
// it applies to. StartDate and EndDate are kept as the ISO strings that were
// stored so that a malformed value survives a round trip and can be reported;
// the resolver treats unparsable dates as never active.
type Promotion struct {
    ID                   string       `json:"id"`
    Title                string       `json:"title"`
    Description          string       `json:"description"`
    Terms                string       `json:"terms,omitempty"`
    StartDate            string       `json:"startDate"`
    EndDate              string       `json:"endDate"`
    ApplicableDays       []Weekday    `json:"applicableDays"`
    ApplicableActivities []ActivityID `json:"applicableActivities"`
    IsActive             bool         `json:"isActive"`
}

// AppliesToDay reports whether day is listed in ApplicableDays.
func (p Promotion) AppliesToDay(day Weekday) bool {
    for _, d := range p.ApplicableDays {
        if d == day {
            return true
        }
    }
    return false
}

// AppliesToActivity reports whether a is listed in ApplicableActivities.
func (p Promotion) AppliesToActivity(a ActivityID) bool {
    for _, x := range p.ApplicableActivities {
        if x == a {
            return true
        }
    }
    return false
}
