package model

// Close is the end-time sentinel of an open-ended slot. A slot ending in
// Close matches any time at or after its start.
const Close = "CLOSE"

// Weekday is an English weekday name as stored in day_prices.day and in the
// applicableDays lists of promotions and late night lanes.
type Weekday string

const (
    Sunday    Weekday = "Sunday"
    Monday    Weekday = "Monday"
    Tuesday   Weekday = "Tuesday"
    Wednesday Weekday = "Wednesday"
    Thursday  Weekday = "Thursday"
    Friday    Weekday = "Friday"
    Saturday  Weekday = "Saturday"
)

// Weekdays lists the week starting on Sunday, matching time.Weekday order.
var Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Valid reports whether d is one of the seven weekday names.
func (d Weekday) Valid() bool {
    for _, w := range Weekdays {
        if w == d {
            return true
        }
    }
    return false
}

// ActivityID names one of the priced activities.
type ActivityID string

const (
    Bowling  ActivityID = "bowling"
    Darts    ActivityID = "darts"
    LaserTag ActivityID = "laserTag"
)

// Activities lists the activities in board order.
var Activities = []ActivityID{Bowling, Darts, LaserTag}

// Valid reports whether a is a known activity.
func (a ActivityID) Valid() bool {
    return a == Bowling || a == Darts || a == LaserTag
}

// TimeSlot is a contiguous time-of-day interval with a price. Times are
// zero-padded 24h "HH:MM"; EndTime may be Close.
type TimeSlot struct {
    StartTime string  `json:"startTime"`
    EndTime   string  `json:"endTime"`
    Price     float64 `json:"price"`
}

// ActivityPrice is the configuration of one activity on one day.
//
// Fields:
//  TimeSlots    – ordered, non-overlapping slots for the day.
//  IsAvailable  – false hides every slot regardless of time.
//  Note         – short display note ("per hour").
//  ShowWaitTime – show a wait time instead of UNAVAILABLE.
//  WaitTime     – wait in minutes, used with ShowWaitTime.
type ActivityPrice struct {
    TimeSlots    []TimeSlot `json:"timeSlots"`
    IsAvailable  bool       `json:"isAvailable"`
    Note         string     `json:"note,omitempty"`
    ShowWaitTime bool       `json:"showWaitTime,omitempty"`
    WaitTime     *int       `json:"waitTime,omitempty"`
}

// DayPrices holds the full price configuration of one weekday. Seven records
// form the week; they are replaced as a whole on every admin save.
type DayPrices struct {
    ID       *int64        `json:"id,omitempty"`
    Day      Weekday       `json:"day"`
    Bowling  ActivityPrice `json:"bowling"`
    Darts    ActivityPrice `json:"darts"`
    LaserTag ActivityPrice `json:"laserTag"`
}

// Activity returns the configuration for a by id. Unknown ids return the
// zero ActivityPrice, which resolves as unavailable.
func (d DayPrices) Activity(a ActivityID) ActivityPrice {
    switch a {
    case Bowling:
        return d.Bowling
    case Darts:
        return d.Darts
    case LaserTag:
        return d.LaserTag
    }
    return ActivityPrice{}
}
