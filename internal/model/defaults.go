package model

// Seed data used to populate empty tables and to back the in-memory store.
// The values mirror the prices the venue launched with.

func slots(a, b, c float64) []TimeSlot {
	return []TimeSlot{
		{StartTime: "10:00", EndTime: "14:00", Price: a},
		{StartTime: "14:00", EndTime: "16:00", Price: b},
		{StartTime: "16:00", EndTime: Close, Price: c},
	}
}

func intPtr(n int) *int { return &n }

func defaultDay(day Weekday, bowling, darts, laser []TimeSlot) DayPrices {
	return DayPrices{
		Day: day,
		Bowling: ActivityPrice{
			TimeSlots:   bowling,
			Note:        "1-6 guests per lane",
			IsAvailable: true,
			WaitTime:    intPtr(30),
		},
		Darts: ActivityPrice{
			TimeSlots:   darts,
			Note:        "per hour",
			IsAvailable: true,
		},
		LaserTag: ActivityPrice{
			TimeSlots:   laser,
			Note:        "per person, per session",
			IsAvailable: true,
		},
	}
}

// DefaultSchedule returns a fresh copy of the seed week, Monday first.
func DefaultSchedule() []DayPrices {
	return []DayPrices{
		defaultDay(Monday, slots(20, 30, 40), slots(12, 15, 18), slots(5, 6, 8)),
		defaultDay(Tuesday, slots(20, 30, 40), slots(12, 15, 18), slots(5, 6, 8)),
		defaultDay(Wednesday, slots(20, 30, 40), slots(12, 15, 18), slots(5, 6, 8)),
		defaultDay(Thursday, slots(20, 32, 42), slots(12, 15, 18), slots(5, 6, 8)),
		defaultDay(Friday, slots(25, 35, 42), slots(15, 18, 22), slots(6, 8, 10)),
		defaultDay(Saturday, slots(28, 33, 38), slots(12, 15, 18), slots(8, 11, 14)),
		defaultDay(Sunday, slots(30, 40, 55), slots(18, 22, 24), slots(12, 15, 17)),
	}
}

// DefaultPromotions returns the seed promotions.
func DefaultPromotions() []Promotion {
	return []Promotion{
		{
			ID:                   "promo_1",
			Title:                "April Thursday Special",
			Description:          "Purchase one hour, get 30 minutes free",
			StartDate:            "2025-04-01T00:00:00Z",
			EndDate:              "2025-04-30T23:59:59Z",
			ApplicableDays:       []Weekday{Thursday},
			ApplicableActivities: []ActivityID{Bowling},
			IsActive:             true,
		},
	}
}

// DefaultLateNightLanes returns the seed late night configuration.
func DefaultLateNightLanes() LateNightLanes {
	return LateNightLanes{
		IsActive:       true,
		ApplicableDays: []Weekday{Friday, Saturday},
		StartTime:      "20:00",
		EndTime:        "22:00",
		Price:          14.99,
		Description:    "UNLIMITED BOWLING AFTER 8PM",
		Subtitle:       "STRIKE. SIP. SOCIAL.",
		Disclaimer:     "*SUBJECT TO LANE AVAILABILITY. SHOE RENTAL NOT INCLUDED",
	}
}
