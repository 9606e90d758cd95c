package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesOf(t *testing.T) {
	cases := map[string]int{"00:00": 0, "09:30": 570, "23:59": 1439}
	for in, want := range cases {
		got, ok := MinutesOf(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "9:30", "24:00", "12:60", "12-30", Close, "ab:cd"} {
		_, ok := MinutesOf(in)
		assert.False(t, ok, in)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, ValidateSchedule(DefaultSchedule()))
	for _, p := range DefaultPromotions() {
		require.NoError(t, ValidatePromotion(p))
	}
	require.NoError(t, ValidateLateNight(DefaultLateNightLanes()))
	assert.Len(t, DefaultSchedule(), 7)
}

func TestDefaultScheduleIsAFreshCopy(t *testing.T) {
	a := DefaultSchedule()
	a[0].Bowling.TimeSlots[0].Price = 1
	assert.Equal(t, float64(20), DefaultSchedule()[0].Bowling.TimeSlots[0].Price)
}

func TestValidateSchedule(t *testing.T) {
	week := DefaultSchedule()
	week[2].Day = "Funday"
	assert.True(t, errors.Is(ValidateSchedule(week), ErrInvalid))

	week = DefaultSchedule()
	week[1].Day = week[0].Day
	assert.ErrorIs(t, ValidateSchedule(week), ErrInvalid)

	week = DefaultSchedule()
	week[3].Darts.TimeSlots[0].EndTime = "09:00"
	assert.ErrorIs(t, ValidateSchedule(week), ErrInvalid)

	week = DefaultSchedule()
	week[3].Darts.TimeSlots[0].StartTime = Close
	assert.ErrorIs(t, ValidateSchedule(week), ErrInvalid)

	week = DefaultSchedule()
	week[4].LaserTag.TimeSlots[2].Price = -1
	assert.ErrorIs(t, ValidateSchedule(week), ErrInvalid)

	assert.ErrorIs(t, ValidateSchedule(nil), ErrInvalid)
}

func TestValidatePromotion(t *testing.T) {
	p := DefaultPromotions()[0]
	p.ID = " "
	assert.ErrorIs(t, ValidatePromotion(p), ErrInvalid)

	p = DefaultPromotions()[0]
	p.ApplicableActivities = []ActivityID{"karaoke"}
	assert.ErrorIs(t, ValidatePromotion(p), ErrInvalid)

	p = DefaultPromotions()[0]
	p.StartDate = "whenever"
	assert.NoError(t, ValidatePromotion(p))
}

func TestEntityJSONUsesStoredFieldNames(t *testing.T) {
	raw := `{"day":"Friday","bowling":{"timeSlots":[{"startTime":"16:00","endTime":"CLOSE","price":42}],"isAvailable":true,"showWaitTime":true,"waitTime":45},"darts":{"timeSlots":[],"isAvailable":false},"laserTag":{"timeSlots":[],"isAvailable":true,"note":"per person"}}`
	var d DayPrices
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	assert.Equal(t, Friday, d.Day)
	assert.Equal(t, Close, d.Bowling.TimeSlots[0].EndTime)
	require.NotNil(t, d.Bowling.WaitTime)
	assert.Equal(t, 45, *d.Bowling.WaitTime)
	assert.Equal(t, "per person", d.Activity(LaserTag).Note)
	assert.Nil(t, d.ID)

	ln := DefaultLateNightLanes()
	out, err := json.Marshal(ln)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"applicableDays":["Friday","Saturday"]`)
	assert.NotContains(t, string(out), `"id"`)
}

func TestAppliesTo(t *testing.T) {
	p := DefaultPromotions()[0]
	assert.True(t, p.AppliesToDay(Thursday))
	assert.False(t, p.AppliesToDay(Friday))
	assert.True(t, p.AppliesToActivity(Bowling))
	assert.False(t, p.AppliesToActivity(Darts))
	assert.True(t, Weekday("Monday").Valid())
	assert.False(t, ActivityID("Bowling").Valid())
}
