package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-price-board/internal/model"
)

func TestMemoryStoreStartsWithDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	days, err := s.LoadSchedule(ctx)
	require.NoError(t, err)
	require.Len(t, days, 7)
	require.NotNil(t, days[0].ID)

	promos, err := s.LoadPromotions(ctx)
	require.NoError(t, err)
	assert.Len(t, promos, len(model.DefaultPromotions()))

	l, err := s.LoadLateNight(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLateNightLanes().Price, l.Price)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	days, _ := s.LoadSchedule(ctx)
	days[0].Bowling.TimeSlots[0].Price = 999

	again, _ := s.LoadSchedule(ctx)
	assert.NotEqual(t, 999.0, again[0].Bowling.TimeSlots[0].Price)
}

func TestMemoryStorePromotionCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.ReplacePromotions(ctx, nil))

	p := model.Promotion{ID: "p1", Title: "Two for one", StartDate: "2025-01-01", EndDate: "2025-12-31"}
	require.NoError(t, s.AddPromotion(ctx, p))
	assert.ErrorIs(t, s.AddPromotion(ctx, p), ErrPromotionExists)

	p.Title = "Three for two"
	require.NoError(t, s.UpdatePromotion(ctx, p))
	promos, _ := s.LoadPromotions(ctx)
	require.Len(t, promos, 1)
	assert.Equal(t, "Three for two", promos[0].Title)

	assert.ErrorIs(t, s.UpdatePromotion(ctx, model.Promotion{ID: "nope"}), ErrPromotionNotFound)
	require.NoError(t, s.DeletePromotion(ctx, "p1"))
	assert.ErrorIs(t, s.DeletePromotion(ctx, "p1"), ErrPromotionNotFound)
}

func TestMemoryStoreReplaceScheduleAndReset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.ReplaceSchedule(ctx, []model.DayPrices{{Day: model.Monday}}))
	days, _ := s.LoadSchedule(ctx)
	require.Len(t, days, 1)
	assert.Equal(t, 1, s.Status(ctx).Tables["day_prices"])

	l, err := s.UpdateLateNight(ctx, model.LateNightLanes{IsActive: false, Price: 9.5})
	require.NoError(t, err)
	require.NotNil(t, l.ID)

	require.NoError(t, s.Reset(ctx))
	days, _ = s.LoadSchedule(ctx)
	assert.Len(t, days, 7)
	got, _ := s.LoadLateNight(ctx)
	assert.True(t, got.IsActive)
}

func TestMemoryStoreStatus(t *testing.T) {
	st := NewMemoryStore().Status(context.Background())
	assert.Equal(t, BackendMemory, st.Backend)
	assert.True(t, st.Connected)
	assert.Equal(t, 7, st.Tables["day_prices"])
	assert.Equal(t, 1, st.Tables["late_night_lanes"])
}

func TestUnavailableKeepsDomainErrors(t *testing.T) {
	assert.ErrorIs(t, unavailable(ErrPromotionNotFound), ErrPromotionNotFound)
	assert.NotErrorIs(t, unavailable(ErrPromotionNotFound), ErrStoreUnavailable)
	assert.ErrorIs(t, unavailable(assert.AnError), ErrStoreUnavailable)
	assert.NoError(t, unavailable(nil))
}
