package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// MemoryStore keeps the board data in process. It starts from the default
// data and is used when no database is configured, and by tests.
type MemoryStore struct {
	mu        sync.RWMutex
	schedule  []model.DayPrices
	promos    []model.Promotion
	lateNight *model.LateNightLanes
}

// NewMemoryStore returns a store seeded with the default data.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.schedule = model.DefaultSchedule()
	for i := range s.schedule {
		id := int64(i + 1)
		s.schedule[i].ID = &id
	}
	s.promos = model.DefaultPromotions()
	l := model.DefaultLateNightLanes()
	id := int64(1)
	l.ID = &id
	s.lateNight = &l
}

// The copies below keep callers from mutating the stored slices.

func copySchedule(in []model.DayPrices) []model.DayPrices {
	out := make([]model.DayPrices, len(in))
	for i, d := range in {
		d.Bowling.TimeSlots = append([]model.TimeSlot{}, d.Bowling.TimeSlots...)
		d.Darts.TimeSlots = append([]model.TimeSlot{}, d.Darts.TimeSlots...)
		d.LaserTag.TimeSlots = append([]model.TimeSlot{}, d.LaserTag.TimeSlots...)
		out[i] = d
	}
	return out
}

func copyPromotion(p model.Promotion) model.Promotion {
	p.ApplicableDays = append([]model.Weekday{}, p.ApplicableDays...)
	p.ApplicableActivities = append([]model.ActivityID{}, p.ApplicableActivities...)
	return p
}

func copyPromotions(in []model.Promotion) []model.Promotion {
	out := make([]model.Promotion, len(in))
	for i, p := range in {
		out[i] = copyPromotion(p)
	}
	return out
}

func (s *MemoryStore) LoadSchedule(_ context.Context) ([]model.DayPrices, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySchedule(s.schedule), nil
}

func (s *MemoryStore) ReplaceSchedule(_ context.Context, days []model.DayPrices) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = copySchedule(days)
	for i := range s.schedule {
		id := int64(i + 1)
		s.schedule[i].ID = &id
	}
	return nil
}

func (s *MemoryStore) LoadPromotions(_ context.Context) ([]model.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPromotions(s.promos), nil
}

func (s *MemoryStore) AddPromotion(_ context.Context, p model.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.promos {
		if x.ID == p.ID {
			return ErrPromotionExists
		}
	}
	s.promos = append(s.promos, copyPromotion(p))
	return nil
}

func (s *MemoryStore) UpdatePromotion(_ context.Context, p model.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.promos {
		if x.ID == p.ID {
			s.promos[i] = copyPromotion(p)
			return nil
		}
	}
	return ErrPromotionNotFound
}

func (s *MemoryStore) ReplacePromotions(_ context.Context, promotions []model.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promos = copyPromotions(promotions)
	return nil
}

func (s *MemoryStore) DeletePromotion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.promos {
		if x.ID == id {
			s.promos = append(s.promos[:i], s.promos[i+1:]...)
			return nil
		}
	}
	return ErrPromotionNotFound
}

func (s *MemoryStore) LoadLateNight(_ context.Context) (model.LateNightLanes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lateNight == nil {
		return model.LateNightLanes{}, ErrLateNightNotFound
	}
	l := *s.lateNight
	l.ApplicableDays = append([]model.Weekday{}, l.ApplicableDays...)
	return l, nil
}

func (s *MemoryStore) UpdateLateNight(_ context.Context, l model.LateNightLanes) (model.LateNightLanes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(1)
	l.ID = &id
	l.ApplicableDays = append([]model.Weekday{}, l.ApplicableDays...)
	stored := l
	s.lateNight = &stored
	return l, nil
}

// Reset restores the default data.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// Status always reports a connected memory backend.
func (s *MemoryStore) Status(_ context.Context) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	late := 0
	if s.lateNight != nil {
		late = 1
	}
	return Status{
		Backend:   BackendMemory,
		Connected: true,
		Tables: map[string]int{
			"day_prices":       len(s.schedule),
			"promotions":       len(s.promos),
			"late_night_lanes": late,
		},
	}
}
