package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// Backend names reported by Status.
const (
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Status describes the backing store for the db-status endpoint.
type Status struct {
	Backend       string         `json:"backend"`
	Connected     bool           `json:"connected"`
	ServerVersion string         `json:"serverVersion,omitempty"`
	Tables        map[string]int `json:"tables"`
	Error         string         `json:"error,omitempty"`
}

// SQLStore combines the table repositories into the store used by the
// board service.
type SQLStore struct {
	db        *sql.DB
	days      *DayPricesRepo
	promos    *PromotionRepo
	lateNight *LateNightRepo
}

// NewSQLStore wires the repositories on top of db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:        db,
		days:      NewDayPricesRepo(db),
		promos:    NewPromotionRepo(db),
		lateNight: NewLateNightRepo(db),
	}
}

// unavailable marks driver failures so callers can tell them apart from
// domain errors like ErrPromotionNotFound.
func unavailable(err error) error {
	if err == nil ||
		errors.Is(err, ErrPromotionNotFound) ||
		errors.Is(err, ErrPromotionExists) ||
		errors.Is(err, ErrLateNightNotFound) ||
		errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func (s *SQLStore) LoadSchedule(ctx context.Context) ([]model.DayPrices, error) {
	days, err := s.days.List(ctx)
	return days, unavailable(err)
}

func (s *SQLStore) ReplaceSchedule(ctx context.Context, days []model.DayPrices) error {
	return unavailable(s.days.ReplaceAll(ctx, days))
}

func (s *SQLStore) LoadPromotions(ctx context.Context) ([]model.Promotion, error) {
	promos, err := s.promos.List(ctx)
	return promos, unavailable(err)
}

func (s *SQLStore) AddPromotion(ctx context.Context, p model.Promotion) error {
	return unavailable(s.promos.Create(ctx, p))
}

func (s *SQLStore) UpdatePromotion(ctx context.Context, p model.Promotion) error {
	return unavailable(s.promos.Update(ctx, p))
}

func (s *SQLStore) ReplacePromotions(ctx context.Context, promotions []model.Promotion) error {
	return unavailable(s.promos.ReplaceAll(ctx, promotions))
}

func (s *SQLStore) DeletePromotion(ctx context.Context, id string) error {
	return unavailable(s.promos.Delete(ctx, id))
}

func (s *SQLStore) LoadLateNight(ctx context.Context) (model.LateNightLanes, error) {
	l, err := s.lateNight.Get(ctx)
	return l, unavailable(err)
}

func (s *SQLStore) UpdateLateNight(ctx context.Context, l model.LateNightLanes) (model.LateNightLanes, error) {
	out, err := s.lateNight.Upsert(ctx, l)
	return out, unavailable(err)
}

// Seed fills each empty table with the default data. Tables that already
// hold rows are left alone.
func (s *SQLStore) Seed(ctx context.Context) error {
	n, err := s.days.Count(ctx)
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		if err := s.days.ReplaceAll(ctx, model.DefaultSchedule()); err != nil {
			return fmt.Errorf("seed day_prices: %w", err)
		}
	}
	if n, err = s.promos.Count(ctx); err != nil {
		return unavailable(err)
	}
	if n == 0 {
		if err := s.promos.ReplaceAll(ctx, model.DefaultPromotions()); err != nil {
			return fmt.Errorf("seed promotions: %w", err)
		}
	}
	if n, err = s.lateNight.Count(ctx); err != nil {
		return unavailable(err)
	}
	if n == 0 {
		if _, err := s.lateNight.Upsert(ctx, model.DefaultLateNightLanes()); err != nil {
			return fmt.Errorf("seed late_night_lanes: %w", err)
		}
	}
	return nil
}

// Reset replaces every table with the default data in one transaction.
func (s *SQLStore) Reset(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			err = unavailable(err)
		} else {
			err = tx.Commit()
		}
	}()
	if err = replaceDays(ctx, tx, model.DefaultSchedule()); err != nil {
		return err
	}
	if err = replacePromotions(ctx, tx, model.DefaultPromotions()); err != nil {
		return err
	}
	return resetLateNight(ctx, tx, model.DefaultLateNightLanes())
}

// Status pings the server and counts rows per table. Failures are reported
// in the result rather than returned.
func (s *SQLStore) Status(ctx context.Context) Status {
	st := Status{Backend: BackendMySQL, Tables: map[string]int{}}
	if err := s.db.PingContext(ctx); err != nil {
		st.Error = err.Error()
		return st
	}
	st.Connected = true
	if err := s.db.QueryRowContext(ctx, `SELECT VERSION()`).Scan(&st.ServerVersion); err != nil {
		st.Error = err.Error()
	}
	counters := map[string]func(context.Context) (int, error){
		"day_prices":       s.days.Count,
		"promotions":       s.promos.Count,
		"late_night_lanes": s.lateNight.Count,
	}
	for table, count := range counters {
		n, err := count(ctx)
		if err != nil {
			st.Error = fmt.Sprintf("%s: %v", table, err)
			continue
		}
		st.Tables[table] = n
	}
	return st
}
