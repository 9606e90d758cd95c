package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// LateNightRepo reads and writes the late_night_lanes singleton. Only the
// lowest id row is ever used.
type LateNightRepo struct {
	db *sql.DB
}

// NewLateNightRepo constructs a LateNightRepo with the provided DB handle.
func NewLateNightRepo(db *sql.DB) *LateNightRepo {
	return &LateNightRepo{db: db}
}

// Get returns the late night configuration or ErrLateNightNotFound.
func (r *LateNightRepo) Get(ctx context.Context) (model.LateNightLanes, error) {
	const q = `SELECT id, is_active, applicable_days, start_time, end_time, price, description, subtitle, disclaimer
	           FROM late_night_lanes ORDER BY id LIMIT 1`
	var (
		l    model.LateNightLanes
		id   int64
		days []byte
	)
	err := r.db.QueryRowContext(ctx, q).Scan(&id, &l.IsActive, &days, &l.StartTime, &l.EndTime,
		&l.Price, &l.Description, &l.Subtitle, &l.Disclaimer)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LateNightLanes{}, ErrLateNightNotFound
	}
	if err != nil {
		return model.LateNightLanes{}, err
	}
	l.ID = &id
	l.ApplicableDays = []model.Weekday{}
	if len(days) > 0 {
		if err := json.Unmarshal(days, &l.ApplicableDays); err != nil {
			return model.LateNightLanes{}, err
		}
	}
	return l, nil
}

// Count returns the number of late night rows.
func (r *LateNightRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "late_night_lanes")
}

// Upsert updates the singleton row, inserting it when the table is empty.
// The stored id is returned on l.
func (r *LateNightRepo) Upsert(ctx context.Context, l model.LateNightLanes) (model.LateNightLanes, error) {
	days, err := json.Marshal(nonNilDays(l.ApplicableDays))
	if err != nil {
		return l, err
	}
	current, err := r.Get(ctx)
	switch {
	case errors.Is(err, ErrLateNightNotFound):
		const qInsert = `INSERT INTO late_night_lanes (is_active, applicable_days, start_time, end_time, price, description, subtitle, disclaimer)
		                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, qInsert, l.IsActive, days, l.StartTime, l.EndTime,
			l.Price, l.Description, l.Subtitle, l.Disclaimer)
		if err != nil {
			return l, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return l, err
		}
		l.ID = &id
		return l, nil
	case err != nil:
		return l, err
	}
	const qUpdate = `UPDATE late_night_lanes
	                 SET is_active = ?, applicable_days = ?, start_time = ?, end_time = ?,
	                     price = ?, description = ?, subtitle = ?, disclaimer = ?
	                 WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, qUpdate, l.IsActive, days, l.StartTime, l.EndTime,
		l.Price, l.Description, l.Subtitle, l.Disclaimer, *current.ID); err != nil {
		return l, err
	}
	l.ID = current.ID
	return l, nil
}

func resetLateNight(ctx context.Context, tx *sql.Tx, l model.LateNightLanes) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM late_night_lanes`); err != nil {
		return err
	}
	days, err := json.Marshal(nonNilDays(l.ApplicableDays))
	if err != nil {
		return err
	}
	const q = `INSERT INTO late_night_lanes (is_active, applicable_days, start_time, end_time, price, description, subtitle, disclaimer)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, q, l.IsActive, days, l.StartTime, l.EndTime,
		l.Price, l.Description, l.Subtitle, l.Disclaimer)
	return err
}
