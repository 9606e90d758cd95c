package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// DayPricesRepo reads and replaces the weekly schedule. Each activity is
// stored as a JSON document so the slot list keeps its order.
type DayPricesRepo struct {
	db *sql.DB
}

// NewDayPricesRepo constructs a DayPricesRepo with the provided DB handle.
func NewDayPricesRepo(db *sql.DB) *DayPricesRepo {
	return &DayPricesRepo{db: db}
}

// List returns all day records ordered by id, which is insertion order.
func (r *DayPricesRepo) List(ctx context.Context) ([]model.DayPrices, error) {
	const q = `SELECT id, day, bowling, darts, laser_tag FROM day_prices ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.DayPrices{}
	for rows.Next() {
		var (
			id                     int64
			day                    string
			bowling, darts, lasers []byte
		)
		if err := rows.Scan(&id, &day, &bowling, &darts, &lasers); err != nil {
			return nil, err
		}
		d := model.DayPrices{ID: &id, Day: model.Weekday(day)}
		if err := decodeActivity(bowling, &d.Bowling); err != nil {
			return nil, fmt.Errorf("day %s bowling: %w", day, err)
		}
		if err := decodeActivity(darts, &d.Darts); err != nil {
			return nil, fmt.Errorf("day %s darts: %w", day, err)
		}
		if err := decodeActivity(lasers, &d.LaserTag); err != nil {
			return nil, fmt.Errorf("day %s laserTag: %w", day, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of stored day records.
func (r *DayPricesRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "day_prices")
}

// ReplaceAll deletes every day record and inserts days in one transaction,
// so readers never observe a partial week.
func (r *DayPricesRepo) ReplaceAll(ctx context.Context, days []model.DayPrices) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if err = replaceDays(ctx, tx, days); err != nil {
		return err
	}
	return nil
}

func replaceDays(ctx context.Context, tx *sql.Tx, days []model.DayPrices) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM day_prices`); err != nil {
		return err
	}
	const qInsert = `INSERT INTO day_prices (day, bowling, darts, laser_tag) VALUES (?, ?, ?, ?)`
	for _, d := range days {
		bowling, err := json.Marshal(d.Bowling)
		if err != nil {
			return err
		}
		darts, err := json.Marshal(d.Darts)
		if err != nil {
			return err
		}
		lasers, err := json.Marshal(d.LaserTag)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, qInsert, string(d.Day), bowling, darts, lasers); err != nil {
			return fmt.Errorf("insert %s: %w", d.Day, err)
		}
	}
	return nil
}

func decodeActivity(raw []byte, dst *model.ActivityPrice) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if dst.TimeSlots == nil {
		dst.TimeSlots = []model.TimeSlot{}
	}
	return nil
}

// countRows runs COUNT(*) on a fixed table name from this package.
func countRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
