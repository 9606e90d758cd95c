package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/venue-price-board/internal/model"
)

// PromotionRepo provides access to the promotions table.
type PromotionRepo struct {
	db *sql.DB
}

// NewPromotionRepo constructs a PromotionRepo with the provided DB handle.
func NewPromotionRepo(db *sql.DB) *PromotionRepo {
	return &PromotionRepo{db: db}
}

const promotionColumns = `id, title, description, terms, start_date, end_date, applicable_days, applicable_activities, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromotion(s rowScanner) (model.Promotion, error) {
	var (
		p            model.Promotion
		terms        sql.NullString
		days, actsJS []byte
	)
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &terms, &p.StartDate, &p.EndDate, &days, &actsJS, &p.IsActive); err != nil {
		return model.Promotion{}, err
	}
	p.Terms = terms.String
	p.ApplicableDays = []model.Weekday{}
	p.ApplicableActivities = []model.ActivityID{}
	if len(days) > 0 {
		if err := json.Unmarshal(days, &p.ApplicableDays); err != nil {
			return model.Promotion{}, err
		}
	}
	if len(actsJS) > 0 {
		if err := json.Unmarshal(actsJS, &p.ApplicableActivities); err != nil {
			return model.Promotion{}, err
		}
	}
	return p, nil
}

// List returns all promotions in creation order.
func (r *PromotionRepo) List(ctx context.Context) ([]model.Promotion, error) {
	q := `SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single promotion or ErrPromotionNotFound.
func (r *PromotionRepo) GetByID(ctx context.Context, id string) (model.Promotion, error) {
	q := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = ?`
	p, err := scanPromotion(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Promotion{}, ErrPromotionNotFound
	}
	return p, err
}

// Count returns the number of stored promotions.
func (r *PromotionRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "promotions")
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPromotion(ctx context.Context, ex execer, p model.Promotion) error {
	days, err := json.Marshal(nonNilDays(p.ApplicableDays))
	if err != nil {
		return err
	}
	acts, err := json.Marshal(nonNilActivities(p.ApplicableActivities))
	if err != nil {
		return err
	}
	const q = `INSERT INTO promotions (id, title, description, terms, start_date, end_date, applicable_days, applicable_activities, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = ex.ExecContext(ctx, q, p.ID, p.Title, p.Description, nullString(p.Terms),
		p.StartDate, p.EndDate, days, acts, p.IsActive)
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrPromotionExists
	}
	return err
}

// Create inserts a new promotion. A duplicate id yields ErrPromotionExists.
func (r *PromotionRepo) Create(ctx context.Context, p model.Promotion) error {
	return insertPromotion(ctx, r.db, p)
}

// Update overwrites every column of the promotion with p.ID.
func (r *PromotionRepo) Update(ctx context.Context, p model.Promotion) error {
	days, err := json.Marshal(nonNilDays(p.ApplicableDays))
	if err != nil {
		return err
	}
	acts, err := json.Marshal(nonNilActivities(p.ApplicableActivities))
	if err != nil {
		return err
	}
	const q = `UPDATE promotions
	           SET title = ?, description = ?, terms = ?, start_date = ?, end_date = ?,
	               applicable_days = ?, applicable_activities = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Title, p.Description, nullString(p.Terms),
		p.StartDate, p.EndDate, days, acts, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	return requireAffected(ctx, r.db, res, p.ID)
}

// requireAffected maps a zero-row update to ErrPromotionNotFound. MySQL
// reports zero affected rows for an unchanged row too, so existence is
// checked before giving up.
func requireAffected(ctx context.Context, db *sql.DB, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil || n > 0 {
		return err
	}
	var one int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM promotions WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPromotionNotFound
	}
	return err
}

// Delete removes a promotion by id.
func (r *PromotionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPromotionNotFound
	}
	return nil
}

// ReplaceAll swaps the whole promotions list in one transaction.
func (r *PromotionRepo) ReplaceAll(ctx context.Context, promotions []model.Promotion) (err error) {
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
	return replacePromotions(ctx, tx, promotions)
}

func replacePromotions(ctx context.Context, tx *sql.Tx, promotions []model.Promotion) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM promotions`); err != nil {
		return err
	}
	for _, p := range promotions {
		if err := insertPromotion(ctx, tx, p); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNilDays(d []model.Weekday) []model.Weekday {
	if d == nil {
		return []model.Weekday{}
	}
	return d
}

func nonNilActivities(a []model.ActivityID) []model.ActivityID {
	if a == nil {
		return []model.ActivityID{}
	}
	return a
}
