// Package service holds the board service, which wraps the pure resolver in
// board with loading, validation, version bumps and change events.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/venue-price-board/internal/board"
	"github.com/iliyamo/venue-price-board/internal/model"
	"github.com/iliyamo/venue-price-board/internal/queue"
	"github.com/iliyamo/venue-price-board/internal/repository"
	"github.com/iliyamo/venue-price-board/internal/version"
)

// Store is the persistence the service needs. repository.SQLStore and
// repository.MemoryStore implement it.
type Store interface {
	LoadSchedule(ctx context.Context) ([]model.DayPrices, error)
	ReplaceSchedule(ctx context.Context, days []model.DayPrices) error
	LoadPromotions(ctx context.Context) ([]model.Promotion, error)
	AddPromotion(ctx context.Context, p model.Promotion) error
	UpdatePromotion(ctx context.Context, p model.Promotion) error
	ReplacePromotions(ctx context.Context, promotions []model.Promotion) error
	DeletePromotion(ctx context.Context, id string) error
	LoadLateNight(ctx context.Context) (model.LateNightLanes, error)
	UpdateLateNight(ctx context.Context, l model.LateNightLanes) (model.LateNightLanes, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) repository.Status
}

// publishTimeout bounds how long an admin write waits on the broker.
const publishTimeout = 5 * time.Second

// Snapshot is one consistent read of the three entities.
type Snapshot struct {
	Version    int64                `json:"version"`
	Schedule   []model.DayPrices    `json:"prices"`
	Promotions []model.Promotion    `json:"promotions"`
	LateNight  model.LateNightLanes `json:"lateNightLanes"`
	Now        time.Time            `json:"-"`
}

// BoardOptions adjusts a resolution. Day and HHMM are for the admin preview.
type BoardOptions struct {
	Day            model.Weekday
	HHMM           string
	ForceLateNight bool
}

// BoardView is the resolved board together with the version it came from.
type BoardView struct {
	Version int64               `json:"version"`
	Board   board.ResolvedBoard `json:"board"`
}

// Draft is an unsaved edit for the admin preview. Nil parts are taken from
// the store.
type Draft struct {
	Prices     []model.DayPrices     `json:"prices,omitempty"`
	Promotions []model.Promotion     `json:"promotions,omitempty"`
	LateNight  *model.LateNightLanes `json:"lateNightLanes,omitempty"`
}

// StatusReport backs the db-status endpoint.
type StatusReport struct {
	Store                  repository.Status `json:"store"`
	Version                int64             `json:"version"`
	ScheduleIssues         []string          `json:"scheduleIssues"`
	UnparsablePromotionIDs []string          `json:"unparsablePromotionIds"`
	CheckedAt              time.Time         `json:"checkedAt"`
}

// BoardService is safe for concurrent use.
type BoardService struct {
	store    Store
	versions version.Tracker
	pub      EventPublisher
	clock    board.Clock
	log      *logrus.Logger

	// warnedVersion keeps data quality warnings to once per version.
	warnedVersion atomic.Int64
}

// NewBoardService wires the service. A nil publisher disables events.
func NewBoardService(store Store, versions version.Tracker, pub EventPublisher, clock board.Clock, log *logrus.Logger) *BoardService {
	if pub == nil {
		pub = NopPublisher{}
	}
	s := &BoardService{store: store, versions: versions, pub: pub, clock: clock, log: log}
	s.warnedVersion.Store(-1)
	return s
}

// Now returns the venue clock's current time.
func (s *BoardService) Now() time.Time { return s.clock.Now() }

// Versions exposes the tracker for live push handlers.
func (s *BoardService) Versions() version.Tracker { return s.versions }

// Version returns the current version, or 0 when the tracker is unreachable.
func (s *BoardService) Version(ctx context.Context) int64 {
	v, err := s.versions.Current(ctx)
	if err != nil {
		s.log.WithError(err).Warn("read board version")
		return 0
	}
	return v
}

// Snapshot loads schedule, promotions and late night settings. A missing
// late night row falls back to the default configuration.
func (s *BoardService) Snapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Version: s.Version(ctx), Now: s.clock.Now()}

	var err error
	if snap.Schedule, err = s.store.LoadSchedule(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load schedule: %w", err)
	}
	if snap.Promotions, err = s.store.LoadPromotions(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load promotions: %w", err)
	}
	snap.LateNight, err = s.store.LoadLateNight(ctx)
	if errors.Is(err, repository.ErrLateNightNotFound) {
		s.log.Warn("late night lanes not configured, using defaults")
		snap.LateNight, err = model.DefaultLateNightLanes(), nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load late night: %w", err)
	}
	s.warnDataQuality(snap)
	return snap, nil
}

func (s *BoardService) warnDataQuality(snap Snapshot) {
	if s.warnedVersion.Swap(snap.Version) == snap.Version {
		return
	}
	for _, p := range board.UnparsableDates(snap.Promotions, snap.Now.Location()) {
		s.log.WithFields(logrus.Fields{
			"promotion_id": p.ID,
			"start_date":   p.StartDate,
			"end_date":     p.EndDate,
		}).Warn("promotion has unparsable dates and is never shown")
	}
}

// Resolve resolves snap with opts. It does no I/O.
func Resolve(snap Snapshot, opts BoardOptions) board.ResolvedBoard {
	return board.Resolve(board.Input{
		Schedule:       snap.Schedule,
		Promotions:     snap.Promotions,
		LateNight:      snap.LateNight,
		Now:            snap.Now,
		Day:            opts.Day,
		HHMM:           opts.HHMM,
		ForceLateNight: opts.ForceLateNight,
	})
}

// Board loads a snapshot and resolves it.
func (s *BoardService) Board(ctx context.Context, opts BoardOptions) (BoardView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return BoardView{}, err
	}
	return BoardView{Version: snap.Version, Board: Resolve(snap, opts)}, nil
}

// PreviewDraft resolves the stored data with the parts of d that are set.
// Nothing is written.
func (s *BoardService) PreviewDraft(ctx context.Context, d Draft, opts BoardOptions) (BoardView, error) {
	if d.Prices != nil {
		if err := model.ValidateSchedule(d.Prices); err != nil {
			return BoardView{}, err
		}
	}
	for _, p := range d.Promotions {
		if err := model.ValidatePromotion(p); err != nil {
			return BoardView{}, err
		}
	}
	if d.LateNight != nil {
		if err := model.ValidateLateNight(*d.LateNight); err != nil {
			return BoardView{}, err
		}
	}
	if err := ValidateOptions(opts); err != nil {
		return BoardView{}, err
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return BoardView{}, err
	}
	if d.Prices != nil {
		snap.Schedule = d.Prices
	}
	if d.Promotions != nil {
		snap.Promotions = d.Promotions
	}
	if d.LateNight != nil {
		snap.LateNight = *d.LateNight
	}
	return BoardView{Version: snap.Version, Board: Resolve(snap, opts)}, nil
}

// ValidateOptions reports malformed preview overrides.
func ValidateOptions(opts BoardOptions) error {
	if opts.Day != "" && !opts.Day.Valid() {
		return fmt.Errorf("%w: unknown day %q", model.ErrInvalid, opts.Day)
	}
	if opts.HHMM != "" {
		if _, ok := model.MinutesOf(opts.HHMM); !ok {
			return fmt.Errorf("%w: time must be HH:MM, got %q", model.ErrInvalid, opts.HHMM)
		}
	}
	return nil
}

// changed bumps the version and publishes ev. Neither failure undoes the
// write that already happened, so both are only logged.
func (s *BoardService) changed(ctx context.Context, ev queue.BoardChangedEvent) int64 {
	v, err := s.versions.Bump(ctx)
	if err != nil {
		s.log.WithError(err).Warn("bump board version")
	}
	ev.Version = v
	ev.ChangedAt = s.clock.Now().UTC().Format(time.RFC3339)

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.pub.Publish(pctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"entity": ev.Entity,
			"action": ev.Action,
		}).Warn("publish board change")
	}
	s.log.WithFields(logrus.Fields{
		"version": v,
		"entity":  ev.Entity,
		"action":  ev.Action,
		"id":      ev.EntityID,
		"actor":   ev.Actor,
	}).Info("board changed")
	return v
}

// ReplaceSchedule validates and stores a full week. Layout problems that do
// not block resolution (gaps, overlaps, missing days) are returned and
// logged as warnings.
func (s *BoardService) ReplaceSchedule(ctx context.Context, actor string, days []model.DayPrices) (int64, []board.Issue, error) {
	if err := model.ValidateSchedule(days); err != nil {
		return 0, nil, err
	}
	issues := board.CheckSchedule(days)
	for _, is := range issues {
		s.log.WithFields(logrus.Fields{
			"day":      is.Day,
			"activity": is.Activity,
			"kind":     is.Kind,
		}).Warn(is.Detail)
	}
	if err := s.store.ReplaceSchedule(ctx, days); err != nil {
		return 0, nil, fmt.Errorf("replace schedule: %w", err)
	}
	v := s.changed(ctx, queue.BoardChangedEvent{Entity: queue.EntitySchedule, Action: "replace", Actor: actor})
	return v, issues, nil
}

// AddPromotion stores a new promotion. An empty id is filled with a UUID.
func (s *BoardService) AddPromotion(ctx context.Context, actor string, p model.Promotion) (model.Promotion, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := model.ValidatePromotion(p); err != nil {
		return model.Promotion{}, err
	}
	if err := s.store.AddPromotion(ctx, p); err != nil {
		return model.Promotion{}, fmt.Errorf("add promotion: %w", err)
	}
	s.changed(ctx, queue.BoardChangedEvent{Entity: queue.EntityPromotion, Action: "create", EntityID: p.ID, Actor: actor})
	return p, nil
}

// UpdatePromotion overwrites the promotion with p.ID.
func (s *BoardService) UpdatePromotion(ctx context.Context, actor string, p model.Promotion) error {
	if err := model.ValidatePromotion(p); err != nil {
		return err
	}
	if err := s.store.UpdatePromotion(ctx, p); err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	s.changed(ctx, queue.BoardChangedEvent{Entity: queue.EntityPromotion, Action: "update", EntityID: p.ID, Actor: actor})
	return nil
}

// ReplacePromotions swaps the whole promotions list. Ids must be unique.
func (s *BoardService) ReplacePromotions(ctx context.Context, actor string, promotions []model.Promotion) error {
	seen := make(map[string]bool, len(promotions))
	for i := range promotions {
		if promotions[i].ID == "" {
			promotions[i].ID = uuid.NewString()
		}
		if err := model.ValidatePromotion(promotions[i]); err != nil {
			return err
		}
		if seen[promotions[i].ID] {
			return fmt.Errorf("%w: duplicate promotion id %q", model.ErrInvalid, promotions[i].ID)
		}
		seen[promotions[i].ID] = true
	}
	if err := s.store.ReplacePromotions(ctx, promotions); err != nil {
		return fmt.Errorf("replace promotions: %w", err)
	}
	s.changed(ctx, queue.BoardChangedEvent{Entity: queue.EntityPromotions, Action: "replace", Actor: actor})
	return nil
}

// DeletePromotion removes a promotion by id.
func (s *BoardService) DeletePromotion(ctx context.Context, actor, id string) error {
	if err := s.store.DeletePromotion(ctx, id); err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	s.changed(ctx, queue.BoardChangedEvent{Entity: queue.EntityPromotion, Action: "delete", EntityID: id, Actor: actor})
	return nil
}

// UpdateLateNight stores the late night settings.
func (s *BoardService) UpdateLateNight(ctx context.Context, actor string, l model.LateNightLanes) (model.LateNightLanes, error) {
	if err := model.ValidateLateNight(l); err != nil {
		return model.LateNightLanes{}, err
	}
	out, err := s.store.UpdateLateNight(ctx, l)
	if err != nil {
		return model.LateNightLanes{}, fmt.Errorf("update late night: %w", err)
	}
	s.changed(ctx, queue.BoardChangedEvent{Entity: queue.EntityLateNight, Action: "update", Actor: actor})
	return out, nil
}

// Reset restores the default data in every table.
func (s *BoardService) Reset(ctx context.Context, actor string) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.changed(ctx, queue.BoardChangedEvent{Entity: queue.EntityAll, Action: "reset", Actor: actor})
	return nil
}

// Status reports store health together with data quality findings.
func (s *BoardService) Status(ctx context.Context) StatusReport {
	rep := StatusReport{
		Store:                  s.store.Status(ctx),
		Version:                s.Version(ctx),
		ScheduleIssues:         []string{},
		UnparsablePromotionIDs: []string{},
		CheckedAt:              s.clock.Now(),
	}
	if !rep.Store.Connected {
		return rep
	}
	if days, err := s.store.LoadSchedule(ctx); err == nil {
		for _, is := range board.CheckSchedule(days) {
			rep.ScheduleIssues = append(rep.ScheduleIssues, is.String())
		}
	}
	if promos, err := s.store.LoadPromotions(ctx); err == nil {
		for _, p := range board.UnparsableDates(promos, rep.CheckedAt.Location()) {
			rep.UnparsablePromotionIDs = append(rep.UnparsablePromotionIDs, p.ID)
		}
	}
	return rep
}
