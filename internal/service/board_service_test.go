package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-price-board/internal/board"
	"github.com/iliyamo/venue-price-board/internal/model"
	"github.com/iliyamo/venue-price-board/internal/queue"
	"github.com/iliyamo/venue-price-board/internal/repository"
	"github.com/iliyamo/venue-price-board/internal/version"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BoardChangedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BoardChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// failingStore wraps MemoryStore and fails every read.
type failingStore struct {
	*repository.MemoryStore
}

func (failingStore) LoadSchedule(context.Context) ([]model.DayPrices, error) {
	return nil, repository.ErrStoreUnavailable
}

// Thursday 17 April 2025, 17:30 UTC.
var thursdayEvening = time.Date(2025, time.April, 17, 17, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, now time.Time) (*BoardService, *recordingPublisher, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	pub := &recordingPublisher{}
	svc := NewBoardService(repository.NewMemoryStore(), version.NewMemory(), pub, board.FixedClock{T: now}, logger)
	return svc, pub, hook
}

func TestBoardResolvesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t, thursdayEvening)

	view, err := svc.Board(context.Background(), BoardOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), view.Version)
	b := view.Board
	assert.Equal(t, model.Thursday, b.Day)
	assert.Equal(t, board.ModeNormal, b.Mode)
	require.NotNil(t, b.PerActivity.Bowling.Price)
	assert.Equal(t, 42.0, *b.PerActivity.Bowling.Price)
	require.Len(t, b.PerActivity.Bowling.Promotions, 1)
	assert.Equal(t, "promo_1", b.PerActivity.Bowling.Promotions[0].ID)
	assert.Empty(t, b.PerActivity.Darts.Promotions)
}

func TestBoardForceLateNight(t *testing.T) {
	svc, _, _ := newTestService(t, thursdayEvening)

	view, err := svc.Board(context.Background(), BoardOptions{ForceLateNight: true})
	require.NoError(t, err)
	assert.True(t, view.Board.LateNightActive)
	assert.Equal(t, board.ModeLateNight, view.Board.Mode)
}

func TestBoardPropagatesStoreErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := NewBoardService(failingStore{repository.NewMemoryStore()}, version.NewMemory(), nil, board.FixedClock{T: thursdayEvening}, logger)

	_, err := svc.Board(context.Background(), BoardOptions{})
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestMutationsBumpVersionAndPublish(t *testing.T) {
	ctx := context.Background()
	svc, pub, _ := newTestService(t, thursdayEvening)

	v, issues, err := svc.ReplaceSchedule(ctx, "admin", model.DefaultSchedule())
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, int64(2), v)

	p, err := svc.AddPromotion(ctx, "admin", model.Promotion{
		Title: "Darts night", StartDate: "2025-04-01", EndDate: "2025-04-30",
		ApplicableDays: []model.Weekday{model.Thursday}, ApplicableActivities: []model.ActivityID{model.Darts},
		IsActive: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	p.Title = "Darts night deluxe"
	require.NoError(t, svc.UpdatePromotion(ctx, "admin", p))
	require.NoError(t, svc.DeletePromotion(ctx, "admin", p.ID))

	_, err = svc.UpdateLateNight(ctx, "admin", model.DefaultLateNightLanes())
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "admin"))

	assert.Equal(t, int64(7), svc.Version(ctx))
	require.Len(t, pub.events, 6)
	assert.Equal(t, queue.EntitySchedule, pub.events[0].Entity)
	assert.Equal(t, "create", pub.events[1].Action)
	assert.Equal(t, p.ID, pub.events[1].EntityID)
	assert.Equal(t, "delete", pub.events[3].Action)
	assert.Equal(t, queue.EntityAll, pub.events[5].Entity)
	assert.Equal(t, int64(7), pub.events[5].Version)
	assert.Equal(t, "admin", pub.events[5].Actor)
	assert.Equal(t, "2025-04-17T17:30:00Z", pub.events[5].ChangedAt)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	svc, pub, hook := newTestService(t, thursdayEvening)
	pub.err = errors.New("broker down")

	require.NoError(t, svc.Reset(ctx, "admin"))
	assert.Equal(t, int64(2), svc.Version(ctx))

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "publish board change" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestInvalidWritesAreRejectedWithoutBump(t *testing.T) {
	ctx := context.Background()
	svc, pub, _ := newTestService(t, thursdayEvening)

	_, _, err := svc.ReplaceSchedule(ctx, "admin", []model.DayPrices{{Day: "Funday"}})
	assert.ErrorIs(t, err, model.ErrInvalid)

	_, err = svc.AddPromotion(ctx, "admin", model.Promotion{ID: "x"})
	assert.ErrorIs(t, err, model.ErrInvalid)

	_, err = svc.UpdateLateNight(ctx, "admin", model.LateNightLanes{StartTime: "CLOSE", EndTime: "22:00"})
	assert.ErrorIs(t, err, model.ErrInvalid)

	err = svc.ReplacePromotions(ctx, "admin", []model.Promotion{
		{ID: "a", Title: "A", StartDate: "2025-01-01", EndDate: "2025-01-02"},
		{ID: "a", Title: "B", StartDate: "2025-01-01", EndDate: "2025-01-02"},
	})
	assert.ErrorIs(t, err, model.ErrInvalid)

	assert.Equal(t, int64(1), svc.Version(ctx))
	assert.Empty(t, pub.events)
}

func TestMissingPromotionIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, thursdayEvening)
	err := svc.DeletePromotion(context.Background(), "admin", "nope")
	assert.ErrorIs(t, err, repository.ErrPromotionNotFound)
}

func TestReplaceScheduleReportsLayoutIssues(t *testing.T) {
	svc, _, hook := newTestService(t, thursdayEvening)
	days := model.DefaultSchedule()[:1]

	_, issues, err := svc.ReplaceSchedule(context.Background(), "admin", days)
	require.NoError(t, err)
	assert.Len(t, issues, 6)
	assert.NotEmpty(t, hook.AllEntries())
}

func TestPreviewDraftDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	svc, pub, _ := newTestService(t, thursdayEvening)

	draft := model.DefaultSchedule()
	draft[3].Bowling.TimeSlots[2].Price = 99

	view, err := svc.PreviewDraft(ctx, Draft{Prices: draft}, BoardOptions{Day: model.Thursday, HHMM: "18:00"})
	require.NoError(t, err)
	assert.Equal(t, 99.0, *view.Board.PerActivity.Bowling.Price)

	stored, err := svc.Board(ctx, BoardOptions{})
	require.NoError(t, err)
	assert.Equal(t, 42.0, *stored.Board.PerActivity.Bowling.Price)
	assert.Empty(t, pub.events)
}

func TestPreviewDraftRejectsBadOverrides(t *testing.T) {
	svc, _, _ := newTestService(t, thursdayEvening)

	_, err := svc.PreviewDraft(context.Background(), Draft{}, BoardOptions{HHMM: "25:99"})
	assert.ErrorIs(t, err, model.ErrInvalid)
	_, err = svc.PreviewDraft(context.Background(), Draft{}, BoardOptions{Day: "Someday"})
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestUnparsableDatesWarnOncePerVersion(t *testing.T) {
	ctx := context.Background()
	svc, _, hook := newTestService(t, thursdayEvening)
	require.NoError(t, svc.ReplacePromotions(ctx, "admin", []model.Promotion{
		{ID: "bad", Title: "Bad", StartDate: "soon", EndDate: "later", IsActive: true},
	}))
	hook.Reset()

	_, err := svc.Board(ctx, BoardOptions{})
	require.NoError(t, err)
	_, err = svc.Board(ctx, BoardOptions{})
	require.NoError(t, err)

	var n int
	for _, e := range hook.AllEntries() {
		if e.Data["promotion_id"] == "bad" {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, thursdayEvening)
	require.NoError(t, svc.ReplacePromotions(ctx, "admin", []model.Promotion{
		{ID: "bad", Title: "Bad", StartDate: "soon", EndDate: "later"},
	}))

	rep := svc.Status(ctx)
	assert.True(t, rep.Store.Connected)
	assert.Equal(t, repository.BackendMemory, rep.Store.Backend)
	assert.Equal(t, int64(2), rep.Version)
	assert.Empty(t, rep.ScheduleIssues)
	assert.Equal(t, []string{"bad"}, rep.UnparsablePromotionIDs)
}
