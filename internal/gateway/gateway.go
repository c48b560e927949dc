package gateway

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/garrettladley/fitgate/internal/permission"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const (
	opIsTrackingAvailable = "is_tracking_available"
	opAuthorize           = "authorize"
	opQueryTotal          = "query_total"
	opQueryDailyTotals    = "query_daily_totals"
	opLatestDataRecord    = "latest_data_record"
	opWriteWorkout        = "write_workout"
	opDeleteWorkouts      = "delete_workouts"

	statisticDays = 7
)

// Gateway dispatches fitness operations to a provider on behalf of one
// provider session. Construct one per session; the authorization flag is
// owned by the instance.
type Gateway struct {
	provider   Provider
	foreground ForegroundSource
	authorized atomic.Bool

	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

type config struct {
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

type Option func(*config)

func WithClock(now func() time.Time) Option {
	return func(cfg *config) { cfg.now = now }
}

// WithLocation sets the location used to find the start of the day.
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) { cfg.loc = loc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

func New(provider Provider, foreground ForegroundSource, opts ...Option) *Gateway {
	cfg := &config{
		now:    time.Now,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Gateway{
		provider:   provider,
		foreground: foreground,
		now:        cfg.now,
		loc:        cfg.loc,
		logger:     cfg.logger,
	}
}

func (g *Gateway) Authorized() bool {
	return g.authorized.Load()
}

func (g *Gateway) IsTrackingAvailable(ctx context.Context, set permission.Set) (bool, error) {
	granted, err := g.granted(ctx, opIsTrackingAvailable, set)
	if err != nil {
		recordOperation(opIsTrackingAvailable, outcomeError)
		return false, err
	}
	recordOperation(opIsTrackingAvailable, outcomeOK)
	return granted, nil
}

// Authorize returns true straight away when set is already granted.
// Otherwise it needs a foreground to run the provider's consent flow.
func (g *Gateway) Authorize(ctx context.Context, set permission.Set) (bool, error) {
	granted, err := g.granted(ctx, opAuthorize, set)
	if err != nil {
		recordOperation(opAuthorize, outcomeError)
		return false, err
	}
	if granted {
		g.markAuthorized()
		recordOperation(opAuthorize, outcomeOK)
		return true, nil
	}

	fg, ok := g.foreground.Current()
	if !ok {
		recordOperation(opAuthorize, outcomeError)
		return false, ErrActivityUnavailable
	}

	g.logger.InfoContext(ctx, "requesting consent", xslog.Permissions(set))

	start := time.Now()
	err = g.provider.RequestConsent(ctx, set, fg)
	observeProviderCall(opAuthorize, start)
	if err != nil {
		recordOperation(opAuthorize, outcomeError)
		return false, g.providerError(ctx, opAuthorize, err)
	}

	g.markAuthorized()
	recordOperation(opAuthorize, outcomeOK)
	return true, nil
}

func (g *Gateway) QueryTotal(ctx context.Context, kind permission.Kind, start, end time.Time) (float64, error) {
	if err := g.requireAuthorized(opQueryTotal); err != nil {
		return 0, err
	}

	g.logger.DebugContext(ctx, "query total", xslog.Kind(kind), xslog.RangeGroup(start, end))

	began := time.Now()
	total, err := g.provider.AggregateTotal(ctx, kind, start, end)
	observeProviderCall(opQueryTotal, began)
	if err != nil {
		recordOperation(opQueryTotal, outcomeError)
		return 0, g.providerError(ctx, opQueryTotal, err)
	}

	recordOperation(opQueryTotal, outcomeOK)
	return total, nil
}

func (g *Gateway) QueryDailyTotals(ctx context.Context, kind permission.Kind, start, end time.Time) ([]DailyTotal, error) {
	if err := g.requireAuthorized(opQueryDailyTotals); err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "query daily totals", xslog.Kind(kind), xslog.RangeGroup(start, end))

	began := time.Now()
	totals, err := g.provider.AggregateDaily(ctx, kind, start, end)
	observeProviderCall(opQueryDailyTotals, began)
	if err != nil {
		recordOperation(opQueryDailyTotals, outcomeError)
		return nil, g.providerError(ctx, opQueryDailyTotals, err)
	}

	recordOperation(opQueryDailyTotals, outcomeOK)
	return totals, nil
}

// StatisticWeekDaily returns daily totals over the last seven days, ending now.
func (g *Gateway) StatisticWeekDaily(ctx context.Context, kind permission.Kind) ([]DailyTotal, error) {
	start, end := g.weekRange()
	return g.QueryDailyTotals(ctx, kind, start, end)
}

func (g *Gateway) StatisticWeekTotal(ctx context.Context, kind permission.Kind) (float64, error) {
	start, end := g.weekRange()
	return g.QueryTotal(ctx, kind, start, end)
}

// StatisticTodayTotal returns the total from local midnight until now.
func (g *Gateway) StatisticTodayTotal(ctx context.Context, kind permission.Kind) (float64, error) {
	end := g.now()
	return g.QueryTotal(ctx, kind, StartOfDay(end, g.loc), end)
}

// LatestDataRecord returns nil when the provider holds no point for kind.
func (g *Gateway) LatestDataRecord(ctx context.Context, kind permission.Kind) (*Record, error) {
	if err := g.requireAuthorized(opLatestDataRecord); err != nil {
		return nil, err
	}

	began := time.Now()
	record, err := g.provider.Latest(ctx, kind)
	observeProviderCall(opLatestDataRecord, began)
	if err != nil {
		recordOperation(opLatestDataRecord, outcomeError)
		return nil, g.providerError(ctx, opLatestDataRecord, err)
	}

	recordOperation(opLatestDataRecord, outcomeOK)
	return record, nil
}

func (g *Gateway) WriteWorkout(ctx context.Context, start, end time.Time, opts WorkoutOptions) error {
	if err := g.requireAuthorized(opWriteWorkout); err != nil {
		return err
	}

	workout := Workout{Start: start, End: end, Options: opts}

	began := time.Now()
	err := g.provider.WriteWorkout(ctx, workout)
	observeProviderCall(opWriteWorkout, began)
	if err != nil {
		recordOperation(opWriteWorkout, outcomeError)
		return g.providerError(ctx, opWriteWorkout, err)
	}

	g.logger.InfoContext(ctx, "workout written", xslog.RangeGroup(start, end))
	recordOperation(opWriteWorkout, outcomeOK)
	return nil
}

func (g *Gateway) DeleteWorkouts(ctx context.Context, start, end time.Time) (int, error) {
	if err := g.requireAuthorized(opDeleteWorkouts); err != nil {
		return 0, err
	}

	began := time.Now()
	deleted, err := g.provider.DeleteWorkouts(ctx, start, end)
	observeProviderCall(opDeleteWorkouts, began)
	if err != nil {
		recordOperation(opDeleteWorkouts, outcomeError)
		return 0, g.providerError(ctx, opDeleteWorkouts, err)
	}

	g.logger.InfoContext(ctx, "workouts deleted", xslog.RangeGroup(start, end), xslog.Count(deleted))
	recordOperation(opDeleteWorkouts, outcomeOK)
	return deleted, nil
}

func (g *Gateway) granted(ctx context.Context, op string, set permission.Set) (bool, error) {
	began := time.Now()
	granted, err := g.provider.Granted(ctx, set)
	observeProviderCall(op, began)
	if err != nil {
		return false, g.providerError(ctx, op, err)
	}
	return granted, nil
}

func (g *Gateway) requireAuthorized(op string) error {
	if !g.authorized.Load() {
		recordOperation(op, outcomeUnauthorized)
		return ErrUnauthorized
	}
	return nil
}

func (g *Gateway) markAuthorized() {
	g.authorized.Store(true)
	recordAuthorized()
}

func (g *Gateway) weekRange() (time.Time, time.Time) {
	end := g.now()
	return AddDays(end, -statisticDays), end
}

func (g *Gateway) providerError(ctx context.Context, op string, err error) error {
	g.logger.WarnContext(ctx, "provider call failed", xslog.Operation(op), xslog.ErrorGroup(err))
	return &ProviderError{Op: op, Err: err}
}
