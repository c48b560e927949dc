// Package googlefit implements gateway.Provider on the Google Fit REST API.
package googlefit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/garrettladley/fitgate/internal/client/googlefit"
	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/oauth"
	"github.com/garrettladley/fitgate/internal/permission"
	"github.com/garrettladley/fitgate/internal/version"
	"github.com/garrettladley/fitgate/internal/xslog"
)

var _ gateway.Provider = (*Provider)(nil)

const (
	workoutWindow   = 30 * 24 * time.Hour
	workoutLookback = 365 * 24 * time.Hour
)

type Provider struct {
	client *googlefit.Client
	tokens *oauth.StoreTokenSource
	flow   *oauth.ConsentFlow

	appName string
	loc     *time.Location
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger

	mu      sync.Mutex
	streams map[string]string // data type -> app-owned stream id
}

type config struct {
	appName string
	loc     *time.Location
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
}

type Option func(*config)

// WithAppName names the application on written sessions and data sources.
func WithAppName(name string) Option {
	return func(cfg *config) { cfg.appName = name }
}

// WithLocation sets the zone daily buckets are cut in.
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) { cfg.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(cfg *config) { cfg.now = now }
}

// WithIDFunc overrides session id generation.
func WithIDFunc(fn func() string) Option {
	return func(cfg *config) { cfg.newID = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

func New(client *googlefit.Client, tokens *oauth.StoreTokenSource, flow *oauth.ConsentFlow, opts ...Option) *Provider {
	cfg := &config{
		appName: "fitgate",
		loc:     time.Local,
		now:     time.Now,
		newID:   newSessionID,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Provider{
		client:  client,
		tokens:  tokens,
		flow:    flow,
		appName: cfg.appName,
		loc:     cfg.loc,
		now:     cfg.now,
		newID:   cfg.newID,
		logger:  cfg.logger,
		streams: make(map[string]string),
	}
}

// Granted checks the stored grant only. It never refreshes, prompts or
// calls Google.
func (p *Provider) Granted(ctx context.Context, set permission.Set) (bool, error) {
	token, err := p.tokens.Stored(ctx)
	if err != nil {
		if errors.Is(err, oauth.ErrNoToken) {
			return false, nil
		}
		return false, err
	}

	if token.RefreshToken == "" && !token.Expiry.IsZero() && !token.Expiry.After(p.now()) {
		return false, nil
	}

	return token.HasScopes(oauth.Scopes(set)...), nil
}

// RequestConsent asks for the stored scopes plus the ones set needs.
func (p *Provider) RequestConsent(ctx context.Context, set permission.Set, fg gateway.Foreground) error {
	var existing []string
	if token, err := p.tokens.Stored(ctx); err == nil {
		existing = token.Scopes
	} else if !errors.Is(err, oauth.ErrNoToken) {
		return err
	}

	scopes := oauth.Union(existing, oauth.Scopes(set))
	token, err := p.flow.Run(ctx, scopes, fg)
	if err != nil {
		return err
	}
	p.tokens.Reset()

	if !token.HasScopes(oauth.Scopes(set)...) {
		return fmt.Errorf("%w: not every requested scope was granted", oauth.ErrConsentDenied)
	}
	return nil
}

func (p *Provider) AggregateTotal(ctx context.Context, kind permission.Kind, start, end time.Time) (float64, error) {
	spec, err := specFor(kind)
	if err != nil {
		return 0, err
	}
	if end.Equal(start) {
		return 0, nil
	}

	resp, err := p.client.Dataset.Aggregate(ctx, &googlefit.AggregateRequest{
		AggregateBy:     []googlefit.AggregateBy{{DataSourceID: spec.source}},
		BucketByTime:    &googlefit.BucketByTime{DurationMillis: end.Sub(start).Milliseconds()},
		StartTimeMillis: start.UnixMilli(),
		EndTimeMillis:   end.UnixMilli(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate %s: %w", kind, err)
	}

	var total float64
	for _, bucket := range resp.Bucket {
		total += spec.reduceBucket(bucket)
	}
	return total, nil
}

func (p *Provider) AggregateDaily(ctx context.Context, kind permission.Kind, start, end time.Time) ([]gateway.DailyTotal, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	if end.Equal(start) {
		return nil, nil
	}

	resp, err := p.client.Dataset.Aggregate(ctx, &googlefit.AggregateRequest{
		AggregateBy: []googlefit.AggregateBy{{DataSourceID: spec.source}},
		BucketByTime: &googlefit.BucketByTime{Period: &googlefit.BucketPeriod{
			Type:       googlefit.PeriodDay,
			Value:      1,
			TimeZoneID: p.loc.String(),
		}},
		StartTimeMillis: start.UnixMilli(),
		EndTimeMillis:   end.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily %s: %w", kind, err)
	}

	totals := make([]gateway.DailyTotal, 0, len(resp.Bucket))
	for _, bucket := range resp.Bucket {
		totals = append(totals, gateway.DailyTotal{
			Date:  gateway.StartOfDay(bucket.Start(), p.loc),
			Value: spec.reduceBucket(bucket),
		})
	}
	return totals, nil
}

func (p *Provider) Latest(ctx context.Context, kind permission.Kind) (*gateway.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	var latest *googlefit.DataPoint
	if kind == permission.KindWorkouts {
		latest, err = p.latestWorkout(ctx, spec)
	} else {
		latest, err = p.latestPoint(ctx, spec)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest %s: %w", kind, err)
	}
	if latest == nil {
		return nil, nil
	}

	source := latest.OriginDataSourceID
	if source == "" {
		source = spec.source
	}

	return &gateway.Record{
		Kind:   kind,
		Start:  latest.Start(),
		End:    latest.End(),
		Value:  spec.pointValue(*latest),
		Source: source,
	}, nil
}

func (p *Provider) latestPoint(ctx context.Context, spec kindSpec) (*googlefit.DataPoint, error) {
	dataset, err := p.client.Dataset.Get(ctx, spec.source, 0, p.now().UnixNano(), 1)
	if err != nil {
		return nil, err
	}
	return newest(dataset.Point, func(googlefit.DataPoint) bool { return true }), nil
}

// latestWorkout reads the merged segments one window at a time, newest
// first, up to workoutLookback back, skipping passive segments.
func (p *Provider) latestWorkout(ctx context.Context, spec kindSpec) (*googlefit.DataPoint, error) {
	now := p.now()
	cutoff := now.Add(-workoutLookback)

	for end := now; end.After(cutoff); end = end.Add(-workoutWindow) {
		start := end.Add(-workoutWindow)
		if start.Before(cutoff) {
			start = cutoff
		}

		dataset, err := p.client.Dataset.Get(ctx, spec.source, start.UnixNano(), end.UnixNano(), 0)
		if err != nil {
			return nil, err
		}
		if pt := newest(dataset.Point, func(pt googlefit.DataPoint) bool {
			return isWorkout(int(valueAt(pt, 0)))
		}); pt != nil {
			return pt, nil
		}
	}
	return nil, nil
}

func newest(points []googlefit.DataPoint, keep func(googlefit.DataPoint) bool) *googlefit.DataPoint {
	var latest *googlefit.DataPoint
	for i := range points {
		pt := &points[i]
		if !keep(*pt) {
			continue
		}
		if latest == nil || pt.EndTimeNanos > latest.EndTimeNanos {
			latest = pt
		}
	}
	return latest
}

func (p *Provider) logStream(ctx context.Context, dataType, id string) {
	p.logger.DebugContext(ctx, "using data source",
		xslog.DataType(dataType),
		xslog.Stream(id),
		xslog.Version(),
	)
}

func (p *Provider) application() googlefit.Application {
	return googlefit.Application{Name: p.appName, Version: version.Get()}
}
