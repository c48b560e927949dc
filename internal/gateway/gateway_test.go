package gateway_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/gateway/gatewaytest"
	"github.com/garrettladley/fitgate/internal/permission"
)

var (
	est = time.FixedZone("EST", -5*60*60)
	now = time.Date(2026, time.October, 16, 15, 30, 0, 0, est)
)

func newGateway(t *testing.T, p *gatewaytest.Provider, fg *gatewaytest.Foreground) *gateway.Gateway {
	t.Helper()
	return gateway.New(p, fg,
		gateway.WithClock(func() time.Time { return now }),
		gateway.WithLocation(est),
		gateway.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func authorizedGateway(t *testing.T, p *gatewaytest.Provider) *gateway.Gateway {
	t.Helper()
	p.GrantAll = true
	g := newGateway(t, p, &gatewaytest.Foreground{})
	ok, err := g.Authorize(t.Context(), permission.Set{{Kind: permission.KindSteps, Access: permission.Read}})
	if err != nil || !ok {
		t.Fatalf("Authorize() = %v, %v; want true, nil", ok, err)
	}
	return g
}

func TestOperationsRequireAuthorization(t *testing.T) {
	t.Parallel()

	start := now.Add(-time.Hour)
	ops := []struct {
		name string
		call func(ctx context.Context, g *gateway.Gateway) error
	}{
		{"QueryTotal", func(ctx context.Context, g *gateway.Gateway) error {
			_, err := g.QueryTotal(ctx, permission.KindSteps, start, now)
			return err
		}},
		{"QueryDailyTotals", func(ctx context.Context, g *gateway.Gateway) error {
			_, err := g.QueryDailyTotals(ctx, permission.KindSteps, start, now)
			return err
		}},
		{"StatisticWeekDaily", func(ctx context.Context, g *gateway.Gateway) error {
			_, err := g.StatisticWeekDaily(ctx, permission.KindSteps)
			return err
		}},
		{"StatisticWeekTotal", func(ctx context.Context, g *gateway.Gateway) error {
			_, err := g.StatisticWeekTotal(ctx, permission.KindSteps)
			return err
		}},
		{"StatisticTodayTotal", func(ctx context.Context, g *gateway.Gateway) error {
			_, err := g.StatisticTodayTotal(ctx, permission.KindSteps)
			return err
		}},
		{"LatestDataRecord", func(ctx context.Context, g *gateway.Gateway) error {
			_, err := g.LatestDataRecord(ctx, permission.KindWeight)
			return err
		}},
		{"WriteWorkout", func(ctx context.Context, g *gateway.Gateway) error {
			return g.WriteWorkout(ctx, start, now, gateway.WorkoutOptions{})
		}},
		{"DeleteWorkouts", func(ctx context.Context, g *gateway.Gateway) error {
			_, err := g.DeleteWorkouts(ctx, start, now)
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			t.Parallel()

			p := gatewaytest.New()
			g := newGateway(t, p, &gatewaytest.Foreground{Available: true})

			err := op.call(t.Context(), g)
			if !errors.Is(err, gateway.ErrUnauthorized) {
				t.Fatalf("%s() error = %v, want ErrUnauthorized", op.name, err)
			}
			if calls := p.Calls(); len(calls) != 0 {
				t.Errorf("%s() made provider calls: %+v", op.name, calls)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	steps := permission.Permission{Kind: permission.KindSteps, Access: permission.Read}
	writeSteps := permission.Permission{Kind: permission.KindSteps, Access: permission.Write}
	denied := errors.New("user denied consent")

	tests := []struct {
		name           string
		granted        permission.Set
		deny           error
		foreground     bool
		set            permission.Set
		want           bool
		wantErr        error
		wantAuthorized bool
		wantLookups    int
		wantPresented  int
	}{
		{
			name:           "already granted skips foreground",
			granted:        permission.Set{steps},
			set:            permission.Set{steps},
			want:           true,
			wantAuthorized: true,
		},
		{
			name:        "no foreground",
			set:         permission.Set{writeSteps},
			wantErr:     gateway.ErrActivityUnavailable,
			wantLookups: 1,
		},
		{
			name:           "consent given",
			foreground:     true,
			set:            permission.Set{steps, writeSteps},
			want:           true,
			wantAuthorized: true,
			wantLookups:    1,
			wantPresented:  1,
		},
		{
			name:          "consent denied",
			foreground:    true,
			deny:          denied,
			set:           permission.Set{steps},
			wantErr:       denied,
			wantLookups:   1,
			wantPresented: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := gatewaytest.New()
			p.Grant(tt.granted)
			p.Deny = tt.deny
			fg := &gatewaytest.Foreground{Available: tt.foreground}
			g := newGateway(t, p, fg)

			got, err := g.Authorize(t.Context(), tt.set)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authorize() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Authorize() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
			if g.Authorized() != tt.wantAuthorized {
				t.Errorf("Authorized() = %v, want %v", g.Authorized(), tt.wantAuthorized)
			}
			if fg.Lookups() != tt.wantLookups {
				t.Errorf("foreground lookups = %d, want %d", fg.Lookups(), tt.wantLookups)
			}
			if n := len(fg.Presented()); n != tt.wantPresented {
				t.Errorf("consent prompts = %d, want %d", n, tt.wantPresented)
			}
		})
	}
}

func TestAuthorizeDeniedWrapsProviderError(t *testing.T) {
	t.Parallel()

	p := gatewaytest.New()
	p.Deny = errors.New("access_denied")
	g := newGateway(t, p, &gatewaytest.Foreground{Available: true})

	_, err := g.Authorize(t.Context(), permission.Set{{Kind: permission.KindSteps, Access: permission.Read}})

	var perr *gateway.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Authorize() error = %T, want *gateway.ProviderError", err)
	}
	if perr.Op != "authorize" {
		t.Errorf("ProviderError.Op = %q, want %q", perr.Op, "authorize")
	}
}

func TestGrantCheckFailureNamesOperation(t *testing.T) {
	t.Parallel()

	set := permission.Set{{Kind: permission.KindSteps, Access: permission.Read}}

	tests := []struct {
		name   string
		call   func(context.Context, *gateway.Gateway) error
		wantOp string
	}{
		{
			name: "is tracking available",
			call: func(ctx context.Context, g *gateway.Gateway) error {
				_, err := g.IsTrackingAvailable(ctx, set)
				return err
			},
			wantOp: "is_tracking_available",
		},
		{
			name: "authorize",
			call: func(ctx context.Context, g *gateway.Gateway) error {
				_, err := g.Authorize(ctx, set)
				return err
			},
			wantOp: "authorize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := gatewaytest.New()
			p.GrantErr = errors.New("token store unavailable")
			g := newGateway(t, p, &gatewaytest.Foreground{Available: true})

			var perr *gateway.ProviderError
			if err := tt.call(t.Context(), g); !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *gateway.ProviderError", err)
			}
			if perr.Op != tt.wantOp {
				t.Errorf("ProviderError.Op = %q, want %q", perr.Op, tt.wantOp)
			}
		})
	}
}

func TestIsTrackingAvailableHasNoSideEffects(t *testing.T) {
	t.Parallel()

	p := gatewaytest.New()
	set := permission.Set{{Kind: permission.KindSteps, Access: permission.Read}}
	p.Grant(set)
	fg := &gatewaytest.Foreground{Available: true}
	g := newGateway(t, p, fg)

	got, err := g.IsTrackingAvailable(t.Context(), set)
	if err != nil {
		t.Fatalf("IsTrackingAvailable() unexpected error: %v", err)
	}
	if !got {
		t.Errorf("IsTrackingAvailable() = false, want true")
	}
	if g.Authorized() {
		t.Errorf("IsTrackingAvailable() flipped the authorization state")
	}
	if fg.Lookups() != 0 {
		t.Errorf("IsTrackingAvailable() looked up a foreground")
	}

	missing, err := g.IsTrackingAvailable(t.Context(), permission.Set{{Kind: permission.KindWeight, Access: permission.Write}})
	if err != nil {
		t.Fatalf("IsTrackingAvailable() unexpected error: %v", err)
	}
	if missing {
		t.Errorf("IsTrackingAvailable() = true for an ungranted set")
	}
}

func TestStatisticRanges(t *testing.T) {
	t.Parallel()

	midnight := time.Date(2026, time.October, 16, 0, 0, 0, 0, est)
	weekAgo := time.Date(2026, time.October, 9, 15, 30, 0, 0, est)

	tests := []struct {
		name string
		call func(ctx context.Context, g *gateway.Gateway) error
		want gatewaytest.Call
	}{
		{
			name: "today total",
			call: func(ctx context.Context, g *gateway.Gateway) error {
				_, err := g.StatisticTodayTotal(ctx, permission.KindSteps)
				return err
			},
			want: gatewaytest.Call{Method: "AggregateTotal", Kind: permission.KindSteps, Start: midnight, End: now},
		},
		{
			name: "week daily",
			call: func(ctx context.Context, g *gateway.Gateway) error {
				_, err := g.StatisticWeekDaily(ctx, permission.KindSteps)
				return err
			},
			want: gatewaytest.Call{Method: "AggregateDaily", Kind: permission.KindSteps, Start: weekAgo, End: now},
		},
		{
			name: "week total",
			call: func(ctx context.Context, g *gateway.Gateway) error {
				_, err := g.StatisticWeekTotal(ctx, permission.KindCalories)
				return err
			},
			want: gatewaytest.Call{Method: "AggregateTotal", Kind: permission.KindCalories, Start: weekAgo, End: now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := gatewaytest.New()
			g := authorizedGateway(t, p)

			if err := tt.call(t.Context(), g); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := p.DataCalls()
			if len(calls) != 1 {
				t.Fatalf("provider data calls = %d, want 1: %+v", len(calls), calls)
			}
			if diff := cmp.Diff(tt.want, calls[0]); diff != "" {
				t.Errorf("provider call mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteWorkoutThenDailyTotals(t *testing.T) {
	t.Parallel()

	p := gatewaytest.New()
	p.Loc = est
	g := authorizedGateway(t, p)
	ctx := t.Context()

	calories := 320.5
	activity := gateway.ActivityRunning
	start := time.Date(2026, time.October, 14, 7, 0, 0, 0, est)
	end := start.Add(45 * time.Minute)

	if err := g.WriteWorkout(ctx, start, end, gateway.WorkoutOptions{
		ActivityType: &activity,
		Calories:     &calories,
	}); err != nil {
		t.Fatalf("WriteWorkout() unexpected error: %v", err)
	}

	from := time.Date(2026, time.October, 13, 0, 0, 0, 0, est)
	to := time.Date(2026, time.October, 16, 0, 0, 0, 0, est)

	got, err := g.QueryDailyTotals(ctx, permission.KindCalories, from, to)
	if err != nil {
		t.Fatalf("QueryDailyTotals() unexpected error: %v", err)
	}

	want := []gateway.DailyTotal{
		{Date: time.Date(2026, time.October, 13, 0, 0, 0, 0, est), Value: 0},
		{Date: time.Date(2026, time.October, 14, 0, 0, 0, 0, est), Value: 320.5},
		{Date: time.Date(2026, time.October, 15, 0, 0, 0, 0, est), Value: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("QueryDailyTotals() mismatch (-want +got):\n%s", diff)
	}

	minutes, err := g.QueryTotal(ctx, permission.KindWorkouts, from, to)
	if err != nil {
		t.Fatalf("QueryTotal() unexpected error: %v", err)
	}
	if minutes != 45 {
		t.Errorf("QueryTotal(workouts) = %v, want 45", minutes)
	}
}

func TestDeleteWorkouts(t *testing.T) {
	t.Parallel()

	p := gatewaytest.New()
	g := authorizedGateway(t, p)
	ctx := t.Context()

	day := time.Date(2026, time.October, 12, 0, 0, 0, 0, est)
	for _, h := range []int{6, 12, 18} {
		start := day.Add(time.Duration(h) * time.Hour)
		if err := g.WriteWorkout(ctx, start, start.Add(time.Hour), gateway.WorkoutOptions{}); err != nil {
			t.Fatalf("WriteWorkout() unexpected error: %v", err)
		}
	}

	deleted, err := g.DeleteWorkouts(ctx, day.Add(11*time.Hour), day.Add(20*time.Hour))
	if err != nil {
		t.Fatalf("DeleteWorkouts() unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteWorkouts() = %d, want 2", deleted)
	}
	if n := len(p.Workouts()); n != 1 {
		t.Errorf("remaining workouts = %d, want 1", n)
	}
}

func TestLatestDataRecord(t *testing.T) {
	t.Parallel()

	p := gatewaytest.New()
	g := authorizedGateway(t, p)
	ctx := t.Context()

	got, err := g.LatestDataRecord(ctx, permission.KindWeight)
	if err != nil {
		t.Fatalf("LatestDataRecord() unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("LatestDataRecord() = %+v, want nil", got)
	}

	older := time.Date(2026, time.October, 1, 8, 0, 0, 0, est)
	newer := time.Date(2026, time.October, 15, 8, 0, 0, 0, est)
	p.AddPoint(gatewaytest.Point{Kind: permission.KindWeight, Start: newer, End: newer, Value: 71.2})
	p.AddPoint(gatewaytest.Point{Kind: permission.KindWeight, Start: older, End: older, Value: 72.9})

	got, err = g.LatestDataRecord(ctx, permission.KindWeight)
	if err != nil {
		t.Fatalf("LatestDataRecord() unexpected error: %v", err)
	}
	want := &gateway.Record{Kind: permission.KindWeight, Start: newer, End: newer, Value: 71.2, Source: "gatewaytest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LatestDataRecord() mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderFailureIsWrapped(t *testing.T) {
	t.Parallel()

	p := gatewaytest.New()
	g := authorizedGateway(t, p)
	cause := errors.New("fitness api: 403 consent revoked")
	p.Err = cause

	_, err := g.QueryTotal(t.Context(), permission.KindSteps, now.Add(-time.Hour), now)

	var perr *gateway.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("QueryTotal() error = %T, want *gateway.ProviderError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("QueryTotal() error does not unwrap to the provider cause")
	}
	if !g.Authorized() {
		t.Errorf("provider failure reset the authorization state")
	}
}
