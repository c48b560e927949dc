// Package gatewaytest provides an in-memory gateway.Provider for tests.
package gatewaytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/permission"
)

// Call records one provider invocation.
type Call struct {
	Method string
	Kind   permission.Kind
	Start  time.Time
	End    time.Time
	Set    permission.Set
}

// Point is a stored sample. Sum kinds add up; the rest average.
type Point struct {
	Kind  permission.Kind
	Start time.Time
	End   time.Time
	Value float64
}

var _ gateway.Provider = (*Provider)(nil)

// Provider is a fake fitness provider backed by memory.
type Provider struct {
	// Loc buckets daily totals by calendar day. Defaults to UTC.
	Loc *time.Location

	// GrantAll makes Granted report true for any set.
	GrantAll bool
	// GrantErr makes Granted fail with GrantErr.
	GrantErr error
	// Deny makes RequestConsent fail with Deny.
	Deny error
	// Err, when set, fails every data call.
	Err error

	mu       sync.Mutex
	granted  map[permission.Permission]bool
	points   []Point
	workouts []gateway.Workout
	calls    []Call
}

func New() *Provider {
	return &Provider{
		Loc:     time.UTC,
		granted: make(map[permission.Permission]bool),
	}
}

func (p *Provider) Grant(set permission.Set) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, perm := range set {
		p.granted[perm] = true
	}
}

func (p *Provider) AddPoint(pt Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.points = append(p.points, pt)
}

func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// DataCalls returns the calls that reached the provider's data APIs,
// excluding Granted and RequestConsent.
func (p *Provider) DataCalls() []Call {
	var out []Call
	for _, c := range p.Calls() {
		if c.Method != "Granted" && c.Method != "RequestConsent" {
			out = append(out, c)
		}
	}
	return out
}

func (p *Provider) Workouts() []gateway.Workout {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]gateway.Workout, len(p.workouts))
	copy(out, p.workouts)
	return out
}

func (p *Provider) record(c Call) {
	p.calls = append(p.calls, c)
}

func (p *Provider) Granted(_ context.Context, set permission.Set) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(Call{Method: "Granted", Set: set})

	if p.GrantErr != nil {
		return false, p.GrantErr
	}
	if p.GrantAll {
		return true, nil
	}
	for _, perm := range set {
		if !p.granted[perm] {
			return false, nil
		}
	}
	return len(set) > 0, nil
}

func (p *Provider) RequestConsent(ctx context.Context, set permission.Set, fg gateway.Foreground) error {
	p.mu.Lock()
	p.record(Call{Method: "RequestConsent", Set: set})
	deny := p.Deny
	p.mu.Unlock()

	if err := fg.Present(ctx, "https://consent.example/"+set.String()); err != nil {
		return err
	}
	if deny != nil {
		return deny
	}

	p.Grant(set)
	return nil
}

func (p *Provider) AggregateTotal(_ context.Context, kind permission.Kind, start, end time.Time) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(Call{Method: "AggregateTotal", Kind: kind, Start: start, End: end})

	if p.Err != nil {
		return 0, p.Err
	}
	return reduce(kind, p.pointsIn(kind, start, end)), nil
}

func (p *Provider) AggregateDaily(_ context.Context, kind permission.Kind, start, end time.Time) ([]gateway.DailyTotal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(Call{Method: "AggregateDaily", Kind: kind, Start: start, End: end})

	if p.Err != nil {
		return nil, p.Err
	}

	var totals []gateway.DailyTotal
	for day := gateway.StartOfDay(start, p.Loc); day.Before(end); day = gateway.AddDays(day, 1) {
		next := gateway.AddDays(day, 1)
		from, to := maxTime(day, start), minTime(next, end)
		totals = append(totals, gateway.DailyTotal{
			Date:  day,
			Value: reduce(kind, p.pointsIn(kind, from, to)),
		})
	}
	return totals, nil
}

func (p *Provider) Latest(_ context.Context, kind permission.Kind) (*gateway.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(Call{Method: "Latest", Kind: kind})

	if p.Err != nil {
		return nil, p.Err
	}

	var latest *Point
	for i := range p.points {
		pt := &p.points[i]
		if pt.Kind != kind {
			continue
		}
		if latest == nil || pt.End.After(latest.End) {
			latest = pt
		}
	}
	if latest == nil {
		return nil, nil
	}
	return &gateway.Record{
		Kind:   latest.Kind,
		Start:  latest.Start,
		End:    latest.End,
		Value:  latest.Value,
		Source: "gatewaytest",
	}, nil
}

func (p *Provider) WriteWorkout(_ context.Context, w gateway.Workout) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(Call{Method: "WriteWorkout", Start: w.Start, End: w.End})

	if p.Err != nil {
		return p.Err
	}

	p.workouts = append(p.workouts, w)
	p.points = append(p.points, Point{
		Kind:  permission.KindWorkouts,
		Start: w.Start,
		End:   w.End,
		Value: w.End.Sub(w.Start).Minutes(),
	})
	if w.Options.Calories != nil {
		p.points = append(p.points, Point{Kind: permission.KindCalories, Start: w.Start, End: w.End, Value: *w.Options.Calories})
	}
	if w.Options.Distance != nil {
		p.points = append(p.points, Point{Kind: permission.KindDistance, Start: w.Start, End: w.End, Value: *w.Options.Distance})
	}
	if w.Options.Steps != nil {
		p.points = append(p.points, Point{Kind: permission.KindSteps, Start: w.Start, End: w.End, Value: float64(*w.Options.Steps)})
	}
	return nil
}

func (p *Provider) DeleteWorkouts(_ context.Context, start, end time.Time) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(Call{Method: "DeleteWorkouts", Start: start, End: end})

	if p.Err != nil {
		return 0, p.Err
	}

	kept := p.workouts[:0]
	deleted := 0
	for _, w := range p.workouts {
		if w.Overlaps(start, end) {
			deleted++
			continue
		}
		kept = append(kept, w)
	}
	p.workouts = kept

	points := p.points[:0]
	for _, pt := range p.points {
		if pt.Kind == permission.KindWorkouts && !pt.Start.After(end) && !pt.End.Before(start) {
			continue
		}
		points = append(points, pt)
	}
	p.points = points

	return deleted, nil
}

// pointsIn returns points of kind whose start falls in [start, end).
func (p *Provider) pointsIn(kind permission.Kind, start, end time.Time) []Point {
	var out []Point
	for _, pt := range p.points {
		if pt.Kind == kind && !pt.Start.Before(start) && pt.Start.Before(end) {
			out = append(out, pt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func reduce(kind permission.Kind, points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, pt := range points {
		sum += pt.Value
	}
	switch kind {
	case permission.KindHeartRate, permission.KindWeight, permission.KindHeight:
		return sum / float64(len(points))
	default:
		return sum
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
