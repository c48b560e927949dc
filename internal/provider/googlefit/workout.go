package googlefit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/fitgate/internal/client/googlefit"
	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/permission"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const (
	deleteConcurrency = 4
	streamName        = "fitgate"
)

type workoutPoint struct {
	kind  permission.Kind
	value googlefit.Value
}

func newSessionID() string {
	return "fitgate-" + uuid.NewString()
}

// workoutKinds are the data types a written workout may leave points in.
var workoutKinds = []permission.Kind{
	permission.KindWorkouts,
	permission.KindCalories,
	permission.KindDistance,
	permission.KindSteps,
}

// WriteWorkout stores the activity segment and whichever of calories,
// distance and steps were given, each into a fitgate-owned stream, then the
// session. Points already written are removed when a later write fails.
func (p *Provider) WriteWorkout(ctx context.Context, w gateway.Workout) error {
	activity := activityCode(w.Activity())

	points := []workoutPoint{{permission.KindWorkouts, googlefit.IntValue(int64(activity))}}
	if w.Options.Calories != nil {
		points = append(points, workoutPoint{permission.KindCalories, googlefit.FloatValue(*w.Options.Calories)})
	}
	if w.Options.Distance != nil {
		points = append(points, workoutPoint{permission.KindDistance, googlefit.FloatValue(*w.Options.Distance)})
	}
	if w.Options.Steps != nil {
		points = append(points, workoutPoint{permission.KindSteps, googlefit.IntValue(*w.Options.Steps)})
	}

	written := make([]string, 0, len(points))
	for _, pt := range points {
		streamID, err := p.writePoint(ctx, pt.kind, w.Start, w.End, pt.value)
		if err != nil {
			p.rollback(ctx, written, w.Start, w.End)
			return err
		}
		written = append(written, streamID)
	}

	session := &googlefit.Session{
		ID:              p.newID(),
		Name:            workoutName(w),
		StartTimeMillis: w.Start.UnixMilli(),
		EndTimeMillis:   w.End.UnixMilli(),
		ActivityType:    activity,
		Application:     p.application(),
	}
	if w.Options.Description != nil {
		session.Description = *w.Options.Description
	}

	if _, err := p.client.Session.Upsert(ctx, session); err != nil {
		p.rollback(ctx, written, w.Start, w.End)
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

func (p *Provider) writePoint(ctx context.Context, kind permission.Kind, start, end time.Time, value googlefit.Value) (string, error) {
	spec, err := specFor(kind)
	if err != nil {
		return "", err
	}

	streamID, err := p.stream(ctx, spec)
	if err != nil {
		return "", err
	}

	dataset := &googlefit.Dataset{
		DataSourceID:   streamID,
		MinStartTimeNs: start.UnixNano(),
		MaxEndTimeNs:   end.UnixNano(),
		Point: []googlefit.DataPoint{{
			StartTimeNanos: start.UnixNano(),
			EndTimeNanos:   end.UnixNano(),
			DataTypeName:   spec.dataType,
			Value:          []googlefit.Value{value},
		}},
	}
	if err := p.client.Dataset.Patch(ctx, dataset); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return streamID, nil
}

// rollback removes the points written to streams over [start, end]. It
// ignores ctx cancellation and only logs failures.
func (p *Provider) rollback(ctx context.Context, streams []string, start, end time.Time) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range streams {
		if err := p.client.Dataset.Delete(ctx, id, start.UnixNano(), end.UnixNano()); err != nil {
			p.logger.WarnContext(ctx, "failed to remove partially written workout", xslog.Stream(id), xslog.Error(err))
		}
	}
}

// stream returns the fitgate-owned raw data source for spec's data type,
// creating it on first use. Google answers 409 when it already exists.
func (p *Provider) stream(ctx context.Context, spec kindSpec) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.streams[spec.dataType]; ok {
		return id, nil
	}

	source := &googlefit.DataSource{
		DataStreamName: streamName,
		Type:           googlefit.DataSourceTypeRaw,
		Application:    p.application(),
		DataType: googlefit.DataType{
			Name:  spec.dataType,
			Field: []googlefit.DataTypeField{spec.field},
		},
	}

	created, err := p.client.DataSource.Create(ctx, source)
	switch {
	case err == nil:
		p.streams[spec.dataType] = created.DataStreamID
		p.logStream(ctx, spec.dataType, created.DataStreamID)
		return created.DataStreamID, nil
	case !googlefit.IsStatus(err, http.StatusConflict):
		return "", fmt.Errorf("failed to create data source for %s: %w", spec.dataType, err)
	}

	id, ok, err := p.findStream(ctx, spec)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("data source for %s exists but was not listed", spec.dataType)
	}
	return id, nil
}

// ownedStream is stream without the create. ok is false when fitgate never
// wrote spec's data type.
func (p *Provider) ownedStream(ctx context.Context, spec kindSpec) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.streams[spec.dataType]; ok {
		return id, true, nil
	}
	return p.findStream(ctx, spec)
}

// findStream must be called with p.mu held.
func (p *Provider) findStream(ctx context.Context, spec kindSpec) (string, bool, error) {
	sources, err := p.client.DataSource.List(ctx, spec.dataType)
	if err != nil {
		return "", false, fmt.Errorf("failed to list data sources for %s: %w", spec.dataType, err)
	}
	for _, s := range sources {
		if s.Type == googlefit.DataSourceTypeRaw && s.DataStreamName == streamName && s.Application.Name == p.appName {
			p.streams[spec.dataType] = s.DataStreamID
			p.logStream(ctx, spec.dataType, s.DataStreamID)
			return s.DataStreamID, true, nil
		}
	}
	return "", false, nil
}

// DeleteWorkouts removes every session overlapping [start, end], from any
// app the grant covers, along with the points fitgate wrote for each one.
// Points written by other apps are left alone.
func (p *Provider) DeleteWorkouts(ctx context.Context, start, end time.Time) (int, error) {
	var sessions []googlefit.Session

	params := &googlefit.ListSessionsParams{StartTime: start, EndTime: end}
	for {
		resp, err := p.client.Session.List(ctx, params)
		if err != nil {
			return 0, fmt.Errorf("failed to list sessions: %w", err)
		}
		for _, s := range resp.Session {
			if overlaps(s, start, end) {
				sessions = append(sessions, s)
			}
		}
		if !resp.HasMore() {
			break
		}
		params.PageToken = resp.NextPageToken
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	var streams []string
	for _, kind := range workoutKinds {
		spec, err := specFor(kind)
		if err != nil {
			return 0, err
		}
		id, ok, err := p.ownedStream(ctx, spec)
		if err != nil {
			return 0, err
		}
		if ok {
			streams = append(streams, id)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, s := range sessions {
		g.Go(func() error {
			minNs, maxNs := sessionSpan(s)
			for _, id := range streams {
				if err := p.client.Dataset.Delete(gctx, id, minNs, maxNs); err != nil {
					return fmt.Errorf("failed to delete points of session %s: %w", s.ID, err)
				}
			}
			if err := p.client.Session.Delete(gctx, s.ID); err != nil {
				return fmt.Errorf("failed to delete session %s: %w", s.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	p.logger.DebugContext(ctx, "deleted sessions", xslog.Count(len(sessions)))
	return len(sessions), nil
}

// sessionSpan covers the points written for s, with the end rounded up to
// the last nanosecond of its millisecond.
func sessionSpan(s googlefit.Session) (int64, int64) {
	return s.Start().UnixNano(), s.End().Add(time.Millisecond - 1).UnixNano()
}

func overlaps(s googlefit.Session, start, end time.Time) bool {
	return !s.Start().After(end) && !s.End().Before(start)
}

func workoutName(w gateway.Workout) string {
	if w.Options.Name != nil && *w.Options.Name != "" {
		return *w.Options.Name
	}
	return string(w.Activity())
}
