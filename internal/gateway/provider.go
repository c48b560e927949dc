package gateway

import (
	"context"
	"time"

	"github.com/garrettladley/fitgate/internal/permission"
)

// Provider is the external fitness-data service.
type Provider interface {
	// Granted reports whether set is already granted without prompting.
	// It must not mutate any state.
	Granted(ctx context.Context, set permission.Set) (bool, error)

	// RequestConsent runs the provider's consent flow for set, presenting
	// it through fg. Returns nil only once the user has consented.
	RequestConsent(ctx context.Context, set permission.Set, fg Foreground) error

	AggregateTotal(ctx context.Context, kind permission.Kind, start, end time.Time) (float64, error)
	AggregateDaily(ctx context.Context, kind permission.Kind, start, end time.Time) ([]DailyTotal, error)

	// Latest returns the most recent point of kind, or nil if there is none.
	Latest(ctx context.Context, kind permission.Kind) (*Record, error)

	WriteWorkout(ctx context.Context, workout Workout) error

	// DeleteWorkouts deletes every workout overlapping [start, end] and
	// returns how many were deleted.
	DeleteWorkouts(ctx context.Context, start, end time.Time) (int, error)
}

// Foreground is a live surface able to show a consent prompt to the user.
type Foreground interface {
	Present(ctx context.Context, consentURL string) error
}

// ForegroundSource yields the current foreground, if any.
type ForegroundSource interface {
	Current() (Foreground, bool)
}

type DailyTotal struct {
	Date  time.Time
	Value float64
}

type Record struct {
	Kind  permission.Kind
	Start time.Time
	End   time.Time
	Value float64
	// Source is the provider's identifier for the stream the point came from.
	Source string
}
