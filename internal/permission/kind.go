package permission

import (
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown permission kind")

// Kind is a fitness data category a caller can ask access to.
type Kind string

var _ fmt.Stringer = (*Kind)(nil)

const (
	KindSteps         Kind = "steps"
	KindCalories      Kind = "calories"
	KindDistance      Kind = "distance"
	KindHeartRate     Kind = "heart_rate"
	KindWeight        Kind = "weight"
	KindHeight        Kind = "height"
	KindActiveMinutes Kind = "active_minutes"
	KindWorkouts      Kind = "workouts"
)

var kinds = []Kind{
	KindSteps,
	KindCalories,
	KindDistance,
	KindHeartRate,
	KindWeight,
	KindHeight,
	KindActiveMinutes,
	KindWorkouts,
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind matches s exactly against the supported kinds.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string {
	return string(k)
}
