package gateway

import (
	"fmt"
	"time"
)

type ActivityType string

const (
	ActivityRunning          ActivityType = "running"
	ActivityWalking          ActivityType = "walking"
	ActivityBiking           ActivityType = "biking"
	ActivitySwimming         ActivityType = "swimming"
	ActivityHiking           ActivityType = "hiking"
	ActivityStrengthTraining ActivityType = "strength_training"
	ActivityYoga             ActivityType = "yoga"
	ActivityElliptical       ActivityType = "elliptical"
	ActivityRowing           ActivityType = "rowing"
	ActivityAerobics         ActivityType = "aerobics"
	ActivityOther            ActivityType = "other"
)

var activityTypes = []ActivityType{
	ActivityRunning,
	ActivityWalking,
	ActivityBiking,
	ActivitySwimming,
	ActivityHiking,
	ActivityStrengthTraining,
	ActivityYoga,
	ActivityElliptical,
	ActivityRowing,
	ActivityAerobics,
	ActivityOther,
}

func ActivityTypes() []ActivityType {
	out := make([]ActivityType, len(activityTypes))
	copy(out, activityTypes)
	return out
}

func ParseActivityType(s string) (ActivityType, error) {
	for _, a := range activityTypes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

// WorkoutOptions is a sparse bag of workout attributes. A nil field was not
// provided, which is not the same as zero.
type WorkoutOptions struct {
	Name         *string
	Description  *string
	ActivityType *ActivityType
	Calories     *float64 // kcal
	Distance     *float64 // meters
	Steps        *int64
}

type Workout struct {
	Start   time.Time
	End     time.Time
	Options WorkoutOptions
}

// Activity returns the activity type, defaulting to ActivityOther.
func (w Workout) Activity() ActivityType {
	if w.Options.ActivityType == nil {
		return ActivityOther
	}
	return *w.Options.ActivityType
}

// Overlaps reports whether w intersects [start, end].
func (w Workout) Overlaps(start, end time.Time) bool {
	return !w.Start.After(end) && !w.End.Before(start)
}
