package googlefit

import (
	"time"

	"github.com/garrettladley/fitgate/internal/client/googlefit"
	"github.com/garrettladley/fitgate/internal/permission"
)

const (
	dataTypeSteps           = "com.google.step_count.delta"
	dataTypeCalories        = "com.google.calories.expended"
	dataTypeDistance        = "com.google.distance.delta"
	dataTypeHeartRate       = "com.google.heart_rate.bpm"
	dataTypeWeight          = "com.google.weight"
	dataTypeHeight          = "com.google.height"
	dataTypeActiveMinutes   = "com.google.active_minutes"
	dataTypeActivitySegment = "com.google.activity.segment"
)

type reduction int

const (
	reduceSum reduction = iota
	// reduceAverage reads the avg field of a summary point: [avg, max, min].
	reduceAverage
	// reduceDuration sums activity summary durations, in minutes.
	reduceDuration
)

// kindSpec maps a Kind onto the Google Fit stream that backs it.
type kindSpec struct {
	dataType string
	// source is the merged stream Google keeps across all apps.
	source string
	reduce reduction
	// field is the value a written point carries, used when fitgate owns the
	// stream.
	field googlefit.DataTypeField
}

var kindSpecs = map[permission.Kind]kindSpec{
	permission.KindSteps: {
		dataType: dataTypeSteps,
		source:   "derived:com.google.step_count.delta:com.google.android.gms:estimated_steps",
		reduce:   reduceSum,
		field:    googlefit.DataTypeField{Name: "steps", Format: googlefit.FormatInteger},
	},
	permission.KindCalories: {
		dataType: dataTypeCalories,
		source:   "derived:com.google.calories.expended:com.google.android.gms:merge_calories_expended",
		reduce:   reduceSum,
		field:    googlefit.DataTypeField{Name: "calories", Format: googlefit.FormatFloatPoint},
	},
	permission.KindDistance: {
		dataType: dataTypeDistance,
		source:   "derived:com.google.distance.delta:com.google.android.gms:merge_distance_delta",
		reduce:   reduceSum,
		field:    googlefit.DataTypeField{Name: "distance", Format: googlefit.FormatFloatPoint},
	},
	permission.KindHeartRate: {
		dataType: dataTypeHeartRate,
		source:   "derived:com.google.heart_rate.bpm:com.google.android.gms:merge_heart_rate_bpm",
		reduce:   reduceAverage,
	},
	permission.KindWeight: {
		dataType: dataTypeWeight,
		source:   "derived:com.google.weight:com.google.android.gms:merge_weight",
		reduce:   reduceAverage,
	},
	permission.KindHeight: {
		dataType: dataTypeHeight,
		source:   "derived:com.google.height:com.google.android.gms:merge_height",
		reduce:   reduceAverage,
	},
	permission.KindActiveMinutes: {
		dataType: dataTypeActiveMinutes,
		source:   "derived:com.google.active_minutes:com.google.android.gms:merge_active_minutes",
		reduce:   reduceSum,
	},
	permission.KindWorkouts: {
		dataType: dataTypeActivitySegment,
		source:   "derived:com.google.activity.segment:com.google.android.gms:merge_activity_segments",
		reduce:   reduceDuration,
		field:    googlefit.DataTypeField{Name: "activity", Format: googlefit.FormatInteger},
	},
}

func specFor(kind permission.Kind) (kindSpec, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return kindSpec{}, permission.ErrUnknownKind
	}
	return spec, nil
}

// Aggregate summary indexes.
const (
	summaryAvg      = 0
	summaryDuration = 1 // activity.summary: [activity, duration ms, segments]
	summaryActivity = 0
)

// reduceBucket folds every point of one aggregate bucket into a value.
// Average kinds weight each summary point equally.
func (s kindSpec) reduceBucket(bucket googlefit.AggregateBucket) float64 {
	var (
		total float64
		n     int
	)
	for _, ds := range bucket.Dataset {
		for _, pt := range ds.Point {
			switch s.reduce {
			case reduceSum:
				total += valueAt(pt, 0)
			case reduceAverage:
				total += valueAt(pt, summaryAvg)
				n++
			case reduceDuration:
				if isWorkout(int(valueAt(pt, summaryActivity))) {
					total += time.Duration(valueAt(pt, summaryDuration) * float64(time.Millisecond)).Minutes()
				}
			}
		}
	}
	if s.reduce == reduceAverage && n > 0 {
		return total / float64(n)
	}
	return total
}

// pointValue reads a raw point of the stream, as returned by a dataset read.
func (s kindSpec) pointValue(pt googlefit.DataPoint) float64 {
	if s.reduce == reduceDuration {
		return pt.End().Sub(pt.Start()).Minutes()
	}
	return valueAt(pt, 0)
}

func valueAt(pt googlefit.DataPoint, i int) float64 {
	if i >= len(pt.Value) {
		return 0
	}
	v, _ := pt.Value[i].Float()
	return v
}
