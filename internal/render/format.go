// Package render formats gateway results for the terminal.
package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/garrettladley/fitgate/internal/permission"
)

// FormatValue renders v in the unit a person expects for kind. Distance is
// stored in meters and shown in kilometers.
func FormatValue(kind permission.Kind, v float64) string {
	switch kind {
	case permission.KindSteps:
		return groupThousands(int64(math.Round(v))) + " steps"
	case permission.KindCalories:
		return groupThousands(int64(math.Round(v))) + " kcal"
	case permission.KindDistance:
		return strconv.FormatFloat(v/1000, 'f', 2, 64) + " km"
	case permission.KindHeartRate:
		return strconv.FormatFloat(v, 'f', 0, 64) + " bpm"
	case permission.KindWeight:
		return strconv.FormatFloat(v, 'f', 1, 64) + " kg"
	case permission.KindHeight:
		return strconv.FormatFloat(v, 'f', 2, 64) + " m"
	case permission.KindActiveMinutes, permission.KindWorkouts:
		return strconv.FormatFloat(v, 'f', 0, 64) + " min"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
