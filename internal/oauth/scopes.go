package oauth

import (
	"slices"

	"github.com/garrettladley/fitgate/internal/permission"
)

const scopePrefix = "https://www.googleapis.com/auth/fitness."

type scopeGroup string

const (
	groupActivity  scopeGroup = "activity"
	groupLocation  scopeGroup = "location"
	groupHeartRate scopeGroup = "heart_rate"
	groupBody      scopeGroup = "body"
)

var kindGroups = map[permission.Kind]scopeGroup{
	permission.KindSteps:         groupActivity,
	permission.KindCalories:      groupActivity,
	permission.KindActiveMinutes: groupActivity,
	permission.KindWorkouts:      groupActivity,
	permission.KindDistance:      groupLocation,
	permission.KindHeartRate:     groupHeartRate,
	permission.KindWeight:        groupBody,
	permission.KindHeight:        groupBody,
}

// Scope returns the Google Fit scope guarding p.
func Scope(p permission.Permission) string {
	return scopePrefix + string(kindGroups[p.Kind]) + "." + string(p.Access)
}

// Scopes returns the sorted, de-duplicated scopes needed by set.
func Scopes(set permission.Set) []string {
	scopes := make([]string, 0, len(set))
	for _, p := range set {
		scopes = append(scopes, Scope(p))
	}
	slices.Sort(scopes)
	return slices.Compact(scopes)
}

// Union merges scope lists, sorted and de-duplicated.
func Union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}
