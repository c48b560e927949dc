package googlefit

import "github.com/garrettladley/fitgate/internal/gateway"

// Google Fit activity codes.
const (
	activityInVehicle        = 0
	activityBiking           = 1
	activityOnFoot           = 2
	activityStill            = 3
	activityUnknown          = 4
	activityTilting          = 5
	activityWalking          = 7
	activityRunning          = 8
	activityAerobics         = 9
	activityElliptical       = 25
	activityHiking           = 35
	activitySleep            = 72
	activityStrengthTraining = 80
	activitySwimming         = 82
	activityYoga             = 100
	activityRowing           = 103
	activityOther            = 108
	activitySleepLight       = 109
	activitySleepDeep        = 110
	activitySleepREM         = 111
	activityAwake            = 112
)

var activityCodes = map[gateway.ActivityType]int{
	gateway.ActivityRunning:          activityRunning,
	gateway.ActivityWalking:          activityWalking,
	gateway.ActivityBiking:           activityBiking,
	gateway.ActivitySwimming:         activitySwimming,
	gateway.ActivityHiking:           activityHiking,
	gateway.ActivityStrengthTraining: activityStrengthTraining,
	gateway.ActivityYoga:             activityYoga,
	gateway.ActivityElliptical:       activityElliptical,
	gateway.ActivityRowing:           activityRowing,
	gateway.ActivityAerobics:         activityAerobics,
	gateway.ActivityOther:            activityOther,
}

func activityCode(a gateway.ActivityType) int {
	if code, ok := activityCodes[a]; ok {
		return code
	}
	return activityOther
}

// isWorkout excludes the passive segments Google infers on its own.
func isWorkout(code int) bool {
	switch code {
	case activityInVehicle, activityOnFoot, activityStill, activityUnknown, activityTilting,
		activitySleep, activitySleepLight, activitySleepDeep, activitySleepREM, activityAwake:
		return false
	default:
		return true
	}
}
