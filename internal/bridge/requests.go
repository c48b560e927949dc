package bridge

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/garrettladley/fitgate/internal/gateway"
)

// permissionsRequest carries identifiers verbatim. A JSON null entry is
// kept as "" so it is reported by index like any unknown identifier.
type permissionsRequest struct {
	ReadPermissions  []*string `json:"readPermissions"`
	WritePermissions []*string `json:"writePermissions"`
}

func (r permissionsRequest) Validate() error {
	return nil
}

func (r permissionsRequest) identifiers() (read []string, write []string) {
	return flatten(r.ReadPermissions), flatten(r.WritePermissions)
}

func flatten(ids []*string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if id != nil {
			out[i] = *id
		}
	}
	return out
}

type queryRequest struct {
	DataType  string `json:"dataType"`
	StartDate *int64 `json:"startDate"`
	EndDate   *int64 `json:"endDate"`
}

func (r queryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DataType, validation.Required),
		validation.Field(&r.StartDate, validation.NotNil),
		validation.Field(&r.EndDate, validation.NotNil, validation.By(notBefore(r.StartDate, "startDate"))),
	)
}

func (r queryRequest) window() (time.Time, time.Time) {
	return time.UnixMilli(*r.StartDate), time.UnixMilli(*r.EndDate)
}

type workoutOptions struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	ActivityType *string  `json:"activityType"`
	Calories     *float64 `json:"calories"`
	Distance     *float64 `json:"distance"`
	Steps        *int64   `json:"steps"`
}

func (o workoutOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Name, validation.NilOrNotEmpty, validation.Length(0, 100)),
		validation.Field(&o.ActivityType, validation.By(knownActivity)),
		validation.Field(&o.Calories, validation.Min(0.0)),
		validation.Field(&o.Distance, validation.Min(0.0)),
		validation.Field(&o.Steps, validation.Min(int64(0))),
	)
}

// toGateway assumes Validate passed.
func (o workoutOptions) toGateway() gateway.WorkoutOptions {
	opts := gateway.WorkoutOptions{
		Name:        o.Name,
		Description: o.Description,
		Calories:    o.Calories,
		Distance:    o.Distance,
		Steps:       o.Steps,
	}
	if o.ActivityType != nil {
		activity := gateway.ActivityType(*o.ActivityType)
		opts.ActivityType = &activity
	}
	return opts
}

type writeWorkoutRequest struct {
	StartTime *int64         `json:"startTime"`
	EndTime   *int64         `json:"endTime"`
	Options   workoutOptions `json:"options"`
}

func (r writeWorkoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StartTime, validation.NotNil),
		validation.Field(&r.EndTime, validation.NotNil, validation.By(after(r.StartTime, "startTime"))),
		validation.Field(&r.Options),
	)
}

type deleteWorkoutsRequest struct {
	StartTime *int64 `json:"startTime"`
	EndTime   *int64 `json:"endTime"`
}

func (r deleteWorkoutsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StartTime, validation.NotNil),
		validation.Field(&r.EndTime, validation.NotNil, validation.By(notBefore(r.StartTime, "startTime"))),
	)
}

func notBefore(start *int64, field string) validation.RuleFunc {
	return func(value any) error {
		end, _ := value.(*int64)
		if start == nil || end == nil {
			return nil
		}
		if *end < *start {
			return errors.New("must not be before " + field)
		}
		return nil
	}
}

func after(start *int64, field string) validation.RuleFunc {
	return func(value any) error {
		end, _ := value.(*int64)
		if start == nil || end == nil {
			return nil
		}
		if *end <= *start {
			return errors.New("must be after " + field)
		}
		return nil
	}
}

func knownActivity(value any) error {
	s, _ := value.(*string)
	if s == nil {
		return nil
	}
	_, err := gateway.ParseActivityType(*s)
	return err
}
