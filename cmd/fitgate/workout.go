package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/permission"
)

func workoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Write or delete workout sessions",
	}
	cmd.AddCommand(workoutWriteCmd(), workoutDeleteCmd())
	return cmd
}

type workoutFlags struct {
	rangeFlags

	name        string
	description string
	activity    string
	calories    float64
	distance    float64
	steps       int64
}

// options keeps only the flags the user actually set.
func (f *workoutFlags) options(cmd *cobra.Command) (gateway.WorkoutOptions, error) {
	var opts gateway.WorkoutOptions
	changed := cmd.Flags().Changed

	if changed("name") {
		opts.Name = &f.name
	}
	if changed("description") {
		opts.Description = &f.description
	}
	if changed("activity") {
		activity, err := gateway.ParseActivityType(f.activity)
		if err != nil {
			return opts, err
		}
		opts.ActivityType = &activity
	}
	if changed("calories") {
		opts.Calories = &f.calories
	}
	if changed("distance") {
		opts.Distance = &f.distance
	}
	if changed("steps") {
		opts.Steps = &f.steps
	}
	return opts, nil
}

// writeSet is the write access a workout with opts needs.
func writeSet(opts gateway.WorkoutOptions) permission.Set {
	set := permission.Set{{Kind: permission.KindWorkouts, Access: permission.Write}}
	if opts.Calories != nil {
		set = append(set, permission.Permission{Kind: permission.KindCalories, Access: permission.Write})
	}
	if opts.Distance != nil {
		set = append(set, permission.Permission{Kind: permission.KindDistance, Access: permission.Write})
	}
	if opts.Steps != nil {
		set = append(set, permission.Permission{Kind: permission.KindSteps, Access: permission.Write})
	}
	return set
}

func workoutWriteCmd() *cobra.Command {
	var flags workoutFlags

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Record a workout session",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			start, end, err := flags.parse(a.loc)
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if err := a.authorize(ctx, writeSet(opts)); err != nil {
				return err
			}
			if err := a.gateway.WriteWorkout(ctx, start, end, opts); err != nil {
				return err
			}
			output(cmd, a.renderer.Status("written", true))
			return nil
		}),
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.name, "name", "", "session name")
	cmd.Flags().StringVar(&flags.description, "description", "", "session description")
	cmd.Flags().StringVar(&flags.activity, "activity", "", fmt.Sprintf("activity type %v", gateway.ActivityTypes()))
	cmd.Flags().Float64Var(&flags.calories, "calories", 0, "energy burned in kcal")
	cmd.Flags().Float64Var(&flags.distance, "distance", 0, "distance in meters")
	cmd.Flags().Int64Var(&flags.steps, "steps", 0, "step count")
	return cmd
}

func workoutDeleteCmd() *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every workout overlapping a range",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			start, end, err := flags.parse(a.loc)
			if err != nil {
				return err
			}
			if err := a.authorize(ctx, permission.Set{{Kind: permission.KindWorkouts, Access: permission.Write}}); err != nil {
				return err
			}
			deleted, err := a.gateway.DeleteWorkouts(ctx, start, end)
			if err != nil {
				return err
			}
			output(cmd, fmt.Sprintf("deleted %d workout(s)", deleted))
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}
