package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/fitgate/internal/permission"
)

var errNoPermissions = errors.New("no valid permissions given")

type permissionFlags struct {
	read  []string
	write []string
}

func (f *permissionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.read, "read", nil, "kinds to read (steps, calories, distance, heart_rate, weight, height, active_minutes, workouts)")
	cmd.Flags().StringSliceVar(&f.write, "write", nil, "kinds to write")
}

// resolve prints entries that did not resolve and returns the rest.
func (f *permissionFlags) resolve(cmd *cobra.Command, a *app) (permission.Set, error) {
	set, errs := permission.Resolve(f.read, f.write)
	if len(errs) > 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), a.renderer.Errors(errs))
	}
	if len(set) == 0 {
		return nil, errNoPermissions
	}
	return set, nil
}

func authorizeCmd() *cobra.Command {
	var flags permissionFlags

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Grant access to Google Fit data",
		Long:  "Checks the stored grant and runs the browser consent flow only when something is missing.",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			set, err := flags.resolve(cmd, a)
			if err != nil {
				return err
			}
			ok, err := a.gateway.Authorize(ctx, set)
			if err != nil {
				return err
			}
			output(cmd, a.renderer.Status("authorized", ok))
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func availableCmd() *cobra.Command {
	var flags permissionFlags

	cmd := &cobra.Command{
		Use:   "available",
		Short: "Report whether access is already granted, without prompting",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			set, err := flags.resolve(cmd, a)
			if err != nil {
				return err
			}
			ok, err := a.gateway.IsTrackingAvailable(ctx, set)
			if err != nil {
				return err
			}
			output(cmd, a.renderer.Status("available", ok))
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}
