package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/fitgate/internal/permission"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const dateLayout = time.DateOnly

var errNotAuthorized = errors.New("access was not granted")

// runE builds the app for one command invocation and closes it afterwards.
func runE(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, os.Stderr, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(xslog.WithLogger(ctx, a.logger), cmd, a, args)
	}
}

// authorizeRead makes sure read access to kind is granted, prompting for
// consent when needed.
func (a *app) authorizeRead(ctx context.Context, kind permission.Kind) error {
	return a.authorize(ctx, permission.Set{{Kind: kind, Access: permission.Read}})
}

func (a *app) authorize(ctx context.Context, set permission.Set) error {
	ok, err := a.gateway.Authorize(ctx, set)
	if err != nil {
		return err
	}
	if !ok {
		return errNotAuthorized
	}
	return nil
}

func parseKindArg(args []string) (permission.Kind, error) {
	return permission.ParseKind(args[0])
}

// parseTime accepts RFC 3339 or a bare date, read in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC 3339 or %s)", s, dateLayout)
	}
	return t, nil
}

// parseRange reads --start and --end. A bare --end date covers that whole day.
func parseRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	s, err := parseTime(start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseTime(end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(end) == len(dateLayout) {
		e = e.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is before start %s", end, start)
	}
	return s, e, nil
}

func output(cmd *cobra.Command, s string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
}
