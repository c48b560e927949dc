package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

type rangeFlags struct {
	start string
	end   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "range start, RFC 3339 or "+dateLayout)
	cmd.Flags().StringVar(&f.end, "end", "", "range end, RFC 3339 or "+dateLayout)
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (f *rangeFlags) parse(loc *time.Location) (time.Time, time.Time, error) {
	return parseRange(f.start, f.end, loc)
}

func totalCmd() *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "total <kind>",
		Short: "Sum or average a kind over a range",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			kind, err := parseKindArg(args)
			if err != nil {
				return err
			}
			start, end, err := flags.parse(a.loc)
			if err != nil {
				return err
			}
			if err := a.authorizeRead(ctx, kind); err != nil {
				return err
			}
			total, err := a.gateway.QueryTotal(ctx, kind, start, end)
			if err != nil {
				return err
			}
			output(cmd, a.renderer.Total(kind, "total", total))
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func dailyCmd() *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "daily <kind>",
		Short: "Chart per-day totals of a kind over a range",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			kind, err := parseKindArg(args)
			if err != nil {
				return err
			}
			start, end, err := flags.parse(a.loc)
			if err != nil {
				return err
			}
			if err := a.authorizeRead(ctx, kind); err != nil {
				return err
			}
			totals, err := a.gateway.QueryDailyTotals(ctx, kind, start, end)
			if err != nil {
				return err
			}
			output(cmd, a.renderer.Daily(kind, totals))
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func weekCmd() *cobra.Command {
	var total bool

	cmd := &cobra.Command{
		Use:   "week <kind>",
		Short: "Chart the last seven days of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			kind, err := parseKindArg(args)
			if err != nil {
				return err
			}
			if err := a.authorizeRead(ctx, kind); err != nil {
				return err
			}
			if total {
				v, err := a.gateway.StatisticWeekTotal(ctx, kind)
				if err != nil {
					return err
				}
				output(cmd, a.renderer.Total(kind, "week", v))
				return nil
			}
			totals, err := a.gateway.StatisticWeekDaily(ctx, kind)
			if err != nil {
				return err
			}
			output(cmd, a.renderer.Daily(kind, totals))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&total, "total", false, "print one total instead of a daily chart")
	return cmd
}

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today <kind>",
		Short: "Total of a kind since local midnight",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			kind, err := parseKindArg(args)
			if err != nil {
				return err
			}
			if err := a.authorizeRead(ctx, kind); err != nil {
				return err
			}
			v, err := a.gateway.StatisticTodayTotal(ctx, kind)
			if err != nil {
				return err
			}
			output(cmd, a.renderer.Total(kind, "today", v))
			return nil
		}),
	}
}

func latestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <kind>",
		Short: "Show the most recent record of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			kind, err := parseKindArg(args)
			if err != nil {
				return err
			}
			if err := a.authorizeRead(ctx, kind); err != nil {
				return err
			}
			rec, err := a.gateway.LatestDataRecord(ctx, kind)
			if err != nil {
				return err
			}
			output(cmd, a.renderer.Record(kind, rec))
			return nil
		}),
	}
}
