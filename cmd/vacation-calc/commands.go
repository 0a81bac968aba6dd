package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/vacation-calc/internal/planner"
	"github.com/username/vacation-calc/internal/server"
	"github.com/username/vacation-calc/internal/vacation"
	"github.com/username/vacation-calc/pkg/dateutil"
	"go.uber.org/zap"
)

// planFlags are shared by every calculation command
type planFlags struct {
	start        string
	end          string
	days         string
	holidays     string
	holidaysFile string
	jsonOutput   bool
}

func (f *planFlags) bindCommon(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.holidays, "holidays", "", "Holiday dates (YYYY-MM-DD) separated by commas, semicolons or whitespace")
	cmd.Flags().StringVar(&f.holidaysFile, "holidays-file", "", "File with one holiday per line: YYYY-MM-DD [note]")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Print the result as JSON")
}

func durationCmd() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "duration",
		Short: "Count vacation days between start and end, excluding holidays",
		Example: `  vacation-calc duration --start 2024-01-01 --end 2024-01-10 --holidays 2024-01-01,2024-01-07`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, vacation.ModeDuration, flags)
		},
	}

	cmd.Flags().StringVar(&flags.start, "start", "", "First vacation day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.end, "end", "", "Last vacation day (YYYY-MM-DD)")
	flags.bindCommon(cmd)
	return cmd
}

func endCmd() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:     "end",
		Short:   "Find the last vacation day from start and duration",
		Example: `  vacation-calc end --start 2024-01-01 --days 5 --holidays 2024-01-03`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, vacation.ModeEnd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.start, "start", "", "First vacation day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flags.days, "days", "d", "", "Vacation duration in days, holidays excluded")
	flags.bindCommon(cmd)
	return cmd
}

func startCmd() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:     "start",
		Short:   "Find the first vacation day from end and duration",
		Example: `  vacation-calc start --end 2024-01-10 --days 3 --holidays 2024-01-08`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, vacation.ModeStart, flags)
		},
	}

	cmd.Flags().StringVar(&flags.end, "end", "", "Last vacation day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flags.days, "days", "d", "", "Vacation duration in days, holidays excluded")
	flags.bindCommon(cmd)
	return cmd
}

func calcCmd() *cobra.Command {
	var (
		flags planFlags
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run a calculation with the mode given as a flag",
		Long: `Run a calculation with the mode given as a flag.
Inputs that the selected mode computes are ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := vacation.ParseMode(mode)
			if err != nil {
				return err
			}
			return runPlan(cmd, m, flags)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(vacation.ModeDuration), "What to compute: duration, end or start")
	cmd.Flags().StringVar(&flags.start, "start", "", "First vacation day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.end, "end", "", "Last vacation day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flags.days, "days", "d", "", "Vacation duration in days, holidays excluded")
	flags.bindCommon(cmd)
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			p, err := initializePlanner(cfg, "")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting vacation calculator server",
				zap.String("addr", addr),
				zap.String("rest_day", cfg.Rules.GetRestDay().String()),
				zap.String("remote_calendar", cfg.Calendar.Remote))

			return server.New(p, logger).Run(ctx, addr, cfg.Server.GetReadTimeout())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config server.addr)")
	return cmd
}

func runPlan(cmd *cobra.Command, mode vacation.Mode, flags planFlags) error {
	p, err := initializePlanner(cfg, flags.holidaysFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	plan, err := p.Plan(ctx, planner.Request{
		Mode:     mode,
		Start:    flags.start,
		End:      flags.end,
		Duration: flags.days,
		Holidays: flags.holidays,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.jsonOutput {
		return writeJSON(out, plan)
	}
	printPlan(out, plan)
	return nil
}

func writeJSON(w io.Writer, plan *planner.Plan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		*planner.Plan
		Value string `json:"value"`
	}{Plan: plan, Value: plan.Value()})
}

func printPlan(w io.Writer, plan *planner.Plan) {
	switch plan.Mode {
	case vacation.ModeDuration:
		fmt.Fprintf(w, "📅 Vacation duration: %d day(s) (holidays excluded)\n", plan.Duration)
	case vacation.ModeEnd:
		fmt.Fprintf(w, "📅 Vacation end date: %s\n", plan.End)
	case vacation.ModeStart:
		fmt.Fprintf(w, "📅 Vacation start date: %s\n", plan.Start)
	}
	fmt.Fprintf(w, "   %s (%s) → %s (%s)\n",
		plan.Start, dateutil.Weekday(plan.Start),
		plan.End, dateutil.Weekday(plan.End))

	if len(plan.Holidays) > 0 {
		fmt.Fprintf(w, "\n🎉 Holidays skipped: %d\n", len(plan.Holidays))
		for _, day := range plan.Holidays {
			if day.Note != "" {
				fmt.Fprintf(w, "   %s  %s\n", day.Date, day.Note)
			} else {
				fmt.Fprintf(w, "   %s\n", day.Date)
			}
		}
	}

	if plan.Warnings.Any() {
		fmt.Fprintln(w)
		if plan.Warnings.StartIsRestDay {
			fmt.Fprintf(w, "⚠️  Vacation starts on a %s\n", plan.RestDay)
		}
		if plan.Warnings.EndIsRestDay {
			fmt.Fprintf(w, "⚠️  Vacation ends on a %s\n", plan.RestDay)
		}
	}

	if len(plan.CalendarWarnings) > 0 {
		fmt.Fprintln(w, "\n⚠️  Holiday calendar incomplete, some holidays may be missing:")
		for _, warning := range plan.CalendarWarnings {
			fmt.Fprintf(w, "   %s\n", warning)
		}
	}
}
