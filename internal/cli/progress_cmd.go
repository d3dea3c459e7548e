package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ROW AMOUNT",
		Short: "Record how many units of a plan row are done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil || amount < 0 {
				return fmt.Errorf("invalid amount %q: expected a non-negative number", args[1])
			}
			row, err := app.Progress.Record(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Row %s: %d/%d %s\n",
				formatter.TruncID(row.ID), row.CompletedAmount, row.Span(), formatter.StatusPill(row.Status))
			return nil
		},
	}
}

func newRescheduleCmd(app *App) *cobra.Command {
	var (
		today        string
		includeToday bool
		contents     []string
		periodStart  string
		periodEnd    string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "reschedule GROUP",
		Short: "Move unfinished past work into the rest of the period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for name, v := range map[string]string{"today": today, "period-start": periodStart, "period-end": periodEnd} {
				if err := validateDateFlag(name, v); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("period-start") != cmd.Flags().Changed("period-end") {
				return fmt.Errorf("--period-start and --period-end must be given together")
			}

			id, err := resolveGroupID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if today == "" {
				today = domain.FormatDate(app.today())
			}

			req := contract.NewRescheduleRequest(id, today)
			req.IncludeToday = includeToday
			req.ContentIDs = contents
			req.DryRun = dryRun
			if periodStart != "" {
				req.PeriodStart = &periodStart
				req.PeriodEnd = &periodEnd
			}

			res, err := app.Reschedule.Reschedule(ctx, req)
			if err != nil {
				return err
			}
			idx, _, err := contentIndex(ctx, app, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReschedule(res, idx, dryRun))
			return nil
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "Reference date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&includeToday, "include-today", false, "Treat today's rows as past and replan from tomorrow")
	cmd.Flags().StringSliceVar(&contents, "content", nil, "Only reschedule these content IDs")
	cmd.Flags().StringVar(&periodStart, "period-start", "", "New period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&periodEnd, "period-end", "", "New period end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving")

	return cmd
}
