package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func contentIndex(ctx context.Context, app *App, groupID string) (formatter.ContentIndex, string, error) {
	d, err := app.Groups.Get(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	return formatter.NewContentIndex(d.Contents), d.Group.Name, nil
}

func newDaysCmd(app *App) *cobra.Command {
	var slots bool

	cmd := &cobra.Command{
		Use:   "days GROUP",
		Short: "Show the day calendar with cycle positions and capacity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveGroupID(ctx, app, args[0])
			if err != nil {
				return err
			}
			resp, err := app.Plans.Preview(ctx, id, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatDays(resp))
			if slots {
				for _, d := range resp.Days {
					if len(d.Slots) == 0 {
						continue
					}
					fmt.Fprintf(out, "\n%s\n%s", formatter.Bold(d.Date+" "+d.Weekday), formatter.FormatDaySlots(d))
				}
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatSummary(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&slots, "slots", false, "Also list each day's labelled slots")

	return cmd
}

func newPreviewCmd(app *App) *cobra.Command {
	var policy policyFlag

	cmd := &cobra.Command{
		Use:   "preview GROUP...",
		Short: "Compute a plan without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := make([]string, len(args))
			var err error
			for i, a := range args {
				if ids[i], err = resolveGroupID(ctx, app, a); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(ids) == 1 {
				resp, err := app.Plans.Preview(ctx, ids[0], policy.policy)
				if err != nil {
					return err
				}
				idx, name, err := contentIndex(ctx, app, ids[0])
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatPlan(name, resp, idx))
				return nil
			}

			resps, err := app.Plans.PreviewBatch(ctx, ids, policy.policy)
			if err != nil {
				return err
			}
			for i, resp := range resps {
				idx, name, err := contentIndex(ctx, app, ids[i])
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatPlan(name, resp, idx))
			}
			return nil
		},
	}

	cmd.Flags().Var(&policy, "policy", "Shortfall policy override (report|carry_over|abort)")

	return cmd
}

func newGenerateCmd(app *App) *cobra.Command {
	var policy policyFlag

	cmd := &cobra.Command{
		Use:   "generate GROUP",
		Short: "Compute a plan and save it as plan rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveGroupID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Plans.Commit(ctx, id, policy.policy)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCommit(res))
			return nil
		},
	}

	cmd.Flags().Var(&policy, "policy", "Shortfall policy override (report|carry_over|abort)")

	return cmd
}

func newPlansCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "plans GROUP",
		Short: "List saved plan rows with progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := validateDateFlag("from", from); err != nil {
				return err
			}
			if err := validateDateFlag("to", to); err != nil {
				return err
			}
			id, err := resolveGroupID(ctx, app, args[0])
			if err != nil {
				return err
			}
			rows, err := app.Plans.ListRows(ctx, id, from, to)
			if err != nil {
				return err
			}
			idx, _, err := contentIndex(ctx, app, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := formatter.FormatRows(rows, idx)
			fmt.Fprint(out, table)
			if !strings.HasSuffix(table, "\n") {
				fmt.Fprintln(out)
			}
			if progress := formatter.FormatRowProgress(rows, idx); progress != "" {
				fmt.Fprintf(out, "\n%s\n%s", formatter.Header("Progress"), progress)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD)")

	return cmd
}
