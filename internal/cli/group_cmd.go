package cli

import (
	"fmt"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a plan group from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImport(res))
			return nil
		},
	}
}

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage plan groups",
	}

	cmd.AddCommand(
		newGroupListCmd(app),
		newGroupShowCmd(app),
		newGroupDeleteCmd(app),
	)

	return cmd
}

func newGroupListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plan groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app.Groups.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plan groups found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGroupList(groups))
			return nil
		},
	}
}

func newGroupShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show GROUP",
		Short: "Show a plan group with its calendar and contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveGroupID(ctx, app, args[0])
			if err != nil {
				return err
			}
			d, err := app.Groups.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGroupDetail(formatter.GroupDetailData{
				Group:      d.Group,
				Blocks:     d.Blocks,
				Exclusions: d.Exclusions,
				Academies:  d.Academies,
				Contents:   d.Contents,
			}))
			return nil
		},
	}
}

func newGroupDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete GROUP",
		Short: "Delete a plan group and everything stored under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveGroupID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				confirmed := false
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title("Delete this group and all of its plan rows?").
						Value(&confirmed),
				)).WithTheme(studyplanHuhTheme()).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
					return nil
				}
			}

			if err := app.Groups.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
