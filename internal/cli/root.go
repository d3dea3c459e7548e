package cli

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Groups     service.GroupService
	Plans      service.PlanService
	Reschedule service.RescheduleService
	Progress   service.ProgressService
	Imports    service.ImportService

	// IsInteractive reports whether prompts may be shown. nil means never.
	IsInteractive func() bool
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) today() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "studyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Study cycle planner and time allocator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(app),
		newGroupCmd(app),
		newDaysCmd(app),
		newPreviewCmd(app),
		newGenerateCmd(app),
		newPlansCmd(app),
		newProgressCmd(app),
		newRescheduleCmd(app),
		newWizardCmd(app),
	)

	return root
}
