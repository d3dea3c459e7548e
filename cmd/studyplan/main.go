package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/studyplan/internal/cli"
	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/importer"
	"github.com/alexanderramin/studyplan/internal/logger"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/scheduler"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Piped output gets plain text.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	groupRepo := repository.NewSQLitePlanGroupRepo(database)
	calendarRepo := repository.NewSQLiteCalendarRepo(database)
	contentRepo := repository.NewSQLiteContentRepo(database)
	rowRepo := repository.NewSQLitePlanRowRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// One metadata cache for the whole process; group deletes invalidate it.
	cache := scheduler.NewMetadataCache()
	planner := scheduler.NewPlanner(scheduler.WithMetadataCache(cache))
	observer := service.NewLogUseCaseObserver(log)
	opts := service.PlanOptions{
		Factors:          cfg.Factors,
		BatchConcurrency: cfg.BatchConcurrency,
	}
	defaults := importer.Defaults{
		StudyDays:       cfg.StudyDays,
		ReviewDays:      cfg.ReviewDays,
		StudentLevel:    cfg.StudentLevel,
		ShortfallPolicy: cfg.ShortfallPolicy,
	}

	app := &cli.App{
		Groups:     service.NewGroupService(groupRepo, calendarRepo, contentRepo, cache),
		Plans:      service.NewPlanService(groupRepo, calendarRepo, contentRepo, rowRepo, uow, planner, opts, observer),
		Reschedule: service.NewRescheduleService(groupRepo, calendarRepo, contentRepo, rowRepo, uow, planner, opts, observer),
		Progress:   service.NewProgressService(uow, observer),
		Imports:    service.NewImportService(uow, defaults, observer),
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	log.Debug("studyplan starting", "db", cfg.DBPath, "level", cfg.StudentLevel, "policy", cfg.ShortfallPolicy)
	return cli.NewRootCmd(app).Execute()
}
