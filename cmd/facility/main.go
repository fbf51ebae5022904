package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/clock"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maintworks/facility-api/internal/config"
	"github.com/maintworks/facility-api/internal/generation"
	"github.com/maintworks/facility-api/internal/notification"
	"github.com/maintworks/facility-api/internal/repository"
	"github.com/maintworks/facility-api/internal/sla"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	cfg    *config.Config
	db     *sql.DB
	logger zerolog.Logger

	schedules repository.ScheduleRepository
	engine    *generation.Engine
	driver    *generation.Driver
	slaEngine *sla.Engine
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	app := &application{logger: logger}
	if err := newRootCmd(app).Execute(); err != nil {
		logger.Fatal().Err(err).Msg("Command failed")
	}
}

func newRootCmd(app *application) *cobra.Command {
	root := &cobra.Command{
		Use:          "facility",
		Short:        "Preventive-maintenance work order generation and SLA tracking",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newMigrateCmd(app),
		newGenerateCmd(app),
		newExtendCmd(app),
		newCheckSLACmd(app),
		newSchedulerCmd(app),
	)
	return root
}

func (app *application) setup() error {
	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	app.cfg = cfg
	app.db = db

	workOrderRepo := repository.NewWorkOrderRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	slaRepo := repository.NewSLARepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	clk := clock.New()
	app.schedules = scheduleRepo
	app.engine = generation.NewEngine(workOrderRepo, assetRepo, clk, app.logger,
		cfg.Generation.HorizonMonths, cfg.Generation.MaxOccurrences)
	app.driver = generation.NewDriver(app.engine, scheduleRepo, workOrderRepo, clk, app.logger,
		cfg.Generation.ExtendThresholdMonths)

	dispatcher := notification.NewService(notificationRepo, app.logger)
	app.slaEngine = sla.NewEngine(slaRepo, dispatcher, clk, app.logger)
	return nil
}

func (app *application) close() {
	if app.db != nil {
		app.db.Close()
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM. Batch runs
// check it between units, so the current schedule or definition finishes
// before the process stops.
func signalContext(logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Info().Msgf("Received signal: %s. Finishing current unit...", sig)
		cancel()
	}()
	return ctx, cancel
}
