package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/brandportal/growthhub/internal/application"
	"github.com/brandportal/growthhub/internal/assetstore"
	"github.com/brandportal/growthhub/internal/calendar"
	"github.com/brandportal/growthhub/internal/config"
	httptransport "github.com/brandportal/growthhub/internal/http"
	"github.com/brandportal/growthhub/internal/logging"
	"github.com/brandportal/growthhub/internal/persistence"
	"github.com/brandportal/growthhub/internal/persistence/memdb"
	"github.com/brandportal/growthhub/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "growthhub",
		Short:         "Brand asset store and content calendar service",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), stderr)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Destroy every record in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd.Context(), stdout, stderr)
		},
	})

	var year, month int
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month grid with ISO week numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendar(stdout, year, month)
		},
	}
	calendarCmd.Flags().IntVar(&year, "year", 0, "Year to print (defaults to the current year)")
	calendarCmd.Flags().IntVar(&month, "month", 0, "Month to print, 1-12 (defaults to the current month)")
	root.AddCommand(calendarCmd)

	return root
}

// loadRuntime reads the configuration and builds the logger it describes.
func loadRuntime(stderr io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load configuration: %w", err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(stderr, level, cfg.LogFormat), nil
}

// newOpener maps the configured path onto a durable backend.
func newOpener(cfg config.Config) persistence.Opener {
	if cfg.DBPath == sqlite.MemoryPath {
		return memdb.New()
	}
	return sqlite.NewBackend(sqlite.DefaultConfig(cfg.DBPath))
}

func newStore(cfg config.Config, logger *slog.Logger) *assetstore.Store {
	return assetstore.New(newOpener(cfg), assetstore.Options{
		ConnectTimeout:   cfg.ConnectTimeout,
		OperationTimeout: cfg.OperationTimeout,
		Logger:           logger,
	})
}

func runServe(ctx context.Context, stderr io.Writer) error {
	cfg, logger, err := loadRuntime(stderr)
	if err != nil {
		return err
	}

	store := newStore(cfg, logger)
	// Connect eagerly so a missing backend is reported at startup rather than on the first request.
	store.GetLastSession(ctx)
	if store.IsUsingFallbackMode() {
		logger.Warn("durable storage unavailable at startup; data will be lost when the process exits", "db_path", cfg.DBPath)
	}

	planner := application.NewPlannerServiceWithLogger(store, uuid.NewString, time.Now, application.PlannerConfig{
		Location: cfg.Location,
		Horizon:  cfg.ScheduleHorizon,
	}, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Assets:     httptransport.NewAssetHandler(store, logger),
		State:      httptransport.NewStateHandler(store, logger),
		Session:    httptransport.NewSessionHandler(store, logger),
		Calendar:   httptransport.NewCalendarHandler(planner, logger),
		Admin:      httptransport.NewAdminHandler(store, logger),
		Metrics:    promhttp.Handler(),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("growthhub API listening", "addr", server.Addr, "store_mode", store.Mode().String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func runReset(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, logger, err := loadRuntime(stderr)
	if err != nil {
		return err
	}

	store := newStore(cfg, logger)
	store.HardReset(ctx)
	fmt.Fprintf(stdout, "store reset: %s\n", cfg.DBPath)
	return nil
}

func runCalendar(stdout io.Writer, year, month int) error {
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}

	grid := calendar.DaysInMonth(year, time.Month(month), time.Local)
	return renderMonth(stdout, year, time.Month(month), grid)
}

// renderMonth writes the grid as text, one week per line prefixed with its
// ISO week number. Days outside the month are shown in parentheses.
func renderMonth(w io.Writer, year int, month time.Month, grid calendar.MonthGrid) error {
	if _, err := fmt.Fprintf(w, "%s %d\nWk   Mo  Tu  We  Th  Fr  Sa  Su\n", month, year); err != nil {
		return err
	}
	numbers := grid.WeekNumbers()
	for i, week := range grid.Weeks() {
		line := fmt.Sprintf("%2d ", numbers[i])
		for _, day := range week {
			if day.IsCurrentMonth {
				line += fmt.Sprintf(" %2d ", day.Date.Day())
			} else {
				line += fmt.Sprintf("(%2d)", day.Date.Day())
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
