package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"covid-dashboard/config"
	"covid-dashboard/models"
	"covid-dashboard/services"
	"covid-dashboard/sources"
	"covid-dashboard/storage"
	"covid-dashboard/utils"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

const defaultDays = 14

func Run() ExitCode {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "covid-dashboard",
		Short:        "Regional, per-country and vaccination views of COVID-19 data.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")
	rootCmd.PersistentFlags().Bool("log-scale", false, "scale values for a log axis")
	rootCmd.PersistentFlags().String("export", "", "also write plot-ready tuples to this CSV file")
	rootCmd.PersistentFlags().Int("days", defaultDays, "number of most recent dates to print (0 for all)")

	rootCmd.AddCommand(
		NewGeoCmd().Command(),
		NewRegionalCmd().Command(),
		NewCountryCmd().Command(),
		NewVaccinationCmd().Command(),
	)
	return rootCmd
}

// app is the per-invocation wiring shared by the subcommands.
type app struct {
	logger   *slog.Logger
	cfg      *config.Config
	loader   *sources.Loader
	views    *services.Views
	out      io.Writer
	logScale bool
	days     int

	closers []func() error
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	flags := cmd.Root().PersistentFlags()
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	logScale, err := flags.GetBool("log-scale")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-scale flag: %w", err)
	}
	export, err := flags.GetString("export")
	if err != nil {
		return nil, fmt.Errorf("failed to get export flag: %w", err)
	}
	days, err := flags.GetInt("days")
	if err != nil {
		return nil, fmt.Errorf("failed to get days flag: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if export != "" {
		cfg.ExportPath = export
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := utils.NewLoggerTo(os.Stderr, level)

	a := &app{
		logger:   logger,
		cfg:      cfg,
		views:    services.NewViews(logger),
		out:      cmd.OutOrStdout(),
		logScale: logScale,
		days:     days,
	}

	var geoSrc storage.GeoSource
	if cfg.GeoDSN != "" {
		pg, err := storage.NewPostgresGeoSource(ctx, cfg.GeoDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open geo database: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		geoSrc = pg
	} else {
		geoSrc = storage.NewCSVGeoSource(cfg.GeoCSVPath, cfg.GeoCSVEncoding, logger)
	}

	a.loader = sources.New(cfg, logger, geoSrc)
	a.closers = append(a.closers, func() error {
		a.loader.Close()
		return nil
	})
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// emit prints view and, when an export path is configured, writes it out.
func (a *app) emit(view *services.View) error {
	renderView(a.out, view, a.days)
	if a.cfg.ExportPath == "" {
		return nil
	}

	w, err := storage.NewCSVWriter(a.cfg.ExportPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := exportView(w, view); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	a.logger.Info("exported view", "path", a.cfg.ExportPath, "rows", w.Rows())
	return nil
}

// withApp runs fn with a wired app and a context cancelled on SIGINT or
// SIGTERM. An empty selection renders nothing.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app, snap *models.Snapshot) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	snap, err := a.loader.Load(ctx)
	if err != nil {
		a.logger.Error("failed to load data", "error", err)
		return err
	}

	err = fn(ctx, a, snap)
	if errors.Is(err, models.ErrEmptySelection) {
		a.logger.Info("nothing selected")
		return nil
	}
	return err
}
