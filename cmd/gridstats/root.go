package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgoulah/gridstats/internal/charts"
	"github.com/jgoulah/gridstats/internal/config"
	"github.com/jgoulah/gridstats/internal/database"
	"github.com/jgoulah/gridstats/internal/logging"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	cfgFile  string
	dbPath   string
	queryLog bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gridstats",
	Short: "Summarize and chart interval-level energy usage",
	Long: `GridStats reads half-hourly energy readings from a local SQLite database and
turns them into summaries, quantile-classified heatmaps and stacked weekly charts.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is database_path from config, or ./data.db)")
	rootCmd.PersistentFlags().BoolVar(&queryLog, "query-log", false, "log every SQL statement at debug level")
}

// setup loads the config and installs the process logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := cfg.GetLogLevel()
	if err != nil {
		return err
	}
	if queryLog {
		level = slog.LevelDebug
	}
	logger = logging.New(cfg.GetAppEnv(), level, version)
	slog.SetDefault(logger)
	return nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path, the flag winning over the config
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.GetDatabasePath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

func dbOptions() database.Options {
	return database.Options{Logger: logger, QueryLog: queryLog}
}

// openDB opens the energy store read-only
func openDB(ctx context.Context) (*database.DB, error) {
	return database.Open(ctx, getDBPath(), dbOptions())
}

// chartOptions applies the config overrides to the default chart sizes
func chartOptions() charts.Options {
	return charts.Options{
		Width:            cfg.Charts.Width,
		WeeklyHeight:     cfg.Charts.WeeklyHeight,
		HalfHourlyHeight: cfg.Charts.HalfHourlyHeight,
		CellSize:         cfg.Charts.CalendarCellSize,
		CellGap:          cfg.Charts.CalendarCellGap,
	}.WithDefaults()
}
