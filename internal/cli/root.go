// Package cli implements the babylog CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rcliao/babylog/internal/config"
	"github.com/rcliao/babylog/internal/logging"
	"github.com/rcliao/babylog/internal/report"
	"github.com/rcliao/babylog/internal/store"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string

	cfg       *config.Config
	logCloser func() error
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "babylog",
	Short: "Baby tracker export charts",
	Long: "Import sleep, feeding, diaper, growth and journal exports from a baby tracker app, " +
		"keep them versioned in SQLite and render chart tables as JSON or CSV.",
	PersistentPreRun:  setup,
	PersistentPostRun: teardown,
	SilenceUsage:      true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $BABYLOG_STORE_PATH or ~/.babylog/babylog.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $BABYLOG_CONFIG or ./babylog.yaml)")
}

// setup loads configuration, installs the logger and tags the command
// context with a trace ID.
func setup(cmd *cobra.Command, args []string) {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		exitErr("init logger", err)
	}
	logCloser = closer
	slog.SetDefault(logger)

	ctx := logging.WithTraceID(cmd.Context(), logging.NewTraceID())
	cmd.SetContext(ctx)
	slog.DebugContext(ctx, "command started", slog.String("command", cmd.CommandPath()))
}

func teardown(cmd *cobra.Command, args []string) {
	if logCloser != nil {
		logCloser()
	}
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DBPath()
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// loadReport builds a report from the latest import of every kind.
func loadReport(cmd *cobra.Command) *report.Report {
	opts, err := report.OptionsFromConfig(cfg.Tracking, time.Now())
	if err != nil {
		exitErr("config", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rep, err := report.Load(cmd.Context(), s, opts)
	if err != nil {
		exitErr("load report", err)
	}
	return rep
}

func printJSON(w io.Writer, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode json", err)
	}
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
