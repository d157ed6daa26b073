package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rcliao/babylog/internal/ingest"
	"github.com/rcliao/babylog/internal/store"
	"github.com/rcliao/babylog/internal/tracker"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a tracker export",
		Long: "Import a CSV, XLSX or JSON export as the next version of a record kind.\n" +
			"Every row is parsed first; a malformed row aborts the import.",
		Args: cobra.ExactArgs(1),
		Run:  runImport,
	}

	cmd.Flags().StringP("kind", "k", "", "Record kind: sleep, feed, diaper, growth or journal (required)")
	cmd.Flags().String("format", "", "Input format: csv, xlsx or json (default: from extension)")
	cmd.Flags().String("sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().Bool("dry-run", false, "Validate without storing")

	cmd.MarkFlagRequired("kind")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	kindFlag, _ := cmd.Flags().GetString("kind")
	format, _ := cmd.Flags().GetString("format")
	sheet, _ := cmd.Flags().GetString("sheet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	path := args[0]

	kind, err := tracker.ParseKind(kindFlag)
	if err != nil {
		exitErr("import", err)
	}

	raw, err := ingest.ReadFile(path, format, sheet)
	if err != nil {
		exitErr("read export", err)
	}

	t := cfg.Tracking
	boundary := tracker.DayBoundary{NightStartHour: t.DayNightStartHour, NightEndHour: t.DayNightEndHour}
	ds, err := tracker.Build(kind, raw, boundary, trackingFormat())
	if err != nil {
		exitErr("validate export", err)
	}

	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"kind":%q,"records":%d,"dry_run":true}`+"\n", kind, ds.Len())
		return
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imp, err := s.Put(cmd.Context(), store.PutParams{
		Kind:    string(kind),
		Source:  filepath.Base(path),
		Records: raw,
	})
	if err != nil {
		exitErr("import", err)
	}
	slog.InfoContext(cmd.Context(), "export imported",
		slog.String("kind", imp.Kind),
		slog.Int("version", imp.Version),
		slog.Int("records", imp.RecordCount))

	printJSON(cmd.OutOrStdout(), imp)
}
