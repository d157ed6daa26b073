package cli

import (
	"fmt"
	"io"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/schema"
	"github.com/rcliao/babylog/internal/tracker"
)

// normalizeKind maps a --kind flag to its canonical name; empty stays empty.
func normalizeKind(s string) string {
	if s == "" {
		return ""
	}
	kind, err := tracker.ParseKind(s)
	if err != nil {
		exitErr("kind", err)
	}
	return string(kind)
}

func trackingFormat() schema.Format {
	return schema.Format{DateTime: cfg.Tracking.DateFormat, Date: cfg.Tracking.DateOnlyFormat}
}

// writeTable renders t as chart JSON or CSV.
func writeTable(w io.Writer, t *dataset.Table, format string) error {
	switch format {
	case "", "json":
		printJSON(w, t)
		return nil
	case "csv":
		return t.WriteCSV(w)
	}
	return fmt.Errorf("unknown output format %q (want json or csv)", format)
}
