// Package ingest reads tracker exports in CSV, XLSX or JSON form into raw
// records.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rcliao/babylog/internal/schema"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("cannot detect format of %q; pass --format csv|xlsx|json", path)
}

// ReadFile reads path as format, detecting it when empty. sheet selects an
// XLSX worksheet; empty means the first one.
func ReadFile(path, format, sheet string) ([]schema.RawRecord, error) {
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	records, err := Read(f, format, sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	slog.Debug("read export",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("records", len(records)))
	return records, nil
}

// Read decodes r in the given format.
func Read(r io.Reader, format, sheet string) ([]schema.RawRecord, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r, sheet)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ReadCSV reads a header row followed by data rows. Blank rows are skipped and
// short rows leave the missing fields absent.
func ReadCSV(r io.Reader) ([]schema.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var out []schema.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if rec := toRaw(header, row); rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ReadXLSX reads the named sheet, or the first sheet, with the first row as
// header.
func ReadXLSX(r io.Reader, sheet string) ([]schema.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var out []schema.RawRecord
	for _, row := range rows[1:] {
		if rec := toRaw(rows[0], row); rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ReadJSON reads an array of flat objects.
func ReadJSON(r io.Reader) ([]schema.RawRecord, error) {
	var objs []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&objs); err != nil {
		return nil, fmt.Errorf("decode json export: %w", err)
	}
	out := make([]schema.RawRecord, 0, len(objs))
	for _, o := range objs {
		out = append(out, schema.RawFromMap(o))
	}
	return out, nil
}

// toRaw pairs a row with the header. It returns nil for an all-blank row.
func toRaw(header, row []string) schema.RawRecord {
	rec := make(schema.RawRecord, len(header))
	blank := true
	for i, name := range header {
		if name == "" || i >= len(row) {
			continue
		}
		rec[name] = row[i]
		if strings.TrimSpace(row[i]) != "" {
			blank = false
		}
	}
	if blank {
		return nil
	}
	return rec
}
