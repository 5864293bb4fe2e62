// Package export turns loaded game data into CSV, JSON, YAML or SQLite
// output files.
//
// Tabular output (CSV) uses a fixed column selection per object kind and
// leaves out nested data; structured output (JSON, YAML, SQLite) carries the
// full property maps.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

// Format selects an output file format.
type Format string

// The supported output formats.
const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatJSON, FormatYAML, FormatSQLite:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatSQLite:
		return "db"
	default:
		return string(f)
	}
}

// Tabular reports whether the format takes row data instead of the full
// property maps.
func (f Format) Tabular() bool {
	return f == FormatCSV
}

// write dispatches one object kind to the format backend. rows feeds tabular
// formats and is only called for them; data feeds the structured ones. kind
// names the SQLite table.
func write(dest string, format Format, kind string, rows func() [][]any, data map[string]map[string]any) error {
	switch format {
	case FormatCSV:
		return writeCSV(dest, rows())
	case FormatJSON:
		return writeJSON(dest, data)
	case FormatYAML:
		return writeYAML(dest, data)
	case FormatSQLite:
		return writeSQLite(dest, kind, data)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

func writeCSV(dest string, rows [][]any) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	record := []string{}
	for _, row := range rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, cell(v))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}

// cell renders one tabular value. Missing values become empty cells, not the
// string "<nil>".
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []string:
		return strings.Join(t, " ")
	default:
		return fmt.Sprint(t)
	}
}

func writeJSON(dest string, data map[string]map[string]any) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() { _ = f.Close() }()

	if err := oj.Write(f, data, &ojg.Options{Sort: true, Indent: 2}); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}

func writeYAML(dest string, data map[string]map[string]any) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}

// sortedKeys returns the ids of a collected object map in output order.
func sortedKeys(data map[string]map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tabulate builds the rows for a fixed column selection: a header row
// followed by one row per id in sorted order.
func tabulate(data map[string]map[string]any, cols []string) [][]any {
	header := make([]any, 0, len(cols)+1)
	header = append(header, "id")
	for _, c := range cols {
		header = append(header, c)
	}

	rows := [][]any{header}
	for _, id := range sortedKeys(data) {
		props := data[id]
		row := make([]any, 0, len(cols)+1)
		row = append(row, id)
		for _, c := range cols {
			row = append(row, props[c])
		}
		rows = append(rows, row)
	}
	return rows
}
