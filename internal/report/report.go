// Package report writes review rows and data backups in the export formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
)

// Format is an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use csv, json or yaml)", s)
	}
}

// ContentType is the MIME type served for f
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// FileName is the suggested download name for a period report,
// e.g. pacer_report_this_month.csv.
func FileName(label string, f Format) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
	return fmt.Sprintf("pacer_report_%s.%s", slug, f)
}

// Write encodes rows to w
func Write(w io.Writer, rows []metrics.ReportRow, f Format) error {
	if rows == nil {
		rows = []metrics.ReportRow{}
	}
	switch f {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		return writeYAML(w, rows)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

func writeCSV(w io.Writer, rows []metrics.ReportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(metrics.ReportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(r.Record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Backup is the full data snapshot offered as pacer.json
type Backup struct {
	Projects []*project.Project     `json:"projects" yaml:"projects"`
	Deleted  []*project.Project     `json:"deleted" yaml:"deleted"`
	Tags     []string               `json:"tags" yaml:"tags"`
	Focus    []project.FocusSession `json:"focus" yaml:"focus"`
}

// BackupFileName is the default backup file name
const BackupFileName = "pacer.json"

// WriteBackup encodes a snapshot as JSON or YAML
func WriteBackup(w io.Writer, b Backup, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case FormatYAML:
		return writeYAML(w, b)
	default:
		return fmt.Errorf("backups support json or yaml, not %s", f)
	}
}
