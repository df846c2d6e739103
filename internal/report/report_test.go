package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
)

func rows() []metrics.ReportRow {
	return []metrics.ReportRow{
		{Goal: "Trip, Kyoto", StartDate: "2026-11-01", Deadline: "2026-11-09", DurationDays: 8,
			TasksTotal: 4, TasksDone: 1, Completion: "25%", Status: "Active", TimeStatus: "21d left"},
		{Goal: "Report", StartDate: "2026-10-01", Deadline: "2026-10-05", DurationDays: 4,
			TasksTotal: 2, TasksDone: 0, Completion: "0%", Status: "Late", TimeStatus: "Overdue 14d"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: " JSON ", want: FormatJSON},
		{in: "yml", want: FormatYAML},
		{in: "xlsx", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows(), FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, metrics.ReportHeader, records[0])
	assert.Equal(t, "Trip, Kyoto", records[1][0], "commas are quoted")
	assert.Equal(t, "Overdue 14d", records[2][8])
}

func TestWriteJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows(), FormatJSON))
	var fromJSON []metrics.ReportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, rows(), fromJSON)

	buf.Reset()
	require.NoError(t, Write(&buf, rows(), FormatYAML))
	assert.Contains(t, buf.String(), "time_status: Overdue 14d")
	var fromYAML []metrics.ReportRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, rows(), fromYAML)
}

func TestWriteEmptyJSONIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "pacer_report_this_month.csv", FileName("This Month", FormatCSV))
	assert.Equal(t, "pacer_report_last_7_days.json", FileName("Last 7 Days", FormatJSON))
}

func TestWriteBackup(t *testing.T) {
	p := project.New("Trip", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 11, 9, 0, 0, 0, 0, time.UTC),
		[]project.Task{project.NewTask("Pack")}, []string{"Personal"}, time.Now())
	b := Backup{Projects: []*project.Project{p}, Deleted: []*project.Project{}, Tags: project.DefaultTags}

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(&buf, b, FormatJSON))
	var got Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Projects, 1)
	assert.Equal(t, p.ID, got.Projects[0].ID)
	assert.Equal(t, project.DefaultTags, got.Tags)

	assert.Error(t, WriteBackup(&buf, b, FormatCSV))
}
