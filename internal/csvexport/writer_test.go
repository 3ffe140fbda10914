package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 13)
	assert.Equal(t, "Job ID", row[0])
	assert.Equal(t, "File Name", row[1])
	assert.Equal(t, "Created At", row[12])
}

func TestWriteJobs_Completed(t *testing.T) {
	conf := 0.92
	completed := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	job := domain.FormatJob{
		ID:           uuid.New(),
		OriginalName: "lecture.pdf",
		ContentType:  "application/pdf",
		FileSize:     204800,
		Preset:       "academic",
		Model:        "mistral-small-latest",
		Status:       domain.JobStatusCompleted,
		Attempts:     1,
		Confidence:   &conf,
		Degraded:     false,
		ImageCount:   3,
		CompletedAt:  &completed,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteJobs([]domain.FormatJob{job}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, job.ID.String(), row[0])
	assert.Equal(t, "lecture.pdf", row[1])
	assert.Equal(t, "204800", row[3])
	assert.Equal(t, "completed", row[6])
	assert.Equal(t, "0.92", row[8])
	assert.Equal(t, "No", row[9])
	assert.Equal(t, "3", row[10])
	assert.Equal(t, "2025-06-01T12:30:00Z", row[11])
}

func TestWriteJobs_FailedJobLeavesResultColumnsEmpty(t *testing.T) {
	job := domain.FormatJob{
		ID:           uuid.New(),
		OriginalName: "scan.png",
		ContentType:  "image/png",
		Status:       domain.JobStatusFailed,
		Attempts:     3,
		CreatedAt:    time.Now().UTC(),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteJobs([]domain.FormatJob{job}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "failed", row[6])
	assert.Equal(t, "", row[8])
	assert.Equal(t, "", row[11])
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Math Notes 2025":   "Math_Notes_2025",
		"a//b??c":           "a_b_c",
		"__already__clean_": "already_clean",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in))
	}
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("My Export!")
	assert.Regexp(t, `^My_Export_\d{4}-\d{2}-\d{2}\.csv$`, got)
}
