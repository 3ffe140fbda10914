package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (13 columns).
var columns = []string{
	"Job ID",
	"File Name",
	"Content Type",
	"File Size",
	"Preset",
	"Model",
	"Status",
	"Attempts",
	"Confidence",
	"Degraded",
	"Image Count",
	"Completed At",
	"Created At",
}

// Writer wraps csv.Writer for exporting format jobs as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteJobs converts a batch of jobs to CSV rows and writes them.
func (w *Writer) WriteJobs(jobs []domain.FormatJob) error {
	for i := range jobs {
		if err := w.csv.Write(jobToRow(&jobs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func jobToRow(job *domain.FormatJob) []string {
	row := make([]string, len(columns))
	row[0] = job.ID.String()
	row[1] = job.OriginalName
	row[2] = job.ContentType
	row[3] = strconv.FormatInt(job.FileSize, 10)
	row[4] = job.Preset
	row[5] = job.Model
	row[6] = string(job.Status)
	row[7] = strconv.Itoa(job.Attempts)
	row[8] = formatConfidence(job.Confidence)
	row[9] = formatBool(job.Degraded)
	row[10] = strconv.Itoa(job.ImageCount)
	row[11] = formatTime(job.CompletedAt)
	row[12] = job.CreatedAt.Format(time.RFC3339)
	return row
}

func formatConfidence(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
