package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	apperrors "nokicli/internal/errors"
)

// Timestamp layouts accepted in the created_at column. The export mixes
// RFC 3339 and plain datetime forms depending on service version.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFile reads the survey dataset CSV and extracts the response rows.
// A missing file or an unreadable header is fatal; individual rows with
// unparseable timestamps are dropped with a warning.
func ParseFile(filePath string) ([]Response, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.DatasetMissing(filePath, err)
		}
		return nil, apperrors.DatasetMalformed(err)
	}
	defer file.Close()

	responses, err := Parse(file)
	if err != nil {
		return nil, err
	}

	slog.Info("Dataset parsed",
		slog.String("path", filePath),
		slog.Int("responses", len(responses)))

	return responses, nil
}

// Parse reads response rows from CSV data. The first row must be a
// header naming at least created_at, user_id, step_name, question and
// answer; extra columns are tolerated and ignored.
func Parse(r io.Reader) ([]Response, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // column count validated via the header map

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.DatasetMalformed(fmt.Errorf("failed to read header: %w", err))
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	required := []string{"created_at", "user_id", "step_name", "question", "answer"}
	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.DatasetMalformed(
			fmt.Errorf("missing expected columns: %s", strings.Join(missing, ", ")))
	}

	var responses []Response
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.DatasetMalformed(fmt.Errorf("line %d: %w", line, err))
		}

		createdAt, err := parseTimestamp(field(record, columns, "created_at"))
		if err != nil {
			slog.Warn("Dropping row with unparseable timestamp",
				slog.Int("line", line),
				slog.String("created_at", field(record, columns, "created_at")))
			continue
		}

		responses = append(responses, Response{
			SessionID: field(record, columns, "session_id"),
			CreatedAt: createdAt,
			UserID:    field(record, columns, "user_id"),
			StepName:  field(record, columns, "step_name"),
			Question:  field(record, columns, "question"),
			Answer:    field(record, columns, "answer"),
		})
	}

	return responses, nil
}

// field returns the named column of a record, or "" if the column is
// absent or the row is short.
func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseTimestamp parses a created_at value, normalizing to UTC
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
