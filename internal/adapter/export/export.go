package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// csvHeader is the fixed column order of requirement exports.
var csvHeader = []string{"ID", "Title", "Description", "Type", "Priority", "Status", "Assignee", "Due Date"}

// RequirementsJSON renders requirements as an indented JSON document.
func RequirementsJSON(reqs []entities.Requirement) ([]byte, error) {
	if reqs == nil {
		reqs = []entities.Requirement{}
	}
	data, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal requirements: %w", err)
	}
	return data, nil
}

// RequirementsCSV renders requirements as CSV with a fixed header row.
// encoding/csv quotes fields containing commas or quotes, so free-text
// descriptions survive round-trips through spreadsheet tools.
func RequirementsCSV(reqs []entities.Requirement) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range reqs {
		record := []string{
			r.ID,
			r.Title,
			r.Description,
			r.Type,
			r.Priority,
			r.Status,
			r.Assignee,
			r.DueDate,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write requirement %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for an export format, or "" for an
// unsupported format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	default:
		return ""
	}
}
