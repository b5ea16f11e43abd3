package google

import (
	"fmt"
	"strings"

	"ecotrack/internal/core"
)

// parseRows converts sheet values into activities. The first row must be
// the header. Fully blank rows are skipped; they are what a shrinking save
// leaves behind.
func parseRows(values [][]any) ([]core.Activity, error) {
	out := make([]core.Activity, 0)
	if len(values) == 0 {
		return out, nil
	}
	if !isHeader(values[0]) {
		return nil, fmt.Errorf("unexpected header row: %v", values[0])
	}
	for _, row := range values[1:] {
		cols := toStrings(row)
		if isBlankRow(cols) {
			continue
		}
		if len(cols) > len(header) {
			return nil, fmt.Errorf("row has %d columns, want at most %d", len(cols), len(header))
		}
		out = append(out, core.Activity{
			Date:        safeGet(cols, 0),
			Category:    safeGet(cols, 1),
			Description: safeGet(cols, 2),
			Impact:      safeGet(cols, 3),
		})
	}
	return out, nil
}

// buildRows lays out the header and one row per activity, padded with blank
// rows up to minRows.
func buildRows(activities []core.Activity, minRows int) [][]any {
	n := len(activities) + 1
	if minRows > n {
		n = minRows
	}
	values := make([][]any, 0, n)
	values = append(values, header)
	for _, a := range activities {
		values = append(values, []any{a.Date, a.Category, a.Description, a.Impact})
	}
	for len(values) < n {
		values = append(values, []any{"", "", "", ""})
	}
	return values
}

func isHeader(row []any) bool {
	cols := toStrings(row)
	if len(cols) < len(header) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(cols[i]), h.(string)) {
			return false
		}
	}
	return true
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// toStrings keeps cell text as stored; only header matching trims.
func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
