// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer provides CSV export functionality for site content.
package transfer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field is a single named CSV value. Records preserve field order, which
// is why a plain map cannot be used here.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered list of fields. The first record of an export
// defines the header row and the column order.
type Record []Field

// String returns the value for key, or the empty string when absent.
func (r Record) String(key string) string {
	for _, f := range r {
		if f.Key == key {
			return formatValue(f.Value)
		}
	}
	return ""
}

// Marshal renders records as CSV. The header row comes from the first
// record's field order. Rows are joined with a single newline and the
// output carries no trailing newline. No records means an empty string.
func Marshal(records []Record) string {
	if len(records) == 0 {
		return ""
	}

	headers := make([]string, len(records[0]))
	for i, f := range records[0] {
		headers[i] = f.Key
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(headers, ","))

	for _, record := range records {
		cells := make([]string, len(headers))
		for i, key := range headers {
			cells[i] = record.String(key)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

// formatValue serializes one cell:
//   - nil renders as an empty cell without quotes
//   - string slices join with "; " and are quoted
//   - numbers and booleans are written bare
//   - strings are quoted with inner quotes doubled
//   - anything else is JSON-encoded and quoted
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return quote(strings.Join(val, "; "))
	case string:
		return quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return quote(fmt.Sprintf("%v", val))
		}
		return quote(string(b))
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
