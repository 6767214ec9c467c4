package utils

import (
	"encoding/json"
	"strings"
)

// StringsToJSON converts []string to a JSON string for text columns.
func StringsToJSON(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// JSONToStrings converts a stored JSON string back to []string.
func JSONToStrings(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return strings.Split(s, ",")
	}
	return values
}

// SplitCSV splits a comma separated query value, dropping blanks.
func SplitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TotalPages is ceil(total/limit), zero when limit is not positive.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
