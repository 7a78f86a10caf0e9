package ingest

import (
	"strconv"
	"strings"
	"time"
)

// The feed reports measurements as loosely-formatted text. Sentinel tokens
// and unparsable values both normalize to absent; no record is ever rejected
// for a bad measurement.

func isAbsent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown", "n/a":
		return true
	}
	return false
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, ",", "")
}

// parseInt parses feed integer text like "1,000" or "unknown".
func parseInt(s string) *int64 {
	if isAbsent(s) {
		return nil
	}
	v, err := strconv.ParseInt(cleanNumber(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseFloat parses feed decimal text like "34.37" or "1,600".
func parseFloat(s string) *float64 {
	if isAbsent(s) {
		return nil
	}
	v, err := strconv.ParseFloat(cleanNumber(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseDate parses the feed's ISO release dates ("1977-05-25").
func parseDate(s string) *time.Time {
	if isAbsent(s) {
		return nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}
