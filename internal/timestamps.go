package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampFormat is the single UTC representation written for every timestamp
const TimestampFormat = "2006-01-02T15:04:05.000Z"

var unixEpoch = time.Unix(0, 0).UTC()

// Layouts carrying an explicit zone
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999 Z07",
	time.RFC1123Z,
	"02/Jan/2006:15:04:05 -0700",
}

// Layouts whose zone is only an abbreviation such as PST or UTC
var abbreviatedLayouts = []string{
	time.RFC1123,
	"2006-01-02 15:04:05.999999999 MST",
	"2006-01-02T15:04:05.999999999 MST",
}

// zoneOffsets resolves common abbreviations independently of the local zone
var zoneOffsets = map[string]int{
	"UTC":  0,
	"GMT":  0,
	"Z":    0,
	"EST":  -5 * 3600,
	"EDT":  -4 * 3600,
	"CST":  -6 * 3600,
	"CDT":  -5 * 3600,
	"MST":  -7 * 3600,
	"MDT":  -6 * 3600,
	"PST":  -8 * 3600,
	"PDT":  -7 * 3600,
	"AKST": -9 * 3600,
	"AKDT": -8 * 3600,
	"HST":  -10 * 3600,
	"WET":  0,
	"WEST": 1 * 3600,
	"BST":  1 * 3600,
	"CET":  1 * 3600,
	"CEST": 2 * 3600,
	"EET":  2 * 3600,
	"EEST": 3 * 3600,
	"MSK":  3 * 3600,
	"JST":  9 * 3600,
	"KST":  9 * 3600,
	"AEST": 10 * 3600,
	"AEDT": 11 * 3600,
}

// Layouts without a zone are read as UTC
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// ParseTimestamp parses the heterogeneous timestamp formats seen in raw
// event logs and returns the instant in UTC
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if isDigits(s) {
		if t, ok := parseEpoch(s); ok {
			return t, nil
		}
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range abbreviatedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return resolveAbbreviation(t)
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp format")
}

// FormatTimestamp renders t in the canonical UTC format
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// resolveAbbreviation applies the offset of a known zone abbreviation to the
// parsed wall clock. time.Parse gives unknown abbreviations a zero offset,
// so those are rejected unless they name UTC.
func resolveAbbreviation(t time.Time) (time.Time, error) {
	name, offset := t.Zone()
	if known, ok := zoneOffsets[name]; ok {
		loc := time.FixedZone(name, known)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc).UTC(), nil
	}
	if offset == 0 {
		return time.Time{}, fmt.Errorf("unknown time zone abbreviation %q", name)
	}
	return t.UTC(), nil
}

// parseEpoch reads Unix seconds from 9 or 10 digits and milliseconds from
// 13 digits. Other lengths are not treated as epochs.
func parseEpoch(s string) (time.Time, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	switch len(s) {
	case 9, 10:
		return time.Unix(n, 0).UTC(), true
	case 13:
		return time.UnixMilli(n).UTC(), true
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
