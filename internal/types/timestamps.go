package types

import (
	"fmt"
	"time"
)

// Layouts accepted for timestamps without an explicit zone; those are read
// as UTC.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp decodes an ISO-8601 timestamp.
func ParseTimestamp(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	// Some responses use a space separator with a numeric offset.
	if t, err := time.Parse("2006-01-02 15:04:05.999999999Z07:00", v); err == nil {
		return t, nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", v)
}

// FormatTimestamp encodes t as RFC 3339 in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// RequireUTC rejects zero times and times whose offset is not zero. The
// location itself is not checked: "+00:00" stamps decode into a fixed or
// Local zone.
func RequireUTC(field string, t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%s must be set", field)
	}
	if _, off := t.Zone(); off != 0 {
		return fmt.Errorf("%s must be in UTC, got location %q (offset %ds)", field, t.Location(), off)
	}
	return nil
}
