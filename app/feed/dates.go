package feed

import (
	"time"
)

// CanonicalDateLayout is the normalized, timezone-stripped form dates are
// stored in.
const CanonicalDateLayout = "2006-01-02 15:04:05"

// dateLayouts are tried in order. Layouts carrying an explicit offset or
// fractional seconds come before zone-less ones so an offset is never
// silently dropped by a looser match.
var dateLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05 -0700",     // RFC 822 feed date, numeric zone
	"2006-01-02T15:04:05Z07:00",           // ISO 8601 with offset or Zulu
	"2006-01-02T15:04:05-0700",            // ISO 8601, offset without colon
	"2006-01-02 15:04:05Z07:00",           // space-separated with offset
	"2006-01-02T15:04:05.999999999Z07:00", // fractional seconds with offset
	"2006-01-02T15:04:05",                 // zone-less ISO 8601
	"2006-01-02 15:04:05Z",                // zone-less with literal Z suffix
	"2006-01-02 15:04:05",                 // zone-less, space-separated
	"Mon, 02 Jan 2006 15:04:05 MST",       // RFC 822 with zone name (GMT et al)
}

// ParseDate attempts the known date layouts in order and returns the first
// match. ok=false is a normal outcome, not a failure; the caller keeps the
// raw string instead of fabricating a date.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CanonicalDate renders a parsed date in the canonical stored form,
// dropping the zone.
func CanonicalDate(t time.Time) string {
	return t.Format(CanonicalDateLayout)
}
