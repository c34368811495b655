// Package timezone fixes the instant convention used across the service:
// every slot time is stored and compared in UTC.
package timezone

import (
	"fmt"
	"strings"
	"time"
)

const DefaultTimezone = "UTC"

// naive layouts carry no offset and are read in the remote system's zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Precision is the resolution of a stored slot; Postgres timestamptz keeps
// microseconds.
const Precision = time.Microsecond

// Normalize converts t to the stored form: UTC at Precision.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(Precision)
}

// Now is the reconciliation clock.
func Now() time.Time {
	return time.Now().UTC()
}

// ParseTerm reads an ISO-8601 timestamp emitted by the remote API and
// returns it in UTC. Terms without an offset are interpreted in loc.
func ParseTerm(term string, loc *time.Location) (time.Time, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return time.Time{}, fmt.Errorf("timezone: empty term")
	}

	if t, err := time.Parse(time.RFC3339Nano, term); err == nil {
		return Normalize(t), nil
	}

	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, term, loc); err == nil {
			return Normalize(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("timezone: unrecognised term %q", term)
}
