package announcement

import (
	"fmt"
	"time"
)

const (
	DefaultTimezone = "Asia/Taipei"

	timestampLayout = "2006-01-02 15:04"
)

// DefaultLocation returns Asia/Taipei, falling back to a fixed UTC+8 zone of the
// same name when no tz database is available.
func DefaultLocation() *time.Location {
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.FixedZone(DefaultTimezone, 8*60*60)
}

// Normalizer renders UTC marker timestamps in a local zone.
type Normalizer struct {
	location *time.Location
}

func NewNormalizer(location *time.Location) *Normalizer {
	if location == nil {
		location = DefaultLocation()
	}
	return &Normalizer{location: location}
}

func (n *Normalizer) Location() *time.Location {
	return n.location
}

// Normalize parses date ("2006-01-02") and clock ("15:04") as UTC and returns
// both the UTC rendering and the local rendering.
func (n *Normalizer) Normalize(date, clock string) (utc string, local string, err error) {
	t, err := parseUTC(date, clock)
	if err != nil {
		return "", "", err
	}
	return formatUTC(t), n.formatLocal(t), nil
}

// ToLocal returns only the local rendering, e.g. "2024-03-01 16:00 (Asia/Taipei)".
func (n *Normalizer) ToLocal(date, clock string) (string, error) {
	t, err := parseUTC(date, clock)
	if err != nil {
		return "", err
	}
	return n.formatLocal(t), nil
}

// FromUTC re-derives a fact from its rendered UTC string.
func (n *Normalizer) FromUTC(pair, utc string) (Fact, error) {
	t, err := ParseUTCString(utc)
	if err != nil {
		return Fact{}, err
	}
	return Fact{Pair: pair, UTC: formatUTC(t), Local: n.formatLocal(t)}, nil
}

func (n *Normalizer) formatLocal(t time.Time) string {
	return fmt.Sprintf("%s (%s)", t.In(n.location).Format(timestampLayout), n.location.String())
}

// ParseUTCString parses the "2006-01-02 15:04 UTC" form used in Fact.UTC.
func ParseUTCString(utc string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout+" UTC", utc, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, utc, err)
	}
	return t, nil
}

func parseUTC(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q: %v", ErrMalformedTimestamp, date, clock, err)
	}
	return t, nil
}

func formatUTC(t time.Time) string {
	return t.Format(timestampLayout) + " UTC"
}
