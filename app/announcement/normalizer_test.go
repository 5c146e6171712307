package announcement

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizer_TaipeiConversion(t *testing.T) {
	n := NewNormalizer(nil)

	utc, local, err := n.Normalize("2024-03-01", "08:00")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if utc != "2024-03-01 08:00 UTC" {
		t.Errorf("Expected utc '2024-03-01 08:00 UTC', got '%s'", utc)
	}
	if local != "2024-03-01 16:00 (Asia/Taipei)" {
		t.Errorf("Expected local '2024-03-01 16:00 (Asia/Taipei)', got '%s'", local)
	}
}

func TestNormalizer_CrossesMidnight(t *testing.T) {
	local, err := NewNormalizer(nil).ToLocal("2024-12-31", "20:30")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if local != "2025-01-01 04:30 (Asia/Taipei)" {
		t.Errorf("Expected '2025-01-01 04:30 (Asia/Taipei)', got '%s'", local)
	}
}

func TestNormalizer_CustomLocation(t *testing.T) {
	n := NewNormalizer(time.FixedZone("UTC-5", -5*60*60))

	local, err := n.ToLocal("2024-03-01", "03:00")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if local != "2024-02-29 22:00 (UTC-5)" {
		t.Errorf("Expected '2024-02-29 22:00 (UTC-5)', got '%s'", local)
	}
}

func TestNormalizer_MalformedTimestamp(t *testing.T) {
	n := NewNormalizer(nil)

	inputs := [][2]string{
		{"2024-02-30", "08:00"},
		{"2024-13-01", "08:00"},
		{"2024-03-01", "24:00"},
		{"2024-03-01", "08:60"},
		{"not-a-date", "08:00"},
	}

	for _, in := range inputs {
		if _, err := n.ToLocal(in[0], in[1]); !errors.Is(err, ErrMalformedTimestamp) {
			t.Errorf("Expected ErrMalformedTimestamp for %s %s, got: %v", in[0], in[1], err)
		}
	}
}

func TestNormalizer_FromUTCRoundTrip(t *testing.T) {
	n := NewNormalizer(nil)

	fact, err := n.FromUTC("BTCUSDT", "2024-03-01 08:00 UTC")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if fact.UTC != "2024-03-01 08:00 UTC" || fact.Local != "2024-03-01 16:00 (Asia/Taipei)" {
		t.Errorf("Unexpected fact: %+v", fact)
	}

	if _, err := n.FromUTC("BTCUSDT", "2024-03-01 08:00"); !errors.Is(err, ErrMalformedTimestamp) {
		t.Errorf("Expected ErrMalformedTimestamp, got: %v", err)
	}
}
