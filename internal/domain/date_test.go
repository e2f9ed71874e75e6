package domain

import (
	"errors"
	"testing"
)

func TestDateKey(t *testing.T) {
	if got := DateKey(2025, 3, 9); got != "2025-03-09" {
		t.Fatalf("DateKey = %q", got)
	}
	if got := DateKey(2025, 12, 31); got != "2025-12-31" {
		t.Fatalf("DateKey = %q", got)
	}
}

func TestNormalizeDateKey(t *testing.T) {
	cases := map[string]string{
		"2025-03-09": "2025-03-09",
		"2025-3-9":   "2025-03-09",
		"1999-12-1":  "1999-12-01",
	}
	for in, want := range cases {
		got, err := NormalizeDateKey(in)
		if err != nil {
			t.Fatalf("NormalizeDateKey(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("NormalizeDateKey(%q) = %q, want %q", in, got, want)
		}
	}
	for _, in := range []string{"", "not-a-date", "2025/03/09", "09-03-2025"} {
		if _, err := NormalizeDateKey(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("expected ErrInvalidDate for %q, got %v", in, err)
		}
	}
}
