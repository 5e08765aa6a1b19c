package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateBookingCode_Shape(t *testing.T) {
	now := time.Date(2026, 5, 17, 9, 30, 0, 0, time.UTC)
	code := GenerateBookingCode(now)

	if !strings.HasPrefix(code, "TRV") {
		t.Fatalf("code should start with TRV, got %s", code)
	}
	if len(code) != 3+8+3 {
		t.Fatalf("code should be 14 chars, got %d (%s)", len(code), code)
	}

	for _, r := range code[3:11] {
		if r < '0' || r > '9' {
			t.Fatalf("timestamp part should be numeric, got %s", code[3:11])
		}
	}
	for _, r := range code[11:] {
		if !strings.ContainsRune(base36, r) {
			t.Fatalf("suffix should be base36 uppercase, got %s", code[11:])
		}
	}
}

func TestGenerateBookingCode_TimestampPart(t *testing.T) {
	now := time.UnixMilli(1234567890123)
	code := GenerateBookingCode(now)
	if got := code[3:11]; got != "67890123" {
		t.Fatalf("timestamp part should be last 8 digits, got %s", got)
	}
}

func TestNormalizeSeatLabel(t *testing.T) {
	cases := map[string]string{
		" a1 ": "A1",
		"B12":  "B12",
		"c3\t": "C3",
		"":     "",
	}
	for in, want := range cases {
		if got := NormalizeSeatLabel(in); got != want {
			t.Fatalf("NormalizeSeatLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
