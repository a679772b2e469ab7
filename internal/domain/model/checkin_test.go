package model

import (
	"testing"
	"time"
)

func TestMidnight(t *testing.T) {
	in := time.Date(2025, 3, 15, 18, 45, 12, 999, time.Local)
	got := Midnight(in)
	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		month, year int
		lastDay     int
	}{
		{1, 2025, 31},
		{2, 2025, 28},
		{2, 2024, 29}, // Leap year
		{4, 2025, 30},
		{12, 2025, 31},
	}
	for _, tc := range tests {
		first, last := MonthWindow(tc.month, tc.year)
		if first.Day() != 1 || int(first.Month()) != tc.month || first.Year() != tc.year {
			t.Fatalf("month=%d year=%d: bad window start %v", tc.month, tc.year, first)
		}
		if last.Day() != tc.lastDay || int(last.Month()) != tc.month {
			t.Fatalf("month=%d year=%d: expected last day %d, got %v", tc.month, tc.year, tc.lastDay, last)
		}
	}
}

func TestResetTokenExpired(t *testing.T) {
	tok := PasswordResetToken{ExpiresAt: time.Now().Add(30 * time.Minute)}
	if tok.Expired(time.Now()) {
		t.Fatalf("fresh token must not be expired")
	}
	if !tok.Expired(time.Now().Add(31 * time.Minute)) {
		t.Fatalf("token must expire after its window")
	}
}
