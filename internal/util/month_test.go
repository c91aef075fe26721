package util

import (
	"testing"
	"time"
)

func TestMonthName(t *testing.T) {
	if got := MonthName(time.June); got != "june" {
		t.Errorf("MonthName(June) = %q, want %q", got, "june")
	}
	if got := MonthName(time.December); got != "december" {
		t.Errorf("MonthName(December) = %q, want %q", got, "december")
	}
}

func TestParseMonthName(t *testing.T) {
	tests := []struct {
		input  string
		want   time.Month
		wantOK bool
	}{
		{"june", time.June, true},
		{"June", time.June, true},
		{"  SEPTEMBER ", time.September, true},
		{"jun", 0, false},
		{"", 0, false},
		{"2024-06", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseMonthName(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMonthName(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		year, month, n      int
		wantYear, wantMonth int
	}{
		{2024, 6, 0, 2024, 6},
		{2024, 6, 2, 2024, 8},
		{2024, 11, 2, 2025, 1}, // Nov + 2 -> Jan next year
		{2024, 12, 1, 2025, 1},
		{2024, 1, 24, 2026, 1},
		{2024, 3, -3, 2023, 12},
	}

	for _, tt := range tests {
		gotYear, gotMonth := AddMonths(tt.year, tt.month, tt.n)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("AddMonths(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, tt.n, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	year, month, err := ParseYearMonth("2024-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != 2024 || month != 6 {
		t.Errorf("ParseYearMonth(2024-06) = (%d, %d), want (2024, 6)", year, month)
	}

	for _, bad := range []string{"2024-13", "2024-00", "2024/06", "24-06", "june", "", "2024-6x", "2024-6 ", "+024-06", "2024--6", " 2024-6", "２024-06"} {
		if _, _, err := ParseYearMonth(bad); err == nil {
			t.Errorf("ParseYearMonth(%q) expected error", bad)
		}
	}
}

func TestFormatYearMonth(t *testing.T) {
	if got := FormatYearMonth(2024, 6); got != "2024-06" {
		t.Errorf("FormatYearMonth(2024, 6) = %q, want %q", got, "2024-06")
	}
}

func TestCalculateActualDate(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		targetDay int
		expected  time.Time
	}{
		{"day within month", 2026, time.March, 15, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"day 31 in february", 2026, time.February, 31, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{"day 31 in leap february", 2024, time.February, 31, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"day 31 in april", 2026, time.April, 31, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateActualDate(tt.year, tt.month, tt.targetDay)
			if !result.Equal(tt.expected) {
				t.Errorf("CalculateActualDate(%d, %v, %d) = %v, want %v",
					tt.year, tt.month, tt.targetDay, result, tt.expected)
			}
		})
	}
}

func TestAddCalendarMonths_ClampsDay(t *testing.T) {
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	got := AddCalendarMonths(start, 1)
	want := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddCalendarMonths(Jan 31, 1) = %v, want %v", got, want)
	}
}
