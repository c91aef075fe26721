package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthName returns the lowercase English name of a month, e.g. "june"
func MonthName(month time.Month) string {
	return strings.ToLower(month.String())
}

// ParseMonthName parses a full English month name, case-insensitively
func ParseMonthName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m := time.January; m <= time.December; m++ {
		if MonthName(m) == name {
			return m, true
		}
	}
	return 0, false
}

// AddMonths returns the year and month n months after the given year/month
func AddMonths(year, month, n int) (int, int) {
	total := year*12 + (month - 1) + n
	return total / 12, total%12 + 1
}

// ParseYearMonth parses a "YYYY-MM" formatted string into year and month integers.
// Both parts must be plain ASCII digits.
func ParseYearMonth(value string) (year, month int, err error) {
	if len(value) != 7 || value[4] != '-' || !allDigits(value[0:4]) || !allDigits(value[5:7]) {
		return 0, 0, fmt.Errorf("invalid month format, expected YYYY-MM")
	}
	year, _ = strconv.Atoi(value[0:4])
	month, _ = strconv.Atoi(value[5:7])
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	return year, month, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatYearMonth formats year and month integers into a "YYYY-MM" string
func FormatYearMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int) time.Time {
	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}

// AddCalendarMonths adds n months to a date, clamping the day to the end of the target month
// (Jan 31 + 1 month = Feb 28/29)
func AddCalendarMonths(date time.Time, n int) time.Time {
	year, month := AddMonths(date.Year(), int(date.Month()), n)
	return CalculateActualDate(year, time.Month(month), date.Day())
}

// DateOnly truncates a time to midnight UTC of the same calendar day
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
