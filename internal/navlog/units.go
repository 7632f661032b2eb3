package navlog

import (
	"fmt"
	"regexp"
	"strconv"
)

// Fuel quantities are carried as integer tenths of the display unit and times
// as integer minutes, so repeated additions/subtractions never drift the way
// floats would. Every parse returns an explicit ok flag: a field that is
// blank, a placeholder, or malformed is "unknown", never a silent zero.

const minutesPerDay = 24 * 60

var (
	hhmmPattern    = regexp.MustCompile(`^([0-9]{2})([0-9]{2})$`)
	clockPattern   = regexp.MustCompile(`^([0-9]{1,2})\.([0-9]{2})$`)
	digitsPattern  = regexp.MustCompile(`^[0-9]+$`)
	decimalPattern = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]))?$`)
	// Placeholder tokens the printed table uses before real data is known:
	// "...", "....", "----", "--/---" and similar runs of dots/dashes/slashes.
	placeholderPattern = regexp.MustCompile(`^[.\-/]+$`)
)

// IsPlaceholder reports whether the token is a printed placeholder
func IsPlaceholder(s string) bool {
	return s != "" && placeholderPattern.MatchString(s)
}

// ParseHHMM parses a 4-digit clock time into minutes since midnight
func ParseHHMM(s string) (int, bool) {
	m := hhmmPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if hours > 23 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// FormatHHMM formats minutes since midnight as a 4-digit clock time,
// wrapping modulo 24h
func FormatHHMM(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d%02d", minutes/60, minutes%60)
}

// ParseClock parses the printed H.MM elapsed-time format into minutes. The
// hour component may exceed 9 (e.g. "10.15"); the minute component is always
// two digits.
func ParseClock(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// ParseTenths parses a printed all-digit fuel field already expressed in
// tenths (e.g. TBO "0180" is 18.0 display units)
func ParseTenths(s string) (int, bool) {
	if !digitsPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDecimalTenths parses a decimal display value with at most one decimal
// digit into tenths (e.g. "152.0" -> 1520, "050.2" -> 502, "118" -> 1180)
func ParseDecimalTenths(s string) (int, bool) {
	m := decimalPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	whole, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	tenths := 0
	if m[2] != "" {
		tenths, _ = strconv.Atoi(m[2])
	}
	return whole*10 + tenths, true
}

// FormatTenths formats integer tenths as a one-decimal display value
func FormatTenths(tenths int) string {
	sign := ""
	if tenths < 0 {
		sign = "-"
		tenths = -tenths
	}
	return fmt.Sprintf("%s%d.%d", sign, tenths/10, tenths%10)
}

// FormatSignedMinutes formats a minute delta with an explicit "+" for
// positive values
func FormatSignedMinutes(minutes int) string {
	if minutes > 0 {
		return fmt.Sprintf("+%d", minutes)
	}
	return strconv.Itoa(minutes)
}

// WrapMinutesDelta normalizes the difference between two clock times to the
// shortest signed interval in (-12h, +12h]
func WrapMinutesDelta(delta int) int {
	delta = ((delta % minutesPerDay) + minutesPerDay) % minutesPerDay
	if delta > minutesPerDay/2 {
		delta -= minutesPerDay
	}
	return delta
}
