// Package core provides the domain types shared across the hours engine.
//
// This file contains hour parsing and derivation. Hour figures arrive as
// user-entered text with either comma or dot decimal separators; clock times
// arrive as "HH:MM" strings. Everything here is pure.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseHours converts a decimal string to fractional hours.
//
// It accepts both dot (7.5) and comma (7,5) decimal separators.
// Returns false for empty or non-numeric input.
//
// Examples:
//
//	ParseHours("7.5")  -> 7.5, true
//	ParseHours("7,5")  -> 7.5, true
//	ParseHours(" ")    -> 0, false
func ParseHours(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseClock parses an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// RangeHours derives fractional hours from a start/end clock pair, rounded
// to 2 decimals. Returns false when either end is missing or malformed, or
// when the difference is not positive. An inverted range never yields a
// phantom positive duration.
func RangeHours(start, end string) (float64, bool) {
	sm, ok := ParseClock(start)
	if !ok {
		return 0, false
	}
	em, ok := ParseClock(end)
	if !ok {
		return 0, false
	}
	if em <= sm {
		return 0, false
	}
	return Round2(float64(em-sm) / 60.0), true
}

// EntryHours derives the effective hours of a draft entry: an explicitly
// parseable Hours string wins, else a positive start/end range, else 0.
// Pure and idempotent; it also backs the running totals shown before save.
func EntryHours(e RegistrationEntry) float64 {
	if v, ok := ParseHours(e.Hours); ok {
		return Round2(v)
	}
	if v, ok := RangeHours(e.StartTime, e.EndTime); ok {
		return v
	}
	return 0
}

// Round2 rounds half away from zero to 2 decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
