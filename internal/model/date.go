package model

import (
	"errors"
	"math"
	"math/bits"
	"strings"
	"time"
)

// DateLayout is the only accepted textual form for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string does not match DateLayout.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ErrInvalidRange is returned when check-out is not after check-in.
var ErrInvalidRange = errors.New("check_out must be after check_in")

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseRange parses a check-in/check-out pair and validates its order.
func ParseRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return in, out, nil
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

// Nights counts whole nights between two UTC-midnight dates.
// Unix seconds are used because time.Duration saturates after ~292 years.
func Nights(checkIn, checkOut time.Time) int64 {
	return (checkOut.Unix() - checkIn.Unix()) / 86400
}

// StayTotal returns priceCents × nights, or false when either is negative
// or the product does not fit in an int64.
func StayTotal(priceCents, nights int64) (int64, bool) {
	if priceCents < 0 || nights < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(priceCents), uint64(nights))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}
