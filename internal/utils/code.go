package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const codePrefix = "TRV"

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateBookingCode builds a human-readable booking code: fixed TRV
// prefix, the last 8 digits of the millisecond timestamp, and 3 random
// base36 characters. Collisions are caught by the unique constraint on
// the bookings table, not here.
func GenerateBookingCode(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	var sb strings.Builder
	sb.WriteString(codePrefix)
	sb.WriteString(ts)
	for i := 0; i < 3; i++ {
		sb.WriteByte(base36[rand.Intn(len(base36))])
	}
	return sb.String()
}

// NormalizeSeatLabel uppercases and trims user-supplied seat labels so
// "a1 " and "A1" address the same seat.
func NormalizeSeatLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
