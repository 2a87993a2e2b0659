package models

import (
	"fmt"
	"strconv"
	"time"
)

// compactTimestampLen is the minimum length of a robot timestamp:
// YYYYMMDD?HHMMSS with a single separator byte at index 8.
const compactTimestampLen = 15

// ParseCompactTimestamp parses the robot's fixed-width timestamp layout:
// characters [0,4) year, [4,6) month, [6,8) day, [9,11) hour, [11,13) minute,
// [13,15) second. The byte at index 8 is a literal separator and is skipped,
// not validated. Trailing bytes beyond index 15 are ignored. Any other layout
// is outside the producer's contract and fails.
func ParseCompactTimestamp(ts string) (time.Time, error) {
	if len(ts) < compactTimestampLen {
		return time.Time{}, fmt.Errorf("timestamp %q too short: need at least %d bytes", ts, compactTimestampLen)
	}

	fields := []struct {
		name string
		lo   int
		hi   int
	}{
		{"year", 0, 4},
		{"month", 4, 6},
		{"day", 6, 8},
		{"hour", 9, 11},
		{"minute", 11, 13},
		{"second", 13, 15},
	}

	parsed := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(ts[f.lo:f.hi])
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: bad %s field: %w", ts, f.name, err)
		}
		parsed[i] = v
	}

	return time.Date(parsed[0], time.Month(parsed[1]), parsed[2], parsed[3], parsed[4], parsed[5], 0, time.UTC), nil
}
