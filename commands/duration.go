package commands

import (
	"fmt"
	"strconv"
	"time"
)

// parseSeconds parses an MPD fractional-seconds field ("1.234") into a
// Duration, the same representation used for song durations and status
// timing fields.
func parseSeconds(value string) (time.Duration, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("commands: invalid duration %q: %w", value, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("commands: negative duration %q", value)
	}
	return time.Duration(f * float64(time.Second)), nil
}
