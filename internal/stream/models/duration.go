package models

import (
	"strconv"
	"strings"

	dErrors "paystream/pkg/domain-errors"
)

// Duration units accepted by ParseHumanDuration. Months and years use the
// ledger's fixed calendar (30-day months, 365-day years).
var durationUnits = map[string]int64{
	"second": 1,
	"minute": 60,
	"hour":   60 * 60,
	"day":    60 * 60 * 24,
	"week":   60 * 60 * 24 * 7,
	"month":  60 * 60 * 24 * 30,
	"year":   60 * 60 * 24 * 365,
}

// ParseHumanDuration converts inputs like "30 seconds" or "1 month" into a
// span of seconds. The span must come out strictly positive.
func ParseHumanDuration(input string) (int64, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) != 2 {
		return 0, dErrors.Newf(dErrors.CodeValidation, "duration must look like \"1 month\", got %q", input)
	}

	amount, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeValidation, "duration amount %q is not a number", fields[0])
	}

	unit := strings.TrimSuffix(fields[1], "s")
	scale, ok := durationUnits[unit]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeValidation, "unknown duration unit %q", fields[1])
	}

	seconds := int64(amount * float64(scale))
	if seconds <= 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidStream, "duration %q is not a positive span", input)
	}
	return seconds, nil
}
