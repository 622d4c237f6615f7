package vesting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var rateUnits = []struct {
	factor int64
	label  string
}{
	{60, "min"},
	{60, "hr"},
	{24, "day"},
	{7, "week"},
	{4, "month"},
	{12, "year"},
}

// FormatRate renders an octas-per-second rate as a human display string,
// escalating the time unit until the coin magnitude reaches one, e.g.
// "2 APT / s" or "30 APT / min". Computation elsewhere stays in octas; this
// is the only place a rate becomes coin-denominated text.
func FormatRate(octasPerSecond decimal.Decimal) string {
	if octasPerSecond.IsZero() {
		return "0 APT / s"
	}

	coins := octasPerSecond.Shift(-8)
	if coins.Abs().GreaterThanOrEqual(decimal.New(1, 0)) {
		return fmt.Sprintf("%s APT / s", coins.Round(3))
	}

	for _, unit := range rateUnits {
		coins = coins.Mul(decimal.NewFromInt(unit.factor))
		if coins.Abs().GreaterThanOrEqual(decimal.New(1, 0)) {
			return fmt.Sprintf("%s APT / %s", coins.Round(3), unit.label)
		}
	}
	return fmt.Sprintf("%s APT / year", coins.Round(3))
}

// FormatDurationShort renders a span of seconds compactly, e.g. "2.00 days".
func FormatDurationShort(seconds int64) string {
	const (
		minute = 60
		hour   = 60 * minute
		day    = 24 * hour
		year   = 365 * day
	)
	v := float64(seconds)
	switch {
	case v >= year:
		return fmt.Sprintf("%.2f years", v/year)
	case v >= day:
		return fmt.Sprintf("%.2f days", v/day)
	case v >= hour:
		return fmt.Sprintf("%.2f hours", v/hour)
	case v >= minute:
		return fmt.Sprintf("%.2f minutes", v/minute)
	default:
		return fmt.Sprintf("%.2f seconds", v)
	}
}
