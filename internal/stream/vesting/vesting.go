// Package vesting implements the linear release math for payment streams:
// vested amounts, per-second rates, and cancellation settlements. Every
// function is pure in its inputs; "now" is always supplied by the caller and
// nothing here reads a clock or holds state.
package vesting

import (
	"github.com/shopspring/decimal"

	"paystream/internal/stream/models"
)

// VestedAmount returns how much of the stream has linearly released at the
// given instant, in octas.
//
// A pending stream (never accepted) vests nothing regardless of elapsed
// creation time. Elapsed time is clamped to [0, duration], so a caller clock
// behind the ledger's (now < startTime) yields zero rather than an error, and
// a long-completed stream caps at the total.
func VestedAmount(s models.Stream, now int64) models.Octas {
	if !s.Started() {
		return 0
	}

	elapsed := now - s.StartTime
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= s.Duration {
		return s.Total
	}

	// total * elapsed / duration with an exact integer quotient. QuoRem
	// truncates toward zero, which keeps the result monotonic in elapsed
	// and strictly below total before completion.
	q, _ := s.Total.Decimal().
		Mul(decimal.NewFromInt(elapsed)).
		QuoRem(decimal.NewFromInt(s.Duration), 0)
	return models.Octas(q.IntPart())
}

// RemainingAmount is the unvested remainder, total - vested. Never negative.
func RemainingAmount(s models.Stream, now int64) models.Octas {
	return s.Total - VestedAmount(s, now)
}
