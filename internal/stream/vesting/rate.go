package vesting

import (
	"github.com/shopspring/decimal"

	"paystream/internal/stream/models"
)

// RatePerSecond is the stream's instantaneous release rate in octas per
// second. The quotient keeps decimal precision so a small amount over a long
// duration does not collapse to zero.
func RatePerSecond(s models.Stream) decimal.Decimal {
	return s.Total.Decimal().Div(decimal.NewFromInt(s.Duration))
}

// NetRatePerSecond sums the signed release rates across an account's streams
// at the given instant: incoming streams count positive, outgoing negative.
// Only active streams contribute; a pending stream has not started releasing
// and a completed stream's instantaneous rate is zero.
func NetRatePerSecond(incoming, outgoing []models.Stream, now int64) decimal.Decimal {
	net := decimal.Zero
	for _, s := range incoming {
		if s.StatusAt(now) == models.StatusActive {
			net = net.Add(RatePerSecond(s))
		}
	}
	for _, s := range outgoing {
		if s.StatusAt(now) == models.StatusActive {
			net = net.Sub(RatePerSecond(s))
		}
	}
	return net
}
