package models

import (
	"strconv"

	"github.com/shopspring/decimal"

	dErrors "paystream/pkg/domain-errors"
)

// OctasPerCoin is the fixed-point scale of the ledger: one coin is 10^8 octas.
// All amount math happens in octas; coin conversion is display-only.
const OctasPerCoin = 100_000_000

// Octas is an amount in the ledger's smallest unit.
type Octas int64

// Decimal returns the amount as an exact decimal, still in octas.
func (o Octas) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(o))
}

// Coins converts to whole-coin units at the 10^8 scale.
func (o Octas) Coins() decimal.Decimal {
	return decimal.NewFromInt(int64(o)).Shift(-8)
}

func (o Octas) String() string {
	return strconv.FormatInt(int64(o), 10)
}

// ParseOctas parses a string-encoded smallest-unit amount without passing
// through a float. Negative amounts are rejected.
func ParseOctas(s string) (Octas, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "amount is not an integer")
	}
	if v < 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidStream, "negative amount %d", v)
	}
	return Octas(v), nil
}

// Status is the derived lifecycle state of a stream. It is never stored;
// it is recomputed from timestamps and the caller's clock.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Stream is a time-locked, linearly releasing transfer of value.
//
// Invariants:
//   - Duration > 0 (enforced by NewStream)
//   - Total >= 0 (enforced by NewStream)
//   - StartTime == 0 means the recipient has not accepted yet; nothing vests
//   - Once read from the ledger the value is immutable
//
// All times are unix seconds, matching the ledger's own unit.
type Stream struct {
	ID        uint64 `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Total     Octas  `json:"total_octas"`
	StartTime int64  `json:"start_time"`
	Duration  int64  `json:"duration_seconds"`
}

// NewStream validates construction invariants before a stream enters any
// vesting or classification math. Invalid streams are rejected, never clamped.
func NewStream(id uint64, sender, recipient string, total Octas, startTime, duration int64) (Stream, error) {
	if duration <= 0 {
		return Stream{}, dErrors.Newf(dErrors.CodeInvalidStream, "stream %d: duration must be positive, got %d", id, duration)
	}
	if total < 0 {
		return Stream{}, dErrors.Newf(dErrors.CodeInvalidStream, "stream %d: amount must be non-negative, got %d", id, total)
	}
	if startTime < 0 {
		return Stream{}, dErrors.Newf(dErrors.CodeInvalidStream, "stream %d: start time must be non-negative, got %d", id, startTime)
	}
	return Stream{
		ID:        id,
		Sender:    sender,
		Recipient: recipient,
		Total:     total,
		StartTime: startTime,
		Duration:  duration,
	}, nil
}

// Started reports whether the recipient has accepted the stream.
func (s Stream) Started() bool {
	return s.StartTime > 0
}

// EndTime is the instant the stream fully vests. Zero for pending streams.
func (s Stream) EndTime() int64 {
	if !s.Started() {
		return 0
	}
	return s.StartTime + s.Duration
}

// StatusAt derives the lifecycle state at the given instant.
func (s Stream) StatusAt(now int64) Status {
	switch {
	case !s.Started():
		return StatusPending
	case s.EndTime() <= now:
		return StatusCompleted
	default:
		return StatusActive
	}
}
