package vesting

import (
	"paystream/internal/stream/models"

	dErrors "paystream/pkg/domain-errors"
)

// Settlement is the split of a stream's value between the two parties at the
// moment of cancellation. ToRecipient + ToSender always equals the stream
// total exactly.
type Settlement struct {
	ToRecipient models.Octas `json:"to_recipient_octas"`
	ToSender    models.Octas `json:"to_sender_octas"`
}

// Settle computes the cancellation split at the given instant: what has
// already vested is owed to the recipient, the remainder refunds to the
// sender. For a pending stream this is a full refund. The computation is
// advisory; the ledger performs the actual movement, and this must match it.
func Settle(s models.Stream, now int64) Settlement {
	vested := VestedAmount(s, now)
	return Settlement{
		ToRecipient: vested,
		ToSender:    s.Total - vested,
	}
}

// CanCancel reports whether cancelling the stream at the given instant still
// moves any value. Once a stream has fully vested there is nothing left to
// cancel and the request should be rejected before reaching the ledger.
func CanCancel(s models.Stream, now int64) error {
	if s.Started() && VestedAmount(s, now) == s.Total {
		return dErrors.Newf(dErrors.CodeValidation, "stream %d is fully vested; nothing to cancel", s.ID)
	}
	return nil
}
