// Package eventlog stores the per-stream lifecycle history surfaced by the
// ledger's module event stores. History is display-only; live state is always
// recomputed from the view functions and the caller's clock.
package eventlog

import (
	"context"

	"paystream/internal/stream/models"
)

// Kind names a lifecycle event.
type Kind string

const (
	KindCreated   Kind = "created"
	KindAccepted  Kind = "accepted"
	KindClaimed   Kind = "claimed"
	KindCancelled Kind = "cancelled"
)

// Event is one lifecycle entry for a stream. Amount is set for created and
// claimed events; ToRecipient/ToSender carry the settlement split of a
// cancellation.
type Event struct {
	StreamID    uint64       `json:"stream_id"`
	Kind        Kind         `json:"kind"`
	Timestamp   int64        `json:"timestamp"`
	Amount      models.Octas `json:"amount_octas,omitempty"`
	ToRecipient models.Octas `json:"to_recipient_octas,omitempty"`
	ToSender    models.Octas `json:"to_sender_octas,omitempty"`
}

// Store archives lifecycle events. Append is idempotent on
// (stream, kind, timestamp) because fullnode event stores are re-read on
// every refresh.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByStream(ctx context.Context, streamID uint64) ([]Event, error)
}
