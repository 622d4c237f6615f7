package ledger

import (
	"strconv"

	"paystream/internal/stream/models"
)

// EntryFunctionPayload is the unsigned transaction body a wallet-owning
// caller signs and submits. This service only predicts outcomes; it never
// submits these itself.
type EntryFunctionPayload struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
	Type          string   `json:"type"`
}

const payloadType = "entry_function_payload"

func (m Module) payload(function string, args ...string) EntryFunctionPayload {
	return EntryFunctionPayload{
		Function:      m.function(function),
		TypeArguments: []string{},
		Arguments:     args,
		Type:          payloadType,
	}
}

// CreateStreamPayload opens a new pending stream from the signer to the
// recipient. Amounts are smallest-unit strings so nothing passes through a
// float on the way to the chain.
func (m Module) CreateStreamPayload(recipient string, amount models.Octas, durationSeconds int64) EntryFunctionPayload {
	return m.payload("create_stream", recipient, amount.String(), strconv.FormatInt(durationSeconds, 10))
}

// AcceptStreamPayload starts the stream identified by its sender; the signer
// is the recipient and the ledger stamps startTime at execution.
func (m Module) AcceptStreamPayload(sender string) EntryFunctionPayload {
	return m.payload("accept_stream", sender)
}

// ClaimStreamPayload withdraws the signer's currently vested amount without
// ending the stream.
func (m Module) ClaimStreamPayload(sender string) EntryFunctionPayload {
	return m.payload("claim_stream", sender)
}

// CancelStreamPayload ends the stream between the two parties; the ledger
// performs its own authoritative settlement, which vesting.Settle must match.
func (m Module) CancelStreamPayload(sender, recipient string) EntryFunctionPayload {
	return m.payload("cancel_stream", sender, recipient)
}
