package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"paystream/internal/stream/models"

	dErrors "paystream/pkg/domain-errors"
)

// Payload endpoints return unsigned entry-function bodies for the caller's
// wallet to sign. Amounts arrive as coin-denominated decimal strings and are
// converted to octas here, at the boundary; anything finer than the 10^-8
// scale is not representable on the ledger and is rejected.

type createPayloadRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Duration  string `json:"duration"`
}

func (h *Handler) handleCreatePayload(w http.ResponseWriter, r *http.Request) {
	var req createPayloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Recipient == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "recipient is required"))
		return
	}

	amount, err := parseCoinAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	duration, err := models.ParseHumanDuration(req.Duration)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.module.CreateStreamPayload(req.Recipient, amount, duration))
}

type counterpartyRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
}

func (h *Handler) handleAcceptPayload(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCounterparty(r, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.module.AcceptStreamPayload(req.Sender))
}

func (h *Handler) handleClaimPayload(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCounterparty(r, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.module.ClaimStreamPayload(req.Sender))
}

func (h *Handler) handleCancelPayload(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCounterparty(r, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.module.CancelStreamPayload(req.Sender, req.Recipient))
}

func decodeCounterparty(r *http.Request, needRecipient bool) (counterpartyRequest, error) {
	var req counterpartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	if req.Sender == "" {
		return req, dErrors.New(dErrors.CodeValidation, "sender is required")
	}
	if needRecipient && req.Recipient == "" {
		return req, dErrors.New(dErrors.CodeValidation, "recipient is required")
	}
	return req, nil
}

// parseCoinAmount converts a coin-denominated decimal string to octas.
func parseCoinAmount(raw string) (models.Octas, error) {
	coins, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeValidation, "amount %q is not a decimal number", raw)
	}
	if coins.IsNegative() {
		return 0, dErrors.Newf(dErrors.CodeValidation, "amount %q is negative", raw)
	}

	octas := coins.Shift(8)
	if !octas.Equal(octas.Truncate(0)) {
		return 0, dErrors.Newf(dErrors.CodeValidation,
			"amount %q is finer than the 10^-8 ledger scale", raw)
	}
	return models.Octas(octas.IntPart()), nil
}
