// Package handler wires the stream service to HTTP. The transport stays
// thin: it parses the account, stream id, and optional "at" instant, then
// delegates every computation to the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paystream/internal/ledger"
	"paystream/internal/ledger/eventlog"
	"paystream/internal/platform/metrics"
	"paystream/internal/platform/middleware"
	"paystream/internal/stream/classifier"
	"paystream/internal/stream/models"
	"paystream/internal/stream/vesting"

	dErrors "paystream/pkg/domain-errors"
)

// Service defines the stream operations the HTTP layer exposes.
type Service interface {
	SenderStreams(ctx context.Context, account string, now int64) (classifier.Classified, error)
	ReceiverStreams(ctx context.Context, account string, now int64) (classifier.Classified, error)
	NetRate(ctx context.Context, account string, now int64) (decimal.Decimal, error)
	Claimable(ctx context.Context, account string, streamID uint64, now int64) (models.Octas, error)
	PreviewCancellation(ctx context.Context, account string, streamID uint64, now int64) (vesting.Settlement, error)
	History(ctx context.Context, streamID uint64) ([]eventlog.Event, error)
}

// Handler handles stream-related endpoints.
type Handler struct {
	service Service
	module  ledger.Module
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() int64
}

type Option func(*Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithClock overrides the wall clock; tests pin it.
func WithClock(clock func() int64) Option {
	return func(h *Handler) {
		h.clock = clock
	}
}

func New(service Service, module ledger.Module, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		module:  module,
		logger:  logger,
		clock:   func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the stream routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		router.Use(middleware.Latency(h.metrics))
	}

	router.Get("/v1/accounts/{address}/streams/sent", h.handleSentStreams)
	router.Get("/v1/accounts/{address}/streams/received", h.handleReceivedStreams)
	router.Get("/v1/accounts/{address}/rate", h.handleNetRate)
	router.Get("/v1/accounts/{address}/streams/{id}/claimable", h.handleClaimable)
	router.Get("/v1/accounts/{address}/streams/{id}/settlement", h.handleSettlement)
	router.Get("/v1/streams/{id}/events", h.handleHistory)

	router.Post("/v1/payloads/create", h.handleCreatePayload)
	router.Post("/v1/payloads/accept", h.handleAcceptPayload)
	router.Post("/v1/payloads/claim", h.handleClaimPayload)
	router.Post("/v1/payloads/cancel", h.handleCancelPayload)

	r.Mount("/", router)
}

// now resolves the evaluation instant: the "at" query parameter when present
// (unix seconds), else the server clock. One request sees one instant.
func (h *Handler) now(r *http.Request) (int64, error) {
	at := r.URL.Query().Get("at")
	if at == "" {
		return h.clock(), nil
	}
	v, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "at %q is not a unix timestamp", at)
	}
	return v, nil
}

func streamID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "stream id %q is not an integer", raw)
	}
	return id, nil
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(r.Context()),
	)
}

type listingResponse struct {
	Account string                `json:"account"`
	At      int64                 `json:"at"`
	Streams classifier.Classified `json:"streams"`
}

func (h *Handler) handleSentStreams(w http.ResponseWriter, r *http.Request) {
	h.handleListing(w, r, h.service.SenderStreams)
}

func (h *Handler) handleReceivedStreams(w http.ResponseWriter, r *http.Request) {
	h.handleListing(w, r, h.service.ReceiverStreams)
}

func (h *Handler) handleListing(
	w http.ResponseWriter,
	r *http.Request,
	list func(context.Context, string, int64) (classifier.Classified, error),
) {
	now, err := h.now(r)
	if err != nil {
		writeError(w, err)
		return
	}
	account := chi.URLParam(r, "address")

	classified, err := list(r.Context(), account, now)
	if err != nil {
		h.logError(r, "stream listing failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingResponse{Account: account, At: now, Streams: classified})
}

func (h *Handler) handleNetRate(w http.ResponseWriter, r *http.Request) {
	now, err := h.now(r)
	if err != nil {
		writeError(w, err)
		return
	}
	account := chi.URLParam(r, "address")

	rate, err := h.service.NetRate(r.Context(), account, now)
	if err != nil {
		h.logError(r, "net rate computation failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account":          account,
		"at":               now,
		"octas_per_second": rate.String(),
		"display":          vesting.FormatRate(rate),
	})
}

func (h *Handler) handleClaimable(w http.ResponseWriter, r *http.Request) {
	now, err := h.now(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := streamID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	account := chi.URLParam(r, "address")

	claimable, err := h.service.Claimable(r.Context(), account, id, now)
	if err != nil {
		h.logError(r, "claimable computation failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stream_id":       id,
		"at":              now,
		"claimable_octas": claimable,
		"claimable_apt":   claimable.Coins().String(),
	})
}

func (h *Handler) handleSettlement(w http.ResponseWriter, r *http.Request) {
	now, err := h.now(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := streamID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	account := chi.URLParam(r, "address")

	settlement, err := h.service.PreviewCancellation(r.Context(), account, id, now)
	if err != nil {
		h.logError(r, "settlement preview failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stream_id":  id,
		"at":         now,
		"settlement": settlement,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := streamID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := h.service.History(r.Context(), id)
	if err != nil {
		h.logError(r, "event history fetch failed", err)
		writeError(w, err)
		return
	}
	if events == nil {
		events = []eventlog.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stream_id": id,
		"events":    events,
	})
}
