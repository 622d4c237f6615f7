// Package ledger is the read-only collaborator client for the streaming
// module's fullnode API: view-function queries for stream listings, event
// store reads for history, and unsigned entry-function payload construction.
// It never signs, submits, or retries; those concerns belong to the caller.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"paystream/internal/stream/classifier"

	dErrors "paystream/pkg/domain-errors"
)

// Module locates the streaming Move module on chain.
type Module struct {
	Address string
	Name    string
}

func (m Module) String() string {
	return m.Address + "::" + m.Name
}

func (m Module) function(name string) string {
	return fmt.Sprintf("%s::%s", m, name)
}

// Config holds the fullnode endpoints the client talks to.
type Config struct {
	FullnodeURL     string
	Module          Module
	ResourceAccount string
	Timeout         time.Duration
}

// Client queries the fullnode. Safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type viewRequest struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// SenderStreams fetches the columnar listing of streams the account has sent.
func (c *Client) SenderStreams(ctx context.Context, account string) (classifier.Columns, error) {
	return c.streamColumns(ctx, "get_senders_streams", account)
}

// ReceiverStreams fetches the columnar listing of streams the account receives.
func (c *Client) ReceiverStreams(ctx context.Context, account string) (classifier.Columns, error) {
	return c.streamColumns(ctx, "get_receivers_streams", account)
}

func (c *Client) streamColumns(ctx context.Context, view, account string) (classifier.Columns, error) {
	body, err := json.Marshal(viewRequest{
		Function:      c.cfg.Module.function(view),
		TypeArguments: []string{},
		Arguments:     []string{account},
	})
	if err != nil {
		return classifier.Columns{}, dErrors.Wrap(err, dErrors.CodeInternal, "encode view request")
	}

	endpoint := c.cfg.FullnodeURL + "/v1/view"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return classifier.Columns{}, dErrors.Wrap(err, dErrors.CodeInternal, "build view request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifier.Columns{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "fullnode view request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifier.Columns{}, dErrors.Newf(dErrors.CodeUnavailable,
			"fullnode view %s returned %d", view, resp.StatusCode)
	}

	var raw [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return classifier.Columns{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "decode view response")
	}
	if len(raw) != 5 {
		return classifier.Columns{}, dErrors.Newf(dErrors.CodeMalformedResponse,
			"view %s returned %d columns, expected 5", view, len(raw))
	}

	cols := classifier.Columns{}
	for i, dst := range []*[]string{
		&cols.Counterparties, &cols.StartTimes, &cols.Durations, &cols.Amounts, &cols.IDs,
	} {
		column, err := decodeColumn(raw[i])
		if err != nil {
			return classifier.Columns{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse,
				fmt.Sprintf("decode column %d", i))
		}
		*dst = column
	}
	return cols, nil
}

// decodeColumn normalizes a column to strings. Fullnodes encode u64 fields as
// JSON strings but some emit small integers bare; both forms are accepted and
// kept lossless (numbers go through json.Number, never float64).
func decodeColumn(raw []json.RawMessage) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, elem := range raw {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(elem, &n); err != nil {
			return nil, fmt.Errorf("element %s is neither string nor number", elem)
		}
		out = append(out, n.String())
	}
	return out, nil
}
