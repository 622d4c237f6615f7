package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"paystream/internal/ledger/eventlog"
	"paystream/internal/stream/models"

	dErrors "paystream/pkg/domain-errors"
)

// The module's event stores, one per lifecycle transition.
var eventStores = []string{
	"stream_create",
	"stream_accept",
	"stream_claim",
	"stream_close",
}

const eventFetchLimit = 10000

type eventEntry struct {
	Type string    `json:"type"`
	Data eventData `json:"data"`
}

type eventData struct {
	StreamID         string `json:"stream_id"`
	Timestamp        string `json:"timestamp"`
	Amount           string `json:"amount"`
	AmountToReceiver string `json:"amount_to_receiver"`
	AmountToSender   string `json:"amount_to_sender"`
}

// StreamEvents fetches every lifecycle event for one stream, normalized and
// ordered by timestamp. The four event stores are read in parallel.
func (c *Client) StreamEvents(ctx context.Context, streamID uint64) ([]eventlog.Event, error) {
	g, ctx := errgroup.WithContext(ctx)

	perStore := make([][]eventEntry, len(eventStores))
	for i, store := range eventStores {
		g.Go(func() error {
			entries, err := c.eventStore(ctx, store)
			if err != nil {
				return err
			}
			perStore[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var events []eventlog.Event
	for _, entries := range perStore {
		for _, entry := range entries {
			event, ok, err := normalizeEvent(entry)
			if err != nil {
				return nil, err
			}
			if ok && event.StreamID == streamID {
				events = append(events, event)
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return events, nil
}

func (c *Client) eventStore(ctx context.Context, store string) ([]eventEntry, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/events/%s::ModuleEventStore/%s_events?limit=%d",
		c.cfg.FullnodeURL, c.cfg.ResourceAccount, c.cfg.Module, store, eventFetchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build events request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "fullnode events request failed")
	}
	defer resp.Body.Close()

	// A store with no emitted events yet comes back 404; treat it as empty
	// rather than failing history for the other stores.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.Newf(dErrors.CodeUnavailable,
			"fullnode events %s returned %d", store, resp.StatusCode)
	}

	var entries []eventEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "decode events response")
	}
	return entries, nil
}

// normalizeEvent maps a raw fullnode event entry to a lifecycle event. Events
// of unknown type are skipped, not failed: the module may add event kinds
// this service does not display yet.
func normalizeEvent(entry eventEntry) (eventlog.Event, bool, error) {
	var kind eventlog.Kind
	switch {
	case strings.Contains(entry.Type, "StreamCreateEvent"):
		kind = eventlog.KindCreated
	case strings.Contains(entry.Type, "StreamAcceptEvent"):
		kind = eventlog.KindAccepted
	case strings.Contains(entry.Type, "StreamClaimEvent"):
		kind = eventlog.KindClaimed
	case strings.Contains(entry.Type, "StreamCloseEvent"):
		kind = eventlog.KindCancelled
	default:
		return eventlog.Event{}, false, nil
	}

	streamID, err := strconv.ParseUint(entry.Data.StreamID, 10, 64)
	if err != nil {
		return eventlog.Event{}, false, dErrors.Newf(dErrors.CodeMalformedResponse,
			"event stream_id %q is not an integer", entry.Data.StreamID)
	}
	ts, err := strconv.ParseInt(entry.Data.Timestamp, 10, 64)
	if err != nil {
		return eventlog.Event{}, false, dErrors.Newf(dErrors.CodeMalformedResponse,
			"event timestamp %q is not an integer", entry.Data.Timestamp)
	}

	event := eventlog.Event{StreamID: streamID, Kind: kind, Timestamp: ts}
	if entry.Data.Amount != "" {
		if event.Amount, err = models.ParseOctas(entry.Data.Amount); err != nil {
			return eventlog.Event{}, false, err
		}
	}
	if entry.Data.AmountToReceiver != "" {
		if event.ToRecipient, err = models.ParseOctas(entry.Data.AmountToReceiver); err != nil {
			return eventlog.Event{}, false, err
		}
	}
	if entry.Data.AmountToSender != "" {
		if event.ToSender, err = models.ParseOctas(entry.Data.AmountToSender); err != nil {
			return eventlog.Event{}, false, err
		}
	}
	return event, true, nil
}
