// Package classifier turns the ledger's columnar stream listings into typed
// streams partitioned by lifecycle state.
package classifier

import (
	"strconv"

	"paystream/internal/stream/models"

	dErrors "paystream/pkg/domain-errors"
)

// Party says which side of the streams the queried account is on. The ledger
// returns only the counterparty column, so the caller's own role decides
// which field the account fills in.
type Party string

const (
	PartySender    Party = "sender"
	PartyRecipient Party = "recipient"
)

// Columns is the raw five-column ledger view response. Index i across all
// columns describes one stream. Numeric fields arrive string-encoded and are
// parsed losslessly here, never through a float.
type Columns struct {
	Counterparties []string
	StartTimes     []string
	Durations      []string
	Amounts        []string
	IDs            []string
}

// Len returns the row count, or an error when the columns disagree.
func (c Columns) Len() (int, error) {
	n := len(c.Counterparties)
	for name, col := range map[string][]string{
		"start_times": c.StartTimes,
		"durations":   c.Durations,
		"amounts":     c.Amounts,
		"ids":         c.IDs,
	} {
		if len(col) != n {
			return 0, dErrors.Newf(dErrors.CodeMalformedResponse,
				"column %s has %d entries, expected %d", name, len(col), n)
		}
	}
	return n, nil
}

// Classified holds the three disjoint lifecycle partitions, each preserving
// the ledger's input order.
type Classified struct {
	Pending   []models.Stream `json:"pending"`
	Active    []models.Stream `json:"active"`
	Completed []models.Stream `json:"completed"`
}

// Find looks a stream up by id across all three partitions.
func (c Classified) Find(id uint64) (models.Stream, bool) {
	for _, part := range [][]models.Stream{c.Pending, c.Active, c.Completed} {
		for _, s := range part {
			if s.ID == id {
				return s, true
			}
		}
	}
	return models.Stream{}, false
}

// Classify parses the columns and partitions every stream by its state at the
// given instant: start time 0 is pending, start+duration <= now is completed,
// anything else is active. Pure in its inputs; errors are surfaced, never
// retried here.
func Classify(cols Columns, party Party, account string, now int64) (Classified, error) {
	n, err := cols.Len()
	if err != nil {
		return Classified{}, err
	}

	var out Classified
	for i := 0; i < n; i++ {
		start, err := strconv.ParseInt(cols.StartTimes[i], 10, 64)
		if err != nil {
			return Classified{}, dErrors.Newf(dErrors.CodeMalformedResponse,
				"start time %q at index %d is not an integer", cols.StartTimes[i], i)
		}
		duration, err := strconv.ParseInt(cols.Durations[i], 10, 64)
		if err != nil {
			return Classified{}, dErrors.Newf(dErrors.CodeMalformedResponse,
				"duration %q at index %d is not an integer", cols.Durations[i], i)
		}
		amount, err := models.ParseOctas(cols.Amounts[i])
		if err != nil {
			return Classified{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse,
				"amount at index "+strconv.Itoa(i))
		}
		id, err := strconv.ParseUint(cols.IDs[i], 10, 64)
		if err != nil {
			return Classified{}, dErrors.Newf(dErrors.CodeMalformedResponse,
				"stream id %q at index %d is not an integer", cols.IDs[i], i)
		}

		sender, recipient := account, cols.Counterparties[i]
		if party == PartyRecipient {
			sender, recipient = recipient, sender
		}

		stream, err := models.NewStream(id, sender, recipient, amount, start, duration)
		if err != nil {
			return Classified{}, err
		}

		switch stream.StatusAt(now) {
		case models.StatusPending:
			out.Pending = append(out.Pending, stream)
		case models.StatusCompleted:
			out.Completed = append(out.Completed, stream)
		default:
			out.Active = append(out.Active, stream)
		}
	}
	return out, nil
}
