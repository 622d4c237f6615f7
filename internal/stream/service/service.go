// Package service orchestrates the stream computation core over the ledger
// collaborator: fetch columns, classify, and answer rate, claimable, and
// settlement questions at an explicit instant supplied by the caller.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"paystream/internal/ledger/eventlog"
	"paystream/internal/platform/metrics"
	"paystream/internal/stream/classifier"
	"paystream/internal/stream/models"
	"paystream/internal/stream/vesting"

	dErrors "paystream/pkg/domain-errors"
)

// LedgerClient is the read-only fullnode surface the service depends on.
type LedgerClient interface {
	SenderStreams(ctx context.Context, account string) (classifier.Columns, error)
	ReceiverStreams(ctx context.Context, account string) (classifier.Columns, error)
	StreamEvents(ctx context.Context, streamID uint64) ([]eventlog.Event, error)
}

// SnapshotCache caches raw ledger columns per account and role.
type SnapshotCache interface {
	Get(ctx context.Context, party classifier.Party, account string) (classifier.Columns, bool, error)
	Set(ctx context.Context, party classifier.Party, account string, cols classifier.Columns) error
}

// Service answers stream queries. All amount math delegates to the pure
// vesting package; the service adds I/O, caching, and telemetry around it.
type Service struct {
	ledger  LedgerClient
	cache   SnapshotCache
	archive eventlog.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(cache SnapshotCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithEventArchive(store eventlog.Store) Option {
	return func(s *Service) {
		s.archive = store
	}
}

func New(ledger LedgerClient, opts ...Option) (*Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger client is required")
	}
	s := &Service{
		ledger:  ledger,
		archive: eventlog.NewInMemory(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SenderStreams lists the streams the account has created, partitioned by
// lifecycle state at the given instant.
func (s *Service) SenderStreams(ctx context.Context, account string, now int64) (classifier.Classified, error) {
	return s.classify(ctx, classifier.PartySender, account, now)
}

// ReceiverStreams lists the streams addressed to the account, partitioned by
// lifecycle state at the given instant.
func (s *Service) ReceiverStreams(ctx context.Context, account string, now int64) (classifier.Classified, error) {
	return s.classify(ctx, classifier.PartyRecipient, account, now)
}

func (s *Service) classify(ctx context.Context, party classifier.Party, account string, now int64) (classifier.Classified, error) {
	cols, err := s.columns(ctx, party, account)
	if err != nil {
		return classifier.Classified{}, err
	}

	classified, err := classifier.Classify(cols, party, account, now)
	if err != nil {
		return classifier.Classified{}, err
	}

	s.metrics.AddClassified(string(models.StatusPending), len(classified.Pending))
	s.metrics.AddClassified(string(models.StatusActive), len(classified.Active))
	s.metrics.AddClassified(string(models.StatusCompleted), len(classified.Completed))
	return classified, nil
}

// columns reads through the snapshot cache. Cache failures degrade to a
// direct ledger fetch; they are logged, never fatal.
func (s *Service) columns(ctx context.Context, party classifier.Party, account string) (classifier.Columns, error) {
	if s.cache != nil {
		cols, ok, err := s.cache.Get(ctx, party, account)
		if err != nil {
			s.logger.WarnContext(ctx, "snapshot cache read failed",
				"account", account, "party", party, "error", err)
		} else if ok {
			s.metrics.IncCacheHit()
			return cols, nil
		}
		s.metrics.IncCacheMiss()
	}

	start := time.Now()
	var (
		cols classifier.Columns
		err  error
	)
	switch party {
	case classifier.PartySender:
		cols, err = s.ledger.SenderStreams(ctx, account)
		s.metrics.ObserveLedgerQuery("get_senders_streams", time.Since(start))
	default:
		cols, err = s.ledger.ReceiverStreams(ctx, account)
		s.metrics.ObserveLedgerQuery("get_receivers_streams", time.Since(start))
	}
	if err != nil {
		return classifier.Columns{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, party, account, cols); err != nil {
			s.logger.WarnContext(ctx, "snapshot cache write failed",
				"account", account, "party", party, "error", err)
		}
	}
	return cols, nil
}

// NetRate is the account's signed flow in octas per second at the given
// instant: incoming active streams minus outgoing active streams. Both sides
// are fetched in parallel.
func (s *Service) NetRate(ctx context.Context, account string, now int64) (decimal.Decimal, error) {
	var sent, received classifier.Classified

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sent, err = s.SenderStreams(gctx, account, now)
		return err
	})
	g.Go(func() error {
		var err error
		received, err = s.ReceiverStreams(gctx, account, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	return vesting.NetRatePerSecond(received.Active, sent.Active, now), nil
}

// Claimable returns the currently vested amount of one received stream.
func (s *Service) Claimable(ctx context.Context, account string, streamID uint64, now int64) (models.Octas, error) {
	received, err := s.ReceiverStreams(ctx, account, now)
	if err != nil {
		return 0, err
	}
	stream, ok := received.Find(streamID)
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "no received stream %d for account %s", streamID, account)
	}
	return vesting.VestedAmount(stream, now), nil
}

// PreviewCancellation computes the vested/refund split of cancelling the
// stream right now. The account may be on either side of the stream. A fully
// vested stream is rejected: there is nothing left to cancel, and the preview
// must not suggest otherwise.
func (s *Service) PreviewCancellation(ctx context.Context, account string, streamID uint64, now int64) (vesting.Settlement, error) {
	stream, err := s.findStream(ctx, account, streamID, now)
	if err != nil {
		return vesting.Settlement{}, err
	}

	if err := vesting.CanCancel(stream, now); err != nil {
		return vesting.Settlement{}, err
	}

	s.metrics.IncSettlementPreview()
	return vesting.Settle(stream, now), nil
}

func (s *Service) findStream(ctx context.Context, account string, streamID uint64, now int64) (models.Stream, error) {
	sent, err := s.SenderStreams(ctx, account, now)
	if err != nil {
		return models.Stream{}, err
	}
	if stream, ok := sent.Find(streamID); ok {
		return stream, nil
	}

	received, err := s.ReceiverStreams(ctx, account, now)
	if err != nil {
		return models.Stream{}, err
	}
	if stream, ok := received.Find(streamID); ok {
		return stream, nil
	}

	return models.Stream{}, dErrors.Newf(dErrors.CodeNotFound, "no stream %d for account %s", streamID, account)
}

// History returns the stream's ordered lifecycle events. Fresh events are
// folded into the archive on every read; when the fullnode is unreachable the
// archive alone answers, so history degrades instead of disappearing.
func (s *Service) History(ctx context.Context, streamID uint64) ([]eventlog.Event, error) {
	start := time.Now()
	events, err := s.ledger.StreamEvents(ctx, streamID)
	s.metrics.ObserveLedgerQuery("stream_events", time.Since(start))
	if err != nil {
		s.logger.WarnContext(ctx, "event fetch failed; serving archived history",
			"stream_id", streamID, "error", err)
	} else {
		for _, event := range events {
			if err := s.archive.Append(ctx, event); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "archive stream event")
			}
		}
	}
	return s.archive.ListByStream(ctx, streamID)
}
