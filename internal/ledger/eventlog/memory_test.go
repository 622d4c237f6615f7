package eventlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestAppendAndList() {
	events := []Event{
		{StreamID: 7, Kind: KindClaimed, Timestamp: 1200, Amount: 40},
		{StreamID: 7, Kind: KindCreated, Timestamp: 1000, Amount: 100},
		{StreamID: 7, Kind: KindAccepted, Timestamp: 1100},
		{StreamID: 9, Kind: KindCreated, Timestamp: 1050, Amount: 5},
	}
	for _, e := range events {
		s.Require().NoError(s.store.Append(s.ctx, e))
	}

	s.Run("orders by timestamp", func() {
		got, err := s.store.ListByStream(s.ctx, 7)
		s.Require().NoError(err)
		s.Require().Len(got, 3)
		s.Equal(KindCreated, got[0].Kind)
		s.Equal(KindAccepted, got[1].Kind)
		s.Equal(KindClaimed, got[2].Kind)
	})

	s.Run("filters by stream", func() {
		got, err := s.store.ListByStream(s.ctx, 9)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.EqualValues(5, got[0].Amount)
	})

	s.Run("unknown stream is empty", func() {
		got, err := s.store.ListByStream(s.ctx, 404)
		s.Require().NoError(err)
		s.Empty(got)
	})
}

func (s *MemoryStoreSuite) TestAppendIsIdempotent() {
	e := Event{StreamID: 7, Kind: KindCancelled, Timestamp: 1300, ToRecipient: 60, ToSender: 40}
	s.Require().NoError(s.store.Append(s.ctx, e))
	s.Require().NoError(s.store.Append(s.ctx, e))

	got, err := s.store.ListByStream(s.ctx, 7)
	s.Require().NoError(err)
	s.Len(got, 1)
}
