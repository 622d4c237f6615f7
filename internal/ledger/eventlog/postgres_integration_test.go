//go:build integration

package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	store     *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("paystream"),
		tcpostgres.WithUsername("paystream"),
		tcpostgres.WithPassword("paystream"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)

	s.store = NewPostgres(s.pool)
	s.Require().NoError(s.store.EnsureSchema(ctx))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE stream_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()

	events := []Event{
		{StreamID: 7, Kind: KindClaimed, Timestamp: 1200, Amount: 40},
		{StreamID: 7, Kind: KindCreated, Timestamp: 1000, Amount: 100},
		{StreamID: 8, Kind: KindCancelled, Timestamp: 1300, ToRecipient: 60, ToSender: 40},
	}
	for _, e := range events {
		s.Require().NoError(s.store.Append(ctx, e))
	}

	got, err := s.store.ListByStream(ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(KindCreated, got[0].Kind)
	s.Equal(KindClaimed, got[1].Kind)

	got, err = s.store.ListByStream(ctx, 8)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.EqualValues(60, got[0].ToRecipient)
	s.EqualValues(40, got[0].ToSender)
}

func (s *PostgresStoreSuite) TestAppendConflictIsIgnored() {
	ctx := context.Background()
	e := Event{StreamID: 7, Kind: KindAccepted, Timestamp: 1100}

	s.Require().NoError(s.store.Append(ctx, e))
	s.Require().NoError(s.store.Append(ctx, e))

	got, err := s.store.ListByStream(ctx, 7)
	s.Require().NoError(err)
	s.Len(got, 1)
}
