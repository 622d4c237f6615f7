package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"paystream/internal/ledger"
	"paystream/internal/ledger/eventlog"
	"paystream/internal/stream/classifier"
	"paystream/internal/stream/models"
	"paystream/internal/stream/vesting"

	dErrors "paystream/pkg/domain-errors"
)

// fakeService returns canned answers and records the instants it was asked
// about.
type fakeService struct {
	classified classifier.Classified
	rate       decimal.Decimal
	claimable  models.Octas
	settlement vesting.Settlement
	events     []eventlog.Event
	err        error
	lastNow    int64
}

func (f *fakeService) SenderStreams(_ context.Context, _ string, now int64) (classifier.Classified, error) {
	f.lastNow = now
	return f.classified, f.err
}

func (f *fakeService) ReceiverStreams(_ context.Context, _ string, now int64) (classifier.Classified, error) {
	f.lastNow = now
	return f.classified, f.err
}

func (f *fakeService) NetRate(_ context.Context, _ string, now int64) (decimal.Decimal, error) {
	f.lastNow = now
	return f.rate, f.err
}

func (f *fakeService) Claimable(_ context.Context, _ string, _ uint64, now int64) (models.Octas, error) {
	f.lastNow = now
	return f.claimable, f.err
}

func (f *fakeService) PreviewCancellation(_ context.Context, _ string, _ uint64, now int64) (vesting.Settlement, error) {
	f.lastNow = now
	return f.settlement, f.err
}

func (f *fakeService) History(_ context.Context, _ uint64) ([]eventlog.Event, error) {
	return f.events, f.err
}

type HandlerSuite struct {
	suite.Suite
	service *fakeService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = &fakeService{}

	module := ledger.Module{Address: "0xcafe", Name: "pay_me_a_river"}
	logger := slog.New(slog.DiscardHandler)
	h := New(s.service, module, logger, WithClock(func() int64 { return 5000 }))

	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestListings() {
	stream, err := models.NewStream(1, "0xme", "0xb", 100, 1000, 60)
	s.Require().NoError(err)
	s.service.classified = classifier.Classified{Active: []models.Stream{stream}}

	s.Run("uses the at parameter", func() {
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/sent?at=1030", "")
		s.Equal(http.StatusOK, rec.Code)
		s.EqualValues(1030, s.service.lastNow)

		var body struct {
			Account string                `json:"account"`
			At      int64                 `json:"at"`
			Streams classifier.Classified `json:"streams"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("0xme", body.Account)
		s.Len(body.Streams.Active, 1)
	})

	s.Run("defaults to the server clock", func() {
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/received", "")
		s.Equal(http.StatusOK, rec.Code)
		s.EqualValues(5000, s.service.lastNow)
	})

	s.Run("rejects a malformed at parameter", func() {
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/sent?at=yesterday", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestNetRate() {
	s.service.rate = decimal.RequireFromString("50000000") // 0.5 APT/s in octas

	rec := s.do(http.MethodGet, "/v1/accounts/0xme/rate?at=1030", "")
	s.Equal(http.StatusOK, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("50000000", body["octas_per_second"])
	s.Equal("30 APT / min", body["display"])
}

func (s *HandlerSuite) TestClaimable() {
	s.service.claimable = 150_000_000

	rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/7/claimable?at=1030", "")
	s.Equal(http.StatusOK, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("1.5", body["claimable_apt"])
}

func (s *HandlerSuite) TestSettlement() {
	s.Run("returns the split", func() {
		s.service.settlement = vesting.Settlement{ToRecipient: 50, ToSender: 50}
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/7/settlement?at=1050", "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("maps validation errors to 400", func() {
		s.service.err = dErrors.New(dErrors.CodeValidation, "fully vested")
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/7/settlement", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("maps not found to 404", func() {
		s.service.err = dErrors.New(dErrors.CodeNotFound, "no stream")
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/7/settlement", "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("maps upstream failures to 502", func() {
		s.service.err = dErrors.New(dErrors.CodeMalformedResponse, "bad columns")
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/7/settlement", "")
		s.Equal(http.StatusBadGateway, rec.Code)
	})

	s.Run("rejects a non-numeric stream id", func() {
		s.service.err = nil
		rec := s.do(http.MethodGet, "/v1/accounts/0xme/streams/seven/settlement", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestHistory() {
	s.service.events = []eventlog.Event{
		{StreamID: 7, Kind: eventlog.KindCreated, Timestamp: 1000, Amount: 100},
	}

	rec := s.do(http.MethodGet, "/v1/streams/7/events", "")
	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		Events []eventlog.Event `json:"events"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body.Events, 1)
	s.Equal(eventlog.KindCreated, body.Events[0].Kind)
}

func (s *HandlerSuite) TestCreatePayload() {
	s.Run("builds the unsigned payload", func() {
		rec := s.do(http.MethodPost, "/v1/payloads/create",
			`{"recipient":"0xb","amount":"1.5","duration":"1 hour"}`)
		s.Equal(http.StatusOK, rec.Code)

		var payload ledger.EntryFunctionPayload
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
		s.Equal("0xcafe::pay_me_a_river::create_stream", payload.Function)
		s.Equal([]string{"0xb", "150000000", "3600"}, payload.Arguments)
	})

	s.Run("rejects sub-octa precision", func() {
		rec := s.do(http.MethodPost, "/v1/payloads/create",
			`{"recipient":"0xb","amount":"0.000000001","duration":"1 hour"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects unknown duration units", func() {
		rec := s.do(http.MethodPost, "/v1/payloads/create",
			`{"recipient":"0xb","amount":"1","duration":"1 aeon"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects a missing recipient", func() {
		rec := s.do(http.MethodPost, "/v1/payloads/create",
			`{"amount":"1","duration":"1 hour"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestCounterpartyPayloads() {
	s.Run("accept", func() {
		rec := s.do(http.MethodPost, "/v1/payloads/accept", `{"sender":"0xa"}`)
		s.Equal(http.StatusOK, rec.Code)

		var payload ledger.EntryFunctionPayload
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
		s.Equal("0xcafe::pay_me_a_river::accept_stream", payload.Function)
	})

	s.Run("cancel requires both parties", func() {
		rec := s.do(http.MethodPost, "/v1/payloads/cancel", `{"sender":"0xa"}`)
		s.Equal(http.StatusBadRequest, rec.Code)

		rec = s.do(http.MethodPost, "/v1/payloads/cancel", `{"sender":"0xa","recipient":"0xb"}`)
		s.Equal(http.StatusOK, rec.Code)
	})
}
