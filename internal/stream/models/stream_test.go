package models

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "paystream/pkg/domain-errors"
)

type StreamModelSuite struct {
	suite.Suite
}

func TestStreamModelSuite(t *testing.T) {
	suite.Run(t, new(StreamModelSuite))
}

func (s *StreamModelSuite) TestNewStream() {
	s.Run("rejects zero duration", func() {
		_, err := NewStream(1, "0xa", "0xb", 100, 0, 0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStream))
	})

	s.Run("rejects negative duration", func() {
		_, err := NewStream(1, "0xa", "0xb", 100, 0, -30)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStream))
	})

	s.Run("rejects negative amount", func() {
		_, err := NewStream(1, "0xa", "0xb", -1, 0, 60)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStream))
	})

	s.Run("accepts a pending stream", func() {
		st, err := NewStream(7, "0xa", "0xb", 100, 0, 60)
		s.Require().NoError(err)
		s.False(st.Started())
		s.EqualValues(0, st.EndTime())
	})
}

func (s *StreamModelSuite) TestStatusAt() {
	st, err := NewStream(1, "0xa", "0xb", 100, 1000, 100)
	s.Require().NoError(err)

	s.Run("active before the end", func() {
		s.Equal(StatusActive, st.StatusAt(1000))
		s.Equal(StatusActive, st.StatusAt(1099))
	})

	s.Run("completed at exactly start+duration", func() {
		s.Equal(StatusCompleted, st.StatusAt(1100))
		s.Equal(StatusCompleted, st.StatusAt(5000))
	})

	s.Run("pending when never accepted", func() {
		pending, err := NewStream(2, "0xa", "0xb", 100, 0, 100)
		s.Require().NoError(err)
		s.Equal(StatusPending, pending.StatusAt(0))
		s.Equal(StatusPending, pending.StatusAt(1_000_000))
	})
}

func (s *StreamModelSuite) TestParseOctas() {
	s.Run("parses large amounts losslessly", func() {
		// Above float64's 2^53 integer precision on purpose.
		got, err := ParseOctas("9007199254740995")
		s.Require().NoError(err)
		s.EqualValues(9007199254740995, got)
	})

	s.Run("rejects non-numeric input", func() {
		_, err := ParseOctas("12.5")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeMalformedResponse))
	})

	s.Run("rejects negative amounts", func() {
		_, err := ParseOctas("-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStream))
	})
}

func (s *StreamModelSuite) TestCoins() {
	s.Equal("1.5", Octas(150_000_000).Coins().String())
	s.Equal("0.00000001", Octas(1).Coins().String())
}

func (s *StreamModelSuite) TestParseHumanDuration() {
	cases := map[string]int64{
		"30 seconds": 30,
		"1 minute":   60,
		"2 hours":    7200,
		"1 day":      86400,
		"1 week":     604800,
		"1 month":    2592000,
		"1 year":     31536000,
		"0.5 days":   43200,
	}
	for input, want := range cases {
		got, err := ParseHumanDuration(input)
		s.Require().NoError(err, input)
		s.Equal(want, got, input)
	}

	s.Run("rejects unknown units", func() {
		_, err := ParseHumanDuration("3 fortnights")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects non-positive spans", func() {
		_, err := ParseHumanDuration("0 seconds")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStream))
	})

	s.Run("rejects missing unit", func() {
		_, err := ParseHumanDuration("42")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
