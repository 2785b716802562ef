package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/mocks"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	_ ReplyGenerator = (*mocks.MockReplyGenerator)(nil)
	_ Ledger         = (*mocks.MockLedger)(nil)
	_ Transcriber    = (*mocks.MockTranscriber)(nil)
	_ Ledger         = (*LogLedger)(nil)
	_ Ledger         = (*RedisLedger)(nil)
)

// scriptedSource replays fixed values and returns zero once exhausted.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}

var (
	opponentRole = RolePrompt(models.RoleOpponent, "")
	judgeRole    = RolePrompt(models.RoleJudge, "")
	isWitness    = mock.MatchedBy(func(p string) bool { return p != opponentRole && p != judgeRole })
)

const strongArgument = "Your Honor, the evidence clearly shows my client's alibi, per exhibit A."

func testOptions(mode models.Mode) SessionOptions {
	opts := DefaultSessionOptions()
	opts.Mode = mode
	opts.Player = "tester"
	opts.ReplyDelay = 0
	opts.WitnessChance = 0
	opts.LedgerTimeout = time.Second
	return opts
}

func newTestSession(t *testing.T, opts SessionOptions, replies ReplyGenerator, ledger Ledger) *Session {
	t.Helper()
	return NewSession(uuid.New(), opts, SessionDeps{
		Replies: replies,
		Ledger:  ledger,
		Rand:    NewRandomSource(42),
	})
}

// drain reveals every pending message and returns them in order.
func drain(t *testing.T, s *Session) []models.Message {
	t.Helper()
	var out []models.Message
	for {
		msg, err := s.Advance()
		if errors.Is(err, ErrNothingPending) {
			return out
		}
		require.NoError(t, err)
		out = append(out, msg)
	}
}
