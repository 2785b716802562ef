package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type RedisLedgerSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcredis.RedisContainer
	client    *redis.Client
}

func (s *RedisLedgerSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.container, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	uri, err := s.container.ConnectionString(s.ctx)
	require.NoError(s.T(), err)
	opts, err := redis.ParseURL(uri)
	require.NoError(s.T(), err)
	s.client = redis.NewClient(opts)
	require.NoError(s.T(), s.client.Ping(s.ctx).Err())
}

func (s *RedisLedgerSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *RedisLedgerSuite) TestAppendsEntries() {
	stream := "courtroom:test:" + uuid.NewString()
	ledger := NewRedisLedger(s.client, stream, zap.NewNop())
	caseID := uuid.New()

	s.Require().NoError(ledger.RecordVerdict(s.ctx, caseID, models.OutcomeWin, "Case won by the defense"))
	s.Require().NoError(ledger.RecordTutorialCompletion(s.ctx, "tester"))

	entries, err := s.client.XRange(s.ctx, stream, "-", "+").Result()
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("reachVerdict", entries[0].Values["event"])
	s.Equal(caseID.String(), entries[0].Values["caseId"])
	s.Equal("win", entries[0].Values["outcome"])
	s.Equal("Case won by the defense", entries[0].Values["note"])
	s.Equal("completeTutorial", entries[1].Values["event"])
	s.Equal("tester", entries[1].Values["player"])
}

func (s *RedisLedgerSuite) TestSessionVerdictReachesStream() {
	stream := "courtroom:test:" + uuid.NewString()
	ledger := NewRedisLedger(s.client, stream, zap.NewNop())
	sess := newTestSession(s.T(), testOptions(models.ModeTutorial), OfflineReplyGenerator{}, ledger)
	for turn := 0; turn < models.TutorialRules.MaxTurns; turn++ {
		drain(s.T(), sess)
		s.Require().NoError(sess.Submit(s.ctx, "nonsense"))
	}
	drain(s.T(), sess)

	_, err := sess.Reveal(s.ctx)
	s.Require().NoError(err)
	sess.ledgerWG.Wait()

	entries, err := s.client.XRange(s.ctx, stream, "-", "+").Result()
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("loss", entries[0].Values["outcome"])
}

func TestRedisLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(RedisLedgerSuite))
}
