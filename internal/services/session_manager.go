package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
	"go.uber.org/zap"
)

// SessionManager owns every live session and the per-player stats that
// outlive a single case.
type SessionManager struct {
	Defaults SessionOptions
	Replies  ReplyGenerator
	Ledger   Ledger
	Rand     RandomSource
	Logger   *zap.Logger
	TTL      time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	stats    map[string]*models.Stats
}

func NewSessionManager(defaults SessionOptions, replies ReplyGenerator, ledger Ledger, r RandomSource, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		Defaults: defaults,
		Replies:  replies,
		Ledger:   ledger,
		Rand:     r,
		Logger:   logger.Named("SessionManager"),
		sessions: make(map[uuid.UUID]*Session),
		stats:    make(map[string]*models.Stats),
	}
}

// Create opens a new session for player in the given mode.
func (m *SessionManager) Create(player string, mode models.Mode, difficulty models.Difficulty) *Session {
	opts := m.Defaults
	opts.Player = player
	opts.Mode = mode
	opts.Difficulty = difficulty

	s := NewSession(uuid.New(), opts, SessionDeps{
		Replies:   m.Replies,
		Ledger:    m.Ledger,
		Rand:      m.Rand,
		Logger:    m.Logger,
		OnVerdict: m.recordStats,
	})

	m.mu.Lock()
	m.sessions[s.Id] = s
	count := len(m.sessions)
	m.mu.Unlock()
	activeSessions.Set(float64(count))

	m.Logger.Info("session created",
		zap.String("sessionID", s.Id.String()),
		zap.String("player", opts.Player),
		zap.String("mode", string(mode)),
	)
	return s
}

func (m *SessionManager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionManager) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()
	activeSessions.Set(float64(count))
}

// Sweep drops sessions idle for longer than TTL and returns how many went.
func (m *SessionManager) Sweep(now time.Time) int {
	if m.TTL <= 0 {
		return 0
	}
	m.mu.Lock()
	var expired []uuid.UUID
	for id, s := range m.sessions {
		if s.State() == models.StateGeneratingResponses {
			continue
		}
		if now.Sub(s.LastActivity()) > m.TTL {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	activeSessions.Set(float64(count))
	if len(expired) > 0 {
		m.Logger.Info("expired idle sessions", zap.Int("removed", len(expired)), zap.Int("remaining", count))
	}
	return len(expired)
}

// Stats returns a copy of the player's record.
func (m *SessionManager) Stats(player string) models.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.stats[player]; ok {
		return *st
	}
	return models.Stats{Player: player}
}

func (m *SessionManager) recordStats(player string, v models.Verdict) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stats[player]
	if !ok {
		st = &models.Stats{Player: player}
		m.stats[player] = st
	}
	st.Record(v)
}
