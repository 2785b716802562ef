package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
	"go.uber.org/zap"
)

type SessionOptions struct {
	Mode           models.Mode
	Difficulty     models.Difficulty
	Player         string
	ReplyDelay     time.Duration // minimum gap between upstream calls in one turn
	WitnessChance  float64
	HumorousChance float64
	UseFallbacks   bool
	LedgerTimeout  time.Duration
}

// DefaultSessionOptions mirrors the defaults of config.Config.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Mode:           models.ModeRandom,
		Difficulty:     models.DifficultyMedium,
		Player:         "Guest",
		ReplyDelay:     500 * time.Millisecond,
		WitnessChance:  0.3,
		HumorousChance: DefaultHumorousChance,
		UseFallbacks:   true,
		LedgerTimeout:  5 * time.Second,
	}
}

type SessionDeps struct {
	Replies ReplyGenerator
	Ledger  Ledger
	Rand    RandomSource
	Logger  *zap.Logger
	Now     func() time.Time
	// OnVerdict runs once per revealed verdict, after the session lock is released.
	OnVerdict func(player string, v models.Verdict)
}

// Session is one courtroom game. All methods are safe for concurrent use; no
// lock is held while waiting on the reply service, and input that arrives while
// a turn is in flight is rejected rather than queued.
type Session struct {
	Id     uuid.UUID
	opts   SessionOptions
	deps   SessionDeps
	gen    *CaseGenerator
	logger *zap.Logger

	mu          sync.Mutex
	state       models.SessionState
	currentCase models.Case
	rules       models.Rules
	game        models.GameState
	displayed   []models.Message
	pending     []models.Message
	verdict     *models.Verdict
	won         bool
	updatedAt   time.Time
	subscribers map[int]func(models.Event)
	nextSub     int

	ledgerWG sync.WaitGroup
}

func NewSession(id uuid.UUID, opts SessionOptions, deps SessionDeps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = NewRandomSource(0)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Replies == nil {
		deps.Replies = OfflineReplyGenerator{}
	}
	if opts.Player == "" {
		opts.Player = "Guest"
	}
	if opts.Mode != models.ModeTutorial {
		opts.Mode = models.ModeRandom
		opts.Difficulty = models.ParseDifficulty(string(opts.Difficulty))
	}
	s := &Session{
		Id:          id,
		opts:        opts,
		deps:        deps,
		gen:         NewCaseGenerator(deps.Rand, opts.HumorousChance),
		logger:      deps.Logger.Named("Session").With(zap.String("sessionID", id.String())),
		subscribers: make(map[int]func(models.Event)),
	}
	s.mu.Lock()
	events := s.initialize()
	s.mu.Unlock()
	s.publish(events)
	return s
}

// initialize builds a fresh case and opening lines. Caller holds s.mu.
func (s *Session) initialize() []models.Event {
	s.state = models.StateInitializing
	if s.opts.Mode == models.ModeTutorial {
		s.currentCase = TutorialCase()
		s.rules = models.TutorialRules
	} else {
		s.currentCase = s.gen.Generate()
		s.rules = models.RulesFor(s.opts.Difficulty)
	}
	s.game = models.GameState{}
	s.verdict = nil
	s.won = false

	lines := openingLines(s.currentCase, s.opts.Mode)
	now := s.deps.Now()
	for i := range lines {
		lines[i].Timestamp = now
	}
	s.displayed = lines[:1:1]
	s.pending = append([]models.Message(nil), lines[1:]...)
	if len(s.pending) > 0 {
		s.state = models.StateDrainingQueue
	} else {
		s.state = models.StateAwaitingInput
	}
	s.updatedAt = now

	s.logger.Info("case opened",
		zap.String("caseID", s.currentCase.Id.String()),
		zap.String("title", s.currentCase.Title),
		zap.String("mode", string(s.opts.Mode)),
		zap.Int("maxTurns", s.rules.MaxTurns),
		zap.Int("winThreshold", s.rules.WinThreshold),
	)
	first := s.displayed[0]
	return []models.Event{
		{Type: models.EventMessage, Message: &first},
		{Type: models.EventState, State: s.state},
	}
}

// Submit plays one turn. Empty input and input received outside
// awaiting_input return ErrInputRejected and change nothing. A failed reply
// request rolls the turn back and returns an error wrapping ErrUpstream (or
// the context error).
func (s *Session) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" || s.state != models.StateAwaitingInput || len(s.pending) > 0 {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("input rejected", zap.String("state", string(state)), zap.Bool("empty", text == ""))
		return ErrInputRejected
	}
	s.game.TurnCount++
	turn := s.game.TurnCount
	player := models.NewMessage(models.RolePlayer, text, s.deps.Now())
	s.displayed = append(s.displayed, player)
	s.state = models.StateGeneratingResponses
	c := s.currentCase
	limitReached := turn >= s.rules.MaxTurns
	s.mu.Unlock()
	s.publish([]models.Event{
		{Type: models.EventMessage, Message: &player},
		{Type: models.EventState, State: models.StateGeneratingResponses},
	})

	replies, judgeReply, err := s.generateReplies(ctx, c, text, limitReached)

	s.mu.Lock()
	if err != nil {
		s.game.TurnCount--
		s.displayed = s.displayed[:len(s.displayed)-1]
		s.state = models.StateAwaitingInput
		s.updatedAt = s.deps.Now()
		s.mu.Unlock()
		turnsTotal.WithLabelValues(string(s.opts.Mode), "aborted").Inc()
		s.logger.Warn("turn aborted", zap.Int("turn", turn), zap.Error(err))
		s.publish([]models.Event{
			{Type: models.EventError, Error: "The court could not hear your argument. Please try again."},
			{Type: models.EventState, State: models.StateAwaitingInput},
		})
		return err
	}

	result := Score(text, judgeReply, s.game, c)
	s.game = result.State
	won := s.game.Rounded() >= s.rules.WinThreshold
	terminal := won || turn >= s.rules.MaxTurns

	if !terminal && s.opts.Mode == models.ModeTutorial {
		if guide, ok := tutorialGuidance[turn]; ok {
			replies = append(replies, models.Message{Role: models.RoleSystem, Sender: models.SenderName(models.RoleSystem), Content: guide})
		}
	}
	if terminal {
		s.won = won
		line := models.Message{Role: models.RoleJudge, Sender: models.SenderName(models.RoleJudge), Content: verdictLine(s.opts.Mode, won), Terminal: true}
		replies = append(replies, line)
	}
	now := s.deps.Now()
	for i := range replies {
		replies[i].Timestamp = now
	}
	s.pending = append(s.pending, replies...)
	s.state = models.StateDrainingQueue
	s.updatedAt = now
	score := s.game.Score()
	s.mu.Unlock()

	turnsTotal.WithLabelValues(string(s.opts.Mode), "scored").Inc()
	s.logger.Info("turn scored",
		zap.Int("turn", turn),
		zap.Float64("delta", result.Delta()),
		zap.Float64("score", score),
		zap.Bool("lowQuality", result.Evaluation.LowQuality),
		zap.Strings("failedChecks", result.Evaluation.Failed),
		zap.Bool("terminal", terminal),
	)
	s.publish([]models.Event{
		{Type: models.EventScore, Score: &score},
		{Type: models.EventState, State: models.StateDrainingQueue},
	})
	return nil
}

// generateReplies asks opponent, then judge, then an optional witness. The
// returned lines are in reveal order regardless of how long each call took.
func (s *Session) generateReplies(ctx context.Context, c models.Case, text string, limitReached bool) ([]models.Message, string, error) {
	input := replyContext(c, text)

	archetype := ""
	if !limitReached && s.deps.Rand.Float64() < s.opts.WitnessChance {
		archetype = WitnessArchetypes[s.deps.Rand.Intn(len(WitnessArchetypes))]
	}

	opponent, err := s.reply(ctx, models.RoleOpponent, "", input)
	if err != nil {
		return nil, "", err
	}
	if err := sleepContext(ctx, s.opts.ReplyDelay); err != nil {
		return nil, "", err
	}
	judge, err := s.reply(ctx, models.RoleJudge, "", input)
	if err != nil {
		return nil, "", err
	}
	lines := []models.Message{
		{Role: models.RoleOpponent, Sender: models.SenderName(models.RoleOpponent), Content: opponent},
		{Role: models.RoleJudge, Sender: models.SenderName(models.RoleJudge), Content: judge},
	}
	if archetype == "" {
		return lines, judge, nil
	}

	if err := sleepContext(ctx, s.opts.ReplyDelay); err != nil {
		return nil, "", err
	}
	witness, err := s.reply(ctx, models.RoleWitness, archetype, input)
	if err != nil {
		return nil, "", err
	}
	lines = append(lines, models.Message{
		Role:    models.RoleWitness,
		Sender:  fmt.Sprintf("%s (%s)", models.SenderName(models.RoleWitness), archetype),
		Content: witness,
	})
	return lines, judge, nil
}

func (s *Session) reply(ctx context.Context, role models.Role, archetype, input string) (string, error) {
	line, err := s.deps.Replies.GenerateReply(ctx, RolePrompt(role, archetype), input)
	if err == nil && strings.TrimSpace(line) != "" {
		return strings.TrimSpace(line), nil
	}
	if err == nil {
		err = fmt.Errorf("%w: empty reply", ErrUpstream)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if s.opts.UseFallbacks {
		fallbackRepliesTotal.WithLabelValues(string(role)).Inc()
		s.logger.Warn("using fallback reply", zap.String("role", string(role)), zap.Error(err))
		return FallbackLine(role), nil
	}
	if !errors.Is(err, ErrUpstream) {
		err = fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return "", fmt.Errorf("%s reply: %w", role, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Advance reveals the next pending message.
func (s *Session) Advance() (models.Message, error) {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return models.Message{}, ErrNothingPending
	}
	msg := s.pending[0]
	s.pending = s.pending[1:]
	s.displayed = append(s.displayed, msg)
	events := []models.Event{{Type: models.EventMessage, Message: &msg}}
	if len(s.pending) == 0 {
		if msg.Terminal {
			s.state = models.StateVerdictPending
		} else {
			s.state = models.StateAwaitingInput
		}
		events = append(events, models.Event{Type: models.EventState, State: s.state})
	}
	s.updatedAt = s.deps.Now()
	s.mu.Unlock()
	s.publish(events)
	return msg, nil
}

// AutoAdvance reveals one pending message per tick until ctx is done.
func (s *Session) AutoAdvance(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Advance(); err != nil && !errors.Is(err, ErrNothingPending) {
				s.logger.Warn("auto advance failed", zap.Error(err))
			}
		}
	}
}

// Reveal produces the session's verdict once the terminal line has been shown
// and hands it to the ledger in the background.
func (s *Session) Reveal(ctx context.Context) (models.Verdict, error) {
	s.mu.Lock()
	if s.state != models.StateVerdictPending {
		s.mu.Unlock()
		return models.Verdict{}, ErrInvalidState
	}
	outcome := models.OutcomeLoss
	if s.won {
		outcome = models.OutcomeWin
	}
	v := models.Verdict{
		CaseId:    s.currentCase.Id,
		Outcome:   outcome,
		Score:     s.game.Rounded(),
		Turns:     s.game.TurnCount,
		Tutorial:  s.opts.Mode == models.ModeTutorial,
		DecidedAt: s.deps.Now(),
	}
	s.verdict = &v
	s.state = models.StateVerdictShown
	s.updatedAt = v.DecidedAt
	s.mu.Unlock()

	verdictsTotal.WithLabelValues(string(s.opts.Mode), string(outcome)).Inc()
	s.logger.Info("verdict revealed", zap.String("outcome", string(outcome)), zap.Int("score", v.Score), zap.Int("turns", v.Turns))
	s.publish([]models.Event{
		{Type: models.EventVerdict, Verdict: &v},
		{Type: models.EventState, State: models.StateVerdictShown},
	})
	if s.deps.OnVerdict != nil {
		s.deps.OnVerdict(s.opts.Player, v)
	}

	if s.deps.Ledger != nil {
		s.ledgerWG.Add(1)
		go s.recordVerdict(context.WithoutCancel(ctx), v)
	}
	return v, nil
}

func (s *Session) recordVerdict(ctx context.Context, v models.Verdict) {
	defer s.ledgerWG.Done()
	if s.opts.LedgerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LedgerTimeout)
		defer cancel()
	}

	var err error
	if v.Tutorial && v.Outcome == models.OutcomeWin {
		err = s.deps.Ledger.RecordTutorialCompletion(ctx, s.opts.Player)
	} else {
		err = s.deps.Ledger.RecordVerdict(ctx, v.CaseId, v.Outcome, v.Note())
	}
	if err != nil {
		if !errors.Is(err, ErrLedgerWrite) {
			err = fmt.Errorf("%w: %w", ErrLedgerWrite, err)
		}
		s.logger.Error("error recording case result", zap.String("caseID", v.CaseId.String()), zap.Error(err))
	}
}

// Acknowledge closes a shown verdict.
func (s *Session) Acknowledge() error {
	s.mu.Lock()
	if s.state != models.StateVerdictShown {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = models.StateTerminated
	s.updatedAt = s.deps.Now()
	s.mu.Unlock()
	s.publish([]models.Event{{Type: models.EventState, State: models.StateTerminated}})
	return nil
}

// Reset starts over with a new case. It is refused while a turn is in flight
// and once the case is decided, until its verdict has been revealed.
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.state == models.StateGeneratingResponses || s.verdictOwed() {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("reset refused", zap.String("state", string(state)))
		return ErrInvalidState
	}
	events := s.initialize()
	s.mu.Unlock()
	s.publish(events)
	return nil
}

// verdictOwed reports whether the terminal line is queued or shown but the
// verdict not yet revealed. Caller holds s.mu.
func (s *Session) verdictOwed() bool {
	if s.state == models.StateVerdictPending {
		return true
	}
	for _, m := range s.pending {
		if m.Terminal {
			return true
		}
	}
	return false
}

func (s *Session) Snapshot() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := models.SessionView{
		SessionId:    s.Id,
		Player:       s.opts.Player,
		Mode:         s.opts.Mode,
		State:        s.state,
		Case:         s.currentCase,
		Messages:     append([]models.Message(nil), s.displayed...),
		Pending:      len(s.pending),
		Score:        s.game.Score(),
		RoundedScore: s.game.Rounded(),
		TurnCount:    s.game.TurnCount,
		Rules:        s.rules,
		UpdatedAt:    s.updatedAt,
	}
	if s.opts.Mode == models.ModeRandom {
		view.Difficulty = s.opts.Difficulty
	}
	if s.verdict != nil {
		v := *s.verdict
		view.Verdict = &v
	}
	return view
}

func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Subscribe registers fn for session events and returns its cancel func.
func (s *Session) Subscribe(fn func(models.Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish(events []models.Event) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	subs := make([]func(models.Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, e := range events {
		for _, fn := range subs {
			fn(e)
		}
	}
}
