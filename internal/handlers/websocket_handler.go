package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/latestcomment/courtroom-game/internal/services"
	"go.uber.org/zap"
)

// Control commands a viewer may send instead of an argument.
const (
	CommandNext   = "__NEXT__"
	CommandReveal = "__REVEAL__"
	CommandAck    = "__ACK__"
	CommandReset  = "__RESET__"
)

type WebSocketHandler struct {
	Sessions     *services.SessionManager
	AutoInterval time.Duration
	logger       *zap.Logger
}

func NewWebSocketHandler(sessions *services.SessionManager, autoInterval time.Duration, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		Sessions:     sessions,
		AutoInterval: autoInterval,
		logger:       logger.Named("WebSocketHandler"),
	}
}

func (h *WebSocketHandler) WebSocketMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	defer func() {
		_ = c.Close()
	}()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return
	}
	s, err := h.Sessions.Get(id)
	if err != nil {
		return // Session doesn't exist
	}

	client := &models.Client{Id: uuid.New(), SessionId: id, Conn: c}
	defer client.Close()

	// Background work must finish before the pooled conn is released.
	var inflight sync.WaitGroup
	defer inflight.Wait()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unsubscribe := s.Subscribe(func(e models.Event) {
		if err := client.Send(e); err != nil {
			h.logger.Debug("dropping event for closed viewer", zap.String("clientID", client.Id.String()), zap.Error(err))
		}
	})
	defer unsubscribe()

	if err := client.Send(fiber.Map{"type": "snapshot", "session": s.Snapshot()}); err != nil {
		return
	}
	if c.Query("auto") == "1" && h.AutoInterval > 0 {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			s.AutoAdvance(ctx, h.AutoInterval)
		}()
	}

	h.loopMessages(ctx, s, client, &inflight)
}

// loopMessages reads viewer input until the socket closes. Arguments are played
// in the background so that text sent mid-turn is rejected instead of waiting.
func (h *WebSocketHandler) loopMessages(ctx context.Context, s *services.Session, client *models.Client, inflight *sync.WaitGroup) {
	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			break
		}

		text := strings.TrimSpace(string(data))
		switch text {
		case CommandNext:
			if _, err := s.Advance(); err != nil {
				h.notify(client, "Nothing more to hear right now.")
			}
		case CommandReveal:
			if _, err := s.Reveal(ctx); err != nil {
				h.notify(client, "The verdict is not ready yet.")
			}
		case CommandAck:
			if err := s.Acknowledge(); err != nil {
				h.notify(client, "There is no verdict to acknowledge.")
			}
		case CommandReset:
			if err := s.Reset(); err != nil {
				h.notify(client, "The court must finish this case before starting over.")
			}
		default:
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				err := s.Submit(ctx, text)
				if errors.Is(err, services.ErrInputRejected) {
					h.notify(client, "Please wait for the court before speaking again.")
				}
			}()
		}
	}
}

func (h *WebSocketHandler) notify(client *models.Client, text string) {
	_ = client.Send(models.Event{Type: models.EventError, Error: text})
}
