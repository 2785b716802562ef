package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/latestcomment/courtroom-game/internal/services"
	"go.uber.org/zap"
)

type APIHandler struct {
	Sessions      *services.SessionManager
	Transcriber   services.Transcriber // nil when no API key is configured
	MaxAudioBytes int64
	logger        *zap.Logger
}

func NewAPIHandler(sessions *services.SessionManager, transcriber services.Transcriber, maxAudioBytes int64, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		Sessions:      sessions,
		Transcriber:   transcriber,
		MaxAudioBytes: maxAudioBytes,
		logger:        logger.Named("APIHandler"),
	}
}

type createSessionRequest struct {
	Player     string `json:"player" form:"player"`
	Mode       string `json:"mode" form:"mode"`
	Difficulty string `json:"difficulty" form:"difficulty"`
}

type submitRequest struct {
	Text string `json:"text" form:"text"`
}

func (h *APIHandler) CreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}
	mode := models.ModeRandom
	if req.Mode == string(models.ModeTutorial) {
		mode = models.ModeTutorial
	}
	player := utils.CopyString(strings.TrimSpace(req.Player))
	s := h.Sessions.Create(player, mode, models.ParseDifficulty(utils.CopyString(req.Difficulty)))
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

func (h *APIHandler) GetSession(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *APIHandler) Submit(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.Submit(c.UserContext(), utils.CopyString(req.Text)); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *APIHandler) Advance(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return h.writeError(c, err)
	}
	msg, err := s.Advance()
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg, "session": s.Snapshot()})
}

func (h *APIHandler) Reveal(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return h.writeError(c, err)
	}
	v, err := s.Reveal(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(v)
}

func (h *APIHandler) Acknowledge(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return h.writeError(c, err)
	}
	if err := s.Acknowledge(); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *APIHandler) Reset(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return h.writeError(c, err)
	}
	if err := s.Reset(); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *APIHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.Sessions.Stats(c.Params("player")))
}

func (h *APIHandler) Transcribe(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No audio file provided"})
	}
	if h.Transcriber == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "API key not configured"})
	}
	if h.MaxAudioBytes > 0 && fh.Size > h.MaxAudioBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Audio file too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable audio file"})
	}
	defer f.Close()

	text, err := h.Transcriber.Transcribe(c.UserContext(), f, fh.Filename)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"text": text})
}

func (h *APIHandler) session(c *fiber.Ctx) (*services.Session, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, services.ErrSessionNotFound
	}
	return h.Sessions.Get(id)
}

func (h *APIHandler) writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInputRejected),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrNothingPending):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrUpstream):
		status = fiber.StatusBadGateway
	}
	if status == fiber.StatusInternalServerError || status == fiber.StatusBadGateway {
		h.logger.Warn("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
