package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/latestcomment/courtroom-game/internal/services"
)

type Handler struct {
	Sessions *services.SessionManager
}

func NewHandler(sessions *services.SessionManager) *Handler {
	return &Handler{Sessions: sessions}
}

func (h *Handler) IndexPage(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Difficulties": []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard},
	})
}

func (h *Handler) CourtPage(c *fiber.Ctx) error {
	// Form values alias the request buffer; the session outlives the request.
	name := utils.CopyString(strings.TrimSpace(c.FormValue("name")))
	if name == "" {
		name = "Guest"
	}
	mode := models.ModeRandom
	if c.FormValue("mode") == string(models.ModeTutorial) {
		mode = models.ModeTutorial
	}
	difficulty := models.ParseDifficulty(utils.CopyString(c.FormValue("difficulty")))

	s := h.Sessions.Create(name, mode, difficulty)
	return c.Render("court", fiber.Map{
		"Name":    name,
		"Session": s.Snapshot(),
		"Stats":   h.Sessions.Stats(name),
	})
}
