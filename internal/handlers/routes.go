package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Register mounts pages, the JSON API and the session socket on app.
func Register(app *fiber.App, h *Handler, api *APIHandler, ws *WebSocketHandler) {
	app.Get("/", h.IndexPage)
	app.Post("/court", h.CourtPage)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	r := app.Group("/api")
	r.Post("/sessions", api.CreateSession)
	r.Get("/sessions/:id", api.GetSession)
	r.Post("/sessions/:id/submit", api.Submit)
	r.Post("/sessions/:id/advance", api.Advance)
	r.Post("/sessions/:id/reveal", api.Reveal)
	r.Post("/sessions/:id/acknowledge", api.Acknowledge)
	r.Post("/sessions/:id/reset", api.Reset)
	r.Get("/stats/:player", api.Stats)
	r.Post("/transcribe", api.Transcribe)

	app.Get("/ws/:id", ws.WebSocketMiddleware, websocket.New(ws.HandleWebSocket))
}
