package handler

import (
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/session"
	internalWS "portfolio-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type SessionHandler struct {
	manager *session.Manager
	logger  logger.ILogger
}

func NewSessionHandler(manager *session.Manager, log logger.ILogger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  log,
	}
}

// Upgrade only lets websocket handshakes through to ServeWs.
func (h *SessionHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("resume", c.Query("session"))
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWs runs a UI session; ?session=<id> resumes a recent one.
func (h *SessionHandler) ServeWs(c *websocket.Conn) {
	resumeID, _ := c.Locals("resume").(string)
	internalWS.ServeSession(h.manager, c, resumeID, h.logger)
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	ws := r.Group("/ws")
	ws.Use("/session", h.Upgrade)
	ws.Get("/session", websocket.New(h.ServeWs))
}
