package channel

import (
	"go-carehub/internal/common/api"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WebSocketApi struct {
	hub *Hub
}

func NewWebSocketApi(hub *Hub) api.Route {
	return &WebSocketApi{hub: hub}
}

func (h *WebSocketApi) Setup(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/notifications", websocket.New(func(c *websocket.Conn) {
		userID := c.Query("user_id")
		if userID == "" {
			c.Close()
			return
		}

		h.hub.Register(userID, c)
		defer h.hub.Unregister(userID, c)

		// Hold the connection open; reads only detect disconnects
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
