package realtime

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const roomLocal = "realtime_room"

// Upgrade must run after the auth gate. It joins the connection to the caller's room.
func Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	id, ok := identity.Get(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	c.Locals(roomLocal, id.ID.String())
	return c.Next()
}

// Serve pumps the connection's room to the socket until either side goes away.
// Client frames are read only to notice the close.
func Serve(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		room, _ := conn.Locals(roomLocal).(string)
		if room == "" {
			_ = conn.Close()
			return
		}

		sub := hub.Subscribe(room)
		defer sub.Close()

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					sub.Close()
					return
				}
			}
		}()

		for msg := range sub.C {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Debug("realtime write failed", "room", room, "error", err)
				return
			}
		}
	})
}
