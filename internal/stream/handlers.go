package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

var topics = map[string]bool{TopicRides: true}

func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:topic", func(c *fiber.Ctx) error {
		if !topics[c.Params("topic")] {
			return fiber.NewError(fiber.StatusNotFound, "unknown topic")
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, websocket.New(func(c *websocket.Conn) {
		client := hub.Register(c.Params("topic"))
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		// the feed is one-way; reads only detect the client going away
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}
