package router

import (
	"marketplace-messenger/controller"
	"marketplace-messenger/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

type Handlers struct {
	Messenger    *controller.Messenger
	Notification *controller.Notification
}

func Rest(app *fiber.App, h Handlers, jwtKey string) {
	api := app.Group("/v1", logger.New(), middleware.JWT(jwtKey), middleware.OTP())

	// Messages
	messages := api.Group("/messages")
	messages.Get("/conversations", h.Messenger.ConversationList)
	messages.Get("/conversations/:conversationId", h.Messenger.ConversationGet)
	messages.Delete("/conversations/:conversationId", h.Messenger.ConversationDelete)
	messages.Get("/conversation/:userId/:carId", h.Messenger.ConversationStart)
	messages.Get("/unread/count", h.Messenger.UnreadCount)
	messages.Post("/", h.Messenger.MessageSend)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread/count", h.Notification.UnreadCount)
	notifications.Put("/read-all", h.Notification.ReadAll)
	notifications.Put("/:notificationId/read", h.Notification.Read)
	notifications.Delete("/:notificationId", h.Notification.Delete)
}
