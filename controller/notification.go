package controller

import (
	"fmt"

	"marketplace-messenger/middleware"
	"marketplace-messenger/service"
	"marketplace-messenger/utils"

	"github.com/gofiber/fiber/v2"
)

type Notification struct {
	svc *service.Notifications
}

func NewNotification(svc *service.Notifications) *Notification {
	return &Notification{svc: svc}
}

func (h *Notification) List(c *fiber.Ctx) error {
	page := utils.ParsePage(c.Query("page"), c.Query("limit"), service.DefaultNotificationLimit)

	notifications, err := h.svc.List(c.UserContext(), middleware.UserID(c), page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, nil, notifications)
}

func (h *Notification) UnreadCount(c *fiber.Ctx) error {
	count, err := h.svc.UnreadCount(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, nil, fiber.Map{"count": count})
}

func (h *Notification) Read(c *fiber.Ctx) error {
	id, err := paramID(c, "notificationId")
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(c.UserContext(), middleware.UserID(c), id); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Notification marked as read", nil)
}

func (h *Notification) ReadAll(c *fiber.Ctx) error {
	count, err := h.svc.MarkAllRead(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fmt.Sprintf("%d notifications marked as read", count), fiber.Map{"count": count})
}

func (h *Notification) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "notificationId")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Notification deleted", nil)
}
