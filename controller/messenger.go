package controller

import (
	"marketplace-messenger/apperr"
	"marketplace-messenger/middleware"
	"marketplace-messenger/service"
	"marketplace-messenger/utils"

	"github.com/gofiber/fiber/v2"
)

type Messenger struct {
	svc *service.Messenger
}

func NewMessenger(svc *service.Messenger) *Messenger {
	return &Messenger{svc: svc}
}

func (h *Messenger) ConversationList(c *fiber.Ctx) error {
	page := utils.ParsePage(c.Query("page"), c.Query("limit"), service.DefaultConversationLimit)

	conversations, err := h.svc.ListConversations(c.UserContext(), middleware.UserID(c), page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, nil, conversations)
}

func (h *Messenger) ConversationGet(c *fiber.Ctx) error {
	id, err := paramID(c, "conversationId")
	if err != nil {
		return err
	}
	page := utils.ParsePage(c.Query("page"), c.Query("limit"), service.DefaultMessageLimit)

	detail, err := h.svc.OpenConversation(c.UserContext(), middleware.UserID(c), id, page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, nil, detail)
}

func (h *Messenger) ConversationStart(c *fiber.Ctx) error {
	otherID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	carID, err := paramID(c, "carId")
	if err != nil {
		return err
	}
	page := utils.ParsePage(c.Query("page"), c.Query("limit"), service.DefaultMessageLimit)

	detail, err := h.svc.StartConversation(c.UserContext(), middleware.UserID(c), otherID, carID, page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, nil, detail)
}

func (h *Messenger) ConversationDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "conversationId")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteConversation(c.UserContext(), middleware.UserID(c), id); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Conversation deleted successfully", nil)
}

func (h *Messenger) MessageSend(c *fiber.Ctx) error {
	input := new(service.SendInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("invalid request body")
	}

	result, err := h.svc.SendMessage(c.UserContext(), middleware.UserID(c), *input)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, nil, result.Message)
}

func (h *Messenger) UnreadCount(c *fiber.Ctx) error {
	count, err := h.svc.UnreadCount(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, nil, fiber.Map{"count": count})
}
