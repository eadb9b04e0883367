package controller

import (
	"strconv"

	"marketplace-messenger/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func success(c *fiber.Ctx, status int, message any, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"status":  "error",
		"message": apperr.Message(err),
		"data":    nil,
	})
}

// ErrorHandler renders errors that escape a handler with the same envelope.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{
				"status":  "error",
				"message": e.Message,
				"data":    nil,
			})
		}
		if apperr.HTTPStatus(err) >= fiber.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		return fail(c, err)
	}
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ErrInvalidIdentifier
	}
	return id, nil
}
