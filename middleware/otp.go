package middleware

import (
	"marketplace-messenger/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDLocal = "user_id"

// OTP rejects tokens still waiting on a second factor or carrying no expiry,
// and exposes the caller's user id through UserID. It must run after JWT.
func OTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return unauthorized(c, "Invalid or expired JWT")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Invalid or expired JWT")
		}

		meta, err := utils.MetadataFromClaims(claims)
		if err != nil || meta.Exp == 0 {
			return unauthorized(c, "Invalid token claims")
		}
		if meta.Otp {
			return unauthorized(c, "2FA required")
		}

		c.Locals(userIDLocal, meta.Id)
		return c.Next()
	}
}

// UserID returns the id OTP stored for the request, or 0.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDLocal).(int64)
	return id
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{
			"status":  "error",
			"message": message,
			"data":    nil,
		})
}
