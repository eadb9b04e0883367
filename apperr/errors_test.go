package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: CodeUnknown},
		{name: "not found", err: ErrConversationNotFound, want: CodeNotFound},
		{name: "wrapped forbidden", err: fmt.Errorf("open: %w", ErrNotParticipant), want: CodePermissionDenied},
		{name: "timeout", err: Timeout("storage timeout", context.DeadlineExceeded), want: CodeDeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(ErrCarNotFound))
	assert.Equal(t, fiber.StatusForbidden, HTTPStatus(ErrNotOwner))
	assert.Equal(t, fiber.StatusBadRequest, HTTPStatus(ErrMessageRequired))
	assert.Equal(t, fiber.StatusConflict, HTTPStatus(Conflict("duplicate")))
	assert.Equal(t, fiber.StatusServiceUnavailable, HTTPStatus(Unavailable("db down", nil)))
	assert.Equal(t, fiber.StatusGatewayTimeout, HTTPStatus(Timeout("slow", nil)))
	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestIsAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("storage unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(NotFound("conversation not found"), ErrConversationNotFound))
	assert.False(t, errors.Is(ErrCarNotFound, ErrConversationNotFound))
	assert.Equal(t, "storage unavailable", Message(err))
	assert.Equal(t, "Internal server error", Message(cause))
}
