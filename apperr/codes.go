package apperr

import "github.com/gofiber/fiber/v2"

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
	CodeInternal         Code = "INTERNAL"
)

var httpStatus = map[Code]int{
	CodeInvalidArgument:  fiber.StatusBadRequest,
	CodeNotFound:         fiber.StatusNotFound,
	CodeAlreadyExists:    fiber.StatusConflict,
	CodePermissionDenied: fiber.StatusForbidden,
	CodeUnauthenticated:  fiber.StatusUnauthorized,
	CodeUnavailable:      fiber.StatusServiceUnavailable,
	CodeDeadlineExceeded: fiber.StatusGatewayTimeout,
	CodeInternal:         fiber.StatusInternalServerError,
	CodeUnknown:          fiber.StatusInternalServerError,
}

// HTTPStatus maps an error to the response status the REST layer reports.
func HTTPStatus(err error) int {
	if status, ok := httpStatus[CodeOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}
