// Package response writes the JSON envelopes shared by every endpoint.
//
// Success: {"data": ..., "meta": {"request_id": ...}}
// Failure: {"error": {"code", "message", "details"}, "meta": {"request_id": ...}}
package response

import (
	"net/http"

	deliverycontext "postboard/internal/delivery/context"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/errors"

	"github.com/labstack/echo/v4"
)

// CodeInvalidInput marks request bodies that could not be decoded at all.
const CodeInvalidInput = "INVALID_INPUT"

type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

type ErrorInfo struct {
	Code    string `json:"code"`              // e.g. "POST_NOT_FOUND"
	Message string `json:"message"`           // Safe to show to the user.
	Details any    `json:"details,omitempty"` // Field errors; 4xx only.
}

type MetaInfo struct {
	RequestID string `json:"request_id"`
}

// MessageBody is the payload of operations that only confirm success.
type MessageBody struct {
	Message string `json:"message"`
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}

// OK writes data with status 200.
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta(c)})
}

// Message writes {"message": text} with status 200.
func Message(c echo.Context, text string) error {
	return OK(c, MessageBody{Message: text})
}

// Error writes a failure envelope. Details never leave the process for
// 401, 403 and 5xx responses.
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: &ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: meta(c),
	})
}

// Fail writes appErr as-is.
func Fail(c echo.Context, appErr domainerrors.AppError) error {
	return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
}

// MalformedBody answers a request whose body could not be bound.
func MalformedBody(c echo.Context, what string) error {
	return Error(c, http.StatusBadRequest, CodeInvalidInput, "Invalid "+what, nil)
}

// HandleAppError writes client-facing application errors. Server-side
// failures are returned so the central error handler logs them.
func HandleAppError(c echo.Context, err error) error {
	appErr, ok := errors.AsType[domainerrors.AppError](err)
	if !ok || appErr.HTTPCode() >= http.StatusInternalServerError {
		return errors.WithStack(err)
	}

	return Fail(c, appErr)
}
