package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope with the given status and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failure envelope and aborts the handler chain.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// StatusOf maps an application error onto an HTTP status code.
func StatusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindState, apperror.KindNotFound, apperror.KindConflict:
		return http.StatusBadRequest
	case apperror.KindAuthentication, apperror.KindAuthorization:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err using StatusOf. Errors outside the taxonomy are
// reported with a generic message.
func FromError(ctx *gin.Context, err error) {
	FromErrorWithStatus(ctx, StatusOf(err), err)
}

func FromErrorWithStatus(ctx *gin.Context, status int, err error) {
	_ = ctx.Error(err)
	kind := apperror.KindOf(err)
	if kind == apperror.KindUnknown {
		Error[any](ctx, status, "internal server error", nil)
		return
	}
	Error[any](ctx, status, apperror.Message(err), gin.H{"kind": kind.String()})
}
