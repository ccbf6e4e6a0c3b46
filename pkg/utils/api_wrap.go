package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loggerKey = "logger"

// WithLogger attaches the request-scoped logger used by HandleServiceError.
func WithLogger(c *gin.Context, log *zap.Logger) {
	c.Set(loggerKey, log)
}

// LoggerFrom returns the request-scoped logger, or a no-op logger when none is set.
func LoggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps a service error to a status and a caller-safe message.
// Internal detail of 5xx errors is logged, never returned.
func HandleServiceError(c *gin.Context, err error) {
	code, message := statusFor(err)

	if code >= http.StatusInternalServerError {
		LoggerFrom(c).Error("request failed",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err))
	}

	RespondError(c, code, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingParameter):
		return http.StatusBadRequest, "Missing download token"
	case errors.Is(err, ErrMissingSignature):
		return http.StatusBadRequest, "Missing stripe signature"
	case errors.Is(err, ErrInvalidSignature):
		return http.StatusBadRequest, "Invalid stripe signature"
	case errors.Is(err, ErrMalformedPayload):
		return http.StatusBadRequest, "Invalid JSON"
	case errors.Is(err, ErrMissingCorrelationID):
		return http.StatusBadRequest, "Missing song_id in payment metadata"
	case errors.Is(err, ErrInvalidOrExpiredToken):
		return http.StatusForbidden, "Invalid or expired download token"
	case errors.Is(err, ErrRecordNotFound):
		return http.StatusNotFound, "Payment record not found"
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusInternalServerError, "Error accessing file"
	case errors.Is(err, ErrUpdateFailed):
		return http.StatusInternalServerError, "Error updating payment"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
