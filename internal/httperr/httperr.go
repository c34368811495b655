package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func BadGateway(c *gin.Context, code, message string) {
	Write(c, http.StatusBadGateway, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Business maps a use-case error onto a response. It reports false when err
// carries no business code, leaving the response to the caller.
func Business(c *gin.Context, err error) bool {
	code, ok := BusinessCode(err)
	if !ok {
		return false
	}

	switch code {
	case CodeDoctorNotFound, CodeUserNotFound, CodeSubscriptionMissing, CodeSlotNotFound:
		NotFound(c, code, "Resource not found.")
	case CodeDoctorAlreadyExists, CodeUserAlreadyExists, CodeSubscriptionExists:
		Conflict(c, code, "Resource already exists.")
	case CodeDoctorUnavailable:
		BadGateway(c, code, "Doctor availability could not be fetched.")
	default:
		BadRequest(c, code, "Request rejected.")
	}
	return true
}
