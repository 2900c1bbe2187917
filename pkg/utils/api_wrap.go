package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondSuccessWithCode(c, http.StatusOK, data, message)
}

func RespondSuccessWithCode(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Success: true,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorWithData(c, code, message, nil)
}

func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Success: false,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

// StatusForError maps a service error to the HTTP status and the message shown
// to clients. Unknown errors are always answered with 500.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest, "Page must be greater than 0"
	case errors.Is(err, ErrInvalidPageSize):
		return http.StatusBadRequest, "Page size must be between 1 and 100"
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidImage),
		errors.Is(err, ErrUnsupportedImage),
		errors.Is(err, ErrCannotFollowSelf):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "Image exceeds the 10MB limit"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, ErrProfilePrivate):
		return http.StatusForbidden, "This profile is private"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, ErrPlaceNotFound):
		return http.StatusNotFound, "Place not found"
	case errors.Is(err, ErrPhotoNotFound):
		return http.StatusNotFound, "Photo not found"
	case errors.Is(err, ErrPlaceNotMatched):
		return http.StatusNotFound, "No place matches the recognized landmark"
	case errors.Is(err, ErrPlaceAmbiguous):
		return http.StatusNotFound, "The recognized landmark matches more than one place"
	case errors.Is(err, ErrRecognitionFailed):
		return http.StatusNotFound, "The landmark could not be recognized"
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, ErrClassifierTimeout):
		return http.StatusGatewayTimeout, "The recognition service timed out"
	case errors.Is(err, ErrClassifierFailed):
		return http.StatusBadGateway, "The recognition service is unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func HandleServiceError(c *gin.Context, err error) {
	code, message := StatusForError(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	RespondError(c, code, message)
}
