package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"xplore/internal/models/response_models"
	"xplore/internal/services"
	"xplore/pkg/utils"
)

// respondMobileError answers in the flat {success:false, message} shape the
// mobile app reads from the auth and IA endpoints.
func respondMobileError(c *gin.Context, err error) {
	code, message := utils.StatusForError(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	resp := response_models.FailureResponse{
		Success: false,
		Message: message,
		TraceID: c.GetString("trace_id"),
	}
	var recErr *services.RecognitionError
	if errors.As(err, &recErr) {
		resp.Data = recErr.Data()
	}
	c.JSON(code, resp)
}

func respondMobileMessage(c *gin.Context, code int, message string) {
	c.JSON(code, response_models.FailureResponse{
		Success: false,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}
