package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"xplore/internal/imaging"
	"xplore/internal/models/request_models"
	"xplore/internal/services"
	"xplore/pkg/middleware"
	"xplore/pkg/utils"
)

const (
	multipartOverhead = 1 << 20
	// base64 inflates the payload by a third.
	maxSaveBodyBytes = imaging.MaxImageBytes/3*4 + multipartOverhead
)

type IAController struct {
	recognitionService services.RecognitionServiceInterface
}

func NewIAController(recognitionService services.RecognitionServiceInterface) *IAController {
	return &IAController{
		recognitionService: recognitionService,
	}
}

// Recognize godoc
// @Summary Recognize a landmark in a photo
// @Description Classifies the uploaded photo and resolves it to a place. Signed-in
// @Description users also get the photo stored and, above the accept threshold,
// @Description the place's collectibles unlocked.
// @Tags IA
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Photo (JPEG, PNG or WebP, max 10MB)"
// @Success 200 {object} response_models.RecognizeResponse
// @Failure 400 {object} response_models.FailureResponse
// @Failure 404 {object} response_models.FailureResponse
// @Failure 413 {object} response_models.FailureResponse
// @Failure 502 {object} response_models.FailureResponse
// @Failure 504 {object} response_models.FailureResponse
// @Router /ia/recognize [post]
func (i *IAController) Recognize(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxImageBytes+multipartOverhead)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondMobileError(c, utils.ErrImageTooLarge)
			return
		}
		respondMobileMessage(c, http.StatusBadRequest, "The image field is required")
		return
	}
	if header.Size > imaging.MaxImageBytes {
		respondMobileError(c, utils.ErrImageTooLarge)
		return
	}
	if !imaging.IsImageContentType(header.Header.Get("Content-Type")) {
		respondMobileError(c, utils.ErrUnsupportedImage)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondMobileError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxImageBytes+1))
	if err != nil {
		respondMobileError(c, err)
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.CurrentUserID(c); ok {
		userID = &id
	}

	resp, err := i.recognitionService.Recognize(c.Request.Context(), userID, data)
	if err != nil {
		respondMobileError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SaveCollection godoc
// @Summary Save a recognized photo and unlock the place's collectibles
// @Tags IA
// @Accept json
// @Produce json
// @Param request body request_models.SaveCollectionRequest true "Place and base64 photo"
// @Success 200 {object} response_models.SaveCollectionResponse
// @Failure 400 {object} response_models.FailureResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} response_models.FailureResponse
// @Security BearerAuth
// @Router /ia/save-collection [post]
func (i *IAController) SaveCollection(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondMobileError(c, utils.ErrUnauthorized)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSaveBodyBytes)
	var req request_models.SaveCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondMobileError(c, utils.ErrImageTooLarge)
			return
		}
		respondMobileMessage(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	placeID, err := uuid.Parse(req.LugarID)
	if err != nil {
		respondMobileMessage(c, http.StatusBadRequest, "Invalid lugarId")
		return
	}
	data, err := imaging.DecodeBase64(req.ImageBase64)
	if err != nil {
		respondMobileError(c, err)
		return
	}

	resp, err := i.recognitionService.SaveCollection(c.Request.Context(), userID, placeID, data, req.BestPrediction)
	if err != nil {
		respondMobileError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPolicy godoc
// @Summary Confidence thresholds used by the server
// @Tags IA
// @Produce json
// @Success 200 {object} policy.Confidence
// @Router /ia/policy [get]
func (i *IAController) GetPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, i.recognitionService.Policy())
}
