package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"xplore/internal/models/request_models"
	"xplore/internal/services"
	"xplore/pkg/utils"
)

type PlaceController struct {
	placeService services.PlaceServiceInterface
}

func NewPlaceController(placeService services.PlaceServiceInterface) *PlaceController {
	return &PlaceController{
		placeService: placeService,
	}
}

func placeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid place ID")
		return uuid.Nil, false
	}
	return id, true
}

// ListPlaces godoc
// @Summary List places
// @Tags Places
// @Produce json
// @Param category query string false "Category filter"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places [get]
func (p *PlaceController) ListPlaces(c *gin.Context) {
	var q request_models.PlaceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := p.placeService.List(c.Request.Context(), q.Category, q.Page, q.PageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, page, "Places fetched successfully")
}

// GetPlace godoc
// @Summary Get a place
// @Tags Places
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /places/{id} [get]
func (p *PlaceController) GetPlace(c *gin.Context) {
	id, ok := placeID(c)
	if !ok {
		return
	}

	place, err := p.placeService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "Place fetched successfully")
}

func (p *PlaceController) GetHistory(c *gin.Context) {
	id, ok := placeID(c)
	if !ok {
		return
	}

	entries, err := p.placeService.History(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, entries, "History fetched successfully")
}

func (p *PlaceController) GetCollectibles(c *gin.Context) {
	id, ok := placeID(c)
	if !ok {
		return
	}

	items, err := p.placeService.Collectibles(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Collectibles fetched successfully")
}
