package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"xplore/internal/models/request_models"
	"xplore/internal/services"
	"xplore/pkg/middleware"
	"xplore/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Get admin dashboard report
// @Description KPI block (users, photo moderation, unlocks) and the most photographed places
// @Tags Admin
// @Produce json
// @Param start     query string false "RFC3339 start (e.g. 2026-10-01T00:00:00Z)"
// @Param end       query string false "RFC3339 end   (e.g. 2026-10-19T23:59:59Z)"
// @Param last_days query int    false "Relative lookback in days (mutually exclusive with start/end). Default 30"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	lastDaysStr := c.Query("last_days")

	if lastDaysStr != "" && (startStr != "" || endStr != "") {
		utils.RespondError(c, http.StatusBadRequest, "provide either last_days or start/end (not both)")
		return
	}

	tr := services.DefaultDashboardRange(time.Now())
	switch {
	case lastDaysStr != "":
		d, err := strconv.Atoi(lastDaysStr)
		if err != nil || d <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "last_days must be a positive integer")
			return
		}
		tr.Start = tr.End.AddDate(0, 0, -d)

	default:
		if endStr != "" {
			end, err := time.Parse(time.RFC3339, endStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "end must be RFC3339 (e.g. 2026-10-19T23:59:59Z)")
				return
			}
			tr = services.DefaultDashboardRange(end)
		}
		if startStr != "" {
			start, err := time.Parse(time.RFC3339, startStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "start must be RFC3339 (e.g. 2026-10-01T00:00:00Z)")
				return
			}
			tr.Start = start.UTC()
		}
	}

	if tr.Start.After(tr.End) {
		tr.Start, tr.End = tr.End, tr.Start
	}

	report, err := p.dashboardService.BuildDashboard(c.Request.Context(), tr)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

// ListPhotos godoc
// @Summary List uploaded photos for moderation
// @Tags Admin
// @Produce json
// @Param status    query string false "pending_review | approved | rejected"
// @Param page      query int    false "Page (default 1)"
// @Param page_size query int    false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/photos [get]
func (p *DashboardController) ListPhotos(c *gin.Context) {
	var q request_models.PhotoQueueQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	page, err := p.dashboardService.ListPhotos(c.Request.Context(), q.Status, q.Page, q.PageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "Photos fetched successfully")
}

// ReviewPhoto godoc
// @Summary Set the moderation status of a photo
// @Tags Admin
// @Accept json
// @Produce json
// @Param id   path string                             true "Photo ID"
// @Param body body request_models.ReviewPhotoRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/photos/{id}/status [put]
func (p *DashboardController) ReviewPhoto(c *gin.Context) {
	reviewerID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid photo ID")
		return
	}
	var req request_models.ReviewPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "status must be one of: pending_review, approved, rejected")
		return
	}

	photo, err := p.dashboardService.ReviewPhoto(c.Request.Context(), reviewerID, photoID, req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, photo, "Photo status updated")
}
