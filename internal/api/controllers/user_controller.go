package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"xplore/internal/models/request_models"
	"xplore/internal/models/response_models"
	"xplore/internal/services"
	"xplore/pkg/middleware"
	"xplore/pkg/utils"
)

type UserController struct {
	userService    services.UserServiceInterface
	followService  services.FollowServiceInterface
	accountService services.AccountServiceInterface
}

func NewUserController(
	userService services.UserServiceInterface,
	followService services.FollowServiceInterface,
	accountService services.AccountServiceInterface,
) *UserController {
	return &UserController{
		userService:    userService,
		followService:  followService,
		accountService: accountService,
	}
}

// pathAndViewer reads the :id path parameter and the authenticated caller.
// It answers the request itself when either is missing.
func pathAndViewer(c *gin.Context) (userID, viewerID uuid.UUID, ok bool) {
	viewerID, ok = middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, viewerID, true
}

func bindPage(c *gin.Context) (int, int, bool) {
	var q request_models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid paging parameters")
		return 0, 0, false
	}
	page, pageSize, err := utils.NormalizePage(q.Page, q.PageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return 0, 0, false
	}
	return page, pageSize, true
}

// GetProfile godoc
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (u *UserController) GetProfile(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}

	profile, err := u.userService.GetProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "User fetched successfully")
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body request_models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (u *UserController) UpdateProfile(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	profile, err := u.userService.UpdateProfile(c.Request.Context(), viewerID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Profile updated successfully")
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body request_models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id}/password [put]
func (u *UserController) ChangePassword(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}
	if viewerID != userID {
		utils.HandleServiceError(c, utils.ErrForbidden)
		return
	}
	var req request_models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := u.accountService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password changed successfully")
}

// Deactivate godoc
// @Summary Deactivate the caller's account
// @Description Marks the account inactive and revokes the presented token
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (u *UserController) Deactivate(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}

	if err := u.userService.Deactivate(c.Request.Context(), viewerID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	claims, _ := c.Get(middleware.ContextClaims)
	typed, _ := claims.(*utils.Claims)
	if err := u.accountService.Logout(c.Request.Context(), c.GetString(middleware.ContextToken), typed); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account deactivated")
}

func (u *UserController) ListCollectibles(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}
	page, pageSize, ok := bindPage(c)
	if !ok {
		return
	}

	items, err := u.userService.ListCollectibles(c.Request.Context(), viewerID, userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Collectibles fetched successfully")
}

func (u *UserController) CountCollectibles(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}

	n, err := u.userService.CountCollectibles(c.Request.Context(), viewerID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CountResponse{Count: n}, "Collectibles counted successfully")
}

func (u *UserController) ListPhotos(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}
	page, pageSize, ok := bindPage(c)
	if !ok {
		return
	}

	photos, err := u.userService.ListPhotos(c.Request.Context(), viewerID, userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, photos, "Photos fetched successfully")
}

func (u *UserController) ListAchievements(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}

	achievements, err := u.userService.ListAchievements(c.Request.Context(), viewerID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, achievements, "Achievements fetched successfully")
}

// Summary godoc
// @Summary Profile counters
// @Description Collectibles, places, photos, achievements and follow counts in one call
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id}/summary [get]
func (u *UserController) Summary(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}

	summary, err := u.userService.Summary(c.Request.Context(), viewerID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, summary, "Summary fetched successfully")
}

func (u *UserController) ListFollowers(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}
	page, pageSize, ok := bindPage(c)
	if !ok {
		return
	}

	users, err := u.followService.ListFollowers(c.Request.Context(), viewerID, userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, users, "Followers fetched successfully")
}

func (u *UserController) ListFollowing(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}
	page, pageSize, ok := bindPage(c)
	if !ok {
		return
	}

	users, err := u.followService.ListFollowing(c.Request.Context(), viewerID, userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, users, "Following fetched successfully")
}

func (u *UserController) CountFollowers(c *gin.Context) {
	userID, _, ok := pathAndViewer(c)
	if !ok {
		return
	}

	n, err := u.followService.CountFollowers(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CountResponse{Count: n}, "Followers counted successfully")
}

func (u *UserController) CountFollowing(c *gin.Context) {
	userID, _, ok := pathAndViewer(c)
	if !ok {
		return
	}

	n, err := u.followService.CountFollowing(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CountResponse{Count: n}, "Following counted successfully")
}

// Follow godoc
// @Summary Follow a user
// @Tags Users
// @Produce json
// @Param id path string true "User to follow"
// @Success 201 {object} utils.APIResponse
// @Success 200 {object} utils.APIResponse "already following"
// @Security BearerAuth
// @Router /users/{id}/follow [post]
func (u *UserController) Follow(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}

	created, err := u.followService.Follow(c.Request.Context(), viewerID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if created {
		utils.RespondSuccessWithCode(c, http.StatusCreated, gin.H{"following": true}, "Now following user")
		return
	}
	utils.RespondSuccess(c, gin.H{"following": true}, "Already following user")
}

func (u *UserController) Unfollow(c *gin.Context) {
	userID, viewerID, ok := pathAndViewer(c)
	if !ok {
		return
	}

	removed, err := u.followService.Unfollow(c.Request.Context(), viewerID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"following": false, "removed": removed}, "Unfollowed user")
}
