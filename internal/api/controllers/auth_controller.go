package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"xplore/internal/models/request_models"
	"xplore/internal/models/response_models"
	"xplore/internal/services"
	"xplore/pkg/middleware"
	"xplore/pkg/utils"
)

type AuthController struct {
	accountService services.AccountServiceInterface
}

func NewAuthController(accountService services.AccountServiceInterface) *AuthController {
	return &AuthController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Registration payload"
// @Success 201 {object} response_models.RegisterResponse
// @Failure 400 {object} response_models.FailureResponse
// @Failure 409 {object} response_models.FailureResponse
// @Router /auth/register_user [post]
func (a *AuthController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMobileMessage(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		respondMobileError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response_models.RegisterResponse{Success: true, Usuario: *user})
}

// Login godoc
// @Summary Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} response_models.LoginResponse
// @Failure 401 {object} response_models.FailureResponse
// @Router /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMobileMessage(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		respondMobileError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Revoke the current bearer token
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /auth/logout [post]
func (a *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	claims, _ := c.Get(middleware.ContextClaims)
	typed, _ := claims.(*utils.Claims)

	if err := a.accountService.Logout(c.Request.Context(), token, typed); err != nil {
		respondMobileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
