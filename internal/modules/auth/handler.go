package auth

import (
	"errors"
	"net/http"

	"imagestyle/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPublicRoutes mounts register and login; loginGuards run before Login.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", append(loginGuards, h.Login)...)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

// Register creates a staff or owner account.
// @Summary	Register a user
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"email, name, role (owner|staff), password"
// @Success	200	{object}	UserOut
// @Failure	400	{object}	map[string]interface{}	"validation error or email already registered"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "Email already registered")
			return
		}
		h.log.Error("register failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}

	c.JSON(http.StatusOK, toUserOut(user))
}

// Login exchanges email and password for a bearer token.
// @Summary	Log in
// @Tags		Auth
// @Accept		x-www-form-urlencoded,json
// @Param		username	formData	string	true	"account email"
// @Param		password	formData	string	true	"password"
// @Success	200	{object}	TokenResponse
// @Failure	401	{object}	map[string]interface{}	"incorrect email or password"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// GetMe returns the authenticated user.
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Could not validate credentials")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, toUserOut(user))
}
