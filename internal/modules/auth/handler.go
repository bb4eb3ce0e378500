package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"userhub/internal/domain"
	"userhub/internal/middleware"
	jwtpkg "userhub/internal/pkg/jwt"
	"userhub/internal/pkg/response"
	"userhub/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for the session endpoints.
type Handler struct {
	service *Service
	tokens  RefreshParser
}

// RefreshParser verifies a refresh token and yields the claims baked
// into it.
type RefreshParser interface {
	ParseRefresh(tokenStr string) (*jwtpkg.Claims, error)
}

func NewHandler(service *Service, tokens RefreshParser) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.LoginByID)
		authGroup.POST("/login/email", h.LoginByEmail)
		authGroup.GET("/token/refresh", h.Refresh)
		authGroup.GET("/:id/activate", h.ActivateByQuery)
		authGroup.PUT("/:id/activate", h.ActivateByBody)
		authGroup.GET("/health", h.Health)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.GET("/logout", h.Logout)
		authGroup.PUT("/change-password", h.ChangePassword)
	}
}

func (h *Handler) LoginByID(c *gin.Context) {
	var req LoginIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	h.login(c, LookupByID, req.ID, req.Password)
}

func (h *Handler) LoginByEmail(c *gin.Context) {
	var req LoginEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	h.login(c, LookupByEmail, req.Email, req.Password)
}

func (h *Handler) login(c *gin.Context, by LookupKey, value, password string) {
	user, err := h.service.ValidateCredentials(c.Request.Context(), by, value, password)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		writeError(c, ErrInvalidCredentials)
		return
	}

	result, err := h.service.Login(user)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		ID:           result.ID,
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Refresh expects the refresh token as the bearer credential and the
// access token being retired in the "token" query parameter. The retired
// token lands in the revocation ledger before the new one is minted.
func (h *Handler) Refresh(c *gin.Context) {
	refreshToken := bearerToken(c)
	if refreshToken == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token required")
		return
	}

	claims, err := h.tokens.ParseRefresh(refreshToken)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid refresh token")
		return
	}

	token, err := h.service.Refresh(c.Request.Context(), claims.UserID, c.Query("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, RefreshResponse{Token: token})
}

// Logout revokes the bearer access token together with the refresh token
// handed over in the query string.
func (h *Handler) Logout(c *gin.Context) {
	accessToken := bearerToken(c)
	refreshToken := c.Query("refreshToken")

	if err := h.service.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loggedOut": true})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.Actor(c)
	if actor.ID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), actor, actor.ID, req.Password); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

// ActivateByQuery serves the link from the activation email: the token
// rides in the query string.
func (h *Handler) ActivateByQuery(c *gin.Context) {
	h.activate(c, c.Query("activationToken"))
}

func (h *Handler) ActivateByBody(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	h.activate(c, req.ActivationToken)
}

func (h *Handler) activate(c *gin.Context, token string) {
	if err := h.service.Activate(c.Request.Context(), c.Param("id"), token); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activated": true})
}

func (h *Handler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", validationErr.Message)
		return
	}

	var invalidErr *domain.InvalidDataError
	if errors.As(err, &invalidErr) {
		response.Error(c, http.StatusBadRequest, "INVALID_DATA", invalidErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, ErrUserDisabled):
		response.Error(c, http.StatusUnauthorized, "USER_DISABLED", "Account is disabled")
	case errors.Is(err, ErrUserNotActivated):
		response.Error(c, http.StatusUnauthorized, "USER_NOT_ACTIVATED", "Account is not activated")
	case errors.Is(err, ErrInvalidActivationToken):
		response.Error(c, http.StatusUnauthorized, "INVALID_ACTIVATION_TOKEN", "Invalid activation token")
	case errors.Is(err, repository.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Resource already exists")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
