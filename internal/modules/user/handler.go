package user

import (
	"errors"
	"net/http"
	"time"

	"userhub/internal/domain"
	"userhub/internal/middleware"
	"userhub/internal/pkg/response"
	validatorpkg "userhub/internal/pkg/validator"
	"userhub/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for identity records.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	userGroup := v1.Group("/users")
	{
		userGroup.POST("/register", h.Register)
		userGroup.GET("/:id/image", h.GetProfileImage)
		userGroup.GET("/health", h.Health)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PUT("/me", h.UpdateMe)
		userGroup.POST("/me/image", h.UploadProfileImage)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	userGroup := admin.Group("/users")
	{
		userGroup.GET("", h.List)
		userGroup.POST("", h.Create)
		userGroup.GET("/:id", h.Find)
		userGroup.PUT("/:id", h.Update)
		userGroup.DELETE("/:id", h.Delete)
		userGroup.PUT("/:id/roles", h.UpdateRoles)
		userGroup.PUT("/:id/enable", h.Enable)
		userGroup.PUT("/:id/disable", h.Disable)
	}
}

func (h *Handler) List(c *gin.Context) {
	users, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *Handler) Find(c *gin.Context) {
	u, err := h.service.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, req)
		return
	}

	u, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, req)
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) UpdateRoles(c *gin.Context) {
	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.UpdateRoles(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Roles)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) Enable(c *gin.Context) {
	if err := h.service.Enable(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"enabled": true})
}

func (h *Handler) Disable(c *gin.Context) {
	if err := h.service.Disable(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"disabled": true})
}

func (h *Handler) GetMe(c *gin.Context) {
	actor := middleware.Actor(c)
	u, err := h.service.Find(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// UpdateMe patches the caller's own identity fields.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.Actor(c)
	u, err := h.service.Update(c.Request.Context(), actor, actor.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) UploadProfileImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file uploaded")
		return
	}

	actor := middleware.Actor(c)
	filename, err := h.service.SaveProfileImage(c.Request.Context(), actor, actor.ID, fileHeader)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile_image": filename})
}

func (h *Handler) GetProfileImage(c *gin.Context) {
	path, err := h.service.ProfileImagePath(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.File(path)
}

func (h *Handler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// bindError reports which DTO fields failed, when that can be determined.
func bindError(c *gin.Context, req any) {
	if details := validatorpkg.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
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
	case errors.Is(err, domain.ErrResourceNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, repository.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "User already exists")
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File too large")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
