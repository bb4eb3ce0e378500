package email

import (
	"errors"
	"net/http"
	"time"

	"userhub/internal/domain"
	"userhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type SendTestRequest struct {
	To string `json:"to" binding:"required"`
}

// Handler exposes the mail test endpoint for admins.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/email/health", h.Health)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/email/test", h.SendTest)
}

func (h *Handler) SendTest(c *gin.Context) {
	var req SendTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SendTest(req.To); err != nil {
		var invalidErr *domain.InvalidDataError
		if errors.As(err, &invalidErr) {
			response.Error(c, http.StatusBadRequest, "INVALID_DATA", invalidErr.Message)
			return
		}
		response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send test mail")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

func (h *Handler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}
