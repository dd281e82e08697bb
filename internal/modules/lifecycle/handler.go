package lifecycle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihor-metko/RSP-sub015/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the sweep trigger on the internal group. The
// scheduler (cron, k8s job) calls it; the engine never self-schedules.
func (h *Handler) RegisterRoutes(internal *gin.RouterGroup) {
	internal.POST("/lifecycle/sweep", h.sweep)
}

func (h *Handler) sweep(c *gin.Context) {
	result, err := h.service.Run(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "sweep failed")
		return
	}
	response.Success(c, http.StatusOK, result)
}
