package availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ihor-metko/RSP-sub015/internal/middleware"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the read endpoint on the public group and the block
// management endpoints on the admin group.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/resources/:id/availability", h.getDayAvailability)

	admin.POST("/resources/:id/blocks", h.createBlock)
	admin.DELETE("/resources/:id/blocks/:blockID", h.deleteBlock)
}

func (h *Handler) getDayAvailability(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "date query parameter is required")
		return
	}

	day, err := h.service.GetDayAvailability(c.Request.Context(), resourceID, date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, day)
}

func (h *Handler) createBlock(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		return
	}

	block := req.toDomain(resourceID, middleware.UserID(c))
	if err := h.service.CreateBlock(c.Request.Context(), block); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, block)
}

func (h *Handler) deleteBlock(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	blockID, ok := pathID(c, "blockID")
	if !ok {
		return
	}

	if err := h.service.DeleteBlock(c.Request.Context(), resourceID, blockID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidDate, "date must be in YYYY-MM-DD format")
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRange, "start_time must be before end_time, both in HH:MM format")
	case errors.Is(err, ErrResourceNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "resource not found")
	case errors.Is(err, ErrBlockNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "block not found")
	case errors.Is(err, ErrBlockConflict):
		response.Error(c, http.StatusConflict, response.CodeConflict, "block overlaps an active reservation")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
