package reservation

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

// RegisterRoutes mounts booking endpoints on the authenticated group and
// the payment confirmation hook on the internal group.
func (h *Handler) RegisterRoutes(auth, internal *gin.RouterGroup) {
	auth.POST("/reservations", h.create)
	auth.GET("/users/me/reservations", h.listMine)
	auth.GET("/reservations/:id", h.getByID)
	auth.POST("/reservations/:id/cancel", h.cancel)

	internal.POST("/reservations/:id/mark-paid", h.markPaid)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		return
	}

	requester := requesterFrom(c)
	in := CreateInput{
		ResourceID: req.ResourceID,
		UserID:     requester.UserID,
		Start:      req.StartTime,
		End:        req.EndTime,
		Notes:      req.Notes,
		Mode:       ModeCustomerPending,
	}
	if requester.isStaff() {
		in.Mode = ModeAdminDirect
		if req.UserID != 0 {
			in.UserID = req.UserID
		}
	}

	res, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toResponse(res))
}

func (h *Handler) listMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.ListForUser(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponseList(list))
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.service.GetByID(c.Request.Context(), id, requesterFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(res))
}

func (h *Handler) cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	// body is optional
	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	res, err := h.service.Cancel(c.Request.Context(), id, requesterFrom(c), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(res))
}

func (h *Handler) markPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.service.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(res))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRange, "start_time must be in the future and before end_time, within one calendar day")
	case errors.Is(err, ErrInvalidMode):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid booking mode")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, response.CodeConflict, "requested time range is no longer available")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, response.CodeConflict, "reservation status does not allow this operation")
	case errors.Is(err, ErrResourceNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "resource not found")
	case errors.Is(err, ErrReservationNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "reservation not found")
	case errors.Is(err, ErrRequesterNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "user not found")
	case errors.Is(err, ErrRequesterBlocked):
		response.Error(c, http.StatusForbidden, response.CodeBlocked, "account is blocked from booking")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "not allowed")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
	}
}

func requesterFrom(c *gin.Context) Requester {
	return Requester{
		UserID: middleware.UserID(c),
		Role:   c.GetString("role"),
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
