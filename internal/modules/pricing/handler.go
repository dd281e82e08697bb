package pricing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ihor-metko/RSP-sub015/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts pricing rule CRUD. The group is expected to carry
// admin authorization already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resources/:id/pricing-rules", h.ListRules)
	rg.POST("/resources/:id/pricing-rules", h.CreateRule)
	rg.PUT("/resources/:id/pricing-rules/:ruleID", h.UpdateRule)
	rg.DELETE("/resources/:id/pricing-rules/:ruleID", h.DeleteRule)
}

func (h *Handler) ListRules(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rules, err := h.service.ListRules(c.Request.Context(), resourceID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rules": rules})
}

func (h *Handler) CreateRule(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	rule := req.toDomain(resourceID)
	if err := h.service.CreateRule(c.Request.Context(), &rule); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"rule": rule})
}

func (h *Handler) UpdateRule(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ruleID, ok := pathID(c, "ruleID")
	if !ok {
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	rule := req.toDomain(resourceID)
	rule.ID = ruleID
	if err := h.service.UpdateRule(c.Request.Context(), &rule); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rule": rule})
}

func (h *Handler) DeleteRule(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ruleID, ok := pathID(c, "ruleID")
	if !ok {
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), resourceID, ruleID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var conflict *RuleConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeConflict,
			"Pricing rule overlaps an existing rule", conflictDetails{
				RuleID:    conflict.Conflicting.ID,
				RuleType:  string(conflict.Conflicting.RuleType),
				StartTime: conflict.Conflicting.StartTime,
				EndTime:   conflict.Conflicting.EndTime,
			})
	case errors.Is(err, ErrInvalidRule):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, ErrResourceNotFound), errors.Is(err, ErrRuleNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to process pricing rule")
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
