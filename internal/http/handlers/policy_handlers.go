package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
)

// PolicyHandlers manages the route authorization rules for the admin surface.
// Changes go through the policy service so they are persisted to the policy
// store, and every change is audited with the acting admin.
type PolicyHandlers struct {
	policySvc   domain.PolicyService
	auditLogger domain.AuditLogger
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService, auditLogger domain.AuditLogger) *PolicyHandlers {
	return &PolicyHandlers{
		policySvc:   policySvc,
		auditLogger: auditLogger,
	}
}

// PolicyRequest identifies a single authorization rule.
type PolicyRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// List returns every stored rule as [role, resource, action] triples.
func (h *PolicyHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.policySvc.GetPolicies()})
}

// Add stores a new authorization rule.
func (h *PolicyHandlers) Add(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.policySvc.AddPolicy(req.Role, req.Resource, req.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add policy"})
		return
	}

	h.auditPolicyChange(c, req, "added")
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// Remove deletes an authorization rule.
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.policySvc.RemovePolicy(req.Role, req.Resource, req.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove policy"})
		return
	}

	h.auditPolicyChange(c, req, "removed")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PolicyHandlers) auditPolicyChange(c *gin.Context, req PolicyRequest, change string) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return
	}
	h.auditLogger.LogDataAccess(c.Request.Context(), domain.PolicyChangedEvent, middleware.ClientFrom(c),
		principal.UserID, "policy", req.Role, map[string]any{
			"change":   change,
			"resource": req.Resource,
			"action":   req.Action,
		})
}
