package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
)

// AdminHandlers handles platform administration HTTP requests: the partner
// center and test catalog, plus the audit trail.
type AdminHandlers struct {
	centerRepo  domain.CenterRepository
	testRepo    domain.LabTestRepository
	auditRepo   domain.AuditEventRepository
	auditLogger domain.AuditLogger
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(centerRepo domain.CenterRepository, testRepo domain.LabTestRepository, auditRepo domain.AuditEventRepository, auditLogger domain.AuditLogger) *AdminHandlers {
	return &AdminHandlers{
		centerRepo:  centerRepo,
		testRepo:    testRepo,
		auditRepo:   auditRepo,
		auditLogger: auditLogger,
	}
}

// CenterRequest represents a center create/update payload
type CenterRequest struct {
	Name     string `json:"name" binding:"required"`
	City     string `json:"city" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

// LabTestRequest represents a test create/update payload
type LabTestRequest struct {
	Name            string `json:"name" binding:"required"`
	Code            string `json:"code" binding:"required"`
	PriceCents      int64  `json:"price_cents" binding:"required,min=0"`
	TurnaroundHours int    `json:"turnaround_hours" binding:"required,min=1"`
	IsActive        *bool  `json:"is_active"`
}

// CreateCenter registers a new partner center.
func (h *AdminHandlers) CreateCenter(c *gin.Context) {
	var req CenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	center := &domain.Center{
		Name:     req.Name,
		City:     req.City,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if req.IsActive != nil {
		center.IsActive = *req.IsActive
	}

	if err := h.centerRepo.Create(c.Request.Context(), center); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create center"})
		return
	}

	h.auditCatalogChange(c, "center", center.ID, "created")
	c.JSON(http.StatusCreated, gin.H{"data": adminCenterBody(center)})
}

// ListCenters returns all centers, inactive ones included.
func (h *AdminHandlers) ListCenters(c *gin.Context) {
	centers, err := h.centerRepo.List(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list centers"})
		return
	}

	bodies := make([]gin.H, 0, len(centers))
	for i := range centers {
		bodies = append(bodies, adminCenterBody(&centers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": bodies})
}

// UpdateCenter replaces a center's editable fields.
func (h *AdminHandlers) UpdateCenter(c *gin.Context) {
	centerID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid center id"})
		return
	}

	var req CenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	center, err := h.centerRepo.FindByID(c.Request.Context(), centerID)
	if err != nil {
		if errors.Is(err, domain.ErrCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Center not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get center"})
		return
	}

	center.Name = req.Name
	center.City = req.City
	center.Address = req.Address
	center.Phone = req.Phone
	if req.IsActive != nil {
		center.IsActive = *req.IsActive
	}

	if err := h.centerRepo.Update(c.Request.Context(), center); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update center"})
		return
	}

	h.auditCatalogChange(c, "center", center.ID, "updated")
	c.JSON(http.StatusOK, gin.H{"data": adminCenterBody(center)})
}

// CreateTest adds a test to a center's catalog.
func (h *AdminHandlers) CreateTest(c *gin.Context) {
	centerID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid center id"})
		return
	}

	var req LabTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.centerRepo.FindByID(c.Request.Context(), centerID); err != nil {
		if errors.Is(err, domain.ErrCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Center not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get center"})
		return
	}

	test := &domain.LabTest{
		CenterID:        centerID,
		Name:            req.Name,
		Code:            req.Code,
		PriceCents:      req.PriceCents,
		TurnaroundHours: req.TurnaroundHours,
		IsActive:        true,
	}
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := h.testRepo.Create(c.Request.Context(), test); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create test"})
		return
	}

	h.auditCatalogChange(c, "lab_test", test.ID, "created")
	c.JSON(http.StatusCreated, gin.H{"data": adminTestBody(test)})
}

// UpdateTest replaces a test's editable fields.
func (h *AdminHandlers) UpdateTest(c *gin.Context) {
	testID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid test id"})
		return
	}

	var req LabTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := h.testRepo.FindByID(c.Request.Context(), testID)
	if err != nil {
		if errors.Is(err, domain.ErrTestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get test"})
		return
	}

	test.Name = req.Name
	test.Code = req.Code
	test.PriceCents = req.PriceCents
	test.TurnaroundHours = req.TurnaroundHours
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := h.testRepo.Update(c.Request.Context(), test); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update test"})
		return
	}

	h.auditCatalogChange(c, "lab_test", test.ID, "updated")
	c.JSON(http.StatusOK, gin.H{"data": adminTestBody(test)})
}

// ListAuditEvents returns the most recent audit rows.
func (h *AdminHandlers) ListAuditEvents(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	events, err := h.auditRepo.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit events"})
		return
	}

	bodies := make([]gin.H, 0, len(events))
	for i := range events {
		e := &events[i]
		body := gin.H{
			"id":         e.ID,
			"event_type": e.EventType,
			"severity":   e.Severity,
			"ip_address": e.IPAddress,
			"detail":     e.Detail,
			"created_at": e.CreatedAt,
		}
		if e.ActorID != nil {
			body["actor_id"] = *e.ActorID
		}
		if e.ResourceType != "" {
			body["resource_type"] = e.ResourceType
			body["resource_id"] = e.ResourceID
		}
		bodies = append(bodies, body)
	}
	c.JSON(http.StatusOK, gin.H{"data": bodies})
}

func (h *AdminHandlers) auditCatalogChange(c *gin.Context, resourceType string, resourceID uint, change string) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return
	}
	h.auditLogger.LogDataAccess(c.Request.Context(), domain.CatalogChangedEvent, middleware.ClientFrom(c),
		principal.UserID, resourceType, strconv.FormatUint(uint64(resourceID), 10), map[string]any{
			"change": change,
		})
}

func adminCenterBody(center *domain.Center) gin.H {
	body := centerBody(center)
	body["is_active"] = center.IsActive
	body["created_at"] = center.CreatedAt
	return body
}

func adminTestBody(test *domain.LabTest) gin.H {
	body := testBody(test)
	body["is_active"] = test.IsActive
	body["created_at"] = test.CreatedAt
	return body
}
