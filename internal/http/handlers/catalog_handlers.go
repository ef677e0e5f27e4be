package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// CatalogHandlers serves the public center and test catalog. Only active
// entries are visible here; inactive ones remain reachable to admins.
type CatalogHandlers struct {
	centerRepo domain.CenterRepository
	testRepo   domain.LabTestRepository
}

// NewCatalogHandlers creates new catalog handlers
func NewCatalogHandlers(centerRepo domain.CenterRepository, testRepo domain.LabTestRepository) *CatalogHandlers {
	return &CatalogHandlers{centerRepo: centerRepo, testRepo: testRepo}
}

// ListCenters returns active partner centers.
func (h *CatalogHandlers) ListCenters(c *gin.Context) {
	centers, err := h.centerRepo.List(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list centers"})
		return
	}

	bodies := make([]gin.H, 0, len(centers))
	for i := range centers {
		bodies = append(bodies, centerBody(&centers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": bodies})
}

// ListCenterTests returns the active tests offered by a center.
func (h *CatalogHandlers) ListCenterTests(c *gin.Context) {
	centerID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid center id"})
		return
	}

	center, err := h.centerRepo.FindByID(c.Request.Context(), centerID)
	if err != nil || !center.IsActive {
		if err == nil || errors.Is(err, domain.ErrCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Center not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get center"})
		return
	}

	tests, err := h.testRepo.ListByCenter(c.Request.Context(), centerID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tests"})
		return
	}

	bodies := make([]gin.H, 0, len(tests))
	for i := range tests {
		bodies = append(bodies, testBody(&tests[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": bodies})
}

func centerBody(center *domain.Center) gin.H {
	return gin.H{
		"id":      center.ID,
		"name":    center.Name,
		"city":    center.City,
		"address": center.Address,
		"phone":   center.Phone,
	}
}

func testBody(test *domain.LabTest) gin.H {
	return gin.H{
		"id":               test.ID,
		"center_id":        test.CenterID,
		"name":             test.Name,
		"code":             test.Code,
		"price_cents":      test.PriceCents,
		"turnaround_hours": test.TurnaroundHours,
	}
}
