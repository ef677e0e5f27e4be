package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/mocks"
)

func newPolicyRouter(policySvc *mocks.MockPolicyService, auditLogger *mocks.MockAuditLogger) *gin.Engine {
	h := NewPolicyHandlers(policySvc, auditLogger)

	admin := &domain.Principal{UserID: 9, Role: domain.RolePlatformAdmin}
	inject := func(c *gin.Context) { c.Set(middleware.PrincipalKey, admin) }

	r := gin.New()
	r.GET("/api/admin/policies", inject, h.List)
	r.POST("/api/admin/policies", inject, h.Add)
	r.DELETE("/api/admin/policies", inject, h.Remove)
	return r
}

func TestPolicyHandlers_List(t *testing.T) {
	policySvc := mocks.NewMockPolicyService()
	policySvc.GetPoliciesFunc = func() [][]string {
		return [][]string{{"role_platform_admin", "/api/admin/*", "(GET|POST|PATCH|DELETE)"}}
	}

	w := postJSON(newPolicyRouter(policySvc, mocks.NewMockAuditLogger()), http.MethodGet, "/api/admin/policies", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	rules, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, rules, 1)
}

func TestPolicyHandlers_Add(t *testing.T) {
	policySvc := mocks.NewMockPolicyService()
	auditLogger := mocks.NewMockAuditLogger()

	w := postJSON(newPolicyRouter(policySvc, auditLogger), http.MethodPost, "/api/admin/policies", gin.H{
		"role":     "role_center_admin",
		"resource": "/api/admin/audit-events",
		"action":   "GET",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, policySvc.Added, 1)
	assert.Equal(t, [3]string{"role_center_admin", "/api/admin/audit-events", "GET"}, policySvc.Added[0])

	events := auditLogger.EventsOfType(domain.PolicyChangedEvent)
	require.Len(t, events, 1)
	assert.Equal(t, "added", events[0].Detail["change"])
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, uint(9), *events[0].ActorID)
}

func TestPolicyHandlers_AddRejectsIncompleteRule(t *testing.T) {
	policySvc := mocks.NewMockPolicyService()

	w := postJSON(newPolicyRouter(policySvc, mocks.NewMockAuditLogger()), http.MethodPost, "/api/admin/policies", gin.H{
		"role": "role_center_admin",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, policySvc.Added)
}

func TestPolicyHandlers_AddFailure(t *testing.T) {
	policySvc := mocks.NewMockPolicyService()
	policySvc.AddPolicyFunc = func(role, resource, action string) error {
		return errors.New("store down")
	}

	w := postJSON(newPolicyRouter(policySvc, mocks.NewMockAuditLogger()), http.MethodPost, "/api/admin/policies", gin.H{
		"role":     "role_center_admin",
		"resource": "/api/admin/audit-events",
		"action":   "GET",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPolicyHandlers_Remove(t *testing.T) {
	policySvc := mocks.NewMockPolicyService()
	auditLogger := mocks.NewMockAuditLogger()

	w := postJSON(newPolicyRouter(policySvc, auditLogger), http.MethodDelete, "/api/admin/policies", gin.H{
		"role":     "role_center_admin",
		"resource": "/api/admin/audit-events",
		"action":   "GET",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, policySvc.Removed, 1)

	events := auditLogger.EventsOfType(domain.PolicyChangedEvent)
	require.Len(t, events, 1)
	assert.Equal(t, "removed", events[0].Detail["change"])
}
