package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	principal := &domain.Principal{UserID: 42, Email: "patient@example.com", Role: domain.RolePatient, EmailVerified: true}

	tests := []struct {
		name           string
		authHeader     string
		validateFunc   func(token string) (*domain.Principal, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authorization header required",
		},
		{
			name:           "malformed header",
			authHeader:     "Token abc",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid authorization header format",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer forged",
			validateFunc: func(token string) (*domain.Principal, error) {
				return nil, domain.ErrTokenInvalid
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
		{
			name:       "expired token",
			authHeader: "Bearer stale",
			validateFunc: func(token string) (*domain.Principal, error) {
				return nil, domain.ErrTokenExpired
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token expired",
		},
		{
			name:       "valid token reaches the handler",
			authHeader: "Bearer good",
			validateFunc: func(token string) (*domain.Principal, error) {
				return principal, nil
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mocks.NewMockTokenService()
			tokenSvc.ValidateFunc = tt.validateFunc

			handlerCalled := false
			r := gin.New()
			r.GET("/protected", AuthMiddleware(tokenSvc), func(c *gin.Context) {
				handlerCalled = true
				got := CurrentPrincipal(c)
				require.NotNil(t, got)
				assert.Equal(t, uint(42), got.UserID)
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			headers := map[string]string{}
			if tt.authHeader != "" {
				headers["Authorization"] = tt.authHeader
			}
			w := performRequest(r, http.MethodGet, "/protected", headers)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.False(t, handlerCalled, "handler must not run on rejected requests")
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				assert.True(t, handlerCalled)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name           string
		principal      *domain.Principal
		middleware     func(domain.AuditLogger) gin.HandlerFunc
		expectedStatus int
		expectDenial   bool
	}{
		{
			name:           "patient denied on admin gate",
			principal:      &domain.Principal{UserID: 42, Role: domain.RolePatient},
			middleware:     RequirePlatformAdmin,
			expectedStatus: http.StatusForbidden,
			expectDenial:   true,
		},
		{
			name:           "platform admin passes admin gate",
			principal:      &domain.Principal{UserID: 1, Role: domain.RolePlatformAdmin},
			middleware:     RequirePlatformAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "center admin passes staff gate",
			principal:      &domain.Principal{UserID: 100, Role: domain.RoleCenterAdmin, CenterID: 3},
			middleware:     RequireCenterStaff,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "patient denied on staff gate",
			principal:      &domain.Principal{UserID: 42, Role: domain.RolePatient},
			middleware:     RequireCenterStaff,
			expectedStatus: http.StatusForbidden,
			expectDenial:   true,
		},
		{
			name:           "unauthenticated request denied",
			middleware:     RequirePatient,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditLogger := mocks.NewMockAuditLogger()

			r := gin.New()
			r.GET("/gated", func(c *gin.Context) {
				if tt.principal != nil {
					c.Set(PrincipalKey, tt.principal)
				}
			}, tt.middleware(auditLogger), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := performRequest(r, http.MethodGet, "/gated", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)

			denials := auditLogger.EventsOfType(domain.AccessDeniedEvent)
			if tt.expectDenial {
				assert.Len(t, denials, 1, "denial must be audited")
			} else {
				assert.Empty(t, denials)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:     "forwarded-for takes the first hop",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"},
			expected: "203.0.113.5",
		},
		{
			name:     "real-ip fallback",
			headers:  map[string]string{"X-Real-IP": "203.0.113.9"},
			expected: "203.0.113.9",
		},
		{
			name:       "socket address fallback",
			remoteAddr: "192.0.2.10:51234",
			expected:   "192.0.2.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				got = ClientIP(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}
			r.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expected, got)
		})
	}
}
