package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests using clean architecture
type AuthHandlers struct {
	authSvc     domain.AuthService
	otpSvc      domain.OTPService
	auditLogger domain.AuditLogger
	releaseMode bool
	otpTTLs     map[string]time.Duration
}

// AuthHandlerOptions carries the environment knobs the handlers need.
type AuthHandlerOptions struct {
	ReleaseMode bool
	OTPTTLs     map[string]time.Duration
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, auditLogger domain.AuditLogger, opts AuthHandlerOptions) *AuthHandlers {
	return &AuthHandlers{
		authSvc:     authSvc,
		otpSvc:      otpSvc,
		auditLogger: auditLogger,
		releaseMode: opts.ReleaseMode,
		otpTTLs:     opts.OTPTTLs,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OTPRequest represents a code issue request
type OTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required"`
}

// OTPVerifyRequest represents a code verification request
type OTPVerifyRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Code    string `json:"code" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// Login2FARequest completes a two-factor login
type Login2FARequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// PasswordResetRequest represents a code-backed password reset
type PasswordResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, issued, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Phone, req.Password, req.FullName)
	if err != nil {
		if err == domain.ErrUserAlreadyExists {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		h.auditInternalError(c, "register", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	body := gin.H{
		"message": "Account created. Please verify your email address.",
		"user_id": user.ID,
	}
	if issued != nil {
		body["reference"] = issued.Reference
		body["expiresAt"] = issued.ExpiresAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusCreated, gin.H{"data": body})
}

// RequestOTP issues a one-time code. The response body is identical whether or
// not an account exists for the email, so the endpoint cannot be used to probe
// for registered addresses.
func (h *AuthHandlers) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidPurpose(req.Purpose) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown verification purpose"})
		return
	}

	issued, err := h.otpSvc.GenerateAndSend(c.Request.Context(), req.Email, req.Purpose)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			// Fall through to the uniform response with decoy values.
			issued = h.decoyIssued(req.Purpose)
		case domain.ErrOTPDispatchFailed:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not deliver the verification code"})
			return
		default:
			h.auditInternalError(c, "otp_request", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue verification code"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "If an account exists for this email, a verification code has been sent.",
		"expiresAt": issued.ExpiresAt.UTC().Format(time.RFC3339),
		"reference": issued.Reference,
	})
}

// VerifyOTP checks a submitted code. Failed guesses report how many attempts
// remain on the active code.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidPurpose(req.Purpose) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown verification purpose"})
		return
	}

	if req.Purpose == domain.PurposeEmailVerification {
		userID, err := h.authSvc.VerifyEmail(c.Request.Context(), req.Email, req.Code)
		if err != nil {
			h.respondOTPFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "userId": userID})
		return
	}

	verification, err := h.otpSvc.Verify(c.Request.Context(), req.Email, req.Code, req.Purpose)
	if err != nil {
		h.respondOTPFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "userId": verification.UserID})
}

// Login handles credential login. Two-factor accounts receive a challenge
// instead of a token and complete the login via Login2FA.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, challenge, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		case domain.ErrUserInactive:
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		case domain.ErrEmailNotVerified:
			c.JSON(http.StatusForbidden, gin.H{"error": "Email address not verified"})
		default:
			h.auditInternalError(c, "login", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	if challenge != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"security": gin.H{
				"two_factor_required": true,
				"channel":             challenge.Channel,
			},
			"reference": challenge.Reference,
			"expiresAt": challenge.ExpiresAt.UTC().Format(time.RFC3339),
		})
		return
	}

	h.respondWithToken(c, result)
}

// Login2FA completes a two-factor login by verifying the login code.
func (h *AuthHandlers) Login2FA(c *gin.Context) {
	var req Login2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login2FA(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		var otpErr *domain.OTPError
		switch {
		case errors.As(err, &otpErr):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "Invalid or expired verification code",
				"attemptsRemaining": otpErr.AttemptsRemaining,
			})
		case errors.Is(err, domain.ErrOTPInvalidOrExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired verification code"})
		case errors.Is(err, domain.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			h.auditInternalError(c, "login_2fa", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	h.respondWithToken(c, result)
}

// ResetPassword verifies a password_reset code and replaces the password. The
// success message is uniform for unknown emails.
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.respondOTPFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password has been reset. You can now sign in.",
	})
}

// Me returns the authenticated principal as resolved from the token claims.
func (h *AuthHandlers) Me(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	body := gin.H{
		"id":             principal.UserID,
		"email":          principal.Email,
		"role":           principal.Role,
		"email_verified": principal.EmailVerified,
	}
	if principal.CenterID != 0 {
		body["center_id"] = principal.CenterID
	}
	c.JSON(http.StatusOK, gin.H{"data": body})
}

func (h *AuthHandlers) respondWithToken(c *gin.Context, result *domain.AuthResult) {
	if h.releaseMode {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie("access_token", result.Token, int(result.ExpiresIn), "/", "", true, true)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      result.Token,
		"token_type": "Bearer",
		"expires_in": result.ExpiresIn,
		"user": gin.H{
			"id":             result.User.ID,
			"email":          result.User.Email,
			"full_name":      result.User.FullName,
			"role":           result.User.Role,
			"email_verified": result.User.EmailVerified,
		},
		"security": gin.H{
			"two_factor_required": false,
		},
	})
}

// respondOTPFailure collapses verification errors into the shared failure
// shape. Unknown accounts answer exactly like a wrong code.
func (h *AuthHandlers) respondOTPFailure(c *gin.Context, err error) {
	var otpErr *domain.OTPError
	switch {
	case errors.As(err, &otpErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "Invalid or expired verification code",
			"attemptsRemaining": otpErr.AttemptsRemaining,
		})
	case errors.Is(err, domain.ErrOTPInvalidOrExpired), errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification code"})
	default:
		h.auditInternalError(c, "otp_verify", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}

func (h *AuthHandlers) auditInternalError(c *gin.Context, operation string, err error) {
	h.auditLogger.LogSecurity(c.Request.Context(), domain.InternalErrorEvent, middleware.ClientFrom(c), map[string]any{
		"operation": operation,
		"error":     err.Error(),
	})
}

// decoyIssued fabricates an issue receipt for emails with no account so the
// response is indistinguishable from the real thing.
func (h *AuthHandlers) decoyIssued(purpose string) *domain.OTPIssued {
	ttl, ok := h.otpTTLs[purpose]
	if !ok {
		ttl = 15 * time.Minute
	}
	return &domain.OTPIssued{
		Reference: uuid.NewString(),
		Channel:   domain.ChannelEmail,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
}
