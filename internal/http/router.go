package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/handlers"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
)

// Rate limited actions. Each bucket is keyed by (action, client IP).
const (
	ActionRegister      = "register"
	ActionLogin         = "login"
	ActionOTPRequest    = "otp_request"
	ActionOTPVerify     = "otp_verify"
	ActionPasswordReset = "password_reset"
)

// BuildRouter wires the HTTP surface: public auth and catalog routes behind
// per-action rate limits, patient and partner routes behind the JWT
// middleware, and admin routes behind Casbin.
func BuildRouter(
	ah *handlers.AuthHandlers,
	bh *handlers.BookingHandlers,
	ph *handlers.PartnerHandlers,
	ch *handlers.CatalogHandlers,
	adh *handlers.AdminHandlers,
	polh *handlers.PolicyHandlers,
	jwtmw *middleware.AuthMW,
	cb middleware.CasbinMiddleware,
	limiter domain.RateLimiter,
	auditLogger domain.AuditLogger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")

	api.GET("/centers", ch.ListCenters)
	api.GET("/centers/:id/tests", ch.ListCenterTests)

	auth := api.Group("/auth")
	auth.POST("/register", middleware.RateLimit(limiter, auditLogger, ActionRegister), ah.Register)
	auth.POST("/otp-secure", middleware.RateLimit(limiter, auditLogger, ActionOTPRequest), ah.RequestOTP)
	auth.PATCH("/otp-secure", middleware.RateLimit(limiter, auditLogger, ActionOTPVerify), ah.VerifyOTP)
	auth.POST("/login-secure", middleware.RateLimit(limiter, auditLogger, ActionLogin), ah.Login)
	auth.POST("/login-2fa", middleware.RateLimit(limiter, auditLogger, ActionOTPVerify), ah.Login2FA)
	auth.POST("/password-reset", middleware.RateLimit(limiter, auditLogger, ActionPasswordReset), ah.ResetPassword)

	authed := api.Group("/")
	authed.Use(jwtmw.WithJWT())
	authed.GET("/auth/me", ah.Me)

	bookings := authed.Group("/bookings")
	bookings.POST("", middleware.RequirePatient(auditLogger), bh.Create)
	bookings.GET("", middleware.RequirePatient(auditLogger), bh.List)
	bookings.GET("/:id", bh.Get)

	partner := authed.Group("/partner")
	partner.Use(middleware.RequireCenterStaff(auditLogger))
	partner.GET("/bookings", ph.ListBookings)
	partner.PATCH("/bookings/:id/result", ph.AttachResult)

	adm := authed.Group("/admin")
	adm.Use(cb.Enforce())
	adm.GET("/centers", adh.ListCenters)
	adm.POST("/centers", adh.CreateCenter)
	adm.PATCH("/centers/:id", adh.UpdateCenter)
	adm.POST("/centers/:id/tests", adh.CreateTest)
	adm.PATCH("/tests/:id", adh.UpdateTest)
	adm.GET("/audit-events", adh.ListAuditEvents)
	adm.GET("/policies", polh.List)
	adm.POST("/policies", polh.Add)
	adm.DELETE("/policies", polh.Remove)

	return r
}
