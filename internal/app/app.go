package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/internal/config"
	httpx "github.com/NVHealth/nvhealthlabs-sub001/internal/http"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/handlers"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, c.AuditLogger, handlers.AuthHandlerOptions{
		ReleaseMode: cfg.GinMode == gin.ReleaseMode,
		OTPTTLs:     cfg.OTPTTLs,
	})
	bookingH := handlers.NewBookingHandlers(c.BookingSvc)
	partnerH := handlers.NewPartnerHandlers(c.BookingSvc)
	catalogH := handlers.NewCatalogHandlers(c.CenterRepo, c.TestRepo)
	adminH := handlers.NewAdminHandlers(c.CenterRepo, c.TestRepo, c.AuditRepo, c.AuditLogger)
	policyH := handlers.NewPolicyHandlers(c.PolicySvc, c.AuditLogger)

	jwtMW := middleware.NewAuthMW(c.TokenSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, bookingH, partnerH, catalogH, adminH, policyH, jwtMW, casbinMW, c.RateLimiter, c.AuditLogger)

	seedPolicies(c)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedPolicies installs the default admin route policies on an empty policy
// store so a fresh deployment is usable without manual setup.
func seedPolicies(c *Container) {
	if len(c.PolicySvc.GetPolicies()) > 0 {
		return
	}
	if err := c.PolicySvc.AddPolicy("role_platform_admin", "/api/admin/*", "(GET|POST|PATCH|DELETE)"); err != nil {
		log.Printf("casbin: policy seeding failed: %v", err)
		return
	}
	log.Println("casbin: seeded default policies")
}
