package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/config"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/infrastructure/audit"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/infrastructure/auth"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/infrastructure/database"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/infrastructure/notifications"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/infrastructure/ratelimit"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/infrastructure/repositories"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	AuditLogger domain.AuditLogger
	RateLimiter domain.RateLimiter

	// Repositories
	UserRepo    domain.UserRepository
	OTPRepo     domain.OTPRepository
	CenterRepo  domain.CenterRepository
	TestRepo    domain.LabTestRepository
	BookingRepo domain.BookingRepository
	AuditRepo   domain.AuditEventRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	BookingSvc      domain.BookingService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()

	if err := container.initServices(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}

	c.DB = db
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.OTPRepo = repositories.NewOTPRepository(c.DB)
	c.CenterRepo = repositories.NewCenterRepository(c.DB)
	c.TestRepo = repositories.NewLabTestRepository(c.DB)
	c.BookingRepo = repositories.NewBookingRepository(c.DB)
	c.AuditRepo = repositories.NewAuditEventRepository(c.DB)
}

func (c *Container) initServices() error {
	c.AuditLogger = audit.NewLogger(audit.Options{
		FilePath:   c.Config.AuditFilePath,
		MaxSizeMB:  c.Config.AuditMaxSizeMB,
		MaxBackups: c.Config.AuditMaxBackups,
	}, c.AuditRepo)

	c.RateLimiter = ratelimit.NewRedisLimiter(c.RedisClient, c.Config.RateActions, c.Config.RateDefault)

	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.JWTTTL)
	c.NotificationSvc = notifications.NewNotificationService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		nil,
	)

	c.OTPSvc = services.NewOTPService(c.OTPRepo, c.UserRepo, c.NotificationSvc, c.AuditLogger, services.OTPConfig{
		Length:      c.Config.OTPLength,
		MaxAttempts: c.Config.OTPMaxAttempts,
		TTLs:        c.Config.OTPTTLs,
		SweepAfter:  c.Config.OTPSweepAfter,
	})

	c.AuthSvc = services.NewAuthService(c.UserRepo, c.PasswordSvc, c.TokenSvc, c.OTPSvc, c.AuditLogger)
	c.BookingSvc = services.NewBookingService(c.BookingRepo, c.CenterRepo, c.TestRepo, c.AuditLogger)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)

	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
