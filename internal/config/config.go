package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Env     string `yaml:"env"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type OTPConfig struct {
	Length      int               `yaml:"length"`
	MaxAttempts int               `yaml:"max_attempts"`
	TTLs        map[string]string `yaml:"ttls"` // per purpose
	SweepAfter  string            `yaml:"sweep_after"`
}

type RateLimitRule struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"`
}

type RateLimitConfig struct {
	Default RateLimitRule            `yaml:"default"`
	Actions map[string]RateLimitRule `yaml:"actions"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type AuditConfig struct {
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Security  SecurityConfig  `yaml:"security"`
	OTP       OTPConfig       `yaml:"otp"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Audit     AuditConfig     `yaml:"audit"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

// RatePolicy is a parsed per-action threshold.
type RatePolicy struct {
	Limit  int
	Window time.Duration
}

type Config struct {
	Port            string
	GinMode         string
	Env             string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	JWTIssuer       string
	JWTTTL          time.Duration
	BcryptCost      int
	OTPLength       int
	OTPMaxAttempts  int
	OTPTTLs         map[string]time.Duration
	OTPSweepAfter   time.Duration
	RateDefault     RatePolicy
	RateActions     map[string]RatePolicy
	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string
	AuditFilePath   string
	AuditMaxSizeMB  int
	AuditMaxBackups int
	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for the
// secrets that should not live in the file.
func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	jwtTTL, err := parseDuration(configFile.JWT.TTL, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT TTL: %w", err)
	}

	otpTTLs := make(map[string]time.Duration, len(configFile.OTP.TTLs))
	for purpose, raw := range configFile.OTP.TTLs {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid OTP TTL for %s: %w", purpose, err)
		}
		otpTTLs[purpose] = d
	}

	sweepAfter, err := parseDuration(configFile.OTP.SweepAfter, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP sweep_after: %w", err)
	}

	defaultPolicy, err := parseRule(configFile.RateLimit.Default, RatePolicy{Limit: 30, Window: time.Minute})
	if err != nil {
		return nil, fmt.Errorf("invalid default rate limit: %w", err)
	}

	actions := make(map[string]RatePolicy, len(configFile.RateLimit.Actions))
	for action, rule := range configFile.RateLimit.Actions {
		policy, err := parseRule(rule, defaultPolicy)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit for %s: %w", action, err)
		}
		actions[action] = policy
	}

	return &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		Env:             env("APP_ENV", configFile.App.Env),
		DSN:             env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:       env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:         configFile.Redis.DB,
		JWTSecret:       env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:       configFile.JWT.Issuer,
		JWTTTL:          jwtTTL,
		BcryptCost:      configFile.Security.BcryptCost,
		OTPLength:       configFile.OTP.Length,
		OTPMaxAttempts:  configFile.OTP.MaxAttempts,
		OTPTTLs:         otpTTLs,
		OTPSweepAfter:   sweepAfter,
		RateDefault:     defaultPolicy,
		RateActions:     actions,
		TwilioSID:       env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:     env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:      configFile.Twilio.FromNumber,
		AuditFilePath:   configFile.Audit.FilePath,
		AuditMaxSizeMB:  configFile.Audit.MaxSizeMB,
		AuditMaxBackups: configFile.Audit.MaxBackups,
		CasbinModelPath: configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

func parseRule(rule RateLimitRule, def RatePolicy) (RatePolicy, error) {
	policy := def
	if rule.Limit > 0 {
		policy.Limit = rule.Limit
	}
	if rule.Window != "" {
		w, err := time.ParseDuration(rule.Window)
		if err != nil {
			return RatePolicy{}, err
		}
		policy.Window = w
	}
	return policy, nil
}
