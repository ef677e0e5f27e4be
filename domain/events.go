package domain

import (
	"context"
	"time"
)

// AuditEventType names a security-relevant action.
type AuditEventType string

const (
	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	PasswordResetEvent    AuditEventType = "PASSWORD_RESET"
	TwoFactorChallenge    AuditEventType = "LOGIN_2FA_CHALLENGED"

	// OTP events
	OTPRequestEvent       AuditEventType = "OTP_REQUESTED"
	OTPVerifySuccessEvent AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailureEvent AuditEventType = "OTP_VERIFICATION_FAILED"

	// Authorization and abuse events
	AccessDeniedEvent     AuditEventType = "ACCESS_DENIED"
	RateLimitTrippedEvent AuditEventType = "RATE_LIMIT_EXCEEDED"
	PolicyChangedEvent    AuditEventType = "POLICY_CHANGED"
	InternalErrorEvent    AuditEventType = "INTERNAL_ERROR"

	// Data access events
	BookingCreatedEvent AuditEventType = "BOOKING_CREATED"
	BookingViewedEvent  AuditEventType = "BOOKING_VIEWED"
	ResultAttachedEvent AuditEventType = "RESULT_ATTACHED"
	CatalogChangedEvent AuditEventType = "CATALOG_CHANGED"
)

// Audit severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// AuditEvent is an append-only record of a security-relevant action. Events
// are never mutated or deleted by the application.
type AuditEvent struct {
	ID           uint
	EventType    AuditEventType
	ActorID      *uint // nil for anonymous failures
	ResourceType string
	ResourceID   string
	Severity     string
	IPAddress    string
	UserAgent    string
	Detail       map[string]any
	CreatedAt    time.Time
}

// ClientContext carries the request attributes recorded with each event.
type ClientContext struct {
	IPAddress string
	UserAgent string
}

// AuditLogger records security-relevant events. All methods are
// fire-and-forget for the caller: implementations must complete before
// returning but swallow their own failures so a logging problem never masks
// the primary operation's result.
type AuditLogger interface {
	Log(ctx context.Context, event *AuditEvent)
	LogAuth(ctx context.Context, kind AuditEventType, client *ClientContext, actorID *uint, detail map[string]any)
	LogDataAccess(ctx context.Context, kind AuditEventType, client *ClientContext, actorID uint, resourceType, resourceID string, detail map[string]any)
	LogSecurity(ctx context.Context, kind AuditEventType, client *ClientContext, detail map[string]any)
	LogOTP(ctx context.Context, kind AuditEventType, actorID *uint, channel string, detail map[string]any)
}

// NewAuditEvent creates an event with the common fields populated.
func NewAuditEvent(eventType AuditEventType, severity string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Severity:  severity,
		Detail:    make(map[string]any),
		CreatedAt: time.Now().UTC(),
	}
}

// WithActor sets the acting user.
func (e *AuditEvent) WithActor(userID uint) *AuditEvent {
	e.ActorID = &userID
	return e
}

// WithResource sets the touched resource.
func (e *AuditEvent) WithResource(resourceType, resourceID string) *AuditEvent {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithClient sets request attributes.
func (e *AuditEvent) WithClient(client *ClientContext) *AuditEvent {
	if client != nil {
		e.IPAddress = client.IPAddress
		e.UserAgent = client.UserAgent
	}
	return e
}

// WithDetail adds a detail entry.
func (e *AuditEvent) WithDetail(key string, value any) *AuditEvent {
	e.Detail[key] = value
	return e
}
