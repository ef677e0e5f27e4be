package mocks

import (
	"context"
	"sync"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockAuditLogger implements domain.AuditLogger interface for testing. It
// records every event so tests can assert on what was audited.
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// Log records the event
func (m *MockAuditLogger) Log(ctx context.Context, event *domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// LogAuth records an authentication event
func (m *MockAuditLogger) LogAuth(ctx context.Context, kind domain.AuditEventType, client *domain.ClientContext, actorID *uint, detail map[string]any) {
	event := domain.NewAuditEvent(kind, domain.SeverityLow).WithClient(client)
	event.ActorID = actorID
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	m.Log(ctx, event)
}

// LogDataAccess records a data access event
func (m *MockAuditLogger) LogDataAccess(ctx context.Context, kind domain.AuditEventType, client *domain.ClientContext, actorID uint, resourceType, resourceID string, detail map[string]any) {
	event := domain.NewAuditEvent(kind, domain.SeverityLow).WithClient(client).WithActor(actorID).WithResource(resourceType, resourceID)
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	m.Log(ctx, event)
}

// LogSecurity records a security event
func (m *MockAuditLogger) LogSecurity(ctx context.Context, kind domain.AuditEventType, client *domain.ClientContext, detail map[string]any) {
	event := domain.NewAuditEvent(kind, domain.SeverityMedium).WithClient(client)
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	m.Log(ctx, event)
}

// LogOTP records an OTP lifecycle event
func (m *MockAuditLogger) LogOTP(ctx context.Context, kind domain.AuditEventType, actorID *uint, channel string, detail map[string]any) {
	event := domain.NewAuditEvent(kind, domain.SeverityLow)
	event.ActorID = actorID
	event.WithDetail("channel", channel)
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	m.Log(ctx, event)
}

// EventsOfType returns the recorded events of the given type.
func (m *MockAuditLogger) EventsOfType(kind domain.AuditEventType) []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.AuditEvent
	for _, e := range m.Events {
		if e.EventType == kind {
			matched = append(matched, e)
		}
	}
	return matched
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
