package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

type recordingAuditRepo struct {
	appended []*domain.AuditEvent
	err      error
}

func (r *recordingAuditRepo) Append(ctx context.Context, event *domain.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.appended = append(r.appended, event)
	return nil
}

func (r *recordingAuditRepo) List(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	return nil, nil
}

func setupLogger(t *testing.T, repo domain.AuditEventRepository) (*Logger, *observer.ObservedLogs) {
	t.Helper()
	core, observed := observer.New(zapcore.InfoLevel)
	return NewLoggerWithCore(core, repo), observed
}

func TestLogger_WritesLineAndRow(t *testing.T) {
	repo := &recordingAuditRepo{}
	logger, observed := setupLogger(t, repo)

	actorID := uint(42)
	logger.LogAuth(context.Background(), domain.UserLoginEvent, &domain.ClientContext{IPAddress: "203.0.113.5", UserAgent: "curl"}, &actorID, map[string]any{
		"two_factor": false,
	})

	require.Len(t, repo.appended, 1)
	event := repo.appended[0]
	assert.Equal(t, domain.UserLoginEvent, event.EventType)
	assert.Equal(t, domain.SeverityLow, event.Severity)
	assert.Equal(t, "203.0.113.5", event.IPAddress)
	require.NotNil(t, event.ActorID)
	assert.Equal(t, uint(42), *event.ActorID)

	lines := observed.All()
	require.Len(t, lines, 1)
	assert.Equal(t, "audit", lines[0].Message)
}

func TestLogger_SeverityMapping(t *testing.T) {
	tests := []struct {
		kind     domain.AuditEventType
		severity string
	}{
		{domain.UserLoginEvent, domain.SeverityLow},
		{domain.UserLoginFailureEvent, domain.SeverityMedium},
		{domain.AccessDeniedEvent, domain.SeverityMedium},
		{domain.RateLimitTrippedEvent, domain.SeverityMedium},
		{domain.InternalErrorEvent, domain.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			repo := &recordingAuditRepo{}
			logger, _ := setupLogger(t, repo)

			logger.LogSecurity(context.Background(), tt.kind, nil, nil)

			require.Len(t, repo.appended, 1)
			assert.Equal(t, tt.severity, repo.appended[0].Severity)
		})
	}
}

func TestLogger_RepositoryFailureIsSwallowed(t *testing.T) {
	repo := &recordingAuditRepo{err: errors.New("database down")}
	logger, observed := setupLogger(t, repo)

	// Must not panic or propagate; the failure shows up as an error line.
	logger.LogSecurity(context.Background(), domain.AccessDeniedEvent, nil, map[string]any{"path": "/api/admin"})

	var sawFailure bool
	for _, entry := range observed.All() {
		if entry.Level == zapcore.ErrorLevel {
			sawFailure = true
		}
	}
	assert.True(t, sawFailure, "append failure should be reported to the fallback logger")
}

func TestLogger_NilRepositoryIsFileOnly(t *testing.T) {
	logger, observed := setupLogger(t, nil)

	logger.LogOTP(context.Background(), domain.OTPRequestEvent, nil, domain.ChannelEmail, map[string]any{"purpose": domain.PurposeLogin2FA})

	assert.Len(t, observed.All(), 1)
}
