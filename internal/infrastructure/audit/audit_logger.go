package audit

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// Logger implements domain.AuditLogger. Every event is written as a JSON line
// to the rotating audit log and appended to the audit_events table. Both
// writes are best-effort: a failure is reported to the fallback logger and
// swallowed, so auditing can never change the outcome of the operation being
// audited.
type Logger struct {
	zlog *zap.Logger
	repo domain.AuditEventRepository
}

// Options configures the file sink.
type Options struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// NewLogger creates an audit logger writing to the given file and repository.
// repo may be nil (file-only mode, used by tests and tooling).
func NewLogger(opts Options, repo domain.AuditEventRepository) *Logger {
	if opts.FilePath == "" {
		opts.FilePath = "logs/audit.log"
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 50
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, zapcore.InfoLevel)
	return &Logger{
		zlog: zap.New(core),
		repo: repo,
	}
}

// NewLoggerWithCore builds a logger on an existing zap core; used by tests.
func NewLoggerWithCore(core zapcore.Core, repo domain.AuditEventRepository) *Logger {
	return &Logger{zlog: zap.New(core), repo: repo}
}

// Log implements domain.AuditLogger
func (l *Logger) Log(ctx context.Context, event *domain.AuditEvent) {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.String("severity", event.Severity),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.Uint("actor_id", *event.ActorID))
	}
	if event.ResourceType != "" {
		fields = append(fields, zap.String("resource_type", event.ResourceType), zap.String("resource_id", event.ResourceID))
	}
	if event.IPAddress != "" {
		fields = append(fields, zap.String("ip", event.IPAddress))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if len(event.Detail) > 0 {
		fields = append(fields, zap.Any("detail", event.Detail))
	}
	l.zlog.Info("audit", fields...)

	if l.repo != nil {
		if err := l.repo.Append(ctx, event); err != nil {
			l.zlog.Error("audit append failed", zap.Error(err), zap.String("event_type", string(event.EventType)))
		}
	}
}

// LogAuth implements domain.AuditLogger
func (l *Logger) LogAuth(ctx context.Context, kind domain.AuditEventType, client *domain.ClientContext, actorID *uint, detail map[string]any) {
	event := domain.NewAuditEvent(kind, severityFor(kind)).WithClient(client)
	event.ActorID = actorID
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	l.Log(ctx, event)
}

// LogDataAccess implements domain.AuditLogger
func (l *Logger) LogDataAccess(ctx context.Context, kind domain.AuditEventType, client *domain.ClientContext, actorID uint, resourceType, resourceID string, detail map[string]any) {
	event := domain.NewAuditEvent(kind, domain.SeverityLow).
		WithClient(client).
		WithActor(actorID).
		WithResource(resourceType, resourceID)
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	l.Log(ctx, event)
}

// LogSecurity implements domain.AuditLogger
func (l *Logger) LogSecurity(ctx context.Context, kind domain.AuditEventType, client *domain.ClientContext, detail map[string]any) {
	event := domain.NewAuditEvent(kind, severityFor(kind)).WithClient(client)
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	l.Log(ctx, event)
}

// LogOTP implements domain.AuditLogger
func (l *Logger) LogOTP(ctx context.Context, kind domain.AuditEventType, actorID *uint, channel string, detail map[string]any) {
	event := domain.NewAuditEvent(kind, severityFor(kind))
	event.ActorID = actorID
	event.WithDetail("channel", channel)
	for k, v := range detail {
		event.WithDetail(k, v)
	}
	l.Log(ctx, event)
}

// Sync flushes the underlying sink.
func (l *Logger) Sync() error {
	return l.zlog.Sync()
}

func severityFor(kind domain.AuditEventType) string {
	switch kind {
	case domain.UserLoginFailureEvent, domain.OTPVerifyFailureEvent, domain.AccessDeniedEvent, domain.RateLimitTrippedEvent:
		return domain.SeverityMedium
	case domain.InternalErrorEvent:
		return domain.SeverityHigh
	default:
		return domain.SeverityLow
	}
}

var _ domain.AuditLogger = (*Logger)(nil)
