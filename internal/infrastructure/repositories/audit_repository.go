package repositories

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// AuditEventRepositoryImpl implements domain.AuditEventRepository using GORM.
// Rows are append-only; the application never updates or deletes them.
type AuditEventRepositoryImpl struct {
	db *gorm.DB
}

// DBAuditEvent represents the database model for AuditEvent
type DBAuditEvent struct {
	ID           uint   `gorm:"primaryKey"`
	EventType    string `gorm:"index;size:64"`
	ActorID      *uint  `gorm:"index"`
	ResourceType string `gorm:"index;size:64"`
	ResourceID   string `gorm:"size:64"`
	Severity     string `gorm:"index;size:16"`
	IPAddress    string `gorm:"size:64"`
	UserAgent    string `gorm:"size:512"`
	Detail       []byte `gorm:"type:jsonb"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAuditEvent) TableName() string {
	return "audit_events"
}

// NewAuditEventRepository creates a new audit event repository
func NewAuditEventRepository(db *gorm.DB) domain.AuditEventRepository {
	return &AuditEventRepositoryImpl{db: db}
}

// Append implements domain.AuditEventRepository
func (r *AuditEventRepositoryImpl) Append(ctx context.Context, event *domain.AuditEvent) error {
	detail, err := json.Marshal(event.Detail)
	if err != nil {
		detail = []byte("{}")
	}
	row := &DBAuditEvent{
		EventType:    string(event.EventType),
		ActorID:      event.ActorID,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Severity:     event.Severity,
		IPAddress:    event.IPAddress,
		UserAgent:    event.UserAgent,
		Detail:       detail,
		CreatedAt:    event.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	event.ID = row.ID
	return nil
}

// List implements domain.AuditEventRepository
func (r *AuditEventRepositoryImpl) List(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []DBAuditEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	events := make([]domain.AuditEvent, 0, len(rows))
	for i := range rows {
		detail := make(map[string]any)
		_ = json.Unmarshal(rows[i].Detail, &detail)
		events = append(events, domain.AuditEvent{
			ID:           rows[i].ID,
			EventType:    domain.AuditEventType(rows[i].EventType),
			ActorID:      rows[i].ActorID,
			ResourceType: rows[i].ResourceType,
			ResourceID:   rows[i].ResourceID,
			Severity:     rows[i].Severity,
			IPAddress:    rows[i].IPAddress,
			UserAgent:    rows[i].UserAgent,
			Detail:       detail,
			CreatedAt:    rows[i].CreatedAt,
		})
	}
	return events, nil
}
