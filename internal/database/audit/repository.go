package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/udb/authordirectory/internal/database"
	"github.com/udb/authordirectory/internal/entities"
)

const defaultPageSize = 50

// Filter narrows an audit event listing. Zero values match everything.
type Filter struct {
	Actor      string
	EventType  entities.AuditEventType
	EntityType string
	EntityID   uint
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
}

func applyFilter(query *gorm.DB, f Filter) *gorm.DB {
	if f.Actor != "" {
		query = query.Where("actor = ?", f.Actor)
	}
	if f.EventType != "" {
		query = query.Where("event_type = ?", f.EventType)
	}
	if f.EntityType != "" {
		query = query.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		query = query.Where("entity_id = ?", f.EntityID)
	}
	return query
}

// GetEvents retrieves paginated audit events, most recent first.
func (r *Repository) GetEvents(ctx context.Context, f Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		if err := applyFilter(tx.Model(&entities.AuditEvent{}), f).Count(&total).Error; err != nil {
			return err
		}
		return applyFilter(tx.Model(&entities.AuditEvent{}), f).
			Order("created_at DESC").Order("id DESC").
			Limit(limit).Offset(offset).
			Find(&events).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	var deleted int64
	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
