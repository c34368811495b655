package audit

import (
	"context"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/termin-notifier/internal/models"
)

const (
	ActionSlotsInserted      = "slots_inserted"
	ActionSlotsDeleted       = "slots_deleted"
	ActionNotificationSent   = "notification_sent"
	ActionNotificationFailed = "notification_failed"
	ActionDoctorSkipped      = "doctor_skipped"
	ActionDoctorRegistered   = "doctor_registered"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		CycleID:  ev.CycleID,
		DoctorID: ev.DoctorID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}
