package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
	"github.com/BruksfildServices01/termin-notifier/internal/timezone"
)

type SlotGormRepository struct {
	db *gorm.DB
}

func NewSlotGormRepository(db *gorm.DB) *SlotGormRepository {
	return &SlotGormRepository{db: db}
}

var _ domain.SlotStore = (*SlotGormRepository)(nil)

func (r *SlotGormRepository) ListByDoctor(
	ctx context.Context,
	doctorID uint,
) ([]models.Timeslot, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", doctorID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check doctor %d: %w", doctorID, err)
	}
	if count == 0 {
		return nil, domain.ErrDoctorNotFound
	}

	var slots []models.Timeslot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("free_slot ASC, id ASC").
		Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list slots of doctor %d: %w", doctorID, err)
	}

	for i := range slots {
		slots[i].FreeSlot = slots[i].FreeSlot.UTC()
	}
	return slots, nil
}

func (r *SlotGormRepository) Insert(
	ctx context.Context,
	doctorID uint,
	at time.Time,
) (*models.Timeslot, error) {

	slot := models.Timeslot{
		DoctorID: doctorID,
		FreeSlot: timezone.Normalize(at),
	}
	if err := r.db.WithContext(ctx).Create(&slot).Error; err != nil {
		return nil, fmt.Errorf("insert slot %s for doctor %d: %w", slot.FreeSlot.Format(time.RFC3339Nano), doctorID, err)
	}
	return &slot, nil
}

func (r *SlotGormRepository) Delete(ctx context.Context, slotID uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Timeslot{}, slotID)
	if res.Error != nil {
		return fmt.Errorf("delete slot %d: %w", slotID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}
