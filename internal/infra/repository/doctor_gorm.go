package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
	"github.com/BruksfildServices01/termin-notifier/internal/timezone"
)

type DoctorGormRepository struct {
	db *gorm.DB
}

func NewDoctorGormRepository(db *gorm.DB) *DoctorGormRepository {
	return &DoctorGormRepository{db: db}
}

var _ domain.DoctorRepository = (*DoctorGormRepository)(nil)

func (r *DoctorGormRepository) GetDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor %d: %w", id, err)
	}
	return &doctor, nil
}

func (r *DoctorGormRepository) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (r *DoctorGormRepository) DoctorExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check doctor %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *DoctorGormRepository) CreateDoctorWithSlots(
	ctx context.Context,
	doctor *models.Doctor,
	slots []time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doctor).Error; err != nil {
			return fmt.Errorf("create doctor %d: %w", doctor.ID, err)
		}

		if len(slots) == 0 {
			return nil
		}

		rows := make([]models.Timeslot, 0, len(slots))
		for _, at := range slots {
			rows = append(rows, models.Timeslot{DoctorID: doctor.ID, FreeSlot: timezone.Normalize(at)})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed slots of doctor %d: %w", doctor.ID, err)
		}
		return nil
	})
}
