package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

var _ domain.SubscriptionRepository = (*SubscriptionGormRepository)(nil)

// --------------------------------------------------
// Scheduler source
// --------------------------------------------------

func (r *SubscriptionGormRepository) ListDoctorSubscribers(
	ctx context.Context,
) ([]domain.DoctorSubscribers, []domain.SkippedSubscription, error) {

	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Doctor").
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return nil, nil, fmt.Errorf("list subscriptions: %w", err)
	}

	groups, skipped := domain.GroupSubscribers(subs)
	return groups, skipped, nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *SubscriptionGormRepository) CreateUser(ctx context.Context, user *models.User) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR username = ?", user.Email, user.Username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if count > 0 {
		return httperr.ErrBusiness(httperr.CodeUserAlreadyExists)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SubscriptionGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeUserNotFound)
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

// --------------------------------------------------
// Subscriptions
// --------------------------------------------------

func (r *SubscriptionGormRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, sub.UserID, httperr.CodeUserNotFound); err != nil {
			return err
		}
		if err := requireRow(tx, &models.Doctor{}, sub.DoctorID, httperr.CodeDoctorNotFound); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND doctor_id = ?", sub.UserID, sub.DoctorID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check subscription: %w", err)
		}
		if count > 0 {
			return httperr.ErrBusiness(httperr.CodeSubscriptionExists)
		}

		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		return nil
	})
}

func (r *SubscriptionGormRepository) DeleteSubscription(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Subscription{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete subscription %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeSubscriptionMissing)
	}
	return nil
}

func (r *SubscriptionGormRepository) ListSubscriptionsByUser(
	ctx context.Context,
	userID uint,
) ([]models.Subscription, error) {

	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions of user %d: %w", userID, err)
	}
	return subs, nil
}

func requireRow(tx *gorm.DB, model any, id uint, code string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s: %w", code, err)
	}
	if count == 0 {
		return httperr.ErrBusiness(code)
	}
	return nil
}
