package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
)

func TestSubscriptionRepository_Lifecycle(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewSubscriptionGormRepository(gdb)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.Doctor{ID: 7, FullName: "House"}).Error)

	ana := &models.User{Email: "ana@example.com", Username: "ana"}
	require.NoError(t, repo.CreateUser(ctx, ana))
	require.NotZero(t, ana.ID)

	err := repo.CreateUser(ctx, &models.User{Email: "ana@example.com", Username: "other"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUserAlreadyExists))

	_, err = repo.GetUser(ctx, 999)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUserNotFound))

	sub := &models.Subscription{UserID: ana.ID, DoctorID: 7}
	require.NoError(t, repo.CreateSubscription(ctx, sub))

	err = repo.CreateSubscription(ctx, &models.Subscription{UserID: ana.ID, DoctorID: 7})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSubscriptionExists))

	err = repo.CreateSubscription(ctx, &models.Subscription{UserID: ana.ID, DoctorID: 8})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDoctorNotFound))

	err = repo.CreateSubscription(ctx, &models.Subscription{UserID: 999, DoctorID: 7})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUserNotFound))

	subs, err := repo.ListSubscriptionsByUser(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Doctor)
	assert.Equal(t, "House", subs[0].Doctor.FullName)

	require.NoError(t, repo.DeleteSubscription(ctx, sub.ID))
	err = repo.DeleteSubscription(ctx, sub.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSubscriptionMissing))
}

func TestSubscriptionRepository_ListDoctorSubscribers(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewSubscriptionGormRepository(gdb)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.Doctor{ID: 7, FullName: "House"}).Error)
	ana := &models.User{Email: "ana@example.com", Username: "ana"}
	bo := &models.User{Email: "bo@example.com", Username: "bo"}
	require.NoError(t, gdb.Create(ana).Error)
	require.NoError(t, gdb.Create(bo).Error)

	// dangling rows are written directly; SQLite does not enforce the foreign keys here
	rows := []models.Subscription{
		{UserID: ana.ID, DoctorID: 7},
		{UserID: bo.ID, DoctorID: 7},
		{UserID: 999, DoctorID: 7},
		{UserID: ana.ID, DoctorID: 404},
	}
	require.NoError(t, gdb.Create(&rows).Error)

	groups, skipped, err := repo.ListDoctorSubscribers(ctx)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, uint(7), groups[0].DoctorID)
	assert.Equal(t, "House", groups[0].DoctorName)
	assert.ElementsMatch(t, []string{"ana@example.com", "bo@example.com"}, groups[0].Emails)

	require.Len(t, skipped, 2)
	assert.Equal(t, domain.SkipMissingUser, skipped[0].Reason)
	assert.Equal(t, domain.SkipMissingDoctor, skipped[1].Reason)
}
