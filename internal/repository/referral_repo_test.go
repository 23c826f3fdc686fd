package repository

import (
	"path/filepath"
	"testing"

	"tutorbay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newReferralTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ReferralCode{}, &models.Referral{}))
	return db
}

func TestGetOrCreateCodeIsStable(t *testing.T) {
	repo := NewReferralRepository(newReferralTestDB(t))

	first, err := repo.GetOrCreateCode(1)
	require.NoError(t, err)
	assert.Len(t, first.Code, 8)
	assert.True(t, first.IsActive)

	second, err := repo.GetOrCreateCode(1)
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)

	byCode, err := repo.GetByCode(first.Code)
	require.NoError(t, err)
	assert.Equal(t, uint(1), byCode.UserID)
}

func TestClaimRewardIsFirstWins(t *testing.T) {
	repo := NewReferralRepository(newReferralTestDB(t))
	ref := &models.Referral{ReferrerID: 1, ReferredUserID: 2}
	require.NoError(t, repo.CreateReferral(ref))

	claimed, err := repo.ClaimReward(ref.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	again, err := repo.ClaimReward(ref.ID)
	require.NoError(t, err)
	assert.False(t, again)

	stored, err := repo.GetByReferredUserID(2)
	require.NoError(t, err)
	assert.True(t, stored.RewardPaid)
}

func TestGetByReferredUserIDNotFound(t *testing.T) {
	repo := NewReferralRepository(newReferralTestDB(t))

	_, err := repo.GetByReferredUserID(99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
