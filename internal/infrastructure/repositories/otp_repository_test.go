package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

func setupOTPRepo(t *testing.T) domain.OTPRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DBOTPCode{}))

	return NewOTPRepository(db)
}

func seedCode(t *testing.T, repo domain.OTPRepository, userID uint, purpose, value string, expiresAt time.Time) *domain.OTPCode {
	t.Helper()

	code := &domain.OTPCode{
		UserID:    userID,
		Purpose:   purpose,
		Channel:   domain.ChannelEmail,
		Code:      value,
		Reference: "ref-" + value,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, repo.Create(context.Background(), code))
	return code
}

func TestOTPRepository_FindActiveReturnsNewest(t *testing.T) {
	repo := setupOTPRepo(t)
	ctx := context.Background()
	expiry := time.Now().Add(10 * time.Minute)

	seedCode(t, repo, 1, domain.PurposeLogin2FA, "111111", expiry)
	time.Sleep(5 * time.Millisecond)
	newest := seedCode(t, repo, 1, domain.PurposeLogin2FA, "222222", expiry)

	found, err := repo.FindActive(ctx, 1, domain.PurposeLogin2FA)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, found.ID)
	assert.Equal(t, "222222", found.Code)
}

func TestOTPRepository_FindActiveScopes(t *testing.T) {
	repo := setupOTPRepo(t)
	ctx := context.Background()
	expiry := time.Now().Add(10 * time.Minute)

	seedCode(t, repo, 1, domain.PurposeLogin2FA, "111111", expiry)

	// Different purpose and different user both come back empty.
	_, err := repo.FindActive(ctx, 1, domain.PurposePasswordReset)
	assert.ErrorIs(t, err, domain.ErrOTPInvalidOrExpired)
	_, err = repo.FindActive(ctx, 2, domain.PurposeLogin2FA)
	assert.ErrorIs(t, err, domain.ErrOTPInvalidOrExpired)
}

func TestOTPRepository_VoidActive(t *testing.T) {
	repo := setupOTPRepo(t)
	ctx := context.Background()
	expiry := time.Now().Add(10 * time.Minute)

	seedCode(t, repo, 1, domain.PurposeLogin2FA, "111111", expiry)
	seedCode(t, repo, 1, domain.PurposeLogin2FA, "222222", expiry)
	other := seedCode(t, repo, 1, domain.PurposePasswordReset, "333333", expiry)

	require.NoError(t, repo.VoidActive(ctx, 1, domain.PurposeLogin2FA))

	_, err := repo.FindActive(ctx, 1, domain.PurposeLogin2FA)
	assert.ErrorIs(t, err, domain.ErrOTPInvalidOrExpired)

	// Another purpose's code is untouched.
	found, err := repo.FindActive(ctx, 1, domain.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, other.ID, found.ID)
}

func TestOTPRepository_IncrementAttemptsCap(t *testing.T) {
	repo := setupOTPRepo(t)
	ctx := context.Background()

	code := seedCode(t, repo, 1, domain.PurposeLogin2FA, "111111", time.Now().Add(10*time.Minute))

	for i := 0; i < 3; i++ {
		ok, err := repo.IncrementAttempts(ctx, code.ID, 3)
		require.NoError(t, err)
		assert.True(t, ok, "increment %d should apply", i+1)
	}

	// The cap is enforced by the conditional update itself.
	ok, err := repo.IncrementAttempts(ctx, code.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindActive(ctx, 1, domain.PurposeLogin2FA)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Attempts)
}

func TestOTPRepository_IncrementAttemptsSkipsUsed(t *testing.T) {
	repo := setupOTPRepo(t)
	ctx := context.Background()

	code := seedCode(t, repo, 1, domain.PurposeLogin2FA, "111111", time.Now().Add(10*time.Minute))

	ok, err := repo.MarkUsed(ctx, code.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.IncrementAttempts(ctx, code.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPRepository_MarkUsedIsSingleShot(t *testing.T) {
	repo := setupOTPRepo(t)
	ctx := context.Background()

	code := seedCode(t, repo, 1, domain.PurposeLogin2FA, "111111", time.Now().Add(10*time.Minute))

	ok, err := repo.MarkUsed(ctx, code.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second consumer loses the race.
	ok, err = repo.MarkUsed(ctx, code.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPRepository_DeleteExpired(t *testing.T) {
	repo := setupOTPRepo(t)
	ctx := context.Background()

	seedCode(t, repo, 1, domain.PurposeLogin2FA, "111111", time.Now().Add(-2*time.Hour))
	keep := seedCode(t, repo, 1, domain.PurposePasswordReset, "222222", time.Now().Add(10*time.Minute))

	deleted, err := repo.DeleteExpired(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	found, err := repo.FindActive(ctx, 1, domain.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, keep.ID, found.ID)
}
