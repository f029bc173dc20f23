package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/careconnect-health/careconnect-api/internal/model"
	"github.com/careconnect-health/careconnect-api/internal/usecase"
	"github.com/careconnect-health/careconnect-api/shared/security"
)

func newPasswordFixture(t *testing.T) (usecase.PasswordUsecase, *fakeUserRepo, *fakeMailer, *model.User) {
	t.Helper()

	cfg := newTestConfig()
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	issuer := newTestTokenIssuer(cfg)

	authUC := usecase.NewAuthUsecase(repo, issuer, mail, cfg, nopLogger())
	user, err := authUC.Register(context.Background(), registerParams("a@x.com"))
	require.NoError(t, err)
	mail.sent = nil

	passwordUC := usecase.NewPasswordUsecase(repo, issuer, mail, cfg, nopLogger())
	return passwordUC, repo, mail, user
}

func TestRequestPasswordReset_StoresCodeAndSendsMail(t *testing.T) {
	uc, repo, mail, user := newPasswordFixture(t)

	err := uc.RequestPasswordReset(context.Background(), "a@x.com")
	require.NoError(t, err)

	stored := repo.users[user.ID.Hex()]
	require.NotNil(t, stored.ResetCode)
	require.Len(t, *stored.ResetCode, 4)
	require.NotNil(t, stored.ResetExpiresAt)
	require.True(t, stored.ResetExpiresAt.After(time.Now()))

	require.Len(t, mail.sent, 1)
	require.Equal(t, []string{"a@x.com"}, mail.sent[0].to)
	require.Contains(t, mail.sent[0].htmlBody, *stored.ResetCode)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	uc, _, mail, _ := newPasswordFixture(t)

	err := uc.RequestPasswordReset(context.Background(), "missing@x.com")
	require.ErrorIs(t, err, usecase.ErrUserNotFound)
	require.Empty(t, mail.sent)
}

func TestVerifyResetCode_ReadOnlyCheck(t *testing.T) {
	uc, repo, _, user := newPasswordFixture(t)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "a@x.com"))
	code := *repo.users[user.ID.Hex()].ResetCode

	err := uc.VerifyResetCode(context.Background(), "a@x.com", "0000")
	if code != "0000" {
		require.ErrorIs(t, err, usecase.ErrCodeInvalidOrExpired)
	}

	require.NoError(t, uc.VerifyResetCode(context.Background(), "a@x.com", code))

	// The check does not consume the code: it still verifies.
	require.NoError(t, uc.VerifyResetCode(context.Background(), "a@x.com", code))
}

func TestVerifyResetCode_NoResetPending(t *testing.T) {
	uc, _, _, _ := newPasswordFixture(t)

	err := uc.VerifyResetCode(context.Background(), "a@x.com", "1234")
	require.ErrorIs(t, err, usecase.ErrCodeInvalidOrExpired)
}

func TestResetPassword_ReplacesPasswordAndClearsCode(t *testing.T) {
	uc, repo, _, user := newPasswordFixture(t)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "a@x.com"))

	updated, err := uc.ResetPassword(context.Background(), "a@x.com", "NewPass1")
	require.NoError(t, err)

	require.False(t, security.VerifyPassword("Secret1", updated.PasswordHash))
	require.True(t, security.VerifyPassword("NewPass1", updated.PasswordHash))
	require.Nil(t, updated.ResetCode)
	require.Nil(t, updated.ResetExpiresAt)

	stored := repo.users[user.ID.Hex()]
	require.True(t, security.VerifyPassword("NewPass1", stored.PasswordHash))
}

func TestResetPassword_ExpiredReset(t *testing.T) {
	uc, repo, _, user := newPasswordFixture(t)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "a@x.com"))

	expired := time.Now().Add(-time.Minute)
	repo.users[user.ID.Hex()].ResetExpiresAt = &expired

	_, err := uc.ResetPassword(context.Background(), "a@x.com", "NewPass1")
	require.ErrorIs(t, err, usecase.ErrCodeInvalidOrExpired)

	// The old password still works.
	require.True(t, security.VerifyPassword("Secret1", repo.users[user.ID.Hex()].PasswordHash))
}

func TestResetPassword_NoResetPending(t *testing.T) {
	uc, _, _, _ := newPasswordFixture(t)

	_, err := uc.ResetPassword(context.Background(), "a@x.com", "NewPass1")
	require.ErrorIs(t, err, usecase.ErrCodeInvalidOrExpired)
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	uc, _, _, _ := newPasswordFixture(t)

	_, err := uc.ResetPassword(context.Background(), "missing@x.com", "NewPass1")
	require.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUpdatePassword_WrongCurrentPassword(t *testing.T) {
	uc, _, _, user := newPasswordFixture(t)

	err := uc.UpdatePassword(context.Background(), user.ID.Hex(), "WrongPass", "NewPass1")
	require.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

func TestUpdatePassword_Success(t *testing.T) {
	uc, repo, _, user := newPasswordFixture(t)

	err := uc.UpdatePassword(context.Background(), user.ID.Hex(), "Secret1", "NewPass1")
	require.NoError(t, err)

	stored := repo.users[user.ID.Hex()]
	require.True(t, security.VerifyPassword("NewPass1", stored.PasswordHash))
	require.False(t, security.VerifyPassword("Secret1", stored.PasswordHash))
}
