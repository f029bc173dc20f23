package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careconnect-health/careconnect-api/internal/model"
	"github.com/careconnect-health/careconnect-api/internal/usecase"
)

// Full recovery flow: after a reset, the old password is rejected and the
// new one logs in.
func TestPasswordRecoveryFlow(t *testing.T) {
	cfg := newTestConfig()
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	issuer := newTestTokenIssuer(cfg)

	authUC := usecase.NewAuthUsecase(repo, issuer, mail, cfg, nopLogger())
	passwordUC := usecase.NewPasswordUsecase(repo, issuer, mail, cfg, nopLogger())

	user, err := authUC.Register(context.Background(), registerParams("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, passwordUC.RequestPasswordReset(context.Background(), "a@x.com"))
	code := *repo.users[user.ID.Hex()].ResetCode

	require.NoError(t, passwordUC.VerifyResetCode(context.Background(), "a@x.com", code))

	_, err = passwordUC.ResetPassword(context.Background(), "a@x.com", "NewPass1")
	require.NoError(t, err)

	_, _, err = authUC.Login(context.Background(), usecase.LoginParams{
		Email:    "a@x.com",
		Password: "Secret1",
		Role:     model.RolePatient,
	})
	require.ErrorIs(t, err, usecase.ErrInvalidCredentials)

	_, token, err := authUC.Login(context.Background(), usecase.LoginParams{
		Email:    "a@x.com",
		Password: "NewPass1",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
}
