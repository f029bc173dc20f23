package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/careconnect-health/careconnect-api/internal/config"
	"github.com/careconnect-health/careconnect-api/internal/model"
	"github.com/careconnect-health/careconnect-api/internal/repository"
	"github.com/careconnect-health/careconnect-api/shared/auth"
	"github.com/careconnect-health/careconnect-api/shared/security"
)

// PasswordUsecase defines the password-recovery and password-change use
// cases.
type PasswordUsecase interface {
	// RequestPasswordReset stores a short-lived reset code for the account
	// and emails it to the registered address.
	RequestPasswordReset(ctx context.Context, email string) error

	// VerifyResetCode checks that a pending reset code matches and has not
	// expired. It is a read-only eligibility check and does not consume the
	// code.
	VerifyResetCode(ctx context.Context, email, code string) error

	// ResetPassword replaces the password while a reset is pending and
	// consumes the pending code, whether or not VerifyResetCode was called
	// first.
	ResetPassword(ctx context.Context, email, newPassword string) (*model.User, error)

	// UpdatePassword replaces the password of an authenticated user after
	// re-verifying the current one.
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

const resetCodeLength = 4

type passwordUsecase struct {
	userRepo    repository.UserRepository
	tokenIssuer *auth.TokenIssuer
	mail        MailSender
	cfg         *config.AppConfig
	logger      *zerolog.Logger
}

func NewPasswordUsecase(
	userRepo repository.UserRepository,
	tokenIssuer *auth.TokenIssuer,
	mail MailSender,
	cfg *config.AppConfig,
	logger *zerolog.Logger,
) PasswordUsecase {
	return &passwordUsecase{
		userRepo:    userRepo,
		tokenIssuer: tokenIssuer,
		mail:        mail,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *passwordUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	code, err := security.GenerateCode(resetCodeLength)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(u.cfg.ResetCodeExpiresIn)
	if err := u.userRepo.SetResetCode(ctx, user.ID.Hex(), code, expiresAt); err != nil {
		return err
	}

	// The emailed link carries a signed short-lived token so the frontend
	// can authenticate the reset form before asking for the code.
	linkToken, err := u.tokenIssuer.IssueResetToken(user.ID.Hex())
	if err != nil {
		return err
	}

	if err := u.sendResetEmail(user.Email, code, linkToken); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send password reset email")
	}

	return nil
}

func (u *passwordUsecase) VerifyResetCode(ctx context.Context, email, code string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if user.ResetCode == nil || *user.ResetCode != code {
		return ErrCodeInvalidOrExpired
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return ErrCodeInvalidOrExpired
	}

	return nil
}

func (u *passwordUsecase) ResetPassword(ctx context.Context, email, newPassword string) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return nil, ErrCodeInvalidOrExpired
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	return u.userRepo.ReplacePassword(ctx, user.ID.Hex(), passwordHash)
}

func (u *passwordUsecase) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if !security.VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})
	return err
}

func (u *passwordUsecase) sendResetEmail(email, code, linkToken string) error {
	resetURL := fmt.Sprintf("%s?token=%s", u.cfg.PasswordResetURL, linkToken)
	htmlBody := fmt.Sprintf(`
		<p>We received a request to reset the password for your account.</p>
		<p>Your reset code is: <strong>%s</strong></p>
		<p>Enter it on the password reset page:</p>
		<p><a href="%s">Reset Password</a></p>
		<p>The code expires in %s. If you did not request a reset, you can
		safely ignore this email.</p>
	`, code, resetURL, u.cfg.ResetCodeExpiresIn)

	return u.mail.SendHTML([]string{email}, "Password Reset", htmlBody)
}
