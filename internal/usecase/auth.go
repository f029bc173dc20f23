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

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRoleMismatch         = errors.New("account role does not match")
	ErrCodeInvalidOrExpired = errors.New("code is invalid or expired")
)

// MailSender delivers outbound account emails. Delivery failures are logged
// by the workflow and never abort the operation that triggered them.
type MailSender interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// AuthUsecase defines the registration and authentication use cases.
type AuthUsecase interface {
	// Register creates an unverified account and sends the verification
	// email. A failed email delivery does not roll the account back.
	Register(ctx context.Context, params RegisterParams) (*model.User, error)

	// Login authenticates the user and issues a session token. The role is
	// checked only after the password has verified.
	Login(ctx context.Context, params LoginParams) (*model.User, string, error)

	// VerifyEmail consumes a pending verification code and marks the account
	// verified. A code can be consumed at most once.
	VerifyEmail(ctx context.Context, code string) (*model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FullName    string
	Email       string
	Password    string
	Gender      model.Gender
	PhoneNumber string
	Role        model.Role
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
	Role     model.Role
}

const verificationCodeLength = 6

type authUsecase struct {
	userRepo    repository.UserRepository
	tokenIssuer *auth.TokenIssuer
	mail        MailSender
	cfg         *config.AppConfig
	logger      *zerolog.Logger
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	tokenIssuer *auth.TokenIssuer,
	mail MailSender,
	cfg *config.AppConfig,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		tokenIssuer: tokenIssuer,
		mail:        mail,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	code, err := security.GenerateCode(verificationCodeLength)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(u.cfg.VerificationCodeExpiresIn)

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		FullName:              params.FullName,
		Email:                 params.Email,
		PhoneNumber:           params.PhoneNumber,
		PasswordHash:          passwordHash,
		Gender:                params.Gender,
		Role:                  params.Role,
		VerificationCode:      &code,
		VerificationExpiresAt: &expiresAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	// Best-effort notification: account creation stands even if the mail
	// service is down.
	if err := u.sendVerificationEmail(user.Email, code); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.User, string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrUserNotFound
		}

		return nil, "", err
	}

	if !security.VerifyPassword(params.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if user.Role != params.Role {
		return nil, "", ErrRoleMismatch
	}

	token, err := u.tokenIssuer.IssueSessionToken(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, code string) (*model.User, error) {
	user, err := u.userRepo.GetUserByVerificationCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCodeInvalidOrExpired
		}

		return nil, err
	}

	return u.userRepo.MarkVerified(ctx, user.ID.Hex())
}

func (u *authUsecase) sendVerificationEmail(email, code string) error {
	verifyURL := fmt.Sprintf("%s/%s", u.cfg.VerifyEmailURL, code)
	htmlBody := fmt.Sprintf(`
		<p>Please click the link below to verify your email address:</p>
		<p><a href="%s">Verify Email</a></p>
		<p>This link will expire in %s.</p>
	`, verifyURL, u.cfg.VerificationCodeExpiresIn)

	return u.mail.SendHTML([]string{email}, "Verify your email address", htmlBody)
}
