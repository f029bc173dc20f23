package usecase_test

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/careconnect-health/careconnect-api/internal/config"
	"github.com/careconnect-health/careconnect-api/internal/model"
	"github.com/careconnect-health/careconnect-api/internal/repository"
	"github.com/careconnect-health/careconnect-api/shared/auth"
)

func newTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Token: config.TokenConfig{
			Secret:                "test-secret",
			Issuer:                "careconnect-api",
			SessionTokenExpiresIn: 24 * time.Hour,
			ResetTokenExpiresIn:   time.Hour,
		},
		VerifyEmailURL:            "http://frontend.test/verify-email",
		PasswordResetURL:          "http://frontend.test/reset-password",
		VerificationCodeExpiresIn: time.Hour,
		ResetCodeExpiresIn:        time.Hour,
	}
}

func newTestTokenIssuer(cfg *config.AppConfig) *auth.TokenIssuer {
	return auth.NewTokenIssuer(
		cfg.Token.Secret,
		cfg.Token.Issuer,
		cfg.Token.SessionTokenExpiresIn,
		cfg.Token.ResetTokenExpiresIn,
	)
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// fakeUserRepo is an in-memory UserRepository sharing the Mongo
// implementation's contract: ErrNoDocuments on missing records and a
// duplicate-key write error on email collisions.
type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key error"}},
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, duplicateKeyError()
		}
	}

	user.ID = bson.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID.Hex()] = user

	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetUserByVerificationCode(
	_ context.Context,
	code string,
	now time.Time,
) (*model.User, error) {
	for _, user := range r.users {
		if user.VerificationCode != nil && *user.VerificationCode == code &&
			user.VerificationExpiresAt != nil && user.VerificationExpiresAt.After(now) {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(
	ctx context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.FullName != nil {
		user.FullName = *params.FullName
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.PhoneNumber != nil {
		user.PhoneNumber = *params.PhoneNumber
	}
	if params.AboutProfile != nil {
		user.AboutProfile = *params.AboutProfile
	}
	if params.ProfilePhoto != nil {
		user.ProfilePhoto = *params.ProfilePhoto
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	user.UpdatedAt = time.Now()

	return user, nil
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, id string) (*model.User, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Verified = true
	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	user.UpdatedAt = time.Now()

	return user, nil
}

func (r *fakeUserRepo) SetResetCode(ctx context.Context, id string, code string, expiresAt time.Time) error {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return err
	}

	user.ResetCode = &code
	user.ResetExpiresAt = &expiresAt
	user.UpdatedAt = time.Now()

	return nil
}

func (r *fakeUserRepo) ReplacePassword(ctx context.Context, id string, passwordHash string) (*model.User, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash
	user.ResetCode = nil
	user.ResetExpiresAt = nil
	user.UpdatedAt = time.Now()

	return user, nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	delete(r.users, id)
	return user, nil
}

func (r *fakeUserRepo) ListUsers(
	_ context.Context,
	params repository.FilterUsersParams,
) ([]*model.User, error) {
	var matched []*model.User
	for _, user := range r.users {
		if matchesFilter(user, params) {
			matched = append(matched, user)
		}
	}

	offset := min(int(params.Offset), len(matched))
	matched = matched[offset:]

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}
	if uint64(len(matched)) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func (r *fakeUserRepo) CountUsers(_ context.Context, params repository.FilterUsersParams) (int64, error) {
	var count int64
	for _, user := range r.users {
		if matchesFilter(user, params) {
			count++
		}
	}
	return count, nil
}

func matchesFilter(user *model.User, params repository.FilterUsersParams) bool {
	if params.Search != nil && *params.Search != "" {
		needle := strings.ToLower(*params.Search)
		if !strings.Contains(strings.ToLower(user.FullName), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			return false
		}
	}
	if params.Role != nil && user.Role != *params.Role {
		return false
	}
	if params.Verified != nil && user.Verified != *params.Verified {
		return false
	}
	return true
}

// fakeMailer records outbound emails and optionally fails every send.
type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	to       []string
	subject  string
	htmlBody string
}

func (m *fakeMailer) SendHTML(to []string, subject, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}

	m.sent = append(m.sent, sentMail{to: to, subject: subject, htmlBody: htmlBody})
	return nil
}
