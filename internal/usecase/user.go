package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/careconnect-health/careconnect-api/internal/model"
	"github.com/careconnect-health/careconnect-api/internal/repository"
)

// PhotoUploader stores an uploaded image and returns its public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// UserUsecase defines the profile-management use cases.
type UserUsecase interface {
	ListUsers(ctx context.Context, params ListUsersParams) ([]*model.User, int64, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ListUsersParams defines pagination and search for user listing.
type ListUsersParams struct {
	Search string
	Page   uint64
	Limit  uint64
}

// UpdateProfileParams defines the optional profile fields to change. A
// non-nil Photo is uploaded to the image host and stored as a URL.
type UpdateProfileParams struct {
	FullName     *string
	Email        *string
	PhoneNumber  *string
	AboutProfile *string
	Photo        *PhotoUpload
}

// PhotoUpload is an in-flight profile photo.
type PhotoUpload struct {
	ContentType string
	Body        io.Reader
}

type userUsecase struct {
	userRepo repository.UserRepository
	uploader PhotoUploader
}

func NewUserUsecase(userRepo repository.UserRepository, uploader PhotoUploader) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (u *userUsecase) ListUsers(ctx context.Context, params ListUsersParams) ([]*model.User, int64, error) {
	page := params.Page
	if page == 0 {
		page = 1
	}
	limit := params.Limit
	if limit == 0 {
		limit = 10
	}

	filter := repository.FilterUsersParams{
		Limit:    limit,
		Offset:   (page - 1) * limit,
		SortDesc: true,
	}
	if params.Search != "" {
		filter.Search = &params.Search
	}

	users, err := u.userRepo.ListUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := u.userRepo.CountUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) UpdateProfile(
	ctx context.Context,
	id string,
	params UpdateProfileParams,
) (*model.User, error) {
	updateParams := repository.UpdateUserParams{
		FullName:     params.FullName,
		Email:        params.Email,
		PhoneNumber:  params.PhoneNumber,
		AboutProfile: params.AboutProfile,
	}

	if params.Photo != nil {
		key := fmt.Sprintf("profile-photos/%s", uuid.NewString())
		photoURL, err := u.uploader.Upload(ctx, key, params.Photo.ContentType, params.Photo.Body)
		if err != nil {
			return nil, err
		}
		updateParams.ProfilePhoto = &photoURL
	}

	user, err := u.userRepo.UpdateUser(ctx, id, updateParams)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, id string) error {
	_, err := u.userRepo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	return nil
}
