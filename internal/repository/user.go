package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/careconnect-health/careconnect-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByVerificationCode retrieves the user whose pending verification
	// code matches and has not expired at the given instant.
	GetUserByVerificationCode(ctx context.Context, code string, now time.Time) (*model.User, error)

	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)

	// MarkVerified flips the user to verified and consumes the pending
	// verification pair.
	MarkVerified(ctx context.Context, id string) (*model.User, error)

	// SetResetCode stores a pending password-reset pair, replacing any
	// previous one.
	SetResetCode(ctx context.Context, id string, code string, expiresAt time.Time) error

	// ReplacePassword stores a new password hash and consumes the pending
	// reset pair.
	ReplacePassword(ctx context.Context, id string, passwordHash string) (*model.User, error)

	DeleteUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, params FilterUsersParams) ([]*model.User, error)
	CountUsers(ctx context.Context, params FilterUsersParams) (int64, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	FullName     *string
	Email        *string
	PhoneNumber  *string
	AboutProfile *string
	ProfilePhoto *string
	PasswordHash *string
}

// FilterUsersParams defines the parameters for filtering and paginating users.
// Search matches full name or email as a case-insensitive substring.
type FilterUsersParams struct {
	Search   *string
	Role     *model.Role
	Verified *bool
	Limit    uint64
	Offset   uint64
	SortBy   *string
	SortDesc bool
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a MongoDB-backed user repository. The unique
// email index enforces the one-account-per-email invariant at the store level.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "verification_code", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetUserByVerificationCode(
	ctx context.Context,
	code string,
	now time.Time,
) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"verification_code":       code,
		"verification_expires_at": bson.M{"$gt": now},
	})
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.FullName != nil {
		updateMap["full_name"] = *params.FullName
	}
	if params.Email != nil {
		updateMap["email"] = *params.Email
	}
	if params.PhoneNumber != nil {
		updateMap["phone_number"] = *params.PhoneNumber
	}
	if params.AboutProfile != nil {
		updateMap["about_profile"] = *params.AboutProfile
	}
	if params.ProfilePhoto != nil {
		updateMap["profile_photo"] = *params.ProfilePhoto
	}
	if params.PasswordHash != nil {
		updateMap["password_hash"] = *params.PasswordHash
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	updateMap["updated_at"] = time.Now()

	return r.findOneAndUpdate(ctx, objectID, bson.M{"$set": updateMap})
}

func (r *userMongoRepository) MarkVerified(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOneAndUpdate(ctx, objectID, bson.M{
		"$set": bson.M{
			"verified":   true,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"verification_code":       "",
			"verification_expires_at": "",
		},
	})
}

func (r *userMongoRepository) SetResetCode(
	ctx context.Context,
	id string,
	code string,
	expiresAt time.Time,
) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"reset_code":       code,
			"reset_expires_at": expiresAt,
			"updated_at":       time.Now(),
		}},
	)
	return err
}

func (r *userMongoRepository) ReplacePassword(
	ctx context.Context,
	id string,
	passwordHash string,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOneAndUpdate(ctx, objectID, bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
		"$unset": bson.M{
			"reset_code":       "",
			"reset_expires_at": "",
		},
	})
}

func (r *userMongoRepository) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ListUsers(ctx context.Context, params FilterUsersParams) ([]*model.User, error) {
	findOptions := options.Find()

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}
	findOptions.SetLimit(int64(limit))

	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	sortBy := "created_at"
	if params.SortBy != nil {
		sortBy = *params.SortBy
	}

	sortOrder := -1
	if !params.SortDesc {
		sortOrder = 1
	}
	findOptions.SetSort(bson.D{{Key: sortBy, Value: sortOrder}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, filterQuery(params), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) CountUsers(ctx context.Context, params FilterUsersParams) (int64, error) {
	return r.db.Collection(userCollection).CountDocuments(ctx, filterQuery(params))
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) findOneAndUpdate(
	ctx context.Context,
	id bson.ObjectID,
	update bson.M,
) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func filterQuery(params FilterUsersParams) bson.M {
	filter := bson.M{}
	if params.Search != nil && *params.Search != "" {
		pattern := bson.M{"$regex": *params.Search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"email": pattern},
		}
	}
	if params.Role != nil {
		filter["role"] = *params.Role
	}
	if params.Verified != nil {
		filter["verified"] = *params.Verified
	}
	return filter
}
