package payload

import (
	"github.com/careconnect-health/careconnect-api/internal/model"
)

// UserResponse is the sanitized view of a user account. The password hash
// and any pending codes never leave the service.
type UserResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Gender       string `json:"gender"`
	Role         string `json:"role"`
	AboutProfile string `json:"aboutProfile,omitempty"`
	ProfilePhoto string `json:"profilePhoto"`
	IsVerified   bool   `json:"isVerified"`
}

// NewUserResponse builds the sanitized view of a user.
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID.Hex(),
		FullName:     user.FullName,
		Email:        user.Email,
		PhoneNumber:  user.PhoneNumber,
		Gender:       string(user.Gender),
		Role:         string(user.Role),
		AboutProfile: user.AboutProfile,
		ProfilePhoto: user.ProfilePhoto,
		IsVerified:   user.Verified,
	}
}

// NewUserResponses builds sanitized views for a list of users.
func NewUserResponses(users []*model.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}

// ListUsersResponse wraps a page of users with the total match count.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
	Page  uint64         `json:"page"`
	Limit uint64         `json:"limit"`
}
