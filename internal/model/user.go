package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role distinguishes the two account types. It is fixed at registration and
// checked again at login.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Gender is a profile attribute, not part of the credential state.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User represents a user account with its credential state and profile.
//
// VerificationCode/VerificationExpiresAt and ResetCode/ResetExpiresAt are
// nullable pairs: both fields of a pair are set while the corresponding flow
// is pending and unset once it is consumed.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	FullName     string        `bson:"full_name"`
	Email        string        `bson:"email"`
	PhoneNumber  string        `bson:"phone_number"`
	PasswordHash string        `bson:"password_hash"`
	Gender       Gender        `bson:"gender"`
	Role         Role          `bson:"role"`
	AboutProfile string        `bson:"about_profile,omitempty"`
	ProfilePhoto string        `bson:"profile_photo"`

	Verified              bool       `bson:"verified"`
	VerificationCode      *string    `bson:"verification_code,omitempty"`
	VerificationExpiresAt *time.Time `bson:"verification_expires_at,omitempty"`
	ResetCode             *string    `bson:"reset_code,omitempty"`
	ResetExpiresAt        *time.Time `bson:"reset_expires_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
