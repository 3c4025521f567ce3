package domain

import "context"

// User represents a registered teacher profile.
type User struct {
	UID          string `json:"uid"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// UserRegister represents the registration payload.
type UserRegister struct {
	UID          string `json:"uid" validate:"required"`
	FullName     string `json:"full_name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	ProfileImage string `json:"profile_image"`
}

// UserDirectory answers whether a user id is known. Implementations must
// answer for arbitrary strings without failing the caller; underlying
// errors are reported but treated as "does not exist" by callers.
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// UserRepository extends the directory with registration.
type UserRepository interface {
	UserDirectory
	Create(ctx context.Context, userID string, user *User) error
}
