// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Roles carried in access-token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Gender values accepted on a user profile.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Goal values accepted on a user profile.
const (
	GoalLose     = "lose weight"
	GoalMaintain = "maintain weight"
	GoalGain     = "gain weight"
)

// Identity is the authenticated principal attached to a request after
// token verification.
type Identity struct {
	ID   int64
	Role string
}

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	Age          int
	Gender       string
	Height       float64 // cm
	Weight       float64 // kg
	Goal         string

	// At most one active refresh token per user. Issuing a new one
	// overwrites the old.
	RefreshToken          string
	RefreshTokenExpiresAt time.Time

	LastLoginAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Admin is a parallel identity record with its own id space. Login
// resolves admins before users on a username collision.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// ProfilePatch is a typed partial update: only non-nil fields are
// written. Column names are never derived from client input.
type ProfilePatch struct {
	PhoneNumber *string
	Age         *int
	Gender      *string
	Height      *float64
	Weight      *float64
	Goal        *string
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByRefreshToken(ctx context.Context, token string) (*User, error)
	UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, u *User) (int64, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	SaveRefreshToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) error

	// Delete removes the user and every row owned by them (meal details,
	// meals, activity details, activities, daily summaries) atomically,
	// children before parents. Returns false when the user is already gone.
	Delete(ctx context.Context, id int64) (bool, error)
}

// AdminRepository defines the port for admin lookups.
type AdminRepository interface {
	GetAdminByUsername(ctx context.Context, username string) (*Admin, error)
}
