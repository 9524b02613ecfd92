package app

import (
	"context"

	"caltrack/internal/domain"
)

// Profile is a user view with the password hash stripped.
type Profile struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	Goal        string  `json:"goal"`
}

// ProfileService reads and partially updates user profiles.
type ProfileService struct {
	users domain.UserRepository
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(users domain.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Get returns the user's profile.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &Profile{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Age:         user.Age,
		Gender:      user.Gender,
		Height:      user.Height,
		Weight:      user.Weight,
		Goal:        user.Goal,
	}, nil
}

// Update applies a partial profile update. Present fields are validated
// with the registration rules; absent fields are untouched.
func (s *ProfileService) Update(ctx context.Context, userID int64, patch domain.ProfilePatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return s.users.UpdateProfile(ctx, userID, patch)
}

func validatePatch(patch domain.ProfilePatch) error {
	if patch.PhoneNumber != nil && !phoneRe.MatchString(*patch.PhoneNumber) {
		return ValidationError("Phone number must be 10 digits")
	}
	if patch.Age != nil {
		if *patch.Age < 13 {
			return ValidationError("Must be at least 13 years old")
		}
		if *patch.Age > 120 {
			return ValidationError("Age must be between 13 and 120")
		}
	}
	if patch.Gender != nil {
		if err := validateGender(*patch.Gender); err != nil {
			return err
		}
	}
	if patch.Height != nil {
		if err := validateHeight(*patch.Height); err != nil {
			return err
		}
	}
	if patch.Weight != nil {
		if err := validateWeight(*patch.Weight); err != nil {
			return err
		}
	}
	if patch.Goal != nil {
		return validateGoal(*patch.Goal)
	}
	return nil
}
