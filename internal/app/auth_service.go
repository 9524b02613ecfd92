package app

import (
	"context"
	"errors"
	"regexp"
	"time"
	"unicode"

	"caltrack/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors map 1:1 to the messages the HTTP layer returns, so the
// service owns the wording and handlers only pick status codes.
var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password, deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("Invalid username or password")
	// ErrDuplicateUser indicates the username or email is already taken.
	ErrDuplicateUser = errors.New("Username or email already exists")
	// ErrUserNotFound indicates the user row does not exist.
	ErrUserNotFound = errors.New("User not found")
	// ErrNoRefreshToken indicates the refresh request carried no token.
	ErrNoRefreshToken = errors.New("No refresh token provided")
	// ErrRefreshTokenInvalid indicates no matching, non-expired stored token.
	ErrRefreshTokenInvalid = errors.New("Invalid or expired refresh token")
	// ErrMissingUserID guards handlers reached without an authenticated
	// identity, which only happens if middleware is misconfigured.
	ErrMissingUserID = errors.New("Unauthorized: Missing user ID")
)

// ValidationError is a client-fixable input error, surfaced as 400 with a
// field-specific message.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

// PlatformMobile is the only platform that gets a persisted refresh token;
// web sessions are access-token-only, as observed in the original flow.
const PlatformMobile = "mobile"

// RegisterRequest carries the fields of a registration attempt.
type RegisterRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Password    string  `json:"password"`
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	Goal        string  `json:"goal"`
}

// LoginResult is the successful outcome of a login.
type LoginResult struct {
	Role         string `json:"role"`
	UserID       int64  `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthService handles registration, login and the refresh-token lifecycle.
type AuthService struct {
	users  domain.UserRepository
	admins domain.AdminRepository
	tokens *TokenService
}

// NewAuthService creates an AuthService backed by the given repositories.
func NewAuthService(users domain.UserRepository, admins domain.AdminRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, admins: admins, tokens: tokens}
}

// Register validates the request, checks uniqueness and stores the user
// with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	if err := validateRegistration(req); err != nil {
		return err
	}

	exists, err := s.users.UsernameOrEmailExists(ctx, req.Username, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		PhoneNumber:  req.PhoneNumber,
		Age:          req.Age,
		Gender:       req.Gender,
		Height:       req.Height,
		Weight:       req.Weight,
		Goal:         req.Goal,
	})
	return err
}

// Login authenticates against the admin table first, then users. The
// failure mode is uniform regardless of which lookup missed.
func (s *AuthService) Login(ctx context.Context, username, password, platform string) (*LoginResult, error) {
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		access, expiresIn, err := s.tokens.IssueAccessToken(admin.ID, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Role: domain.RoleAdmin, UserID: admin.ID, AccessToken: access, ExpiresIn: expiresIn}, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, err
	}

	access, expiresIn, err := s.tokens.IssueAccessToken(user.ID, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{Role: domain.RoleUser, UserID: user.ID, AccessToken: access, ExpiresIn: expiresIn}

	if platform == PlatformMobile {
		refresh, err := NewRefreshToken()
		if err != nil {
			return nil, err
		}
		expiresAt := time.Now().Add(RefreshTokenTTL)
		if err := s.users.SaveRefreshToken(ctx, user.ID, refresh, expiresAt); err != nil {
			return nil, err
		}
		result.RefreshToken = refresh
	}

	return result, nil
}

// Refresh exchanges a stored, non-expired refresh token for a new access
// token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, int64, error) {
	if token == "" {
		return "", 0, ErrNoRefreshToken
	}

	user, err := s.users.GetByRefreshToken(ctx, token)
	if err != nil {
		return "", 0, err
	}
	if user == nil || time.Now().After(user.RefreshTokenExpiresAt) {
		return "", 0, ErrRefreshTokenInvalid
	}

	return s.tokens.IssueAccessToken(user.ID, domain.RoleUser)
}

// Logout invalidates the stored refresh token server-side.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if userID == 0 {
		return ErrMissingUserID
	}
	return s.users.ClearRefreshToken(ctx, userID)
}

// DeleteAccount removes the user and everything they own, children before
// parents, in one logical operation.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// validateRegistration fails on the first invalid field, in a fixed order:
// username, email, phone, password, age, then the remaining profile fields.
func validateRegistration(req RegisterRequest) error {
	if len(req.Username) < 3 {
		return ValidationError("Username must be at least 3 characters")
	}
	if !emailRe.MatchString(req.Email) {
		return ValidationError("Invalid email address")
	}
	if !phoneRe.MatchString(req.PhoneNumber) {
		return ValidationError("Phone number must be 10 digits")
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if req.Age < 13 {
		return ValidationError("Must be at least 13 years old")
	}
	if req.Age > 120 {
		return ValidationError("Age must be between 13 and 120")
	}
	if err := validateGender(req.Gender); err != nil {
		return err
	}
	if err := validateHeight(req.Height); err != nil {
		return err
	}
	if err := validateWeight(req.Weight); err != nil {
		return err
	}
	return validateGoal(req.Goal)
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ValidationError("Password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ValidationError("Password must contain letters and numbers")
	}
	return nil
}

func validateGender(gender string) error {
	switch gender {
	case domain.GenderMale, domain.GenderFemale, domain.GenderOther:
		return nil
	}
	return ValidationError("Gender must be male, female or other")
}

func validateGoal(goal string) error {
	switch goal {
	case domain.GoalLose, domain.GoalMaintain, domain.GoalGain:
		return nil
	}
	return ValidationError("Goal must be lose weight, maintain weight or gain weight")
}

func validateHeight(height float64) error {
	if height < 50 || height > 300 {
		return ValidationError("Height must be between 50 and 300 cm")
	}
	return nil
}

func validateWeight(weight float64) error {
	if weight < 20 || weight > 500 {
		return ValidationError("Weight must be between 20 and 500 kg")
	}
	return nil
}
