package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crewlink-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 30

// userStore is the persistence surface the user service needs.
// *repository.UserRepository satisfies it.
type userStore interface {
	Create(ctx context.Context, member *models.CrewMember) error
	GetByID(ctx context.Context, id string) (*models.CrewMember, error)
	GetByEmail(ctx context.Context, email string) (*models.CrewMember, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, member *models.CrewMember) error
	ListByShip(ctx context.Context, shipID string) ([]*models.CrewMember, error)
	Deactivate(ctx context.Context, userID string) error
}

// UserService handles crew member accounts and authentication
type UserService struct {
	users     userStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users userStore, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new crew member account
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*models.CrewMember, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &models.CrewMember{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create crew member: %w", err)
	}
	return member, nil
}

// Login verifies credentials and returns the member with a fresh JWT
func (s *UserService) Login(ctx context.Context, email, password string) (*models.CrewMember, string, error) {
	member, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}
	if !member.Active {
		return nil, "", fmt.Errorf("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	token, err := s.GenerateJWT(member.ID)
	if err != nil {
		return nil, "", err
	}
	return member, token, nil
}

// GenerateJWT generates a JWT token for a crew member
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the crew member ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}

// GetProfile retrieves a crew member's profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.CrewMember, error) {
	member, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "crew member")
	}
	return member, nil
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	DisplayName        string `json:"display_name"`
	CruiseLineID       string `json:"cruise_line_id"`
	DepartmentID       string `json:"department_id"`
	RoleID             string `json:"role_id"`
	OnboardingComplete bool   `json:"onboarding_complete"`
}

// UpdateProfile updates a crew member's profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.CrewMember, error) {
	member, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "crew member")
	}

	member.DisplayName = strings.TrimSpace(req.DisplayName)
	member.CruiseLineID = strings.TrimSpace(req.CruiseLineID)
	member.DepartmentID = strings.TrimSpace(req.DepartmentID)
	member.RoleID = strings.TrimSpace(req.RoleID)
	member.OnboardingComplete = req.OnboardingComplete

	if err := s.users.UpdateProfile(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return member, nil
}

// ListShipmates returns the active crew members currently on a ship
func (s *UserService) ListShipmates(ctx context.Context, shipID string) ([]*models.CrewMember, error) {
	return s.users.ListByShip(ctx, shipID)
}

// Deactivate marks a crew member inactive. Accounts are never deleted.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	return nil
}
