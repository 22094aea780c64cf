package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crewlink-backend/internal/models"

	"github.com/google/uuid"
)

// checkInUserStore is the crew member surface the check-in service needs.
// *repository.UserRepository satisfies it.
type checkInUserStore interface {
	GetByID(ctx context.Context, id string) (*models.CrewMember, error)
	ConfirmShip(ctx context.Context, userID, shipID string, date models.Date) error
}

// checkInStore is the check-in record surface.
// *repository.CheckInRepository satisfies it.
type checkInStore interface {
	Upsert(ctx context.Context, checkIn *models.ShipCheckIn) error
}

// ShouldPromptCheckIn decides whether a crew member must be asked to
// reconfirm their ship today. Members who have not finished onboarding are
// never prompted; otherwise a prompt is due whenever the last confirmation is
// absent or from an earlier day. Pure function.
func ShouldPromptCheckIn(lastConfirmed *models.Date, today models.Date, onboardingComplete bool) bool {
	if !onboardingComplete {
		return false
	}
	if lastConfirmed == nil {
		return true
	}
	return !lastConfirmed.Equal(today)
}

// CheckInService handles daily ship confirmation
type CheckInService struct {
	users    checkInUserStore
	checkIns checkInStore
}

// NewCheckInService creates a new check-in service
func NewCheckInService(users checkInUserStore, checkIns checkInStore) *CheckInService {
	return &CheckInService{users: users, checkIns: checkIns}
}

// ShouldPrompt reports whether the user is due for today's check-in prompt
func (s *CheckInService) ShouldPrompt(ctx context.Context, userID string, today models.Date) (bool, error) {
	member, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, lookupErr(err, "crew member")
	}
	return ShouldPromptCheckIn(member.LastConfirmedDate, today, member.OnboardingComplete), nil
}

// Confirm records today's ship confirmation. The ship change and the
// confirmation date land in one statement; confirming twice on the same day
// is last-writer-wins, which is fine since both writers are the same person.
func (s *CheckInService) Confirm(ctx context.Context, userID, shipID string, today models.Date) (*models.ShipCheckIn, error) {
	shipID = strings.TrimSpace(shipID)
	if shipID == "" {
		return nil, fmt.Errorf("ship id is required")
	}

	if err := s.users.ConfirmShip(ctx, userID, shipID, today); err != nil {
		return nil, fmt.Errorf("failed to confirm ship: %w", err)
	}

	checkIn := &models.ShipCheckIn{
		ID:        uuid.New().String(),
		UserID:    userID,
		ShipID:    shipID,
		Date:      today,
		CreatedAt: time.Now(),
	}
	if err := s.checkIns.Upsert(ctx, checkIn); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return checkIn, nil
}
