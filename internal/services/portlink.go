package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crewlink-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// portDeclarationStore is the persistence surface the port link service needs.
// *repository.PortDeclarationRepository satisfies it.
type portDeclarationStore interface {
	Create(ctx context.Context, decl *models.PortDeclaration) error
	GetByID(ctx context.Context, id string) (*models.PortDeclaration, error)
	LinkedShipIDs(ctx context.Context, shipID string, date models.Date) ([]string, error)
	ListActiveByShip(ctx context.Context, shipID string, date models.Date) ([]*models.PortDeclaration, error)
	ListActiveByShips(ctx context.Context, shipIDs, portNames []string, date models.Date) ([]*models.PortDeclaration, error)
	SetExpired(ctx context.Context, id string) error
}

// PortLinkService maintains per-date ship docking declarations and answers
// reachability queries over them. Links are one-directional: a declaration
// from ship A to ship B makes B reachable from A only.
type PortLinkService struct {
	declarations portDeclarationStore
}

// NewPortLinkService creates a new port link service
func NewPortLinkService(declarations portDeclarationStore) *PortLinkService {
	return &PortLinkService{declarations: declarations}
}

// Declare records that the user's ship is docked with another ship in a port
// on a date. Declarations accumulate; the same docking confirmed by several
// crew members is allowed and collapses to one link in reachability.
func (s *PortLinkService) Declare(ctx context.Context, userID, shipID, dockedWithShipID, portName string, date models.Date) (*models.PortDeclaration, error) {
	shipID = strings.TrimSpace(shipID)
	dockedWithShipID = strings.TrimSpace(dockedWithShipID)
	if shipID == "" || dockedWithShipID == "" {
		return nil, ErrInvalidDeclaration
	}
	if shipID == dockedWithShipID {
		return nil, ErrInvalidDeclaration
	}

	decl := &models.PortDeclaration{
		ID:               uuid.New().String(),
		UserID:           userID,
		ShipID:           shipID,
		PortName:         strings.TrimSpace(portName),
		DockedWithShipID: dockedWithShipID,
		Date:             date,
		Status:           models.DeclarationActive,
		CreatedAt:        time.Now(),
	}

	if err := s.declarations.Create(ctx, decl); err != nil {
		return nil, fmt.Errorf("failed to create declaration: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("ship_id", shipID).
		Str("docked_with", dockedWithShipID).
		Str("date", date.String()).
		Msg("Port declaration created")

	return decl, nil
}

// LinkedShips returns the set of ships reachable from a ship via its active
// declarations on a date.
func (s *PortLinkService) LinkedShips(ctx context.Context, shipID string, date models.Date) (map[string]struct{}, error) {
	ids, err := s.declarations.LinkedShipIDs(ctx, shipID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked ships: %w", err)
	}
	linked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		linked[id] = struct{}{}
	}
	return linked, nil
}

// ActiveDeclarations returns a ship's active declarations for a date.
func (s *PortLinkService) ActiveDeclarations(ctx context.Context, shipID string, date models.Date) ([]*models.PortDeclaration, error) {
	return s.declarations.ListActiveByShip(ctx, shipID, date)
}

// Withdraw marks a declaration expired. Idempotent: withdrawing an already
// expired declaration succeeds. Only the declaring user may withdraw.
func (s *PortLinkService) Withdraw(ctx context.Context, declarationID, userID string) error {
	decl, err := s.declarations.GetByID(ctx, declarationID)
	if err != nil {
		return lookupErr(err, "declaration")
	}
	if decl.UserID != userID {
		return ErrNotAuthorized
	}
	if decl.Status == models.DeclarationExpired {
		return nil
	}
	if err := s.declarations.SetExpired(ctx, declarationID); err != nil {
		return fmt.Errorf("failed to withdraw declaration: %w", err)
	}
	return nil
}
