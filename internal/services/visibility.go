package services

import (
	"context"
	"fmt"

	"crewlink-backend/internal/models"
)

// visibilityUserStore is the crew member read surface the visibility service
// needs. *repository.UserRepository satisfies it.
type visibilityUserStore interface {
	GetByID(ctx context.Context, id string) (*models.CrewMember, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.CrewMember, error)
	ListByShip(ctx context.Context, shipID string) ([]*models.CrewMember, error)
}

// VisibilityService computes which crew members a viewer can discover today:
// everyone on the viewer's own ship, plus crew with active port declarations
// on ships the viewer's ship has declared docking links to. The port relation
// is deliberately one-directional; B seeing A requires B's own ship to have
// declared a link toward A's ship.
type VisibilityService struct {
	users        visibilityUserStore
	declarations portDeclarationStore
}

// NewVisibilityService creates a new visibility service
func NewVisibilityService(users visibilityUserStore, declarations portDeclarationStore) *VisibilityService {
	return &VisibilityService{users: users, declarations: declarations}
}

// VisibleCrew returns the crew members visible to the viewer on a date,
// de-duplicated. A viewer with no current ship gets an empty result; an
// incomplete profile is a normal state for new users, not an error.
func (s *VisibilityService) VisibleCrew(ctx context.Context, viewerID string, date models.Date) ([]*models.CrewMember, error) {
	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, lookupErr(err, "viewer")
	}
	if viewer.CurrentShipID == "" {
		return nil, nil
	}

	shipmates, err := s.users.ListByShip(ctx, viewer.CurrentShipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipmates: %w", err)
	}

	seen := make(map[string]struct{})
	var visible []*models.CrewMember
	for _, member := range shipmates {
		if member.ID == viewerID {
			continue
		}
		if _, ok := seen[member.ID]; ok {
			continue
		}
		seen[member.ID] = struct{}{}
		visible = append(visible, member)
	}

	portCrew, err := s.portVisibleCrew(ctx, viewer, date)
	if err != nil {
		return nil, err
	}
	for _, member := range portCrew {
		if _, ok := seen[member.ID]; ok {
			continue
		}
		seen[member.ID] = struct{}{}
		visible = append(visible, member)
	}

	return visible, nil
}

// portVisibleCrew resolves the port-docking leg: crew who declared from ships
// the viewer's ship linked to, in the same ports, on the same date. Crew on
// the viewer's own ship are excluded since same-ship visibility covers them.
func (s *VisibilityService) portVisibleCrew(ctx context.Context, viewer *models.CrewMember, date models.Date) ([]*models.CrewMember, error) {
	ownDecls, err := s.declarations.ListActiveByShip(ctx, viewer.CurrentShipID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list own declarations: %w", err)
	}
	if len(ownDecls) == 0 {
		return nil, nil
	}

	linkedSet := make(map[string]struct{})
	portSet := make(map[string]struct{})
	for _, decl := range ownDecls {
		linkedSet[decl.DockedWithShipID] = struct{}{}
		portSet[decl.PortName] = struct{}{}
	}
	linked := make([]string, 0, len(linkedSet))
	for shipID := range linkedSet {
		linked = append(linked, shipID)
	}
	ports := make([]string, 0, len(portSet))
	for port := range portSet {
		ports = append(ports, port)
	}

	decls, err := s.declarations.ListActiveByShips(ctx, linked, ports, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked declarations: %w", err)
	}

	// Duplicate declarations for the same docking collapse here: visibility
	// is computed over the set of declaring users.
	userIDSet := make(map[string]struct{})
	for _, decl := range decls {
		if decl.UserID == viewer.ID {
			continue
		}
		userIDSet[decl.UserID] = struct{}{}
	}
	if len(userIDSet) == 0 {
		return nil, nil
	}
	userIDs := make([]string, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}

	members, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load visible crew: %w", err)
	}

	filtered := members[:0]
	for _, member := range members {
		if member.CurrentShipID == viewer.CurrentShipID {
			continue
		}
		filtered = append(filtered, member)
	}
	return filtered, nil
}
