package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crewlink-backend/internal/models"

	"github.com/google/uuid"
)

// assignmentStore is the persistence surface the assignment service needs.
// *repository.AssignmentRepository satisfies it.
type assignmentStore interface {
	Create(ctx context.Context, assignment *models.CruiseAssignment) error
	GetByID(ctx context.Context, id string) (*models.CruiseAssignment, error)
	ListByUser(ctx context.Context, userID string) ([]*models.CruiseAssignment, error)
	Update(ctx context.Context, assignment *models.CruiseAssignment) error
	Delete(ctx context.Context, id string) error
}

// DeriveAssignmentStatus computes an assignment's lifecycle state from today's
// date. Cancellation is authoritative and never overridden; otherwise the
// status follows the inclusive date range. Pure and idempotent.
func DeriveAssignmentStatus(assignment *models.CruiseAssignment, today models.Date) models.AssignmentStatus {
	if assignment.Status == models.AssignmentCancelled {
		return models.AssignmentCancelled
	}
	if today.Before(assignment.StartDate) {
		return models.AssignmentUpcoming
	}
	if today.After(assignment.EndDate) {
		return models.AssignmentCompleted
	}
	return models.AssignmentCurrent
}

// AssignmentService handles cruise assignment business logic
type AssignmentService struct {
	assignments assignmentStore
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(assignments assignmentStore) *AssignmentService {
	return &AssignmentService{assignments: assignments}
}

// CreateAssignmentRequest represents a request to create an assignment
type CreateAssignmentRequest struct {
	CruiseLineID string  `json:"cruise_line_id"`
	ShipID       string  `json:"ship_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Description  *string `json:"description,omitempty"`
}

// Create creates an assignment for a crew member
func (s *AssignmentService) Create(ctx context.Context, userID string, req CreateAssignmentRequest, today models.Date) (*models.CruiseAssignment, error) {
	start, end, err := parseAssignmentDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	assignment := &models.CruiseAssignment{
		ID:           uuid.New().String(),
		UserID:       userID,
		CruiseLineID: strings.TrimSpace(req.CruiseLineID),
		ShipID:       strings.TrimSpace(req.ShipID),
		StartDate:    start,
		EndDate:      end,
		Description:  req.Description,
		CreatedAt:    time.Now(),
	}
	assignment.Status = DeriveAssignmentStatus(assignment, today)

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return assignment, nil
}

// Update updates an assignment owned by the acting user
func (s *AssignmentService) Update(ctx context.Context, assignmentID, userID string, req CreateAssignmentRequest, today models.Date) (*models.CruiseAssignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, lookupErr(err, "assignment")
	}
	if assignment.UserID != userID {
		return nil, ErrNotAuthorized
	}

	start, end, err := parseAssignmentDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	assignment.CruiseLineID = strings.TrimSpace(req.CruiseLineID)
	assignment.ShipID = strings.TrimSpace(req.ShipID)
	assignment.StartDate = start
	assignment.EndDate = end
	assignment.Description = req.Description
	if assignment.Status != models.AssignmentCancelled {
		assignment.Status = DeriveAssignmentStatus(assignment, today)
	}

	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	return assignment, nil
}

// Cancel marks an assignment cancelled. Cancellation is permanent.
func (s *AssignmentService) Cancel(ctx context.Context, assignmentID, userID string) (*models.CruiseAssignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, lookupErr(err, "assignment")
	}
	if assignment.UserID != userID {
		return nil, ErrNotAuthorized
	}

	assignment.Status = models.AssignmentCancelled
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to cancel assignment: %w", err)
	}
	return assignment, nil
}

// Delete removes an assignment owned by the acting user
func (s *AssignmentService) Delete(ctx context.Context, assignmentID, userID string) error {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return lookupErr(err, "assignment")
	}
	if assignment.UserID != userID {
		return ErrNotAuthorized
	}
	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

// ListByUser returns a user's assignments with statuses derived for today.
// Stored statuses can be stale after a day rollover; the derived value is
// authoritative for everything except cancellation.
func (s *AssignmentService) ListByUser(ctx context.Context, userID string, today models.Date) ([]*models.CruiseAssignment, error) {
	assignments, err := s.assignments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	for _, a := range assignments {
		a.Status = DeriveAssignmentStatus(a, today)
	}
	return assignments, nil
}

func parseAssignmentDates(startStr, endStr string) (models.Date, models.Date, error) {
	start, err := models.ParseDate(startStr)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	end, err := models.ParseDate(endStr)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	if start.After(end) {
		return models.Date{}, models.Date{}, ErrInvalidDateRange
	}
	return start, end, nil
}
