package services

import (
	"context"
	"testing"
	"time"

	"crewlink-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignment(start, end models.Date) *models.CruiseAssignment {
	return &models.CruiseAssignment{
		ID:        "a1",
		UserID:    "u1",
		ShipID:    "harmony",
		StartDate: start,
		EndDate:   end,
		Status:    models.AssignmentUpcoming,
	}
}

func TestDeriveAssignmentStatus(t *testing.T) {
	today := models.NewDate(2024, time.March, 15)

	tests := []struct {
		name  string
		start models.Date
		end   models.Date
		want  models.AssignmentStatus
	}{
		{"before range", models.NewDate(2024, time.March, 20), models.NewDate(2024, time.April, 20), models.AssignmentUpcoming},
		{"inside range", models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 30), models.AssignmentCurrent},
		{"after range", models.NewDate(2024, time.January, 1), models.NewDate(2024, time.February, 1), models.AssignmentCompleted},
		{"starts today", today, models.NewDate(2024, time.April, 1), models.AssignmentCurrent},
		{"ends today", models.NewDate(2024, time.March, 1), today, models.AssignmentCurrent},
		{"single day today", today, today, models.AssignmentCurrent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveAssignmentStatus(newAssignment(tt.start, tt.end), today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveAssignmentStatus_CancelledIsAuthoritative(t *testing.T) {
	today := models.NewDate(2024, time.March, 15)

	// Cancellation wins no matter where today falls relative to the range.
	ranges := [][2]models.Date{
		{models.NewDate(2024, time.March, 20), models.NewDate(2024, time.April, 20)},
		{models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 30)},
		{models.NewDate(2024, time.January, 1), models.NewDate(2024, time.February, 1)},
	}
	for _, r := range ranges {
		a := newAssignment(r[0], r[1])
		a.Status = models.AssignmentCancelled
		assert.Equal(t, models.AssignmentCancelled, DeriveAssignmentStatus(a, today))
	}
}

func TestDeriveAssignmentStatus_Idempotent(t *testing.T) {
	today := models.NewDate(2024, time.March, 15)
	a := newAssignment(models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 30))

	first := DeriveAssignmentStatus(a, today)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeriveAssignmentStatus(a, today))
	}
}

func TestAssignmentService_Create_RejectsInvertedRange(t *testing.T) {
	svc := NewAssignmentService(newMemAssignmentStore())
	today := models.NewDate(2024, time.March, 15)

	_, err := svc.Create(context.Background(), "u1", CreateAssignmentRequest{
		CruiseLineID: "royal",
		ShipID:       "harmony",
		StartDate:    "2024-05-01",
		EndDate:      "2024-04-01",
	}, today)
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestAssignmentService_Create_DerivesStatus(t *testing.T) {
	svc := NewAssignmentService(newMemAssignmentStore())
	today := models.NewDate(2024, time.March, 15)

	assignment, err := svc.Create(context.Background(), "u1", CreateAssignmentRequest{
		CruiseLineID: "royal",
		ShipID:       "harmony",
		StartDate:    "2024-03-01",
		EndDate:      "2024-04-01",
	}, today)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentCurrent, assignment.Status)
	assert.Equal(t, "u1", assignment.UserID)
}

func TestAssignmentService_Update_OwnerOnly(t *testing.T) {
	store := newMemAssignmentStore()
	svc := NewAssignmentService(store)
	today := models.NewDate(2024, time.March, 15)

	assignment, err := svc.Create(context.Background(), "u1", CreateAssignmentRequest{
		ShipID:    "harmony",
		StartDate: "2024-03-01",
		EndDate:   "2024-04-01",
	}, today)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), assignment.ID, "intruder", CreateAssignmentRequest{
		ShipID:    "oasis",
		StartDate: "2024-03-01",
		EndDate:   "2024-04-01",
	}, today)
	require.ErrorIs(t, err, ErrNotAuthorized)

	err = svc.Delete(context.Background(), assignment.ID, "intruder")
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAssignmentService_CancelSticks(t *testing.T) {
	store := newMemAssignmentStore()
	svc := NewAssignmentService(store)
	today := models.NewDate(2024, time.March, 15)

	assignment, err := svc.Create(context.Background(), "u1", CreateAssignmentRequest{
		ShipID:    "harmony",
		StartDate: "2024-03-01",
		EndDate:   "2024-04-01",
	}, today)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), assignment.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentCancelled, cancelled.Status)

	// Listing re-derives statuses but cancellation survives.
	list, err := svc.ListByUser(context.Background(), "u1", today)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.AssignmentCancelled, list[0].Status)
}
