// Package seed populates a development database with plausible crew data.
// Never wired in production configs.
package seed

import (
	"context"
	"fmt"
	"time"

	"crewlink-backend/internal/models"
	"crewlink-backend/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var ships = []string{"harmony", "symphony", "oasis", "allure", "wonder"}

var departments = []string{"housekeeping", "food-beverage", "entertainment", "deck", "engine", "guest-services"}

// Run inserts fake crew members, assignments and a docking between the first
// two ships for today. Safe to re-run; duplicate emails are skipped.
func Run(ctx context.Context, users *repository.UserRepository, assignments *repository.AssignmentRepository, declarations *repository.PortDeclarationRepository) error {
	gofakeit.Seed(0)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	today := models.DateOf(time.Now())
	var seeded int

	for i := 0; i < 20; i++ {
		email := gofakeit.Email()
		exists, err := users.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		shipID := ships[i%len(ships)]
		confirmed := today
		member := &models.CrewMember{
			ID:                 uuid.New().String(),
			Email:              email,
			PasswordHash:       string(hash),
			DisplayName:        gofakeit.Name(),
			CurrentShipID:      shipID,
			CruiseLineID:       "royal",
			DepartmentID:       departments[i%len(departments)],
			RoleID:             gofakeit.JobTitle(),
			OnboardingComplete: true,
			LastConfirmedDate:  &confirmed,
			Active:             true,
			CreatedAt:          time.Now(),
		}
		if err := users.Create(ctx, member); err != nil {
			return err
		}

		assignment := &models.CruiseAssignment{
			ID:           uuid.New().String(),
			UserID:       member.ID,
			CruiseLineID: "royal",
			ShipID:       shipID,
			StartDate:    today.AddDays(-gofakeit.Number(10, 90)),
			EndDate:      today.AddDays(gofakeit.Number(10, 120)),
			Status:       models.AssignmentCurrent,
			CreatedAt:    time.Now(),
		}
		if err := assignments.Create(ctx, assignment); err != nil {
			return err
		}

		// First two ships are docked together today so visibility has
		// something to show out of the box.
		if shipID == ships[0] || shipID == ships[1] {
			other := ships[0]
			if shipID == ships[0] {
				other = ships[1]
			}
			decl := &models.PortDeclaration{
				ID:               uuid.New().String(),
				UserID:           member.ID,
				ShipID:           shipID,
				PortName:         "Miami, FL",
				DockedWithShipID: other,
				Date:             today,
				Status:           models.DeclarationActive,
				CreatedAt:        time.Now(),
			}
			if err := declarations.Create(ctx, decl); err != nil {
				return err
			}
		}
		seeded++
	}

	log.Info().Int("count", seeded).Msg("Seeded dev crew members")
	return nil
}
