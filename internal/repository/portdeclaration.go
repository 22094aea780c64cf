package repository

import (
	"context"
	"fmt"

	"crewlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PortDeclarationRepository handles database operations for port declarations
type PortDeclarationRepository struct {
	db *pgxpool.Pool
}

// NewPortDeclarationRepository creates a new port declaration repository
func NewPortDeclarationRepository(db *pgxpool.Pool) *PortDeclarationRepository {
	return &PortDeclarationRepository{db: db}
}

// Create creates a new port declaration
func (r *PortDeclarationRepository) Create(ctx context.Context, decl *models.PortDeclaration) error {
	query := `
		INSERT INTO port_declarations (id, user_id, ship_id, port_name, docked_with_ship_id, date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		decl.ID, decl.UserID, decl.ShipID, decl.PortName,
		decl.DockedWithShipID, decl.Date, decl.Status, decl.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create port declaration: %w", err)
	}
	return nil
}

// GetByID retrieves a port declaration by ID
func (r *PortDeclarationRepository) GetByID(ctx context.Context, id string) (*models.PortDeclaration, error) {
	query := `
		SELECT id, user_id, ship_id, port_name, docked_with_ship_id, date, status, created_at
		FROM port_declarations
		WHERE id = $1
	`
	var decl models.PortDeclaration
	err := r.db.QueryRow(ctx, query, id).Scan(
		&decl.ID, &decl.UserID, &decl.ShipID, &decl.PortName,
		&decl.DockedWithShipID, &decl.Date, &decl.Status, &decl.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("port declaration: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get port declaration: %w", err)
	}
	return &decl, nil
}

// LinkedShipIDs returns the distinct ships a ship has active declarations
// pointing at for a date. The link is one-directional.
func (r *PortDeclarationRepository) LinkedShipIDs(ctx context.Context, shipID string, date models.Date) ([]string, error) {
	query := `
		SELECT DISTINCT docked_with_ship_id
		FROM port_declarations
		WHERE ship_id = $1 AND date = $2 AND status = $3
	`
	rows, err := r.db.Query(ctx, query, shipID, date, models.DeclarationActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked ships: %w", err)
	}
	defer rows.Close()

	var shipIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan linked ship: %w", err)
		}
		shipIDs = append(shipIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating linked ships: %w", err)
	}
	return shipIDs, nil
}

// ListActiveByShip retrieves a ship's active declarations for a date
func (r *PortDeclarationRepository) ListActiveByShip(ctx context.Context, shipID string, date models.Date) ([]*models.PortDeclaration, error) {
	query := `
		SELECT id, user_id, ship_id, port_name, docked_with_ship_id, date, status, created_at
		FROM port_declarations
		WHERE ship_id = $1 AND date = $2 AND status = $3
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, shipID, date, models.DeclarationActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list port declarations: %w", err)
	}
	defer rows.Close()
	return collectDeclarations(rows)
}

// ListActiveByShips retrieves active declarations for a date made from any of
// the given ships in any of the given ports.
func (r *PortDeclarationRepository) ListActiveByShips(ctx context.Context, shipIDs, portNames []string, date models.Date) ([]*models.PortDeclaration, error) {
	if len(shipIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, user_id, ship_id, port_name, docked_with_ship_id, date, status, created_at
		FROM port_declarations
		WHERE ship_id = ANY($1) AND port_name = ANY($2) AND date = $3 AND status = $4
	`
	rows, err := r.db.Query(ctx, query, shipIDs, portNames, date, models.DeclarationActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list port declarations: %w", err)
	}
	defer rows.Close()
	return collectDeclarations(rows)
}

func collectDeclarations(rows pgx.Rows) ([]*models.PortDeclaration, error) {
	var decls []*models.PortDeclaration
	for rows.Next() {
		var decl models.PortDeclaration
		err := rows.Scan(
			&decl.ID, &decl.UserID, &decl.ShipID, &decl.PortName,
			&decl.DockedWithShipID, &decl.Date, &decl.Status, &decl.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan port declaration: %w", err)
		}
		decls = append(decls, &decl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating port declarations: %w", err)
	}
	return decls, nil
}

// SetExpired marks a declaration expired. No-op if already expired.
func (r *PortDeclarationRepository) SetExpired(ctx context.Context, id string) error {
	query := `UPDATE port_declarations SET status = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, models.DeclarationExpired, id)
	if err != nil {
		return fmt.Errorf("failed to expire port declaration: %w", err)
	}
	return nil
}
