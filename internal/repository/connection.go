package repository

import (
	"context"
	"errors"
	"fmt"

	"crewlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicatePending is returned when the unique pending-pair constraint
// rejects a concurrent insert for the same unordered pair.
var ErrDuplicatePending = errors.New("pending request already exists for pair")

const uniqueViolation = "23505"

// ConnectionRepository handles database operations for connection requests
// and established connections
type ConnectionRepository struct {
	db *pgxpool.Pool
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// CreateRequest inserts a new pending request. The schema enforces at most one
// pending request per unordered pair; a concurrent duplicate insert surfaces
// as ErrDuplicatePending.
func (r *ConnectionRepository) CreateRequest(ctx context.Context, req *models.ConnectionRequest) error {
	query := `
		INSERT INTO connection_requests (id, requester_id, receiver_id, status, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.RequesterID, req.ReceiverID, req.Status,
		req.Message, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicatePending
		}
		return fmt.Errorf("failed to create connection request: %w", err)
	}
	return nil
}

// GetRequestByID retrieves a connection request by ID
func (r *ConnectionRepository) GetRequestByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, message, created_at, updated_at
		FROM connection_requests
		WHERE id = $1
	`
	var req models.ConnectionRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.RequesterID, &req.ReceiverID, &req.Status,
		&req.Message, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("connection request: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get connection request: %w", err)
	}
	return &req, nil
}

// PendingBetween returns the pending request between two users in either
// direction, or nil if none exists.
func (r *ConnectionRepository) PendingBetween(ctx context.Context, userA, userB string) (*models.ConnectionRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, message, created_at, updated_at
		FROM connection_requests
		WHERE status = $1
		  AND ((requester_id = $2 AND receiver_id = $3) OR (requester_id = $3 AND receiver_id = $2))
	`
	var req models.ConnectionRequest
	err := r.db.QueryRow(ctx, query, models.RequestPending, userA, userB).Scan(
		&req.ID, &req.RequesterID, &req.ReceiverID, &req.Status,
		&req.Message, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending request: %w", err)
	}
	return &req, nil
}

// UpdateRequestStatus moves a pending request to a terminal status. Returns
// false if the request was not pending anymore.
func (r *ConnectionRepository) UpdateRequestStatus(ctx context.Context, id string, status models.RequestStatus) (bool, error) {
	query := `
		UPDATE connection_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.Exec(ctx, query, status, id, models.RequestPending)
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// PromoteRequest marks a pending request accepted and creates the connection
// in a single transaction. Returns false if the request was not pending.
func (r *ConnectionRepository) PromoteRequest(ctx context.Context, requestID string, conn *models.Connection) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE connection_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.RequestAccepted, requestID, models.RequestPending)
	if err != nil {
		return false, fmt.Errorf("failed to accept request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO connections (id, user_id, connected_user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, conn.ID, conn.UserID, conn.ConnectedUserID, conn.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create connection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// ConnectionBetween returns the connection between two users, or nil.
func (r *ConnectionRepository) ConnectionBetween(ctx context.Context, userA, userB string) (*models.Connection, error) {
	query := `
		SELECT id, user_id, connected_user_id, created_at
		FROM connections
		WHERE (user_id = $1 AND connected_user_id = $2) OR (user_id = $2 AND connected_user_id = $1)
	`
	var conn models.Connection
	err := r.db.QueryRow(ctx, query, userA, userB).Scan(
		&conn.ID, &conn.UserID, &conn.ConnectedUserID, &conn.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &conn, nil
}

// DeleteConnection removes the connection between two users. Returns false if
// no connection existed.
func (r *ConnectionRepository) DeleteConnection(ctx context.Context, userA, userB string) (bool, error) {
	query := `
		DELETE FROM connections
		WHERE (user_id = $1 AND connected_user_id = $2) OR (user_id = $2 AND connected_user_id = $1)
	`
	result, err := r.db.Exec(ctx, query, userA, userB)
	if err != nil {
		return false, fmt.Errorf("failed to delete connection: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ListConnectionsByUser retrieves all connections for a user, newest first
func (r *ConnectionRepository) ListConnectionsByUser(ctx context.Context, userID string) ([]*models.Connection, error) {
	query := `
		SELECT id, user_id, connected_user_id, created_at
		FROM connections
		WHERE user_id = $1 OR connected_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var conns []*models.Connection
	for rows.Next() {
		var conn models.Connection
		if err := rows.Scan(&conn.ID, &conn.UserID, &conn.ConnectedUserID, &conn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		conns = append(conns, &conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}
	return conns, nil
}

// ListPendingByReceiver retrieves pending requests addressed to a user
func (r *ConnectionRepository) ListPendingByReceiver(ctx context.Context, userID string) ([]*models.ConnectionRequest, error) {
	return r.listPending(ctx, `receiver_id`, userID)
}

// ListPendingByRequester retrieves pending requests sent by a user
func (r *ConnectionRepository) ListPendingByRequester(ctx context.Context, userID string) ([]*models.ConnectionRequest, error) {
	return r.listPending(ctx, `requester_id`, userID)
}

func (r *ConnectionRepository) listPending(ctx context.Context, column, userID string) ([]*models.ConnectionRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, message, created_at, updated_at
		FROM connection_requests
		WHERE ` + column + ` = $1 AND status = $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.ConnectionRequest
	for rows.Next() {
		var req models.ConnectionRequest
		err := rows.Scan(
			&req.ID, &req.RequesterID, &req.ReceiverID, &req.Status,
			&req.Message, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending request: %w", err)
		}
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending requests: %w", err)
	}
	return reqs, nil
}
