package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"crewlink-backend/internal/models"
	"crewlink-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PairStatus is the derived relationship state between two users, used by
// presentation to decide which actions are valid.
type PairStatus string

const (
	PairNone            PairStatus = "none"
	PairPendingSent     PairStatus = "pending_sent"
	PairPendingReceived PairStatus = "pending_received"
	PairConnected       PairStatus = "connected"
)

// connectionStore is the persistence surface the connection service needs.
// *repository.ConnectionRepository satisfies it.
type connectionStore interface {
	CreateRequest(ctx context.Context, req *models.ConnectionRequest) error
	GetRequestByID(ctx context.Context, id string) (*models.ConnectionRequest, error)
	PendingBetween(ctx context.Context, userA, userB string) (*models.ConnectionRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status models.RequestStatus) (bool, error)
	PromoteRequest(ctx context.Context, requestID string, conn *models.Connection) (bool, error)
	ConnectionBetween(ctx context.Context, userA, userB string) (*models.Connection, error)
	DeleteConnection(ctx context.Context, userA, userB string) (bool, error)
	ListConnectionsByUser(ctx context.Context, userID string) ([]*models.Connection, error)
	ListPendingByReceiver(ctx context.Context, userID string) ([]*models.ConnectionRequest, error)
	ListPendingByRequester(ctx context.Context, userID string) ([]*models.ConnectionRequest, error)
}

// pairLockStripes bounds the memory spent on pair serialization. Distinct
// pairs may share a stripe, which only costs contention, never correctness.
const pairLockStripes = 64

// ConnectionService manages the request/accept/decline/connect lifecycle.
// Every pair-state transition is serialized per unordered pair so two devices
// racing each other cannot leave a pending request next to an established
// connection; the store's unique constraint is the backstop.
type ConnectionService struct {
	connections connectionStore

	pairLocks [pairLockStripes]sync.Mutex
}

// NewConnectionService creates a new connection service
func NewConnectionService(connections connectionStore) *ConnectionService {
	return &ConnectionService{connections: connections}
}

// pairKey normalizes an unordered pair to a stable key, smaller ID first.
func pairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

func (s *ConnectionService) lockPair(userA, userB string) func() {
	h := fnv.New32a()
	h.Write([]byte(pairKey(userA, userB)))
	lock := &s.pairLocks[h.Sum32()%pairLockStripes]
	lock.Lock()
	return lock.Unlock
}

// Send creates a pending request from requester to receiver. Preconditions
// are checked in order against fresh store state: self-target, existing
// connection, pending request in either direction.
func (s *ConnectionService) Send(ctx context.Context, requesterID, receiverID string, message *string) (*models.ConnectionRequest, error) {
	if requesterID == receiverID {
		return nil, ErrInvalidTarget
	}

	unlock := s.lockPair(requesterID, receiverID)
	defer unlock()

	conn, err := s.connections.ConnectionBetween(ctx, requesterID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}
	if conn != nil {
		return nil, ErrAlreadyConnected
	}

	pending, err := s.connections.PendingBetween(ctx, requesterID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}
	if pending != nil {
		return nil, ErrRequestAlreadyPending
	}

	now := time.Now()
	req := &models.ConnectionRequest{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.RequestPending,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.connections.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicatePending) {
			return nil, ErrRequestAlreadyPending
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Info().
		Str("requester_id", requesterID).
		Str("receiver_id", receiverID).
		Str("request_id", req.ID).
		Msg("Connection request sent")

	return req, nil
}

// Accept promotes a pending request into a connection. Only the receiver may
// accept, and only while the request is pending. Holds the pair lock so an
// accept cannot interleave with a concurrent Send's precondition checks.
func (s *ConnectionService) Accept(ctx context.Context, requestID, actingUserID string) (*models.Connection, error) {
	req, err := s.connections.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, lookupErr(err, "request")
	}
	if req.ReceiverID != actingUserID {
		return nil, ErrNotAuthorized
	}

	unlock := s.lockPair(req.RequesterID, req.ReceiverID)
	defer unlock()

	if req.Status != models.RequestPending {
		return nil, ErrInvalidState
	}

	userA, userB := req.RequesterID, req.ReceiverID
	if userA > userB {
		userA, userB = userB, userA
	}
	conn := &models.Connection{
		ID:              uuid.New().String(),
		UserID:          userA,
		ConnectedUserID: userB,
		CreatedAt:       time.Now(),
	}

	ok, err := s.connections.PromoteRequest(ctx, requestID, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to accept request: %w", err)
	}
	if !ok {
		return nil, ErrInvalidState
	}

	log.Info().
		Str("request_id", requestID).
		Str("connection_id", conn.ID).
		Msg("Connection request accepted")

	return conn, nil
}

// Decline marks a pending request declined. Receiver only. The pair may
// request each other again later.
func (s *ConnectionService) Decline(ctx context.Context, requestID, actingUserID string) error {
	return s.resolve(ctx, requestID, actingUserID, models.RequestDeclined, false)
}

// Withdraw marks a pending request withdrawn. Requester only.
func (s *ConnectionService) Withdraw(ctx context.Context, requestID, actingUserID string) error {
	return s.resolve(ctx, requestID, actingUserID, models.RequestWithdrawn, true)
}

func (s *ConnectionService) resolve(ctx context.Context, requestID, actingUserID string, status models.RequestStatus, byRequester bool) error {
	req, err := s.connections.GetRequestByID(ctx, requestID)
	if err != nil {
		return lookupErr(err, "request")
	}
	actor := req.ReceiverID
	if byRequester {
		actor = req.RequesterID
	}
	if actor != actingUserID {
		return ErrNotAuthorized
	}

	unlock := s.lockPair(req.RequesterID, req.ReceiverID)
	defer unlock()

	if req.Status != models.RequestPending {
		return ErrInvalidState
	}

	ok, err := s.connections.UpdateRequestStatus(ctx, requestID, status)
	if err != nil {
		return fmt.Errorf("failed to resolve request: %w", err)
	}
	if !ok {
		return ErrInvalidState
	}
	return nil
}

// StatusBetween derives the relationship state between two users. A pair is
// never both pending and connected; the connection check wins.
func (s *ConnectionService) StatusBetween(ctx context.Context, userID, otherID string) (PairStatus, error) {
	if userID == otherID {
		return PairNone, nil
	}

	conn, err := s.connections.ConnectionBetween(ctx, userID, otherID)
	if err != nil {
		return PairNone, fmt.Errorf("failed to check connection: %w", err)
	}
	if conn != nil {
		return PairConnected, nil
	}

	pending, err := s.connections.PendingBetween(ctx, userID, otherID)
	if err != nil {
		return PairNone, fmt.Errorf("failed to check pending request: %w", err)
	}
	if pending == nil {
		return PairNone, nil
	}
	if pending.RequesterID == userID {
		return PairPendingSent, nil
	}
	return PairPendingReceived, nil
}

// Disconnect removes the connection between two users. Either party may
// disconnect, after which a fresh request can be sent.
func (s *ConnectionService) Disconnect(ctx context.Context, userID, otherID string) error {
	if userID == otherID {
		return ErrInvalidTarget
	}

	unlock := s.lockPair(userID, otherID)
	defer unlock()

	ok, err := s.connections.DeleteConnection(ctx, userID, otherID)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	log.Info().
		Str("user_id", userID).
		Str("other_id", otherID).
		Msg("Connection removed")

	return nil
}

// ListConnections returns a user's established connections
func (s *ConnectionService) ListConnections(ctx context.Context, userID string) ([]*models.Connection, error) {
	return s.connections.ListConnectionsByUser(ctx, userID)
}

// ListIncoming returns pending requests addressed to a user
func (s *ConnectionService) ListIncoming(ctx context.Context, userID string) ([]*models.ConnectionRequest, error) {
	return s.connections.ListPendingByReceiver(ctx, userID)
}

// ListOutgoing returns pending requests sent by a user
func (s *ConnectionService) ListOutgoing(ctx context.Context, userID string) ([]*models.ConnectionRequest, error) {
	return s.connections.ListPendingByRequester(ctx, userID)
}
