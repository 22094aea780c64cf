package services

import (
	"context"
	"fmt"
	"sync"

	"crewlink-backend/internal/models"
	"crewlink-backend/internal/repository"
)

// In-memory stores standing in for the pgx repositories.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.CrewMember
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.CrewMember)}
}

func (s *memUserStore) add(member *models.CrewMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[member.ID] = member
}

func (s *memUserStore) Create(ctx context.Context, member *models.CrewMember) error {
	s.add(member)
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id string) (*models.CrewMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("crew member: %w", repository.ErrNotFound)
	}
	return member, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*models.CrewMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, member := range s.users {
		if member.Email == email {
			return member, nil
		}
	}
	return nil, fmt.Errorf("crew member: %w", repository.ErrNotFound)
}

func (s *memUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *memUserStore) GetByIDs(ctx context.Context, ids []string) ([]*models.CrewMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []*models.CrewMember
	for _, id := range ids {
		if member, ok := s.users[id]; ok && member.Active {
			members = append(members, member)
		}
	}
	return members, nil
}

func (s *memUserStore) ListByShip(ctx context.Context, shipID string) ([]*models.CrewMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []*models.CrewMember
	for _, member := range s.users {
		if member.CurrentShipID == shipID && member.Active {
			members = append(members, member)
		}
	}
	return members, nil
}

func (s *memUserStore) UpdateProfile(ctx context.Context, member *models.CrewMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[member.ID]; !ok {
		return fmt.Errorf("crew member: %w", repository.ErrNotFound)
	}
	s.users[member.ID] = member
	return nil
}

func (s *memUserStore) ConfirmShip(ctx context.Context, userID, shipID string, date models.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("crew member: %w", repository.ErrNotFound)
	}
	member.CurrentShipID = shipID
	confirmed := date
	member.LastConfirmedDate = &confirmed
	return nil
}

func (s *memUserStore) Deactivate(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("crew member: %w", repository.ErrNotFound)
	}
	member.Active = false
	return nil
}

type memAssignmentStore struct {
	mu          sync.Mutex
	assignments map[string]*models.CruiseAssignment
}

func newMemAssignmentStore() *memAssignmentStore {
	return &memAssignmentStore{assignments: make(map[string]*models.CruiseAssignment)}
}

func (s *memAssignmentStore) Create(ctx context.Context, a *models.CruiseAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID] = a
	return nil
}

func (s *memAssignmentStore) GetByID(ctx context.Context, id string) (*models.CruiseAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment: %w", repository.ErrNotFound)
	}
	return a, nil
}

func (s *memAssignmentStore) ListByUser(ctx context.Context, userID string) ([]*models.CruiseAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.CruiseAssignment
	for _, a := range s.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAssignmentStore) Update(ctx context.Context, a *models.CruiseAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[a.ID]; !ok {
		return fmt.Errorf("assignment: %w", repository.ErrNotFound)
	}
	s.assignments[a.ID] = a
	return nil
}

func (s *memAssignmentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return fmt.Errorf("assignment: %w", repository.ErrNotFound)
	}
	delete(s.assignments, id)
	return nil
}

type memDeclarationStore struct {
	mu    sync.Mutex
	decls map[string]*models.PortDeclaration
}

func newMemDeclarationStore() *memDeclarationStore {
	return &memDeclarationStore{decls: make(map[string]*models.PortDeclaration)}
}

func (s *memDeclarationStore) Create(ctx context.Context, decl *models.PortDeclaration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decls[decl.ID] = decl
	return nil
}

func (s *memDeclarationStore) GetByID(ctx context.Context, id string) (*models.PortDeclaration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	decl, ok := s.decls[id]
	if !ok {
		return nil, fmt.Errorf("port declaration: %w", repository.ErrNotFound)
	}
	return decl, nil
}

func (s *memDeclarationStore) LinkedShipIDs(ctx context.Context, shipID string, date models.Date) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, decl := range s.decls {
		if decl.ShipID != shipID || !decl.Date.Equal(date) || decl.Status != models.DeclarationActive {
			continue
		}
		if _, ok := seen[decl.DockedWithShipID]; ok {
			continue
		}
		seen[decl.DockedWithShipID] = struct{}{}
		out = append(out, decl.DockedWithShipID)
	}
	return out, nil
}

func (s *memDeclarationStore) ListActiveByShip(ctx context.Context, shipID string, date models.Date) ([]*models.PortDeclaration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PortDeclaration
	for _, decl := range s.decls {
		if decl.ShipID == shipID && decl.Date.Equal(date) && decl.Status == models.DeclarationActive {
			out = append(out, decl)
		}
	}
	return out, nil
}

func (s *memDeclarationStore) ListActiveByShips(ctx context.Context, shipIDs, portNames []string, date models.Date) ([]*models.PortDeclaration, error) {
	ships := make(map[string]struct{}, len(shipIDs))
	for _, id := range shipIDs {
		ships[id] = struct{}{}
	}
	ports := make(map[string]struct{}, len(portNames))
	for _, port := range portNames {
		ports[port] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PortDeclaration
	for _, decl := range s.decls {
		if decl.Status != models.DeclarationActive || !decl.Date.Equal(date) {
			continue
		}
		if _, ok := ships[decl.ShipID]; !ok {
			continue
		}
		if _, ok := ports[decl.PortName]; !ok {
			continue
		}
		out = append(out, decl)
	}
	return out, nil
}

func (s *memDeclarationStore) SetExpired(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if decl, ok := s.decls[id]; ok {
		decl.Status = models.DeclarationExpired
	}
	return nil
}

type memCheckInStore struct {
	mu       sync.Mutex
	checkIns map[string]*models.ShipCheckIn // keyed by userID + date
}

func newMemCheckInStore() *memCheckInStore {
	return &memCheckInStore{checkIns: make(map[string]*models.ShipCheckIn)}
}

func (s *memCheckInStore) Upsert(ctx context.Context, checkIn *models.ShipCheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkIns[checkIn.UserID+":"+checkIn.Date.String()] = checkIn
	return nil
}

// memConnectionStore emulates the pending-pair unique constraint the schema
// provides, so the duplicate-send race is exercised the way the database
// would behave.
type memConnectionStore struct {
	mu       sync.Mutex
	requests map[string]*models.ConnectionRequest
	conns    map[string]*models.Connection // keyed by normalized pair
}

func newMemConnectionStore() *memConnectionStore {
	return &memConnectionStore{
		requests: make(map[string]*models.ConnectionRequest),
		conns:    make(map[string]*models.Connection),
	}
}

func (s *memConnectionStore) CreateRequest(ctx context.Context, req *models.ConnectionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.Status != models.RequestPending {
			continue
		}
		if pairKey(existing.RequesterID, existing.ReceiverID) == pairKey(req.RequesterID, req.ReceiverID) {
			return repository.ErrDuplicatePending
		}
	}
	s.requests[req.ID] = req
	return nil
}

func (s *memConnectionStore) GetRequestByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("connection request: %w", repository.ErrNotFound)
	}
	return req, nil
}

func (s *memConnectionStore) PendingBetween(ctx context.Context, userA, userB string) (*models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(userA, userB)
	for _, req := range s.requests {
		if req.Status == models.RequestPending && pairKey(req.RequesterID, req.ReceiverID) == key {
			return req, nil
		}
	}
	return nil, nil
}

func (s *memConnectionStore) UpdateRequestStatus(ctx context.Context, id string, status models.RequestStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok || req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = status
	return true, nil
}

func (s *memConnectionStore) PromoteRequest(ctx context.Context, requestID string, conn *models.Connection) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = models.RequestAccepted
	s.conns[pairKey(conn.UserID, conn.ConnectedUserID)] = conn
	return true, nil
}

func (s *memConnectionStore) ConnectionBetween(ctx context.Context, userA, userB string) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn, ok := s.conns[pairKey(userA, userB)]; ok {
		return conn, nil
	}
	return nil, nil
}

func (s *memConnectionStore) DeleteConnection(ctx context.Context, userA, userB string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(userA, userB)
	if _, ok := s.conns[key]; !ok {
		return false, nil
	}
	delete(s.conns, key)
	return true, nil
}

func (s *memConnectionStore) ListConnectionsByUser(ctx context.Context, userID string) ([]*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Connection
	for _, conn := range s.conns {
		if conn.UserID == userID || conn.ConnectedUserID == userID {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (s *memConnectionStore) ListPendingByReceiver(ctx context.Context, userID string) ([]*models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ConnectionRequest
	for _, req := range s.requests {
		if req.ReceiverID == userID && req.Status == models.RequestPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *memConnectionStore) ListPendingByRequester(ctx context.Context, userID string) ([]*models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ConnectionRequest
	for _, req := range s.requests {
		if req.RequesterID == userID && req.Status == models.RequestPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *memConnectionStore) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, req := range s.requests {
		if req.Status == models.RequestPending {
			count++
		}
	}
	return count
}
