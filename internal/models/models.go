package models

import "time"

// AssignmentStatus is the lifecycle state of a cruise assignment.
type AssignmentStatus string

const (
	AssignmentUpcoming  AssignmentStatus = "upcoming"
	AssignmentCurrent   AssignmentStatus = "current"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// DeclarationStatus is the state of a port declaration.
type DeclarationStatus string

const (
	DeclarationActive  DeclarationStatus = "active"
	DeclarationExpired DeclarationStatus = "expired"
)

// RequestStatus is the state of a connection request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestDeclined  RequestStatus = "declined"
	RequestWithdrawn RequestStatus = "withdrawn"
)

// CrewMember represents a registered crew member. Members are never deleted,
// only deactivated.
type CrewMember struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	DisplayName        string    `json:"display_name"`
	CurrentShipID      string    `json:"current_ship_id,omitempty"`
	CruiseLineID       string    `json:"cruise_line_id,omitempty"`
	DepartmentID       string    `json:"department_id,omitempty"`
	RoleID             string    `json:"role_id,omitempty"`
	PhotoURL           string    `json:"photo_url,omitempty"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	LastConfirmedDate  *Date     `json:"last_confirmed_date,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

// CruiseAssignment is a crew member's contract on a ship over an inclusive
// date range. Status is derived from the dates unless explicitly cancelled;
// cancellation is authoritative and never overridden.
type CruiseAssignment struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	CruiseLineID string           `json:"cruise_line_id"`
	ShipID       string           `json:"ship_id"`
	StartDate    Date             `json:"start_date"`
	EndDate      Date             `json:"end_date"`
	Status       AssignmentStatus `json:"status"`
	Description  *string          `json:"description,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// PortDeclaration is a crew member's assertion that their ship is docked with
// another ship in a named port on a single calendar date.
type PortDeclaration struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	ShipID           string            `json:"ship_id"`
	PortName         string            `json:"port_name"`
	DockedWithShipID string            `json:"docked_with_ship_id"`
	Date             Date              `json:"date"`
	Status           DeclarationStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ConnectionRequest is a pending or resolved request between two crew members.
// At most one pending request exists per unordered pair at a time.
type ConnectionRequest struct {
	ID          string        `json:"id"`
	RequesterID string        `json:"requester_id"`
	ReceiverID  string        `json:"receiver_id"`
	Status      RequestStatus `json:"status"`
	Message     *string       `json:"message,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Connection is an established relationship between two crew members, stored
// once per pair with UserID < ConnectedUserID and queryable from either side.
type Connection struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ConnectedUserID string    `json:"connected_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShipCheckIn records a crew member confirming their ship for a calendar day.
type ShipCheckIn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ShipID    string    `json:"ship_id"`
	Date      Date      `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfilePhoto is a crew member's profile photo stored in S3.
type ProfilePhoto struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	S3URL     string    `json:"s3_url"`
	CreatedAt time.Time `json:"created_at"`
}
