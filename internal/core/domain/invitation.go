package domain

import "time"

// InvitationStatus represents the lifecycle state of a doctor invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRevoked  InvitationStatus = "REVOKED"
)

// DoctorInvitation pre-authorizes an email address to acquire the doctor role
// on its first successful sign-in. At most one invitation exists per email.
type DoctorInvitation struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	InvitedBy string           `json:"invited_by"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Blocks reports whether the invitation denies sign-in outright.
// Only a revoked invitation blocks; pending and accepted both admit.
func (i *DoctorInvitation) Blocks() bool {
	return i != nil && i.Status == InvitationRevoked
}
