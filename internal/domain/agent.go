package domain

import "time"

// Agent is a registered autonomous client of the bank. Names are
// unique case-insensitively. Agents are never hard-deleted; IsActive
// is flipped off instead.
type Agent struct {
	ID                   string
	Name                 string
	Description          *string
	APIKeyHash           string
	ClaimToken           *string
	VerificationCodeHash *string
	IsClaimed            bool
	IsActive             bool
	OwnerHandle          *string
	CreatedAt            time.Time
	ClaimedAt            *time.Time
	LastActive           time.Time
}
