package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminInvite lets a super admin invite a new admin. Only the SHA-256 hash
// of the invite token is stored; the raw token is returned once at issue time.
type AdminInvite struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"not null;size:255;index" json:"email"`
	TokenHash string     `gorm:"uniqueIndex;not null;size:64" json:"-"`
	InvitedBy uuid.UUID  `gorm:"type:uuid;not null" json:"invited_by"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	IsUsed    bool       `gorm:"default:false;not null" json:"is_used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
