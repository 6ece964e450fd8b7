package model

import (
	"time"

	"github.com/google/uuid"
)

// InviteModel mirrors the 'invites' table. The unique email column
// enforces at most one invite row per address; refreshes overwrite in
// place.
type InviteModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email       string    `gorm:"type:varchar(255);unique;not null"`
	Source      string    `gorm:"type:varchar(20);not null"`
	Language    string    `gorm:"type:varchar(10)"`
	Token       string    `gorm:"type:varchar(255);not null"`
	TokenDigest string    `gorm:"type:char(64);uniqueIndex;not null"` // SHA-256 hex of Token.
	ConsumedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (InviteModel) TableName() string {
	return "invites"
}
