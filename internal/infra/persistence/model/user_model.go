// Package model contains the GORM persistence models mirroring the
// database schema. Domain entities never carry GORM tags; the postgres
// package maps between the two.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GUID          string    `gorm:"type:varchar(45);unique;not null"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	Username      string    `gorm:"type:varchar(50);unique;not null"`
	DisplayName   string    `gorm:"type:varchar(255)"`
	Language      string    `gorm:"type:varchar(10)"`
	GroupID       string    `gorm:"type:varchar(50)"`
	Status        string    `gorm:"type:varchar(20);not null;default:'enabled'"`
	SuperAdmin    bool      `gorm:"not null;default:false"`
	RecoveryToken string    `gorm:"type:varchar(255)"` // Encoded token; empty means none outstanding.
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Profile    *ProfileModel    `gorm:"foreignKey:UserID"`
	Credential *CredentialModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ProfileModel mirrors the 'user_profiles' table. UserID references users.id (UUID).
type ProfileModel struct {
	UserID    uuid.UUID `gorm:"primaryKey"`
	FirstName string    `gorm:"type:varchar(50);not null"`
	LastName  string    `gorm:"type:varchar(50);not null"`
	Title     string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "user_profiles"
}

// CredentialModel mirrors the 'user_credentials' table. The password
// hash lives in its own row so user listings never select it.
type CredentialModel struct {
	UserID       uuid.UUID `gorm:"primaryKey"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "user_credentials"
}
