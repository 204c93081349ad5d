package models

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/identity"
)

// UserModel is the persistence model for staff accounts.
type UserModel struct {
	RootRow
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex:uq_users_username"`
	Email        string        `gorm:"type:varchar(255);not null;default:''"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	DisplayName  string        `gorm:"type:varchar(200);not null;default:''"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	Active       bool          `gorm:"not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		Role:         m.Role,
		Active:       m.Active,
		LastLoginAt:  m.LastLoginAt,
	}
	m.loadRoot(&u.TenantAggregateRoot)
	return u
}

// FromDomain populates the model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.storeRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.Active = u.Active
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
