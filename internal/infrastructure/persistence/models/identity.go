package models

import (
	"time"

	"github.com/rentledger/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity
type UserModel struct {
	AggregateModel
	Email            string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	FullName         string              `gorm:"type:varchar(200);not null"`
	Phone            string              `gorm:"type:varchar(50)"`
	PasswordHash     string              `gorm:"type:varchar(255);not null"`
	Role             identity.Role       `gorm:"type:varchar(20);not null;index"`
	Status           identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IDNumber         string              `gorm:"type:varchar(50)"`
	EmergencyContact string              `gorm:"type:varchar(200)"`
	LastLoginAt      *time.Time          `gorm:"index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Email:            m.Email,
		FullName:         m.FullName,
		Phone:            m.Phone,
		PasswordHash:     m.PasswordHash,
		Role:             m.Role,
		Status:           m.Status,
		IDNumber:         m.IDNumber,
		EmergencyContact: m.EmergencyContact,
		LastLoginAt:      m.LastLoginAt,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.FullName = u.FullName
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.IDNumber = u.IDNumber
	m.EmergencyContact = u.EmergencyContact
	m.LastLoginAt = u.LastLoginAt
}
