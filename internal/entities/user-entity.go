package entities

import (
	"time"

	"maintenance-system/internal/authz"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID           uint64              `json:"id"`
	Email        string              `json:"email"`
	Fio          string              `json:"fio"`
	PasswordHash string              `json:"-"`
	Role         string              `json:"role"`   // admin | viewer | custom
	Status       string              `json:"status"` // active | inactive
	Permissions  authz.PermissionSet `json:"permissions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthSubject — срез пользователя для шлюза доступа.
func (u *User) AuthSubject() *authz.Subject {
	if u == nil {
		return nil
	}
	return &authz.Subject{Role: u.Role, Permissions: u.Permissions}
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}
