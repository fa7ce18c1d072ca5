package model

import (
	"time"
)

type AdminUser struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// AdminIdentity is the request-scoped view of an authenticated administrator.
// It is constructed by credential verification or token validation and never
// persisted.
type AdminIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *AdminUser) Identity() AdminIdentity {
	return AdminIdentity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
