package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/orderdesk/intake-server-go/internal/model"
)

type AdminUserRepository interface {
	// FindActiveByUsername returns the administrator record for a login
	// attempt, or nil when the username is unknown or deactivated.
	FindActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

type adminUserRepo struct {
	db *sqlx.DB
}

func NewAdminUserRepository(db *sqlx.DB) AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) FindActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM admin_users
		WHERE username = $1 AND is_active = TRUE
	`, username)
	return HandleNotFound(&user, err)
}

func (r *adminUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET last_login = $2 WHERE id = $1
	`, id, time.Now())
	return err
}
