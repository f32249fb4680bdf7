package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// RoleRepository backs the roles_table policy: a user_roles table written
// by staff tooling, one row per user.
type RoleRepository interface {
	FindRoleByUserID(ctx context.Context, userID string) (string, error)
}

type roleRepo struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) RoleRepository {
	return &roleRepo{db: db}
}

// FindRoleByUserID returns the stored role name, or "" when no row exists.
func (r *roleRepo) FindRoleByUserID(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.db.GetContext(ctx, &role, `
		SELECT role FROM user_roles WHERE user_id = $1
	`, userID)
	result, err := HandleNotFound(&role, err)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return *result, nil
}
