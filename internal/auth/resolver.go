// Package auth owns credentials, sessions, and role derivation for both
// portal variants.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/config"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
)

// RoleResolver derives the role for a user from backend state only, never
// from prior in-memory state, so a re-login can't observe a stale role.
// Exactly one concrete strategy is active per deployment.
type RoleResolver interface {
	Resolve(ctx context.Context, user *model.User) (model.Role, error)
}

// NewResolver selects the strategy configured by ROLE_POLICY.
func NewResolver(cfg *config.Config, roles repository.RoleRepository, clients repository.ClientRepository) (RoleResolver, error) {
	switch cfg.RolePolicy() {
	case config.RolePolicyAllowlist:
		return NewAllowlistResolver(cfg.AdminEmailList()), nil
	case config.RolePolicyRolesTable:
		return NewRoleTableResolver(roles), nil
	case config.RolePolicyClientLink:
		return NewClientLinkResolver(cfg.AdminEmailList(), clients), nil
	default:
		return nil, fmt.Errorf("unknown role policy %q", cfg.RolePolicyName)
	}
}

// AllowlistResolver is the admin-only portal policy: a fixed set of
// addresses are admins, everyone else has no role.
type AllowlistResolver struct {
	admins map[string]bool
}

func NewAllowlistResolver(emails []string) *AllowlistResolver {
	admins := make(map[string]bool, len(emails))
	for _, e := range emails {
		admins[strings.ToLower(e)] = true
	}
	return &AllowlistResolver{admins: admins}
}

func (r *AllowlistResolver) Resolve(_ context.Context, user *model.User) (model.Role, error) {
	if r.admins[strings.ToLower(user.Email)] {
		return model.RoleAdmin, nil
	}
	return model.RoleNone, nil
}

// Allows reports whether an email could ever authenticate under this
// policy. Used for the fail-fast check before any backend call.
func (r *AllowlistResolver) Allows(email string) bool {
	return r.admins[strings.ToLower(email)]
}

// RoleTableResolver reads the role from a server-maintained user_roles
// table.
type RoleTableResolver struct {
	roles repository.RoleRepository
}

func NewRoleTableResolver(roles repository.RoleRepository) *RoleTableResolver {
	return &RoleTableResolver{roles: roles}
}

func (r *RoleTableResolver) Resolve(ctx context.Context, user *model.User) (model.Role, error) {
	name, err := r.roles.FindRoleByUserID(ctx, user.ID)
	if err != nil {
		return model.RoleNone, fmt.Errorf("role lookup: %w", err)
	}

	role := model.Role(name)
	if name == "" || !role.Valid() {
		return model.RoleNone, nil
	}
	return role, nil
}

// ClientLinkResolver is the default policy: allow-listed emails are
// admins; a user linked from the clients table is a client; anyone else
// has no role. A client row can exist before its user registers, so the
// link direction is clients.user_id -> user.
type ClientLinkResolver struct {
	admins  map[string]bool
	clients repository.ClientRepository
}

func NewClientLinkResolver(adminEmails []string, clients repository.ClientRepository) *ClientLinkResolver {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(e)] = true
	}
	return &ClientLinkResolver{admins: admins, clients: clients}
}

func (r *ClientLinkResolver) Resolve(ctx context.Context, user *model.User) (model.Role, error) {
	if r.admins[strings.ToLower(user.Email)] {
		return model.RoleAdmin, nil
	}

	client, err := r.clients.FindByUserID(ctx, user.ID)
	if err != nil {
		return model.RoleNone, fmt.Errorf("client link lookup: %w", err)
	}
	if client != nil {
		return model.RoleClient, nil
	}
	return model.RoleNone, nil
}
