package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/config"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

func TestAllowlistResolver(t *testing.T) {
	resolver := NewAllowlistResolver([]string{"Boss@Example.com"})

	t.Run("listed email resolves to admin case-insensitively", func(t *testing.T) {
		role, err := resolver.Resolve(context.Background(), &model.User{Email: "boss@example.com"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, role)
	})

	t.Run("unlisted email has no role", func(t *testing.T) {
		role, err := resolver.Resolve(context.Background(), &model.User{Email: "other@example.com"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleNone, role)
	})

	t.Run("Allows matches Resolve", func(t *testing.T) {
		assert.True(t, resolver.Allows("BOSS@example.com"))
		assert.False(t, resolver.Allows("other@example.com"))
	})
}

func TestRoleTableResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("maps a stored role name", func(t *testing.T) {
		roles := new(mockRoleRepo)
		roles.On("FindRoleByUserID", mock.Anything, "u1").Return("admin", nil)

		role, err := NewRoleTableResolver(roles).Resolve(ctx, &model.User{ID: "u1"})

		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, role)
	})

	t.Run("missing row means no role", func(t *testing.T) {
		roles := new(mockRoleRepo)
		roles.On("FindRoleByUserID", mock.Anything, "u1").Return("", nil)

		role, err := NewRoleTableResolver(roles).Resolve(ctx, &model.User{ID: "u1"})

		require.NoError(t, err)
		assert.Equal(t, model.RoleNone, role)
	})

	t.Run("unknown role name means no role", func(t *testing.T) {
		roles := new(mockRoleRepo)
		roles.On("FindRoleByUserID", mock.Anything, "u1").Return("superuser", nil)

		role, err := NewRoleTableResolver(roles).Resolve(ctx, &model.User{ID: "u1"})

		require.NoError(t, err)
		assert.Equal(t, model.RoleNone, role)
	})
}

func TestClientLinkResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("allowlisted email wins over a client link", func(t *testing.T) {
		clients := new(mockClientRepo)
		resolver := NewClientLinkResolver([]string{"boss@example.com"}, clients)

		role, err := resolver.Resolve(ctx, &model.User{ID: "u1", Email: "boss@example.com"})

		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, role)
		clients.AssertNotCalled(t, "FindByUserID")
	})

	t.Run("linked client record resolves to client", func(t *testing.T) {
		clients := new(mockClientRepo)
		clients.On("FindByUserID", mock.Anything, "u1").Return(&model.Client{ID: "c1"}, nil)
		resolver := NewClientLinkResolver(nil, clients)

		role, err := resolver.Resolve(ctx, &model.User{ID: "u1", Email: "amy@example.com"})

		require.NoError(t, err)
		assert.Equal(t, model.RoleClient, role)
	})

	t.Run("no link means no role", func(t *testing.T) {
		clients := new(mockClientRepo)
		clients.On("FindByUserID", mock.Anything, "u1").Return(nil, nil)
		resolver := NewClientLinkResolver(nil, clients)

		role, err := resolver.Resolve(ctx, &model.User{ID: "u1", Email: "amy@example.com"})

		require.NoError(t, err)
		assert.Equal(t, model.RoleNone, role)
	})
}

func TestNewResolver(t *testing.T) {
	t.Run("selects the configured policy", func(t *testing.T) {
		cfg := &config.Config{RolePolicyName: "allowlist", AdminEmails: "boss@example.com"}
		resolver, err := NewResolver(cfg, new(mockRoleRepo), new(mockClientRepo))
		require.NoError(t, err)
		assert.IsType(t, &AllowlistResolver{}, resolver)

		cfg = &config.Config{RolePolicyName: "roles_table"}
		resolver, err = NewResolver(cfg, new(mockRoleRepo), new(mockClientRepo))
		require.NoError(t, err)
		assert.IsType(t, &RoleTableResolver{}, resolver)

		cfg = &config.Config{RolePolicyName: "client_link"}
		resolver, err = NewResolver(cfg, new(mockRoleRepo), new(mockClientRepo))
		require.NoError(t, err)
		assert.IsType(t, &ClientLinkResolver{}, resolver)
	})

	t.Run("rejects an unknown policy", func(t *testing.T) {
		cfg := &config.Config{RolePolicyName: "guesswork"}
		_, err := NewResolver(cfg, new(mockRoleRepo), new(mockClientRepo))
		assert.Error(t, err)
	})
}
