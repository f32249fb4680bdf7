package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

func TestStreamTickets(t *testing.T) {
	issuer := NewTicketIssuer("test-secret-at-least-32-characters!!", time.Minute)

	t.Run("issue and verify round trip", func(t *testing.T) {
		ticket, err := issuer.Issue("u1", "c1", model.RoleClient)
		require.NoError(t, err)

		claims, err := issuer.Verify(ticket)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		assert.Equal(t, "c1", claims.ClientID)
		assert.Equal(t, model.RoleClient, claims.Role)
	})

	t.Run("expired ticket is rejected", func(t *testing.T) {
		expired := NewTicketIssuer("test-secret-at-least-32-characters!!", -time.Minute)
		ticket, err := expired.Issue("u1", "c1", model.RoleClient)
		require.NoError(t, err)

		_, err = issuer.Verify(ticket)
		assert.Error(t, err)
	})

	t.Run("ticket signed with another secret is rejected", func(t *testing.T) {
		other := NewTicketIssuer("a-completely-different-secret-value!", time.Minute)
		ticket, err := other.Issue("u1", "c1", model.RoleClient)
		require.NoError(t, err)

		_, err = issuer.Verify(ticket)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := issuer.Verify("not.a.jwt")
		assert.Error(t, err)
	})
}
