package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/auth"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

func TestResolveStreamClientID(t *testing.T) {
	issuer := auth.NewTicketIssuer("test-secret-at-least-32-characters!!", time.Minute)

	newReq := func(ticket, clientID string) string {
		url := "/api/chat/stream?ticket=" + ticket
		if clientID != "" {
			url += "&clientId=" + clientID
		}
		return url
	}

	t.Run("client ticket is pinned to its own conversation", func(t *testing.T) {
		ticket, err := issuer.Issue("u1", "c1", model.RoleClient)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", newReq(ticket, ""), nil)
		clientID, err := resolveStreamClientID(issuer, r)

		require.NoError(t, err)
		assert.Equal(t, "c1", clientID)
	})

	t.Run("client ticket cannot watch another conversation", func(t *testing.T) {
		ticket, err := issuer.Issue("u1", "c1", model.RoleClient)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", newReq(ticket, "c2"), nil)
		_, err = resolveStreamClientID(issuer, r)

		assert.Error(t, err)
	})

	t.Run("admin ticket selects the conversation by parameter", func(t *testing.T) {
		ticket, err := issuer.Issue("staff1", "", model.RoleAdmin)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", newReq(ticket, "c7"), nil)
		clientID, err := resolveStreamClientID(issuer, r)

		require.NoError(t, err)
		assert.Equal(t, "c7", clientID)
	})

	t.Run("admin ticket without a conversation parameter is rejected", func(t *testing.T) {
		ticket, err := issuer.Issue("staff1", "", model.RoleAdmin)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", newReq(ticket, ""), nil)
		_, err = resolveStreamClientID(issuer, r)

		assert.Error(t, err)
	})

	t.Run("roleless ticket is rejected", func(t *testing.T) {
		ticket, err := issuer.Issue("u1", "", model.RoleNone)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", newReq(ticket, ""), nil)
		_, err = resolveStreamClientID(issuer, r)

		assert.Error(t, err)
	})

	t.Run("missing ticket is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/chat/stream", nil)
		_, err := resolveStreamClientID(issuer, r)

		assert.Error(t, err)
	})
}
