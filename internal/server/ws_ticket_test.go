package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueWSTicket(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "wsuser")
	token := authToken(t, s, user)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/ws/ticket", nil, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Ticket    string `json:"ticket"`
		ExpiresIn int    `json:"expires_in"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Ticket)
	assert.Equal(t, 30, body.ExpiresIn)

	key := fmt.Sprintf("ws_ticket:%s", body.Ticket)
	stored, err := s.redis.Get(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d", user.ID), stored)

	t.Run("ticket authenticates and is single-use", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me?ticket="+body.Ticket, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// Consumed on first use
		exists, err := s.redis.Exists(context.Background(), key).Result()
		require.NoError(t, err)
		assert.Zero(t, exists)

		req = httptest.NewRequest(http.MethodGet, "/api/users/me?ticket="+body.Ticket, nil)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestIssueWSTicket_RequiresAuth(t *testing.T) {
	_, app := setupTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/ws/ticket", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
