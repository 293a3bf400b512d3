package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasko/gatherly/internal/auth"
	"github.com/nvasko/gatherly/internal/service"
	"github.com/nvasko/gatherly/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(
		service.NewMembershipService(store),
		service.NewExpenseService(store),
		service.NewQueryService(store),
		auth.NewPasswordAuthenticator(store),
		auth.NewJWTManager("test-secret", time.Hour),
	)

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server
}

// doJSON performs a request with an optional bearer token and decodes
// the JSON response into out when out is non-nil.
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// registerUser creates an account and returns the session token and
// user ID.
func registerUser(t *testing.T, server *httptest.Server, email, displayName string) (string, string) {
	t.Helper()

	var session sessionResponse
	resp := doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"email":       email,
		"displayName": displayName,
		"password":    "password123",
	}, &session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, session.Token)
	return session.Token, session.User.ID
}

func TestRegisterAndLogin(t *testing.T) {
	server := setupTestServer(t)

	token, _ := registerUser(t, server, "ana@example.com", "Ana")
	require.NotEmpty(t, token)

	// Duplicate registration is rejected.
	resp := doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var session sessionResponse
	resp = doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "password123",
	}, &session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ana", session.User.DisplayName)

	resp = doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	server := setupTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/api/events", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, server, http.MethodGet, "/api/events", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInvitationLifecycle(t *testing.T) {
	server := setupTestServer(t)

	creatorToken, creatorID := registerUser(t, server, "host@example.com", "Host")
	guestToken, guestID := registerUser(t, server, "guest@example.com", "Guest")

	var created eventResponse
	resp := doJSON(t, server, http.MethodPost, "/api/events", creatorToken, map[string]any{
		"title":          "Lake Trip",
		"budget":         300.0,
		"invitedUserIds": []string{guestID},
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, creatorID, created.CreatorID)
	assert.Equal(t, []string{creatorID}, created.Members)
	assert.Equal(t, []string{guestID}, created.PendingInvites)

	// The guest sees the event in invitations but not in the main list.
	var invitations []eventResponse
	resp = doJSON(t, server, http.MethodGet, "/api/invitations", guestToken, nil, &invitations)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, invitations, 1)

	var visible []eventResponse
	resp = doJSON(t, server, http.MethodGet, "/api/events", guestToken, nil, &visible)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, visible)

	// Accept moves the event into the guest's visible list.
	resp = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/events/%s/invites/accept", created.ID), guestToken, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, server, http.MethodGet, "/api/events", guestToken, nil, &visible)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, visible, 1)
	assert.ElementsMatch(t, []string{creatorID, guestID}, visible[0].Members)
	assert.Empty(t, visible[0].PendingInvites)

	// A second accept reports the missing invitation.
	resp = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/events/%s/invites/accept", created.ID), guestToken, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeclineInvitation(t *testing.T) {
	server := setupTestServer(t)

	creatorToken, _ := registerUser(t, server, "host@example.com", "Host")
	guestToken, guestID := registerUser(t, server, "guest@example.com", "Guest")

	var created eventResponse
	resp := doJSON(t, server, http.MethodPost, "/api/events", creatorToken, map[string]any{
		"title":          "Dinner",
		"invitedUserIds": []string{guestID},
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/events/%s/invites/decline", created.ID), guestToken, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var invitations []eventResponse
	resp = doJSON(t, server, http.MethodGet, "/api/invitations", guestToken, nil, &invitations)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, invitations)

	// Declined users can be re-invited.
	resp = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/events/%s/invites", created.ID), creatorToken, map[string]string{
		"userId": guestID,
	}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, server, http.MethodGet, "/api/invitations", guestToken, nil, &invitations)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, invitations, 1)
}

func TestEventAccessControl(t *testing.T) {
	server := setupTestServer(t)

	creatorToken, _ := registerUser(t, server, "host@example.com", "Host")
	otherToken, _ := registerUser(t, server, "other@example.com", "Other")

	var created eventResponse
	resp := doJSON(t, server, http.MethodPost, "/api/events", creatorToken, map[string]any{
		"title": "Private Party",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Uninvolved users can't see the event at all.
	resp = doJSON(t, server, http.MethodGet, "/api/events/"+created.ID, otherToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Non-creators can't edit or delete.
	resp = doJSON(t, server, http.MethodPatch, "/api/events/"+created.ID, otherToken, map[string]any{
		"title": "Hijacked",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, server, http.MethodDelete, "/api/events/"+created.ID, otherToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Non-creators can't invite either.
	resp = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/events/%s/invites", created.ID), otherToken, map[string]string{
		"userId": "someone",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The creator can delete.
	resp = doJSON(t, server, http.MethodDelete, "/api/events/"+created.ID, creatorToken, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, server, http.MethodGet, "/api/events/"+created.ID, creatorToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExpenseRoundTrip(t *testing.T) {
	server := setupTestServer(t)

	token, userID := registerUser(t, server, "host@example.com", "Host")

	var created eventResponse
	resp := doJSON(t, server, http.MethodPost, "/api/events", token, map[string]any{
		"title": "Camping",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The sheet starts empty but editable.
	var sheet expenseResponse
	resp = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/events/%s/expense", created.ID), token, nil, &sheet)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, sheet.Items)
	assert.Equal(t, 1, sheet.DivideBy)

	resp = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/events/%s/expense", created.ID), token, map[string]any{
		"title":    "Supplies",
		"divideBy": "3",
		"items": []map[string]string{
			{"name": "Tent", "price": "10.00"},
			{"name": "Food", "price": "5.50"},
			{"name": "Mystery", "price": "abc"},
		},
		"attendees": []string{userID, "u2", "u3"},
	}, &sheet)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 15.50, sheet.TotalCost, 1e-9)
	assert.InDelta(t, 5.17, sheet.CostPerPerson, 1e-9)

	// Saving refreshed the event's cached summary.
	var event eventResponse
	resp = doJSON(t, server, http.MethodGet, "/api/events/"+created.ID, token, nil, &event)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, event.Expenses)
	assert.Equal(t, "15.50", event.Expenses.TotalCost)
	assert.Equal(t, "5.17", event.Expenses.CostPerPerson)

	// A second save replaces the document but keeps its identity.
	firstID := sheet.ID
	resp = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/events/%s/expense", created.ID), token, map[string]any{
		"title": "Supplies v2",
		"items": []map[string]string{
			{"name": "Everything", "price": "50.00"},
		},
		"attendees": []string{userID},
	}, &sheet)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, firstID, sheet.ID)
	assert.InDelta(t, 50.00, sheet.TotalCost, 1e-9)
	require.Len(t, sheet.Items, 1)
}

func TestPasswordResetFlow(t *testing.T) {
	server := setupTestServer(t)

	registerUser(t, server, "ana@example.com", "Ana")

	var reset resetResponse
	resp := doJSON(t, server, http.MethodPost, "/auth/reset", "", map[string]string{
		"email": "ana@example.com",
	}, &reset)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, reset.Token)

	resp = doJSON(t, server, http.MethodPost, "/auth/reset/confirm", "", map[string]string{
		"token":    reset.Token,
		"password": "new-password-1",
	}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Old password stops working, new one logs in.
	resp = doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "new-password-1",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown emails don't reveal themselves.
	var unknown resetResponse
	resp = doJSON(t, server, http.MethodPost, "/auth/reset", "", map[string]string{
		"email": "nobody@example.com",
	}, &unknown)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, unknown.Token)
}

func TestResolveDisplayNames(t *testing.T) {
	server := setupTestServer(t)

	token, userID := registerUser(t, server, "ana@example.com", "Ana")
	_, plainID := registerUser(t, server, "plain@example.com", "")

	var names map[string]string
	resp := doJSON(t, server, http.MethodPost, "/api/users/resolve", token, map[string]any{
		"userIds": []string{userID, plainID, "ghost"},
	}, &names)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ana", names[userID])
	assert.Equal(t, "plain@example.com", names[plainID])
	assert.Equal(t, "User ghost", names["ghost"])
}

func TestCurrentUser(t *testing.T) {
	server := setupTestServer(t)

	token, userID := registerUser(t, server, "ana@example.com", "Ana")

	var user userResponse
	resp := doJSON(t, server, http.MethodGet, "/api/me", token, nil, &user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
}
