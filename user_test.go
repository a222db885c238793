package recallrai

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Created(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		body := readBody(t, r)
		assert.Equal(t, "u1", body["user_id"])
		assert.Equal(t, map[string]any{"plan": "pro"}, body["metadata"])
		writeJSON(w, http.StatusCreated, userJSON)
	})
	c := newTestClient(t, srv)

	u, err := c.CreateUser(context.Background(), "u1", map[string]any{"plan": "pro"})
	require.NoError(t, err)
	snap := u.Snapshot()
	assert.Equal(t, "u1", snap.UserID)
	assert.Equal(t, map[string]any{"plan": "pro"}, snap.Metadata)
	assert.True(t, snap.CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.True(t, snap.LastActiveAt.Equal(time.Date(2025, 1, 3, 3, 4, 5, 0, time.UTC)))
}

func TestCreateUser_Conflict(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"detail":"User with ID u1 already exists"}`)
	})
	c := newTestClient(t, srv)

	u, err := c.CreateUser(context.Background(), "u1", nil)
	assert.Nil(t, u)
	require.ErrorIs(t, err, ErrUserAlreadyExists)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, http.StatusConflict, e.StatusCode)
}

func TestGetUser_NotFound(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"detail":"User ghost not found"}`)
	})
	c := newTestClient(t, srv)
	_, err := c.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// 25 users served ten per page.
func TestListUsers_Pagination(t *testing.T) {
	t.Parallel()
	const total = 25
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		var items []string
		for i := offset; i < total && i < offset+limit; i++ {
			items = append(items, fmt.Sprintf(userItemJSON, i))
		}
		hasMore := offset+len(items) < total
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"users":[%s],"total":%d,"has_more":%t}`, strings.Join(items, ","), total, hasMore))
	})
	c := newTestClient(t, srv)

	first, err := c.ListUsers(context.Background(), ListUsersParams{Offset: 0, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, first.Users, 10)
	assert.Equal(t, 25, first.Total)
	assert.True(t, first.HasMore)
	assert.Equal(t, "u0", first.Users[0].ID())

	last, err := c.ListUsers(context.Background(), ListUsersParams{Offset: 20, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, last.Users, 5)
	assert.False(t, last.HasMore)
	assert.Equal(t, "u24", last.Users[4].ID())
}

func TestListUsers_LimitOutOfRangeIsLocal(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c := newTestClient(t, srv)
	_, err := c.ListUsers(context.Background(), ListUsersParams{Limit: 201})
	assert.ErrorIs(t, err, ErrLocalValidation)
	assert.Zero(t, srv.count())
}

func TestUser_UpdateReplacesSnapshotFromResponse(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, userJSON)
		case http.MethodPut:
			assert.Equal(t, "/api/v1/users/u1", r.URL.Path)
			body := readBody(t, r)
			assert.Equal(t, "u2", body["new_user_id"])
			_, hasMeta := body["new_metadata"]
			assert.False(t, hasMeta, "absent fields are not sent")
			writeJSON(w, http.StatusOK, `{"user":{"user_id":"u2","metadata":{"server":"side"},"created_at":"2025-01-02T03:04:05Z","last_active_at":"2025-02-01T00:00:00Z"}}`)
		}
	})
	c := newTestClient(t, srv)
	u, err := c.GetUser(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, u.Update(context.Background(), UpdateUserParams{NewUserID: "u2"}))
	assert.Equal(t, "u2", u.ID())
	assert.Equal(t, map[string]any{"server": "side"}, u.Snapshot().Metadata)
}

func TestUser_UpdateConflictKeepsSnapshot(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			writeJSON(w, http.StatusConflict, `{"detail":"User u2 already exists"}`)
			return
		}
		writeJSON(w, http.StatusOK, userJSON)
	})
	c := newTestClient(t, srv)
	u, err := c.GetUser(context.Background(), "u1")
	require.NoError(t, err)

	err = u.Update(context.Background(), UpdateUserParams{NewUserID: "u2"})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "u2", e.UserID)
	assert.Equal(t, "u1", u.ID())
}

func TestUser_RefreshAndDelete(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, userJSON)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	c := newTestClient(t, srv)
	u := newUser(c.conn, UserSnapshot{UserID: "u1"})

	require.NoError(t, u.Refresh(context.Background()))
	assert.Equal(t, map[string]any{"plan": "pro"}, u.Snapshot().Metadata)
	require.NoError(t, u.Delete(context.Background()))
	assert.Equal(t, "u1", u.ID(), "stale snapshot survives delete")
	assert.Equal(t, 2, srv.count())
}

func TestUser_ListSessionsBindsHandles(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/u1/sessions", r.URL.Path)
		assert.Equal(t, []string{"pending", "processing"}, r.URL.Query()["status_filter"])
		writeJSON(w, http.StatusOK, `{"sessions":[{"session_id":"s1","status":"pending","created_at":"2025-01-02T03:04:05Z","metadata":{}}],"total":1,"has_more":false}`)
	})
	c := newTestClient(t, srv)
	u := newUser(c.conn, UserSnapshot{UserID: "u1"})

	list, err := u.ListSessions(context.Background(), ListSessionsParams{
		StatusFilter: []SessionStatus{SessionPending, SessionProcessing},
	})
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, "u1", list.Sessions[0].UserID())
	assert.Equal(t, SessionPending, list.Sessions[0].Status())
}

func TestUser_ListMemories(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, []string{"food", "travel"}, q["categories"])
		assert.Equal(t, "true", q.Get("include_previous_versions"))
		_, has := q["include_connected_memories"]
		assert.False(t, has)
		writeJSON(w, http.StatusOK, `{"items":[{"memory_id":"m1","categories":["food"],"content":"likes ramen","created_at":"2025-01-02T03:04:05Z","session_id":"s1"}],"total":1,"has_more":false}`)
	})
	c := newTestClient(t, srv)
	u := newUser(c.conn, UserSnapshot{UserID: "u1"})

	list, err := u.ListMemories(context.Background(), ListMemoriesParams{
		Categories:              []string{"food", "travel"},
		IncludePreviousVersions: Bool(true),
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "likes ramen", list.Items[0].Content)
}

func TestUser_ListMemoriesInvalidCategories(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"detail":{"message":"Invalid categories","invalid_categories":["nope"]}}`)
	})
	c := newTestClient(t, srv)
	u := newUser(c.conn, UserSnapshot{UserID: "u1"})

	_, err := u.ListMemories(context.Background(), ListMemoriesParams{Categories: []string{"nope"}})
	require.ErrorIs(t, err, ErrInvalidCategories)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"nope"}, e.InvalidCategories)
}

func TestUser_GetLastNMessages(t *testing.T) {
	t.Parallel()
	srv := newSpyServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/u1/messages", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, `{"messages":[{"role":"user","content":"hi","timestamp":"2025-01-02T03:04:05Z","session_id":"s1"},{"role":"assistant","content":"hello","timestamp":"2025-01-02T03:04:06Z","session_id":"s1"}]}`)
	})
	c := newTestClient(t, srv)
	u := newUser(c.conn, UserSnapshot{UserID: "u1"})

	msgs, err := u.GetLastNMessages(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "s1", msgs[1].SessionID)

	_, err = u.GetLastNMessages(context.Background(), 101)
	assert.ErrorIs(t, err, ErrLocalValidation)
	assert.Equal(t, 1, srv.count())
}
