package recallrai

import (
	"context"

	"github.com/recallrai/sdk-go/internal/api"
	"github.com/recallrai/sdk-go/internal/types"
)

// User is a handle on one user of the project. It caches the last snapshot
// the server returned; a handle must not be shared across goroutines without
// external serialization.
type User struct {
	conn *conn
	snap types.User
}

func newUser(c *conn, s types.User) *User { return &User{conn: c, snap: s} }

// ID returns the user id of the cached snapshot.
func (u *User) ID() string { return u.snap.UserID }

// Snapshot returns the cached snapshot.
func (u *User) Snapshot() UserSnapshot { return u.snap }

// Update sends the non-zero fields of p and replaces the snapshot from the
// response. Setting NewUserID renames the user; the handle follows it.
func (u *User) Update(ctx context.Context, p UpdateUserParams) error {
	if err := u.conn.check(); err != nil {
		return err
	}
	snap, err := api.UpdateUser(ctx, u.conn.d, u.ID(), p)
	if err != nil {
		return err
	}
	u.snap = snap
	return nil
}

// Refresh re-fetches the user and replaces the snapshot wholesale.
func (u *User) Refresh(ctx context.Context) error {
	if err := u.conn.check(); err != nil {
		return err
	}
	snap, err := api.GetUser(ctx, u.conn.d, u.ID())
	if err != nil {
		return err
	}
	u.snap = snap
	return nil
}

// Delete removes the user. The handle keeps its now stale snapshot.
func (u *User) Delete(ctx context.Context) error {
	if err := u.conn.check(); err != nil {
		return err
	}
	return api.DeleteUser(ctx, u.conn.d, u.ID())
}

// CreateSession opens a new session for the user.
func (u *User) CreateSession(ctx context.Context, p CreateSessionParams) (*Session, error) {
	if err := u.conn.check(); err != nil {
		return nil, err
	}
	snap, err := api.CreateSession(ctx, u.conn.d, u.ID(), p)
	if err != nil {
		return nil, err
	}
	return newSession(u.conn, u.ID(), snap), nil
}

// GetSession fetches one of the user's sessions.
func (u *User) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if err := u.conn.check(); err != nil {
		return nil, err
	}
	snap, err := api.GetSession(ctx, u.conn.d, u.ID(), sessionID)
	if err != nil {
		return nil, err
	}
	return newSession(u.conn, u.ID(), snap), nil
}

// ListSessions returns one page of the user's sessions.
func (u *User) ListSessions(ctx context.Context, p ListSessionsParams) (*SessionList, error) {
	if err := u.conn.check(); err != nil {
		return nil, err
	}
	page, err := api.ListSessions(ctx, u.conn.d, u.ID(), p)
	if err != nil {
		return nil, err
	}
	out := &SessionList{Sessions: make([]*Session, 0, len(page.Items)), Total: page.Total, HasMore: page.HasMore}
	for _, s := range page.Items {
		out.Sessions = append(out.Sessions, newSession(u.conn, u.ID(), s))
	}
	return out, nil
}

// ListMemories returns one page of the user's memories.
func (u *User) ListMemories(ctx context.Context, p ListMemoriesParams) (*MemoryList, error) {
	if err := u.conn.check(); err != nil {
		return nil, err
	}
	page, err := api.ListMemories(ctx, u.conn.d, u.ID(), p)
	if err != nil {
		return nil, err
	}
	return &MemoryList{Items: page.Items, Total: page.Total, HasMore: page.HasMore}, nil
}

// ListMergeConflicts returns one page of the user's merge conflicts.
func (u *User) ListMergeConflicts(ctx context.Context, p ListMergeConflictsParams) (*MergeConflictList, error) {
	if err := u.conn.check(); err != nil {
		return nil, err
	}
	page, err := api.ListMergeConflicts(ctx, u.conn.d, u.ID(), p)
	if err != nil {
		return nil, err
	}
	out := &MergeConflictList{Conflicts: make([]*MergeConflict, 0, len(page.Items)), Total: page.Total, HasMore: page.HasMore}
	for _, mc := range page.Items {
		out.Conflicts = append(out.Conflicts, newMergeConflict(u.conn, u.ID(), mc))
	}
	return out, nil
}

// GetMergeConflict fetches one merge conflict.
func (u *User) GetMergeConflict(ctx context.Context, conflictID string) (*MergeConflict, error) {
	if err := u.conn.check(); err != nil {
		return nil, err
	}
	snap, err := api.GetMergeConflict(ctx, u.conn.d, u.ID(), conflictID)
	if err != nil {
		return nil, err
	}
	return newMergeConflict(u.conn, u.ID(), snap), nil
}

// GetLastNMessages returns the user's n most recent messages across all
// sessions, 1 <= n <= 100.
func (u *User) GetLastNMessages(ctx context.Context, n int) ([]UserMessage, error) {
	if err := u.conn.check(); err != nil {
		return nil, err
	}
	return api.GetLastNMessages(ctx, u.conn.d, u.ID(), n)
}
