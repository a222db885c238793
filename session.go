package recallrai

import (
	"context"

	"github.com/recallrai/sdk-go/internal/api"
	"github.com/recallrai/sdk-go/internal/types"
)

// Session is a handle on one of a user's sessions.
type Session struct {
	conn   *conn
	userID string
	snap   types.Session
}

func newSession(c *conn, userID string, s types.Session) *Session {
	return &Session{conn: c, userID: userID, snap: s}
}

// ID returns the server-assigned session id.
func (s *Session) ID() string { return s.snap.SessionID }

// UserID returns the owning user's id.
func (s *Session) UserID() string { return s.userID }

// Status returns the status of the cached snapshot.
func (s *Session) Status() SessionStatus { return s.snap.Status }

// Snapshot returns the cached snapshot.
func (s *Session) Snapshot() SessionSnapshot { return s.snap }

// Update replaces the session metadata and the cached snapshot.
func (s *Session) Update(ctx context.Context, metadata map[string]any) error {
	if err := s.conn.check(); err != nil {
		return err
	}
	snap, err := api.UpdateSession(ctx, s.conn.d, s.userID, s.ID(), metadata)
	if err != nil {
		return err
	}
	s.snap = snap
	return nil
}

// Refresh re-fetches the session and replaces the snapshot wholesale.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.conn.check(); err != nil {
		return err
	}
	snap, err := api.GetSession(ctx, s.conn.d, s.userID, s.ID())
	if err != nil {
		return err
	}
	s.snap = snap
	return nil
}

// AddMessage appends a message to the session. The snapshot is unchanged.
func (s *Session) AddMessage(ctx context.Context, role MessageRole, content string, p AddMessageParams) error {
	if err := s.conn.check(); err != nil {
		return err
	}
	return api.AddMessage(ctx, s.conn.d, s.userID, s.ID(), s.snap.Status, role, content, p)
}

// Process asks the server to extract memories from the session. When the
// response carries a session the snapshot is replaced; on failure it is
// left untouched.
func (s *Session) Process(ctx context.Context) error {
	if err := s.conn.check(); err != nil {
		return err
	}
	snap, err := api.ProcessSession(ctx, s.conn.d, s.userID, s.ID(), s.snap.Status)
	if err != nil {
		return err
	}
	if snap != nil {
		s.snap = *snap
	}
	return nil
}

// GetContext recalls context for the session. It logs a warning, and still
// sends the request, when the cached status is processing or processed.
func (s *Session) GetContext(ctx context.Context, p ContextParams) (Context, error) {
	if err := s.conn.check(); err != nil {
		return Context{}, err
	}
	switch s.snap.Status {
	case types.SessionProcessing, types.SessionProcessed:
		s.conn.log.Warn().
			Str("session_id", s.ID()).
			Str("status", string(s.snap.Status)).
			Msg("recallrai: requesting context for a session that is already processing or processed")
	}
	return api.GetContext(ctx, s.conn.d, s.userID, s.ID(), p)
}

// GetMessages returns one page of the session's messages. limit 0 selects
// the default page size.
func (s *Session) GetMessages(ctx context.Context, offset, limit int) (*MessageList, error) {
	if err := s.conn.check(); err != nil {
		return nil, err
	}
	page, err := api.GetSessionMessages(ctx, s.conn.d, s.userID, s.ID(), offset, limit)
	if err != nil {
		return nil, err
	}
	return &MessageList{Messages: page.Items, Total: page.Total, HasMore: page.HasMore}, nil
}

// FetchStatus asks the server for the current status without touching the
// snapshot. Call Refresh to update it.
func (s *Session) FetchStatus(ctx context.Context) (SessionStatus, error) {
	if err := s.conn.check(); err != nil {
		return "", err
	}
	return api.GetSessionStatus(ctx, s.conn.d, s.userID, s.ID())
}
