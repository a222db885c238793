package api

import (
	"context"
	"net/http"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
	"github.com/recallrai/sdk-go/internal/types"
)

func sessionScope(userID, sessionID string) sdkerrors.Scope {
	return sdkerrors.Scope{Target: sdkerrors.TargetSession, UserID: userID, SessionID: sessionID}
}

func validateSessionIDs(userID, sessionID string) error {
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return err
	}
	return types.ValidateIDPresent(sessionID, "sessionId")
}

// CreateSession opens a new session for the user.
func CreateSession(ctx context.Context, d Doer, userID string, p types.CreateSessionParams) (types.Session, error) {
	if err := ctx.Err(); err != nil {
		return types.Session{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.Session{}, err
	}
	if err := types.ValidateCreateSession(p); err != nil {
		return types.Session{}, err
	}
	secs := p.AutoProcessAfterSeconds
	if secs == 0 {
		secs = types.MinAutoProcessSeconds
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	b := body{"auto_process_after_seconds": secs, "metadata": metadata}
	if p.CustomCreatedAt != nil {
		b["custom_created_at_utc"] = types.FormatTimestamp(*p.CustomCreatedAt)
	}
	req := Request{Method: http.MethodPost, Path: sessionsPath(userID), Body: b}
	raw, err := call(ctx, d, req, sdkerrors.Scope{Target: sdkerrors.TargetUser, UserID: userID})
	if err != nil {
		return types.Session{}, err
	}
	return types.DecodeSession(raw)
}

// GetSession retrieves a session of the user.
func GetSession(ctx context.Context, d Doer, userID, sessionID string) (types.Session, error) {
	if err := ctx.Err(); err != nil {
		return types.Session{}, err
	}
	if err := validateSessionIDs(userID, sessionID); err != nil {
		return types.Session{}, err
	}
	req := Request{Method: http.MethodGet, Path: sessionPath(userID, sessionID)}
	raw, err := call(ctx, d, req, sessionScope(userID, sessionID))
	if err != nil {
		return types.Session{}, err
	}
	return types.DecodeSession(raw)
}

// ListSessions returns one page of the user's sessions.
func ListSessions(ctx context.Context, d Doer, userID string, p types.ListSessionsParams) (types.Page[types.Session], error) {
	if err := ctx.Err(); err != nil {
		return types.Page[types.Session]{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.Page[types.Session]{}, err
	}
	if p.Limit == 0 {
		p.Limit = types.DefaultLimit
	}
	if err := types.ValidatePage(p.Offset, p.Limit); err != nil {
		return types.Page[types.Session]{}, err
	}
	for _, st := range p.StatusFilter {
		if _, err := types.ParseSessionStatus(string(st)); err != nil {
			return types.Page[types.Session]{}, sdkerrors.Local("status_filter: %v", err)
		}
	}
	q := newQuery()
	q.setInt("offset", p.Offset)
	q.setInt("limit", p.Limit)
	if err := q.jsonFilter("metadata_filter", p.MetadataFilter); err != nil {
		return types.Page[types.Session]{}, err
	}
	q.list("status_filter", strList(p.StatusFilter))
	req := Request{Method: http.MethodGet, Path: sessionsPath(userID), Query: q.values()}
	raw, err := call(ctx, d, req, sdkerrors.Scope{Target: sdkerrors.TargetUser, UserID: userID})
	if err != nil {
		return types.Page[types.Session]{}, err
	}
	return types.DecodeSessions(raw)
}

// UpdateSession replaces the session metadata and returns the new snapshot.
func UpdateSession(ctx context.Context, d Doer, userID, sessionID string, metadata map[string]any) (types.Session, error) {
	if err := ctx.Err(); err != nil {
		return types.Session{}, err
	}
	if err := validateSessionIDs(userID, sessionID); err != nil {
		return types.Session{}, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	req := Request{Method: http.MethodPut, Path: sessionPath(userID, sessionID), Body: body{"metadata": metadata}}
	raw, err := call(ctx, d, req, sessionScope(userID, sessionID))
	if err != nil {
		return types.Session{}, err
	}
	return types.DecodeSession(raw)
}

// AddMessage appends a message to the session. status is the caller's last
// known session status; it is reported back on a 400.
func AddMessage(ctx context.Context, d Doer, userID, sessionID string, status types.SessionStatus, role types.MessageRole, content string, p types.AddMessageParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSessionIDs(userID, sessionID); err != nil {
		return err
	}
	if err := types.ValidateMessage(role, content, p); err != nil {
		return err
	}
	b := body{"role": string(role), "content": content}
	if p.Timestamp != nil {
		b["timestamp"] = types.FormatTimestamp(*p.Timestamp)
	}
	req := Request{Method: http.MethodPost, Path: sessionPath(userID, sessionID) + "/add-message", Body: b}
	scope := sessionScope(userID, sessionID)
	scope.Op = sdkerrors.OpAddMessage
	scope.SessionStatus = string(status)
	_, err := call(ctx, d, req, scope)
	return err
}

// ProcessSession asks the server to process the session. The returned
// snapshot is nil when the response carries no session payload.
func ProcessSession(ctx context.Context, d Doer, userID, sessionID string, status types.SessionStatus) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateSessionIDs(userID, sessionID); err != nil {
		return nil, err
	}
	req := Request{Method: http.MethodPost, Path: sessionPath(userID, sessionID) + "/process"}
	scope := sessionScope(userID, sessionID)
	scope.Op = sdkerrors.OpProcessSession
	scope.SessionStatus = string(status)
	raw, err := call(ctx, d, req, scope)
	if err != nil {
		return nil, err
	}
	if !types.HasEnvelope(raw, types.EnvelopeSession, "session_id") {
		return nil, nil
	}
	s, err := types.DecodeSession(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetContext fetches recalled context for the session.
func GetContext(ctx context.Context, d Doer, userID, sessionID string, p types.ContextParams) (types.Context, error) {
	if err := ctx.Err(); err != nil {
		return types.Context{}, err
	}
	if err := validateSessionIDs(userID, sessionID); err != nil {
		return types.Context{}, err
	}
	if err := types.ValidateContextParams(p); err != nil {
		return types.Context{}, err
	}
	q := newQuery()
	q.optString("recall_strategy", string(p.RecallStrategy))
	q.optInt("min_top_k", p.MinTopK)
	q.optInt("max_top_k", p.MaxTopK)
	q.optFloat("memories_threshold", p.MemoriesThreshold)
	q.optFloat("summaries_threshold", p.SummariesThreshold)
	q.optInt("last_n_messages", p.LastNMessages)
	q.optInt("last_n_summaries", p.LastNSummaries)
	q.optString("timezone", p.Timezone)
	q.optBool("include_system_prompt", p.IncludeSystemPrompt)
	req := Request{Method: http.MethodGet, Path: sessionPath(userID, sessionID) + "/context", Query: q.values()}
	raw, err := call(ctx, d, req, sessionScope(userID, sessionID))
	if err != nil {
		return types.Context{}, err
	}
	return types.DecodeContext(raw)
}

// GetSessionMessages returns one page of the session's messages.
func GetSessionMessages(ctx context.Context, d Doer, userID, sessionID string, offset, limit int) (types.Page[types.Message], error) {
	if err := ctx.Err(); err != nil {
		return types.Page[types.Message]{}, err
	}
	if err := validateSessionIDs(userID, sessionID); err != nil {
		return types.Page[types.Message]{}, err
	}
	if limit == 0 {
		limit = types.DefaultMessagesLimit
	}
	if err := types.ValidatePage(offset, limit); err != nil {
		return types.Page[types.Message]{}, err
	}
	q := newQuery()
	q.setInt("offset", offset)
	q.setInt("limit", limit)
	req := Request{Method: http.MethodGet, Path: sessionPath(userID, sessionID) + "/messages", Query: q.values()}
	raw, err := call(ctx, d, req, sessionScope(userID, sessionID))
	if err != nil {
		return types.Page[types.Message]{}, err
	}
	return types.DecodeSessionMessages(raw)
}

// GetSessionStatus reads only the session status.
func GetSessionStatus(ctx context.Context, d Doer, userID, sessionID string) (types.SessionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateSessionIDs(userID, sessionID); err != nil {
		return "", err
	}
	req := Request{Method: http.MethodGet, Path: sessionPath(userID, sessionID) + "/status"}
	raw, err := call(ctx, d, req, sessionScope(userID, sessionID))
	if err != nil {
		return "", err
	}
	return types.DecodeStatus(raw)
}
