package api

import (
	"context"
	"net/url"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
)

// APIPrefix is prepended to every endpoint path.
const APIPrefix = "/api/v1"

// Request is one call to the service. Path is relative to the base URL and
// already escaped. Nil Query and Body are not sent.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// Response is the raw outcome of a request that reached the server.
type Response struct {
	StatusCode int
	Body       []byte
}

// Doer issues requests. Transport is the production implementation; tests
// substitute their own.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// call sends req and returns the body of any 2xx response. Everything else
// becomes the *sdkerrors.Error chosen by Map for scope.
func call(ctx context.Context, d Doer, req Request, scope sdkerrors.Scope) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := d.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, nil
	}
	return nil, sdkerrors.Map(resp.StatusCode, resp.Body, scope)
}

func usersPath() string { return APIPrefix + "/users" }

func userPath(userID string) string { return usersPath() + "/" + url.PathEscape(userID) }

func sessionsPath(userID string) string { return userPath(userID) + "/sessions" }

func sessionPath(userID, sessionID string) string {
	return sessionsPath(userID) + "/" + url.PathEscape(sessionID)
}

func conflictsPath(userID string) string { return userPath(userID) + "/merge-conflicts" }

func conflictPath(userID, conflictID string) string {
	return conflictsPath(userID) + "/" + url.PathEscape(conflictID)
}
