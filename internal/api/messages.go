package api

import (
	"context"
	"net/http"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
	"github.com/recallrai/sdk-go/internal/types"
)

// GetLastNMessages returns the user's n most recent messages across
// sessions.
func GetLastNMessages(ctx context.Context, d Doer, userID string, n int) ([]types.UserMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return nil, err
	}
	if err := types.ValidateLastN(n); err != nil {
		return nil, err
	}
	q := newQuery()
	q.setInt("limit", n)
	req := Request{Method: http.MethodGet, Path: userPath(userID) + "/messages", Query: q.values()}
	raw, err := call(ctx, d, req, sdkerrors.Scope{Target: sdkerrors.TargetUser, UserID: userID})
	if err != nil {
		return nil, err
	}
	return types.DecodeUserMessages(raw)
}
