package api

import (
	"context"
	"net/http"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
	"github.com/recallrai/sdk-go/internal/types"
)

// ListMemories returns one page of the user's memories. Unknown categories
// are rejected by the server with a 400.
func ListMemories(ctx context.Context, d Doer, userID string, p types.ListMemoriesParams) (types.Page[types.MemoryItem], error) {
	if err := ctx.Err(); err != nil {
		return types.Page[types.MemoryItem]{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.Page[types.MemoryItem]{}, err
	}
	if p.Limit == 0 {
		p.Limit = types.DefaultMemoriesLimit
	}
	if err := types.ValidatePage(p.Offset, p.Limit); err != nil {
		return types.Page[types.MemoryItem]{}, err
	}
	q := newQuery()
	q.setInt("offset", p.Offset)
	q.setInt("limit", p.Limit)
	q.list("categories", p.Categories)
	q.list("session_id_filter", p.SessionIDFilter)
	if err := q.jsonFilter("session_metadata_filter", p.SessionMetadataFilter); err != nil {
		return types.Page[types.MemoryItem]{}, err
	}
	q.optBool("include_previous_versions", p.IncludePreviousVersions)
	q.optBool("include_connected_memories", p.IncludeConnectedMemories)
	req := Request{Method: http.MethodGet, Path: userPath(userID) + "/memories", Query: q.values()}
	scope := sdkerrors.Scope{Op: sdkerrors.OpListMemories, Target: sdkerrors.TargetUser, UserID: userID}
	raw, err := call(ctx, d, req, scope)
	if err != nil {
		return types.Page[types.MemoryItem]{}, err
	}
	return types.DecodeMemories(raw)
}
