package api

import (
	"context"
	"net/http"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
	"github.com/recallrai/sdk-go/internal/types"
)

func conflictScope(userID, conflictID string) sdkerrors.Scope {
	return sdkerrors.Scope{Target: sdkerrors.TargetMergeConflict, UserID: userID, ConflictID: conflictID}
}

// ListMergeConflicts returns one page of the user's merge conflicts, newest
// first unless p says otherwise.
func ListMergeConflicts(ctx context.Context, d Doer, userID string, p types.ListMergeConflictsParams) (types.Page[types.MergeConflict], error) {
	if err := ctx.Err(); err != nil {
		return types.Page[types.MergeConflict]{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.Page[types.MergeConflict]{}, err
	}
	if p.Limit == 0 {
		p.Limit = types.DefaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
	if err := types.ValidatePage(p.Offset, p.Limit); err != nil {
		return types.Page[types.MergeConflict]{}, err
	}
	if err := types.ValidateSortOrder(p.SortOrder); err != nil {
		return types.Page[types.MergeConflict]{}, err
	}
	if p.Status != "" {
		if _, err := types.ParseMergeConflictStatus(string(p.Status)); err != nil {
			return types.Page[types.MergeConflict]{}, sdkerrors.Local("status: %v", err)
		}
	}
	q := newQuery()
	q.setInt("offset", p.Offset)
	q.setInt("limit", p.Limit)
	q.optString("status", string(p.Status))
	q.optString("sort_by", p.SortBy)
	q.optString("sort_order", p.SortOrder)
	req := Request{Method: http.MethodGet, Path: conflictsPath(userID), Query: q.values()}
	raw, err := call(ctx, d, req, sdkerrors.Scope{Target: sdkerrors.TargetUser, UserID: userID})
	if err != nil {
		return types.Page[types.MergeConflict]{}, err
	}
	return types.DecodeMergeConflicts(raw)
}

// GetMergeConflict retrieves one merge conflict.
func GetMergeConflict(ctx context.Context, d Doer, userID, conflictID string) (types.MergeConflict, error) {
	if err := ctx.Err(); err != nil {
		return types.MergeConflict{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.MergeConflict{}, err
	}
	if err := types.ValidateIDPresent(conflictID, "conflictId"); err != nil {
		return types.MergeConflict{}, err
	}
	req := Request{Method: http.MethodGet, Path: conflictPath(userID, conflictID)}
	raw, err := call(ctx, d, req, conflictScope(userID, conflictID))
	if err != nil {
		return types.MergeConflict{}, err
	}
	return types.DecodeMergeConflict(raw)
}

// ResolveMergeConflict submits answers to the clarifying questions and
// returns the conflict as the server sees it afterwards.
func ResolveMergeConflict(ctx context.Context, d Doer, userID, conflictID string, answers []types.MergeConflictAnswer) (types.MergeConflict, error) {
	if err := ctx.Err(); err != nil {
		return types.MergeConflict{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.MergeConflict{}, err
	}
	if err := types.ValidateIDPresent(conflictID, "conflictId"); err != nil {
		return types.MergeConflict{}, err
	}
	if err := types.ValidateAnswers(answers); err != nil {
		return types.MergeConflict{}, err
	}
	qa := make([]map[string]any, 0, len(answers))
	for _, a := range answers {
		qa = append(qa, body{"question": a.Question, "answer": a.Answer}.optString("message", a.Message))
	}
	req := Request{
		Method: http.MethodPost,
		Path:   conflictPath(userID, conflictID) + "/resolve",
		Body:   body{"answers": map[string]any{"question_answers": qa}},
	}
	scope := conflictScope(userID, conflictID)
	scope.Op = sdkerrors.OpResolveConflict
	raw, err := call(ctx, d, req, scope)
	if err != nil {
		return types.MergeConflict{}, err
	}
	return types.DecodeMergeConflict(raw)
}
