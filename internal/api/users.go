package api

import (
	"context"
	"net/http"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
	"github.com/recallrai/sdk-go/internal/types"
)

// CreateUser registers a new user. A 409 means the id is taken.
func CreateUser(ctx context.Context, d Doer, userID string, metadata map[string]any) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.User{}, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	req := Request{
		Method: http.MethodPost,
		Path:   usersPath(),
		Body:   body{"user_id": userID, "metadata": metadata},
	}
	raw, err := call(ctx, d, req, sdkerrors.Scope{Op: sdkerrors.OpCreateUser, Target: sdkerrors.TargetUser, UserID: userID})
	if err != nil {
		return types.User{}, err
	}
	return types.DecodeUser(raw)
}

// GetUser retrieves a user by ID.
func GetUser(ctx context.Context, d Doer, userID string) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.User{}, err
	}
	req := Request{Method: http.MethodGet, Path: userPath(userID)}
	raw, err := call(ctx, d, req, sdkerrors.Scope{Target: sdkerrors.TargetUser, UserID: userID})
	if err != nil {
		return types.User{}, err
	}
	return types.DecodeUser(raw)
}

// ListUsers returns one page of users.
func ListUsers(ctx context.Context, d Doer, p types.ListUsersParams) (types.Page[types.User], error) {
	if err := ctx.Err(); err != nil {
		return types.Page[types.User]{}, err
	}
	if p.Limit == 0 {
		p.Limit = types.DefaultLimit
	}
	if err := types.ValidatePage(p.Offset, p.Limit); err != nil {
		return types.Page[types.User]{}, err
	}
	q := newQuery()
	q.setInt("offset", p.Offset)
	q.setInt("limit", p.Limit)
	if err := q.jsonFilter("metadata_filter", p.MetadataFilter); err != nil {
		return types.Page[types.User]{}, err
	}
	req := Request{Method: http.MethodGet, Path: usersPath(), Query: q.values()}
	raw, err := call(ctx, d, req, sdkerrors.Scope{})
	if err != nil {
		return types.Page[types.User]{}, err
	}
	return types.DecodeUsers(raw)
}

// UpdateUser sends the non-zero fields of p and returns the server's view of
// the user afterwards.
func UpdateUser(ctx context.Context, d Doer, userID string, p types.UpdateUserParams) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return types.User{}, err
	}
	b := body{}.optMap("new_metadata", p.NewMetadata).optString("new_user_id", p.NewUserID)
	req := Request{Method: http.MethodPut, Path: userPath(userID), Body: b}
	scope := sdkerrors.Scope{Op: sdkerrors.OpUpdateUser, Target: sdkerrors.TargetUser, UserID: userID, NewUserID: p.NewUserID}
	raw, err := call(ctx, d, req, scope)
	if err != nil {
		return types.User{}, err
	}
	return types.DecodeUser(raw)
}

// DeleteUser removes a user by ID. The backend answers 204 No Content.
func DeleteUser(ctx context.Context, d Doer, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return err
	}
	req := Request{Method: http.MethodDelete, Path: userPath(userID)}
	_, err := call(ctx, d, req, sdkerrors.Scope{Target: sdkerrors.TargetUser, UserID: userID})
	return err
}
