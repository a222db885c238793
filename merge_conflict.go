package recallrai

import (
	"context"
	"fmt"

	"github.com/recallrai/sdk-go/internal/api"
	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
	"github.com/recallrai/sdk-go/internal/types"
)

// MergeConflict is a handle on a conflict between a newly extracted memory
// and existing ones.
type MergeConflict struct {
	conn   *conn
	userID string
	snap   types.MergeConflict
}

func newMergeConflict(c *conn, userID string, mc types.MergeConflict) *MergeConflict {
	if userID == "" {
		userID = mc.UserID
	}
	return &MergeConflict{conn: c, userID: userID, snap: mc}
}

// ID returns the conflict id.
func (m *MergeConflict) ID() string { return m.snap.ID }

// UserID returns the owning user's id.
func (m *MergeConflict) UserID() string { return m.userID }

// Status returns the status of the cached snapshot.
func (m *MergeConflict) Status() MergeConflictStatus { return m.snap.Status }

// Snapshot returns the cached snapshot.
func (m *MergeConflict) Snapshot() MergeConflictSnapshot { return m.snap }

// Resolve answers the clarifying questions. A conflict whose cached status
// is already resolved or failed is refused without a request.
func (m *MergeConflict) Resolve(ctx context.Context, answers []MergeConflictAnswer) error {
	if err := m.conn.check(); err != nil {
		return err
	}
	if m.snap.Status.Terminal() {
		localRefusalsTotal.WithLabelValues("resolve_merge_conflict").Inc()
		return &sdkerrors.Error{
			Kind:       sdkerrors.KindMergeConflictAlreadyResolved,
			Message:    fmt.Sprintf("merge conflict %s is already %s", m.ID(), m.snap.Status),
			UserID:     m.userID,
			ConflictID: m.ID(),
		}
	}
	snap, err := api.ResolveMergeConflict(ctx, m.conn.d, m.userID, m.ID(), answers)
	if err != nil {
		return err
	}
	m.snap = snap
	return nil
}

// Refresh re-fetches the conflict and replaces the snapshot wholesale.
func (m *MergeConflict) Refresh(ctx context.Context) error {
	if err := m.conn.check(); err != nil {
		return err
	}
	snap, err := api.GetMergeConflict(ctx, m.conn.d, m.userID, m.ID())
	if err != nil {
		return err
	}
	m.snap = snap
	return nil
}
