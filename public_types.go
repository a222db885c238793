package recallrai

import "github.com/recallrai/sdk-go/internal/types"

// Public type aliases so SDK consumers can import only the root package.
type (
	// Snapshots
	UserSnapshot          = types.User
	SessionSnapshot       = types.Session
	MergeConflictSnapshot = types.MergeConflict

	// Domain values
	Message             = types.Message
	UserMessage         = types.UserMessage
	MemoryItem          = types.MemoryItem
	MemoryVersion       = types.MemoryVersion
	MemoryRelationship  = types.MemoryRelationship
	ConflictingMemory   = types.ConflictingMemory
	NewMemory           = types.NewMemory
	ClarifyingQuestion  = types.ClarifyingQuestion
	MergeConflictAnswer = types.MergeConflictAnswer
	Context             = types.Context

	// Enums
	SessionStatus       = types.SessionStatus
	MessageRole         = types.MessageRole
	MergeConflictStatus = types.MergeConflictStatus
	RecallStrategy      = types.RecallStrategy

	// Requests
	ListUsersParams          = types.ListUsersParams
	UpdateUserParams         = types.UpdateUserParams
	CreateSessionParams      = types.CreateSessionParams
	ListSessionsParams       = types.ListSessionsParams
	ListMemoriesParams       = types.ListMemoriesParams
	ListMergeConflictsParams = types.ListMergeConflictsParams
	AddMessageParams         = types.AddMessageParams
	ContextParams            = types.ContextParams
)

const (
	SessionPending             = types.SessionPending
	SessionProcessing          = types.SessionProcessing
	SessionProcessed           = types.SessionProcessed
	SessionFailed              = types.SessionFailed
	SessionInsufficientBalance = types.SessionInsufficientBalance

	RoleUser      = types.RoleUser
	RoleAssistant = types.RoleAssistant

	ConflictPending   = types.ConflictPending
	ConflictInQueue   = types.ConflictInQueue
	ConflictResolving = types.ConflictResolving
	ConflictResolved  = types.ConflictResolved
	ConflictFailed    = types.ConflictFailed

	RecallLowLatency = types.RecallLowLatency
	RecallBalanced   = types.RecallBalanced
	RecallDeep       = types.RecallDeep
)

// UserList is one page of users.
type UserList struct {
	Users   []*User
	Total   int
	HasMore bool
}

// SessionList is one page of a user's sessions.
type SessionList struct {
	Sessions []*Session
	Total    int
	HasMore  bool
}

// MergeConflictList is one page of a user's merge conflicts.
type MergeConflictList struct {
	Conflicts []*MergeConflict
	Total     int
	HasMore   bool
}

// MemoryList is one page of a user's memories.
type MemoryList struct {
	Items   []MemoryItem
	Total   int
	HasMore bool
}

// MessageList is one page of a session's messages.
type MessageList struct {
	Messages []Message
	Total    int
	HasMore  bool
}

// Int returns a pointer to v, for optional numeric parameters.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
