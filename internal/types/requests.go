package types

import "time"

// Pagination defaults and bounds shared by every list endpoint.
const (
	DefaultLimit         = 10
	DefaultMemoriesLimit = 20
	DefaultMessagesLimit = 50
	MaxLimit             = 200
	MaxLastNMessages     = 100
)

// MinAutoProcessSeconds is the smallest inactivity window the service
// accepts before it processes a session on its own.
const MinAutoProcessSeconds = 600

// ListUsersParams filters GET /users.
type ListUsersParams struct {
	Offset         int
	Limit          int            // 0 selects DefaultLimit
	MetadataFilter map[string]any // exact match on keys
}

// UpdateUserParams carries the fields of PUT /users/{id}. Zero fields are not
// sent.
type UpdateUserParams struct {
	NewMetadata map[string]any
	NewUserID   string
}

// CreateSessionParams configures POST /users/{id}/sessions.
type CreateSessionParams struct {
	// AutoProcessAfterSeconds of 0 selects MinAutoProcessSeconds.
	AutoProcessAfterSeconds int
	Metadata                map[string]any
	// CustomCreatedAt backdates the session. It must be located in UTC.
	CustomCreatedAt *time.Time
}

// ListSessionsParams filters GET /users/{id}/sessions.
type ListSessionsParams struct {
	Offset         int
	Limit          int
	MetadataFilter map[string]any
	StatusFilter   []SessionStatus
}

// ListMemoriesParams filters GET /users/{id}/memories. Nil booleans leave
// the server default in place.
type ListMemoriesParams struct {
	Offset                   int
	Limit                    int // 0 selects DefaultMemoriesLimit
	Categories               []string
	SessionIDFilter          []string
	SessionMetadataFilter    map[string]any
	IncludePreviousVersions  *bool
	IncludeConnectedMemories *bool
}

// ListMergeConflictsParams filters GET /users/{id}/merge-conflicts.
type ListMergeConflictsParams struct {
	Offset    int
	Limit     int
	Status    MergeConflictStatus // empty means any
	SortBy    string              // defaults to "created_at"
	SortOrder string              // "asc" or "desc", defaults to "desc"
}

// AddMessageParams carries optional fields of add-message.
type AddMessageParams struct {
	// Timestamp overrides the server receive time. It must be located in UTC.
	Timestamp *time.Time
}

// ContextParams tunes GET .../context. Nil and zero fields are not sent.
type ContextParams struct {
	RecallStrategy      RecallStrategy
	MinTopK             *int
	MaxTopK             *int
	MemoriesThreshold   *float64
	SummariesThreshold  *float64
	LastNMessages       *int
	LastNSummaries      *int
	Timezone            string
	IncludeSystemPrompt *bool
}
