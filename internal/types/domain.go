package types

import "time"

// ------------------------------
// Snapshots
// ------------------------------
//
// Every value below is a decoded copy of a server entity at the moment of
// the last successful response. Handles replace them wholesale.

// User is a user snapshot.
type User struct {
	UserID       string         `json:"user_id"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
}

// Session is a session snapshot.
type Session struct {
	SessionID string         `json:"session_id"`
	Status    SessionStatus  `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata"`
}

// Message is one message of a session.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// UserMessage is a message returned by the cross-session messages endpoint.
type UserMessage struct {
	Message
	SessionID string `json:"session_id,omitempty"`
}

// ConflictingMemory is an existing memory contradicted by new content.
type ConflictingMemory struct {
	MemoryID       string     `json:"memory_id,omitempty"`
	Content        string     `json:"content"`
	Reason         string     `json:"reason"`
	EventDateStart *time.Time `json:"event_date_start,omitempty"`
	EventDateEnd   *time.Time `json:"event_date_end,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// NewMemory is one candidate memory of a conflict.
type NewMemory struct {
	Content        string     `json:"content"`
	EventDateStart *time.Time `json:"event_date_start,omitempty"`
	EventDateEnd   *time.Time `json:"event_date_end,omitempty"`
}

// ClarifyingQuestion is a question the user must answer to resolve a
// conflict.
type ClarifyingQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// MergeConflict is a merge conflict snapshot. NewMemoryContent and
// NewMemories are mutually exclusive. ResolutionData and ResolvedAt are set
// only once the conflict left the queue.
type MergeConflict struct {
	ID                  string               `json:"id"`
	UserID              string               `json:"custom_user_id"`
	SessionID           string               `json:"project_user_session_id"`
	NewMemoryContent    string               `json:"new_memory_content,omitempty"`
	NewMemories         []NewMemory          `json:"new_memories,omitempty"`
	ConflictingMemories []ConflictingMemory  `json:"conflicting_memories"`
	ClarifyingQuestions []ClarifyingQuestion `json:"clarifying_questions"`
	Status              MergeConflictStatus  `json:"status"`
	ResolutionData      map[string]any       `json:"resolution_data,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	ResolvedAt          *time.Time           `json:"resolved_at,omitempty"`
}

// MergeConflictAnswer answers one clarifying question.
type MergeConflictAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Message  string `json:"message,omitempty"`
}

// MemoryVersion is a previous version of a memory.
type MemoryVersion struct {
	VersionNumber int        `json:"version_number,omitempty"`
	Content       string     `json:"content"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ExpiredAt     *time.Time `json:"expired_at,omitempty"`
}

// MemoryRelationship links a memory to a connected one.
type MemoryRelationship struct {
	MemoryID string `json:"memory_id"`
	Content  string `json:"content,omitempty"`
}

// MemoryItem is one stored memory of a user.
type MemoryItem struct {
	MemoryID          string               `json:"memory_id"`
	Categories        []string             `json:"categories"`
	Content           string               `json:"content"`
	CreatedAt         time.Time            `json:"created_at"`
	SessionID         string               `json:"session_id,omitempty"`
	PreviousVersions  []MemoryVersion      `json:"previous_versions,omitempty"`
	ConnectedMemories []MemoryRelationship `json:"connected_memories,omitempty"`
}

// Context is the recalled context for a session.
type Context struct {
	Context string `json:"context"`
}

// Page is one page of a paginated listing. HasMore is forwarded from the
// server as is.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}
