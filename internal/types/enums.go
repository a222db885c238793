package types

import (
	"encoding/json"
	"fmt"
)

// SessionStatus mirrors the server-side session state machine.
type SessionStatus string

const (
	SessionPending             SessionStatus = "pending"
	SessionProcessing          SessionStatus = "processing"
	SessionProcessed           SessionStatus = "processed"
	SessionFailed              SessionStatus = "failed"
	SessionInsufficientBalance SessionStatus = "insufficient_balance"
)

// Terminal reports whether no further server-side transition is expected.
func (s SessionStatus) Terminal() bool {
	return s == SessionProcessed || s == SessionFailed
}

// ParseSessionStatus accepts only the exact server values.
func ParseSessionStatus(v string) (SessionStatus, error) {
	switch s := SessionStatus(v); s {
	case SessionPending, SessionProcessing, SessionProcessed, SessionFailed, SessionInsufficientBalance:
		return s, nil
	}
	return "", &EnumError{Enum: "SessionStatus", Value: v}
}

func (s *SessionStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseSessionStatus)
}

// MessageRole is the author of a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func ParseMessageRole(v string) (MessageRole, error) {
	switch r := MessageRole(v); r {
	case RoleUser, RoleAssistant:
		return r, nil
	}
	return "", &EnumError{Enum: "MessageRole", Value: v}
}

func (r *MessageRole) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, r, ParseMessageRole)
}

// MergeConflictStatus is the resolution state of a merge conflict. The
// service sends these values upper-case.
type MergeConflictStatus string

const (
	ConflictPending   MergeConflictStatus = "PENDING"
	ConflictInQueue   MergeConflictStatus = "IN_QUEUE"
	ConflictResolving MergeConflictStatus = "RESOLVING"
	ConflictResolved  MergeConflictStatus = "RESOLVED"
	ConflictFailed    MergeConflictStatus = "FAILED"
)

// Terminal reports whether the conflict can no longer be resolved.
func (s MergeConflictStatus) Terminal() bool {
	return s == ConflictResolved || s == ConflictFailed
}

func ParseMergeConflictStatus(v string) (MergeConflictStatus, error) {
	switch s := MergeConflictStatus(v); s {
	case ConflictPending, ConflictInQueue, ConflictResolving, ConflictResolved, ConflictFailed:
		return s, nil
	}
	return "", &EnumError{Enum: "MergeConflictStatus", Value: v}
}

func (s *MergeConflictStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseMergeConflictStatus)
}

// RecallStrategy selects the server's context retrieval mode.
type RecallStrategy string

const (
	RecallLowLatency RecallStrategy = "low_latency"
	RecallBalanced   RecallStrategy = "balanced"
	RecallDeep       RecallStrategy = "deep"
)

func ParseRecallStrategy(v string) (RecallStrategy, error) {
	switch s := RecallStrategy(v); s {
	case RecallLowLatency, RecallBalanced, RecallDeep:
		return s, nil
	}
	return "", &EnumError{Enum: "RecallStrategy", Value: v}
}

func (s *RecallStrategy) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseRecallStrategy)
}

// EnumError reports a string outside an enum's closed set.
type EnumError struct {
	Enum  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Enum, e.Value)
}

func unmarshalEnum[T ~string](b []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
