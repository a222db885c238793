package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

var (
	// ErrMissingField is wrapped by DecodeError when a required field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidJSON is wrapped by DecodeError when the body is not JSON.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// DecodeError reports a response body that does not match the expected
// model.
type DecodeError struct {
	Entity string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("decode %s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Envelope keys used by the service.
const (
	EnvelopeUser     = "user"
	EnvelopeSession  = "session"
	EnvelopeConflict = "conflict"
)

// Unwrap returns the object under key when the body carries it, otherwise
// the body itself.
func Unwrap(body []byte, key string) gjson.Result {
	root := gjson.ParseBytes(body)
	if v := root.Get(gjson.Escape(key)); v.IsObject() {
		return v
	}
	return root
}

// HasEnvelope reports whether body is a JSON object holding a payload under
// key or looks like the bare payload (has idField).
func HasEnvelope(body []byte, key, idField string) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	return gjson.GetBytes(body, gjson.Escape(key)).IsObject() || gjson.GetBytes(body, gjson.Escape(idField)).Exists()
}

func parseObject(body []byte, entity, key string) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &DecodeError{Entity: entity, Err: ErrInvalidJSON}
	}
	obj := Unwrap(body, key)
	if !obj.IsObject() {
		return gjson.Result{}, &DecodeError{Entity: entity, Err: fmt.Errorf("expected object, got %s", obj.Type)}
	}
	return obj, nil
}

// ------------------------------
// Entity decoders
// ------------------------------

// DecodeUser decodes a user body, enveloped under "user" or bare.
func DecodeUser(body []byte) (User, error) {
	obj, err := parseObject(body, "user", EnvelopeUser)
	if err != nil {
		return User{}, err
	}
	return userFrom(obj)
}

func userFrom(obj gjson.Result) (User, error) {
	r := fields{entity: "user", obj: obj}
	u := User{
		UserID:       r.str("user_id"),
		Metadata:     r.object("metadata"),
		CreatedAt:    r.timestamp("created_at"),
		LastActiveAt: r.timestamp("last_active_at"),
	}
	return u, r.err
}

// DecodeSession decodes a session body, enveloped under "session" or bare.
func DecodeSession(body []byte) (Session, error) {
	obj, err := parseObject(body, "session", EnvelopeSession)
	if err != nil {
		return Session{}, err
	}
	return sessionFrom(obj)
}

func sessionFrom(obj gjson.Result) (Session, error) {
	r := fields{entity: "session", obj: obj}
	s := Session{
		SessionID: r.str("session_id"),
		Status:    sessionStatus(&r, "status"),
		CreatedAt: r.timestamp("created_at"),
		Metadata:  r.object("metadata"),
	}
	return s, r.err
}

// DecodeStatus decodes the body of the session status endpoint.
func DecodeStatus(body []byte) (SessionStatus, error) {
	obj, err := parseObject(body, "session_status", EnvelopeSession)
	if err != nil {
		return "", err
	}
	r := fields{entity: "session_status", obj: obj}
	st := sessionStatus(&r, "status")
	return st, r.err
}

// DecodeMergeConflict decodes a merge conflict body, enveloped under
// "conflict" or bare.
func DecodeMergeConflict(body []byte) (MergeConflict, error) {
	obj, err := parseObject(body, "merge_conflict", EnvelopeConflict)
	if err != nil {
		return MergeConflict{}, err
	}
	return mergeConflictFrom(obj)
}

func mergeConflictFrom(obj gjson.Result) (MergeConflict, error) {
	r := fields{entity: "merge_conflict", obj: obj}
	mc := MergeConflict{
		ID:                  r.str("id"),
		UserID:              r.str("custom_user_id"),
		SessionID:           r.str("project_user_session_id"),
		NewMemoryContent:    r.optStr("new_memory_content"),
		ConflictingMemories: []ConflictingMemory{},
		ClarifyingQuestions: []ClarifyingQuestion{},
		ResolutionData:      r.optObject("resolution_data"),
		CreatedAt:           r.timestamp("created_at"),
		ResolvedAt:          r.optTimestamp("resolved_at"),
	}
	if raw := r.optStr("status"); r.present("status") {
		st, err := ParseMergeConflictStatus(raw)
		r.fail("status", err)
		mc.Status = st
	} else {
		r.fail("status", ErrMissingField)
	}

	r.each("new_memories", func(v gjson.Result) {
		if v.Type == gjson.String {
			mc.NewMemories = append(mc.NewMemories, NewMemory{Content: v.String()})
			return
		}
		m := fields{entity: "new_memory", obj: v}
		nm := NewMemory{
			Content:        m.str("content"),
			EventDateStart: m.optTimestamp("event_date_start"),
			EventDateEnd:   m.optTimestamp("event_date_end"),
		}
		r.fail("new_memories", m.err)
		mc.NewMemories = append(mc.NewMemories, nm)
	})
	r.each("conflicting_memories", func(v gjson.Result) {
		m := fields{entity: "conflicting_memory", obj: v}
		cm := ConflictingMemory{
			MemoryID:       m.optStr("memory_id"),
			Content:        m.str("content"),
			Reason:         m.str("reason"),
			EventDateStart: m.optTimestamp("event_date_start"),
			EventDateEnd:   m.optTimestamp("event_date_end"),
			CreatedAt:      m.optTimestamp("created_at"),
		}
		r.fail("conflicting_memories", m.err)
		mc.ConflictingMemories = append(mc.ConflictingMemories, cm)
	})
	r.each("clarifying_questions", func(v gjson.Result) {
		q := fields{entity: "clarifying_question", obj: v}
		cq := ClarifyingQuestion{
			Question: q.str("question"),
			Options:  q.stringList("options"),
		}
		r.fail("clarifying_questions", q.err)
		mc.ClarifyingQuestions = append(mc.ClarifyingQuestions, cq)
	})
	return mc, r.err
}

func messageFrom(obj gjson.Result) (Message, error) {
	r := fields{entity: "message", obj: obj}
	m := Message{
		Content:   r.str("content"),
		Timestamp: r.timestamp("timestamp"),
	}
	if raw := r.optStr("role"); r.present("role") {
		role, err := ParseMessageRole(raw)
		r.fail("role", err)
		m.Role = role
	} else {
		r.fail("role", ErrMissingField)
	}
	return m, r.err
}

func userMessageFrom(obj gjson.Result) (UserMessage, error) {
	m, err := messageFrom(obj)
	if err != nil {
		return UserMessage{}, err
	}
	r := fields{entity: "message", obj: obj}
	return UserMessage{Message: m, SessionID: r.optStr("session_id")}, nil
}

func memoryFrom(obj gjson.Result) (MemoryItem, error) {
	r := fields{entity: "memory", obj: obj}
	if !r.present("categories") {
		r.fail("categories", ErrMissingField)
	}
	m := MemoryItem{
		MemoryID:   r.str("memory_id"),
		Categories: r.stringList("categories"),
		Content:    r.str("content"),
		CreatedAt:  r.timestamp("created_at"),
		SessionID:  r.optStr("session_id"),
	}
	r.each("previous_versions", func(v gjson.Result) {
		pv := fields{entity: "memory_version", obj: v}
		m.PreviousVersions = append(m.PreviousVersions, MemoryVersion{
			VersionNumber: int(pv.obj.Get("version_number").Int()),
			Content:       pv.optStr("content"),
			CreatedAt:     pv.optTimestamp("created_at"),
			ExpiredAt:     pv.optTimestamp("expired_at"),
		})
		r.fail("previous_versions", pv.err)
	})
	r.each("connected_memories", func(v gjson.Result) {
		cm := fields{entity: "memory_relationship", obj: v}
		m.ConnectedMemories = append(m.ConnectedMemories, MemoryRelationship{
			MemoryID: cm.str("memory_id"),
			Content:  cm.optStr("content"),
		})
		r.fail("connected_memories", cm.err)
	})
	return m, r.err
}

// DecodeContext decodes the body of the context endpoint.
func DecodeContext(body []byte) (Context, error) {
	obj, err := parseObject(body, "context", "")
	if err != nil {
		return Context{}, err
	}
	r := fields{entity: "context", obj: obj}
	c := Context{Context: r.str("context")}
	return c, r.err
}

// ------------------------------
// Page decoders
// ------------------------------

// DecodeUsers decodes {users, total, has_more}.
func DecodeUsers(body []byte) (Page[User], error) {
	return decodePage(body, "user_list", "users", userFrom)
}

// DecodeSessions decodes {sessions, total, has_more}.
func DecodeSessions(body []byte) (Page[Session], error) {
	return decodePage(body, "session_list", "sessions", sessionFrom)
}

// DecodeMergeConflicts decodes {conflicts, total, has_more}.
func DecodeMergeConflicts(body []byte) (Page[MergeConflict], error) {
	return decodePage(body, "merge_conflict_list", "conflicts", mergeConflictFrom)
}

// DecodeMemories decodes {items, total, has_more}.
func DecodeMemories(body []byte) (Page[MemoryItem], error) {
	return decodePage(body, "memory_list", "items", memoryFrom)
}

// DecodeSessionMessages decodes {messages, total, has_more}.
func DecodeSessionMessages(body []byte) (Page[Message], error) {
	return decodePage(body, "message_list", "messages", messageFrom)
}

// DecodeUserMessages decodes {messages} from the cross-session endpoint.
func DecodeUserMessages(body []byte) ([]UserMessage, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Entity: "user_messages", Err: ErrInvalidJSON}
	}
	list := gjson.GetBytes(body, "messages")
	if !list.IsArray() {
		return nil, &DecodeError{Entity: "user_messages", Field: "messages", Err: ErrMissingField}
	}
	return decodeItems(list, userMessageFrom)
}

func decodePage[T any](body []byte, entity, key string, item func(gjson.Result) (T, error)) (Page[T], error) {
	if !gjson.ValidBytes(body) {
		return Page[T]{}, &DecodeError{Entity: entity, Err: ErrInvalidJSON}
	}
	root := gjson.ParseBytes(body)
	r := fields{entity: entity, obj: root}
	list := root.Get(key)
	if !list.IsArray() {
		r.fail(key, ErrMissingField)
	}
	total := r.integer("total")
	hasMore := r.boolean("has_more")
	if r.err != nil {
		return Page[T]{}, r.err
	}
	items, err := decodeItems(list, item)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Total: total, HasMore: hasMore}, nil
}

func decodeItems[T any](list gjson.Result, item func(gjson.Result) (T, error)) ([]T, error) {
	items := make([]T, 0, len(list.Array()))
	var err error
	list.ForEach(func(_, v gjson.Result) bool {
		var it T
		it, err = item(v)
		if err != nil {
			return false
		}
		items = append(items, it)
		return true
	})
	return items, err
}

// ------------------------------
// Field access
// ------------------------------

// fields reads typed values from one JSON object and keeps the first error.
type fields struct {
	entity string
	obj    gjson.Result
	err    error
}

func (f *fields) fail(field string, err error) {
	if err == nil || f.err != nil {
		return
	}
	var de *DecodeError
	if errors.As(err, &de) {
		f.err = err
		return
	}
	f.err = &DecodeError{Entity: f.entity, Field: field, Err: err}
}

func (f *fields) get(field string) gjson.Result {
	return f.obj.Get(gjson.Escape(field))
}

func (f *fields) present(field string) bool {
	v := f.get(field)
	return v.Exists() && v.Type != gjson.Null
}

func (f *fields) str(field string) string {
	v := f.get(field)
	if !f.present(field) {
		f.fail(field, ErrMissingField)
		return ""
	}
	if v.Type != gjson.String {
		f.fail(field, fmt.Errorf("expected string, got %s", v.Type))
		return ""
	}
	return v.String()
}

func (f *fields) optStr(field string) string {
	if !f.present(field) {
		return ""
	}
	return f.get(field).String()
}

func (f *fields) integer(field string) int {
	v := f.get(field)
	if !f.present(field) {
		f.fail(field, ErrMissingField)
		return 0
	}
	if v.Type != gjson.Number {
		f.fail(field, fmt.Errorf("expected number, got %s", v.Type))
		return 0
	}
	return int(v.Int())
}

func (f *fields) boolean(field string) bool {
	v := f.get(field)
	if !f.present(field) {
		f.fail(field, ErrMissingField)
		return false
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		f.fail(field, fmt.Errorf("expected boolean, got %s", v.Type))
		return false
	}
	return v.Bool()
}

func (f *fields) timestamp(field string) time.Time {
	if !f.present(field) {
		f.fail(field, ErrMissingField)
		return time.Time{}
	}
	t, err := ParseTimestamp(f.get(field).String())
	f.fail(field, err)
	return t
}

func (f *fields) optTimestamp(field string) *time.Time {
	if !f.present(field) {
		return nil
	}
	t, err := ParseTimestamp(f.get(field).String())
	if err != nil {
		f.fail(field, err)
		return nil
	}
	return &t
}

// object returns an optional object field, defaulting to an empty map.
func (f *fields) object(field string) map[string]any {
	if m := f.optObject(field); m != nil {
		return m
	}
	return map[string]any{}
}

func (f *fields) optObject(field string) map[string]any {
	if !f.present(field) {
		return nil
	}
	v := f.get(field)
	m, ok := v.Value().(map[string]any)
	if !ok {
		f.fail(field, fmt.Errorf("expected object, got %s", v.Type))
		return nil
	}
	return m
}

// stringList returns an optional list of strings, defaulting to an empty slice.
func (f *fields) stringList(field string) []string {
	out := []string{}
	if !f.present(field) {
		return out
	}
	v := f.get(field)
	if !v.IsArray() {
		f.fail(field, fmt.Errorf("expected array, got %s", v.Type))
		return out
	}
	for _, s := range v.Array() {
		out = append(out, s.String())
	}
	return out
}

func (f *fields) each(field string, fn func(gjson.Result)) {
	if !f.present(field) {
		return
	}
	v := f.get(field)
	if !v.IsArray() {
		f.fail(field, fmt.Errorf("expected array, got %s", v.Type))
		return
	}
	v.ForEach(func(_, item gjson.Result) bool {
		fn(item)
		return f.err == nil
	})
}

func sessionStatus(f *fields, field string) SessionStatus {
	if !f.present(field) {
		f.fail(field, ErrMissingField)
		return ""
	}
	st, err := ParseSessionStatus(f.get(field).String())
	f.fail(field, err)
	return st
}
