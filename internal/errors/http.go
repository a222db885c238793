package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Op names the endpoint families whose statuses carry endpoint-specific
// meaning. Everything else is OpOther.
type Op int

const (
	OpOther Op = iota
	OpCreateUser
	OpUpdateUser
	OpAddMessage
	OpProcessSession
	OpListMemories
	OpResolveConflict
)

// Target is the innermost resource a request addresses.
type Target int

const (
	TargetNone Target = iota
	TargetUser
	TargetSession
	TargetMergeConflict
)

// Scope describes the request a response belongs to. It is all Map needs to
// turn a status into a kind.
type Scope struct {
	Op     Op
	Target Target

	UserID        string
	NewUserID     string // update-user rename target
	SessionID     string
	SessionStatus string // last status the caller observed
	ConflictID    string
}

// Map converts a non-2xx response into exactly one *Error.
func Map(status int, body []byte, s Scope) *Error {
	detail := Detail(body)
	e := &Error{
		Kind:       KindAPI,
		Message:    detail,
		StatusCode: status,
		UserID:     s.UserID,
		SessionID:  s.SessionID,
		ConflictID: s.ConflictID,
		Body:       string(body),
	}

	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuthentication
	case http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	case http.StatusInternalServerError:
		e.Kind = KindInternalServer
	case http.StatusNotFound:
		e.Kind = notFoundKind(detail, s)
	case http.StatusConflict:
		switch s.Op {
		case OpCreateUser:
			e.Kind = KindUserAlreadyExists
		case OpUpdateUser:
			e.Kind = KindUserAlreadyExists
			if s.NewUserID != "" {
				e.UserID = s.NewUserID
			}
		}
	case http.StatusBadRequest:
		switch s.Op {
		case OpAddMessage, OpProcessSession:
			e.Kind = KindInvalidSessionState
			e.SessionStatus = s.SessionStatus
		case OpListMemories:
			e.Kind = KindInvalidCategories
			e.InvalidCategories = stringList(body, "invalid_categories")
		case OpResolveConflict:
			e.Kind = ClassifyResolveDetail(detail)
			if e.Kind == KindMergeConflictMissingAnswers {
				e.MissingQuestions = stringList(body, "missing_questions")
			}
		}
	}

	if e.Message == "" {
		e.Message = defaultMessage(e, s, status)
	}
	return e
}

// Resolve-400 message fragments. The server sends no machine-readable
// discriminator for these four conditions, so wording changes on the server
// land in the KindAPI fallback.
const (
	resolveAlreadyResolved  = "already resolved"
	resolveInvalidQuestions = "Invalid questions provided"
	resolveMissingAnswers   = "Missing answers for the following questions"
	resolveInvalidAnswer    = "Invalid answer"
	resolveForQuestion      = "for question"
)

// ClassifyResolveDetail maps the detail of a 400 from the resolve endpoint to
// its kind. It is the only place substring matching decides a kind.
func ClassifyResolveDetail(detail string) Kind {
	switch {
	case strings.Contains(detail, resolveAlreadyResolved):
		return KindMergeConflictAlreadyResolved
	case strings.Contains(detail, resolveInvalidQuestions):
		return KindMergeConflictInvalidQuestions
	case strings.Contains(detail, resolveMissingAnswers):
		return KindMergeConflictMissingAnswers
	case strings.Contains(detail, resolveInvalidAnswer) && strings.Contains(detail, resolveForQuestion):
		return KindMergeConflictInvalidAnswer
	default:
		return KindAPI
	}
}

// Detail extracts the human-readable message from an error body. It accepts
// a string detail, a list of {msg} objects, or an object with a message.
// Non-JSON bodies are returned trimmed.
func Detail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	d := gjson.GetBytes(body, "detail")
	switch {
	case !d.Exists():
		if m := gjson.GetBytes(body, "message"); m.Type == gjson.String {
			return m.String()
		}
		return ""
	case d.Type == gjson.String:
		return d.String()
	case d.IsArray():
		var parts []string
		d.ForEach(func(_, item gjson.Result) bool {
			if item.IsObject() {
				if msg := item.Get("msg"); msg.Exists() {
					parts = append(parts, msg.String())
				}
				return true
			}
			parts = append(parts, item.String())
			return true
		})
		return strings.Join(parts, "; ")
	case d.IsObject():
		if m := d.Get("message"); m.Exists() {
			return m.String()
		}
		return d.Raw
	default:
		return d.String()
	}
}

// stringList reads a list of strings from detail.<field>, falling back to a
// top-level <field>.
func stringList(body []byte, field string) []string {
	if !gjson.ValidBytes(body) {
		return nil
	}
	r := gjson.GetBytes(body, "detail."+field)
	if !r.Exists() {
		r = gjson.GetBytes(body, field)
	}
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}

func notFoundKind(detail string, s Scope) Kind {
	switch s.Target {
	case TargetUser:
		return KindUserNotFound
	case TargetSession, TargetMergeConflict:
		if namesMissingUser(detail, s.UserID) {
			return KindUserNotFound
		}
		if s.Target == TargetSession {
			return KindSessionNotFound
		}
		return KindMergeConflictNotFound
	default:
		return KindAPI
	}
}

func namesMissingUser(detail, userID string) bool {
	if userID == "" {
		return false
	}
	return strings.Contains(detail, fmt.Sprintf("User %s not found", userID)) ||
		strings.Contains(detail, fmt.Sprintf("User with ID %s not found", userID))
}

func defaultMessage(e *Error, s Scope, status int) string {
	switch e.Kind {
	case KindUserNotFound:
		return fmt.Sprintf("User %s not found", e.UserID)
	case KindUserAlreadyExists:
		return fmt.Sprintf("User %s already exists", e.UserID)
	case KindSessionNotFound:
		return fmt.Sprintf("Session %s not found", s.SessionID)
	case KindMergeConflictNotFound:
		return fmt.Sprintf("Merge conflict %s not found", s.ConflictID)
	case KindInvalidSessionState:
		return fmt.Sprintf("operation not allowed for session with status %s", s.SessionStatus)
	case KindAPI:
		if t := http.StatusText(status); t != "" {
			return t
		}
		return "Unknown error"
	default:
		return e.Kind.String()
	}
}
