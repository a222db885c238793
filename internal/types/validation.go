package types

import (
	"strings"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
)

// APIKeyPrefix is the fixed prefix every RecallrAI API key carries.
const APIKeyPrefix = "rai_"

// ValidateAPIKey checks the key format before anything is built around it.
func ValidateAPIKey(key string) error {
	if !strings.HasPrefix(key, APIKeyPrefix) {
		return sdkerrors.Local("API key must start with %q", APIKeyPrefix)
	}
	return nil
}

// ValidateIDPresent rejects empty identifiers that would produce a
// malformed path.
func ValidateIDPresent(id, name string) error {
	if strings.TrimSpace(id) == "" {
		return sdkerrors.Local("%s must not be empty", name)
	}
	return nil
}

// ValidatePage checks offset and limit bounds.
func ValidatePage(offset, limit int) error {
	if offset < 0 {
		return sdkerrors.Local("offset must be >= 0, got %d", offset)
	}
	if limit < 1 || limit > MaxLimit {
		return sdkerrors.Local("limit must be between 1 and %d, got %d", MaxLimit, limit)
	}
	return nil
}

// ValidateLastN checks the count of the cross-session messages endpoint.
func ValidateLastN(n int) error {
	if n < 1 || n > MaxLastNMessages {
		return sdkerrors.Local("n must be between 1 and %d, got %d", MaxLastNMessages, n)
	}
	return nil
}

// ValidateCreateSession checks the inactivity window and custom timestamp.
func ValidateCreateSession(p CreateSessionParams) error {
	if p.AutoProcessAfterSeconds != 0 && p.AutoProcessAfterSeconds < MinAutoProcessSeconds {
		return sdkerrors.Local("auto_process_after_seconds must be >= %d, got %d", MinAutoProcessSeconds, p.AutoProcessAfterSeconds)
	}
	if p.CustomCreatedAt != nil {
		if err := RequireUTC("custom_created_at", *p.CustomCreatedAt); err != nil {
			return sdkerrors.Local("%v", err)
		}
	}
	return nil
}

// ValidateMessage checks an add-message call.
func ValidateMessage(role MessageRole, content string, p AddMessageParams) error {
	if _, err := ParseMessageRole(string(role)); err != nil {
		return sdkerrors.Local("%v", err)
	}
	if content == "" {
		return sdkerrors.Local("content must not be empty")
	}
	if p.Timestamp != nil {
		if err := RequireUTC("timestamp", *p.Timestamp); err != nil {
			return sdkerrors.Local("%v", err)
		}
	}
	return nil
}

// ValidateContextParams checks ranges of the context tunables.
func ValidateContextParams(p ContextParams) error {
	if p.RecallStrategy != "" {
		if _, err := ParseRecallStrategy(string(p.RecallStrategy)); err != nil {
			return sdkerrors.Local("%v", err)
		}
	}
	for name, v := range map[string]*int{
		"min_top_k":        p.MinTopK,
		"max_top_k":        p.MaxTopK,
		"last_n_messages":  p.LastNMessages,
		"last_n_summaries": p.LastNSummaries,
	} {
		if v == nil {
			continue
		}
		if (name == "min_top_k" || name == "max_top_k") && *v < 1 {
			return sdkerrors.Local("%s must be >= 1, got %d", name, *v)
		}
		if *v < 0 {
			return sdkerrors.Local("%s must be >= 0, got %d", name, *v)
		}
	}
	if p.MinTopK != nil && p.MaxTopK != nil && *p.MinTopK > *p.MaxTopK {
		return sdkerrors.Local("min_top_k (%d) must not exceed max_top_k (%d)", *p.MinTopK, *p.MaxTopK)
	}
	for name, v := range map[string]*float64{
		"memories_threshold":  p.MemoriesThreshold,
		"summaries_threshold": p.SummariesThreshold,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return sdkerrors.Local("%s must be between 0 and 1, got %g", name, *v)
		}
	}
	return nil
}

// ValidateAnswers rejects empty answer sets and blank entries.
func ValidateAnswers(answers []MergeConflictAnswer) error {
	if len(answers) == 0 {
		return sdkerrors.Local("answers must not be empty")
	}
	for i, a := range answers {
		if strings.TrimSpace(a.Question) == "" || strings.TrimSpace(a.Answer) == "" {
			return sdkerrors.Local("answer %d must have a question and an answer", i)
		}
	}
	return nil
}

// ValidateSortOrder accepts "asc" and "desc".
func ValidateSortOrder(order string) error {
	if order != "asc" && order != "desc" {
		return sdkerrors.Local("sort_order must be asc or desc, got %q", order)
	}
	return nil
}
