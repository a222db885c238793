package types

import (
	"testing"
	"time"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
)

func TestValidateAPIKey(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in string
		ok bool
	}{
		{"rai_abc", true}, {"rai_", true}, {"", false}, {"sk_abc", false}, {"RAI_abc", false}, {" rai_abc", false},
	}
	for _, c := range cases {
		err := ValidateAPIKey(c.in)
		if c.ok && err != nil {
			t.Fatalf("expected ok for %q, got %v", c.in, err)
		}
		if !c.ok {
			if k, _ := sdkerrors.KindOf(err); k != sdkerrors.KindLocalValidation {
				t.Fatalf("expected local validation error for %q, got %v", c.in, err)
			}
		}
	}
}

func TestValidatePage(t *testing.T) {
	t.Parallel()
	cases := []struct {
		offset, limit int
		ok            bool
	}{
		{0, 1, true}, {0, 200, true}, {20, 10, true}, {-1, 10, false}, {0, 0, false}, {0, 201, false},
	}
	for _, c := range cases {
		err := ValidatePage(c.offset, c.limit)
		if c.ok != (err == nil) {
			t.Fatalf("ValidatePage(%d, %d) = %v, want ok=%v", c.offset, c.limit, err, c.ok)
		}
	}
}

func TestValidateLastN(t *testing.T) {
	t.Parallel()
	for n, ok := range map[int]bool{0: false, 1: true, 100: true, 101: false} {
		if err := ValidateLastN(n); ok != (err == nil) {
			t.Fatalf("ValidateLastN(%d) = %v", n, err)
		}
	}
}

func TestValidateCreateSession(t *testing.T) {
	t.Parallel()
	utc := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("X", 7200))
	cases := []struct {
		name string
		p    CreateSessionParams
		ok   bool
	}{
		{"default", CreateSessionParams{}, true},
		{"min", CreateSessionParams{AutoProcessAfterSeconds: 600}, true},
		{"too small", CreateSessionParams{AutoProcessAfterSeconds: 599}, false},
		{"utc ts", CreateSessionParams{CustomCreatedAt: &utc}, true},
		{"non-utc ts", CreateSessionParams{CustomCreatedAt: &local}, false},
	}
	for _, c := range cases {
		if err := ValidateCreateSession(c.p); c.ok != (err == nil) {
			t.Fatalf("%s: got %v", c.name, err)
		}
	}
}

func TestValidateMessage(t *testing.T) {
	t.Parallel()
	if err := ValidateMessage(RoleUser, "hi", AddMessageParams{}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ValidateMessage("system", "hi", AddMessageParams{}); err == nil {
		t.Fatal("expected role error")
	}
	if err := ValidateMessage(RoleAssistant, "", AddMessageParams{}); err == nil {
		t.Fatal("expected content error")
	}
	ts := time.Now().In(time.FixedZone("X", 3600))
	if err := ValidateMessage(RoleUser, "hi", AddMessageParams{Timestamp: &ts}); err == nil {
		t.Fatal("expected timestamp error")
	}
}

func TestValidateContextParams(t *testing.T) {
	t.Parallel()
	one, five, zero := 1, 5, 0
	half, tooHigh := 0.5, 1.5
	cases := []struct {
		name string
		p    ContextParams
		ok   bool
	}{
		{"empty", ContextParams{}, true},
		{"full", ContextParams{RecallStrategy: RecallDeep, MinTopK: &one, MaxTopK: &five, MemoriesThreshold: &half, LastNMessages: &zero}, true},
		{"strategy", ContextParams{RecallStrategy: "fast"}, false},
		{"min>max", ContextParams{MinTopK: &five, MaxTopK: &one}, false},
		{"top k zero", ContextParams{MinTopK: &zero}, false},
		{"threshold", ContextParams{SummariesThreshold: &tooHigh}, false},
	}
	for _, c := range cases {
		if err := ValidateContextParams(c.p); c.ok != (err == nil) {
			t.Fatalf("%s: got %v", c.name, err)
		}
	}
}

func TestValidateAnswersAndSortOrder(t *testing.T) {
	t.Parallel()
	if err := ValidateAnswers(nil); err == nil {
		t.Fatal("expected error for empty answers")
	}
	if err := ValidateAnswers([]MergeConflictAnswer{{Question: "q", Answer: " "}}); err == nil {
		t.Fatal("expected error for blank answer")
	}
	if err := ValidateAnswers([]MergeConflictAnswer{{Question: "q", Answer: "a"}}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ValidateSortOrder("sideways"); err == nil {
		t.Fatal("expected sort order error")
	}
	if err := ValidateIDPresent(" ", "userId"); err == nil {
		t.Fatal("expected id error")
	}
}
