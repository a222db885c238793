package job

import (
	"strconv"
	"testing"
)

func TestShardLabel_DeterministicAndRange(t *testing.T) {
	t.Parallel()
	ids := []string{"", "u1", "s1", "user-42", "some-longer-session-id"}
	for _, id := range ids {
		got1 := ShardLabel(id)
		got2 := ShardLabel(id)
		if got1 != got2 {
			t.Fatalf("ShardLabel not deterministic for %q: %s vs %s", id, got1, got2)
		}
		n, err := strconv.Atoi(got1)
		if err != nil || n < 0 || n > 31 {
			t.Fatalf("ShardLabel out of range for %q: %s", id, got1)
		}
	}
}
