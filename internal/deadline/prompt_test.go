package deadline

import (
	"strings"
	"testing"
	"time"

	"github.com/avasilev/taskpulse/internal/domain"
)

func TestBuildPrompt_EmbedsSnapshotContext(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(time.Date(2024, 3, 4, 15, 42, 30, 0, domain.Zone))
	prompt := BuildPrompt("review the report by friday", snap)

	for _, want := range []string{
		"Monday",
		"04:03",
		"15:42",
		`"review the report by friday"`,
		"explicit_today",
		"NEXT week's occurrence",
		`"230" -> "02:30"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_IsPure(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(time.Date(2024, 3, 4, 15, 42, 0, 0, domain.Zone))
	if BuildPrompt("x", snap) != BuildPrompt("x", snap) {
		t.Fatal("same inputs must produce the same prompt")
	}
}

func TestNewSnapshot_TruncatesSeconds(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(time.Date(2024, 3, 4, 15, 42, 59, 123, domain.Zone))
	if snap.At.Second() != 0 || snap.At.Nanosecond() != 0 {
		t.Errorf("seconds not truncated: %v", snap.At)
	}
	if snap.Weekday != "Monday" || snap.Date != "04:03" || snap.Time != "15:42" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}
