package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artpar/wizide/adapters/notify"
)

func TestLogger_WritesAndPublishes(t *testing.T) {
	var buf bytes.Buffer
	n := notify.New(zerolog.New(&buf))

	var got []notify.Notice
	n.Subscribe(func(x notify.Notice) { got = append(got, x) })

	ctx := context.Background()
	n.Success(ctx, "Updated")
	n.Info(ctx, "Build Finish")
	n.Error(ctx, "Error on build")

	want := []notify.Notice{
		{Level: notify.LevelSuccess, Message: "Updated"},
		{Level: notify.LevelInfo, Message: "Build Finish"},
		{Level: notify.LevelError, Message: "Error on build"},
	}
	if len(got) != len(want) {
		t.Fatalf("published %d notices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notice[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("logged %d lines, want 3", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "warn" || entry["level_ui"] != "error" || entry["component"] != "notify" {
		t.Errorf("entry = %v", entry)
	}
}
