package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/substate/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.json")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const counterScript = `{
  "initial": {"count": 0},
  "steps": [
    {"op": "mount", "id": "A", "key": "count"},
    {"op": "mount", "id": "W"},
    {"op": "add", "key": "count", "delta": 1},
    {"op": "flush"},
    {"op": "expect", "id": "A", "value": 1}
  ]
}`

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}

func TestReplay(t *testing.T) {
	out, err := execute(t, "replay", writeScript(t, counterScript))
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	for _, want := range []string{"script.json: 5 steps (headless)", "CONSUMER", `store: {"count":1}`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "substate_updates_total") {
		t.Error("metrics printed without --metrics")
	}
}

func TestReplayMetrics(t *testing.T) {
	out, err := execute(t, "replay", "--metrics", writeScript(t, counterScript))
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if !strings.Contains(out, `substate_updates_total{scope="key"} 1`) {
		t.Errorf("metrics missing in:\n%s", out)
	}
}

func TestReplayVisualMode(t *testing.T) {
	// Without paint steps nothing attaches, so A never sees the update.
	_, err := execute(t, "replay", "--mode", "visual", writeScript(t, counterScript))
	if !errors.Is(err, "R004") {
		t.Fatalf("replay error = %v, want R004", err)
	}
}

func TestReplayMissingScript(t *testing.T) {
	_, err := execute(t, "replay", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, "R005") {
		t.Fatalf("replay error = %v, want R005", err)
	}
}

func TestReplayBadConfig(t *testing.T) {
	_, err := execute(t, "replay", "--log-format", "xml", writeScript(t, counterScript))
	if !errors.Is(err, "C001") {
		t.Fatalf("replay error = %v, want C001", err)
	}
}

func TestExplain(t *testing.T) {
	out, err := execute(t, "explain")
	if err != nil {
		t.Fatalf("explain error = %v", err)
	}
	if !strings.Contains(out, "R001") || !strings.Contains(out, "C001") {
		t.Errorf("code list incomplete:\n%s", out)
	}

	out, err = execute(t, "explain", "r004")
	if err != nil {
		t.Fatalf("explain r004 error = %v", err)
	}
	if !strings.HasPrefix(out, "R004: Expectation failed") {
		t.Errorf("explain r004 = %q", out)
	}

	if _, err := execute(t, "explain", "Z999"); err == nil {
		t.Error("expected an error for an unknown code")
	}
}
