package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRecipe = `{
  "manifest": {
    "id": "recipe-notify",
    "name": "Notify",
    "version": "1.0.0",
    "min_runtime_version": "0.1.0",
    "risk_level": "Standard",
    "user_initiated_required": true,
    "permissions": {
      "notification_send": true
    }
  },
  "flow": {
    "trigger": {"trigger_type": "manual"},
    "actions": [
      {"id": "a1", "action_type": "notification.send", "params": {}}
    ]
  }
}`

func TestRun_NoArgs_PrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"arquent"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "arquent") {
		t.Errorf("usage output missing program name: %q", stdout.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"arquent", "frobnicate"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "Unknown command") {
		t.Errorf("stderr = %q, want mention of unknown command", stderr.String())
	}
}

func TestRun_RunCmd_ExecutesRecipe(t *testing.T) {
	dir := t.TempDir()
	recipePath := filepath.Join(dir, "recipe.json")
	if err := os.WriteFile(recipePath, []byte(sampleRecipe), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run([]string{"arquent", "run", "--recipe", recipePath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("code = %d, stderr = %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"status": "success"`) {
		t.Errorf("stdout = %q, want a successful execution log", stdout.String())
	}
}

func TestRun_RunCmd_MissingRecipeFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"arquent", "run"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
}

func TestRun_PublishCmd_RejectsUnsignedPackage(t *testing.T) {
	dir := t.TempDir()
	recipePath := filepath.Join(dir, "recipe.json")
	if err := os.WriteFile(recipePath, []byte(sampleRecipe), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run([]string{"arquent", "publish", "--recipe", recipePath}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("code = %d, want 1 (unsigned package should be rejected)", code)
	}
	if !strings.Contains(stderr.String(), "rejected") {
		t.Errorf("stderr = %q, want rejection message", stderr.String())
	}
}
