// ABOUTME: Integration tests for the babymeasure CLI.
// ABOUTME: Builds the binary and walks an add/list/stats/export workflow.
package test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(projectRoot, "babymeasure")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/babymeasure")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	// Point the CLI at a sqlite backend in a temp directory.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	cfg := map[string]string{
		"backend":  "sqlite",
		"data_dir": tmpDir,
		"subject":  "emma",
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, raw, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = append(os.Environ(), "BABY_CONFIG_FILE="+configPath)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Log a weight
	output, err := run("add", "weight", "4.2")
	if err != nil {
		t.Fatalf("Failed to add weight: %v\n%s", err, output)
	}
	if !strings.Contains(output, "weight") {
		t.Errorf("Expected 'weight' in output, got: %s", output)
	}

	// Composite body entry
	output, err = run("add", "body", "4.2", "54", "37.5")
	if err != nil {
		t.Fatalf("Failed to add body: %v\n%s", err, output)
	}

	// Nappy event needs no value
	output, err = run("add", "poop")
	if err != nil {
		t.Fatalf("Failed to add poop: %v\n%s", err, output)
	}

	// Listing
	output, err = run("list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "weight") || !strings.Contains(output, "poop") {
		t.Errorf("Expected weight and poop in list output, got: %s", output)
	}

	// Latest values
	output, err = run("latest", "weight")
	if err != nil {
		t.Fatalf("Failed to get latest: %v\n%s", err, output)
	}
	if !strings.Contains(output, "4.2") {
		t.Errorf("Expected '4.2' in latest output, got: %s", output)
	}

	// Export round trip
	backupPath := filepath.Join(tmpDir, "backup.json")
	output, err = run("export", "-o", backupPath)
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !strings.Contains(string(data), `"metric"`) {
		t.Errorf("Expected measurements in backup, got: %s", data)
	}
}
