package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/models"
	"github.com/harlan/shipcheck/internal/state"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// readyProject writes a minimal project that passes every required
// check.
func readyProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"robots.txt":  "User-agent: *\nAllow: /\n",
		"sitemap.xml": "<urlset></urlset>\n",
		"index.html": `<html><head><title>Demo</title>` +
			`<meta name="description" content="demo site">` +
			`<meta property="og:image" content="/og.png">` +
			`</head><body></body></html>`,
		"favicon.ico":          "icon",
		"apple-touch-icon.png": "icon",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRootCommand(t *testing.T) {
	output, _ := execute(t, "--help")

	if !strings.Contains(output, "shipcheck") {
		t.Errorf("help text should contain 'shipcheck', got: %s", output)
	}
	if !strings.Contains(output, "readiness") {
		t.Errorf("help text should mention readiness, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()
	if root.Use != "shipcheck" {
		t.Errorf("expected Use to be 'shipcheck', got %q", root.Use)
	}

	want := map[string]bool{"check": false, "ship": false, "history": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestCheckCommandNotReady(t *testing.T) {
	root := t.TempDir() // empty project fails the required SEO checks

	output, err := execute(t, "check", "--project", root)
	if err == nil {
		t.Fatal("check on an empty project should exit non-zero")
	}
	if !strings.Contains(err.Error(), "not ready to launch") {
		t.Errorf("error = %v, want not-ready message", err)
	}
	if !strings.Contains(output, "NOT READY") {
		t.Errorf("console output should contain verdict, got: %s", output)
	}
}

func TestCheckCommandReadyProject(t *testing.T) {
	root := readyProject(t)

	output, err := execute(t, "check", "--project", root)
	if err != nil {
		t.Fatalf("check on a ready project should succeed, got %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "READY TO LAUNCH") {
		t.Errorf("console output should contain verdict, got: %s", output)
	}
}

func TestCheckCommandJSONOutput(t *testing.T) {
	root := readyProject(t)

	output, err := execute(t, "check", "--project", root, "--report", "json")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}

	var checklist models.LaunchChecklist
	if err := json.Unmarshal([]byte(output), &checklist); err != nil {
		t.Fatalf("output is not valid checklist JSON: %v\noutput: %s", err, output)
	}
	if !checklist.ReadyToLaunch {
		t.Error("ready project should report readyToLaunch")
	}
}

func TestCheckCommandWritesReportFile(t *testing.T) {
	root := readyProject(t)
	out := filepath.Join(t.TempDir(), "report.html")

	_, err := execute(t, "check", "--project", root, "--report", "html", "--out", out)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), "<style>") {
		t.Error("HTML report should be self-contained")
	}
}

func TestCheckCommandRejectsOutWithConsole(t *testing.T) {
	root := readyProject(t)

	_, err := execute(t, "check", "--project", root, "--out", "report.txt")
	if err == nil || !strings.Contains(err.Error(), "--out requires a file format") {
		t.Errorf("expected file-format error, got %v", err)
	}
}

func TestCheckCommandRejectsUnknownFormat(t *testing.T) {
	root := readyProject(t)

	_, err := execute(t, "check", "--project", root, "--report", "pdf")
	if err == nil || !strings.Contains(err.Error(), "report_format") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestShipCommandSucceedsOnReadyProject(t *testing.T) {
	root := readyProject(t)

	output, err := execute(t, "ship", "--project", root)
	if err != nil {
		t.Fatalf("ship error = %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "SUCCESS") {
		t.Errorf("ship output should contain run verdict, got: %s", output)
	}

	// Finished cleanly: no state left, one history entry, a report on
	// disk.
	if _, err := os.Stat(state.StatePath(root)); !os.IsNotExist(err) {
		t.Error("state file should be cleared after a successful run")
	}

	store, err := state.NewStore(config.DefaultResumeWindow, nil)
	if err != nil {
		t.Fatal(err)
	}
	entries := store.LoadHistory(root)
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if !entries[0].Success {
		t.Error("history entry should record success")
	}

	reports, err := os.ReadDir(filepath.Join(root, config.ToolDir, "reports"))
	if err != nil || len(reports) == 0 {
		t.Errorf("expected a report file, err = %v", err)
	}
}

func TestShipCommandNotReadyProjectStillCompletes(t *testing.T) {
	root := t.TempDir()

	// The readiness check completes (its result is a low score, not an
	// error), so the run itself succeeds and deploy is skipped. The
	// state is cleared and the run lands in history.
	output, err := execute(t, "ship", "--project", root)
	if err != nil {
		t.Fatalf("ship error = %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "NOT READY") {
		t.Errorf("ship output should contain the verdict, got: %s", output)
	}
}

func TestShipResumeWithoutState(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "ship", "--project", root, "--resume")
	if err == nil || !strings.Contains(err.Error(), "no workflow state") {
		t.Errorf("expected resume error, got %v", err)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	root := t.TempDir()

	output, err := execute(t, "history", "--project", root)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(output, "No workflow runs recorded yet.") {
		t.Errorf("history output = %q", output)
	}
}

func TestHistoryCommandWarnsOnCorruptFile(t *testing.T) {
	root := t.TempDir()
	path := state.HistoryPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{corrupt"), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := execute(t, "history", "--project", root)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(output, "WARN") || !strings.Contains(output, "could not parse workflow history") {
		t.Errorf("corrupt history must be surfaced as a warning, got: %s", output)
	}
	if !strings.Contains(output, "No workflow runs recorded yet.") {
		t.Errorf("corrupt history still degrades to empty, got: %s", output)
	}
}

func TestHistoryCommandAfterShip(t *testing.T) {
	root := readyProject(t)

	if _, err := execute(t, "ship", "--project", root); err != nil {
		t.Fatalf("ship error = %v", err)
	}

	output, err := execute(t, "history", "--project", root)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(output, "Last 1 workflow run(s):") {
		t.Errorf("history output = %q", output)
	}
	if !strings.Contains(output, "readiness-check") {
		t.Errorf("history should list step outcomes, got: %s", output)
	}
}
