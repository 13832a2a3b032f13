package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cleanfolder/internal/services"
	"cleanfolder/internal/testsupport"
)

type cliTestEnv struct {
	baseDir  string
	stateDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	stateDir := filepath.Join(base, "state")
	t.Setenv("CLEAN_FOLDER_STATE_DIR", stateDir)
	t.Chdir(base)

	return &cliTestEnv{baseDir: base, stateDir: stateDir}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func runIDFrom(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "Run ID: "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no run id in output %q", out)
	return ""
}

func TestRootRequiresExactlyOneArgument(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t); err == nil {
		t.Fatal("expected error without arguments")
	}
	if _, _, err := runCLI(t, env.baseDir, env.baseDir); err == nil {
		t.Fatal("expected error with two arguments")
	}
}

func TestRootRejectsNonDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	file := filepath.Join(env.baseDir, "plain.txt")
	testsupport.WriteText(t, file, "x")

	_, _, err := runCLI(t, file)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(file); statErr != nil {
		t.Fatal("input file must not be touched")
	}
}

func TestRootCleansDirectory(t *testing.T) {
	setupCLITestEnv(t)
	root := t.TempDir()
	testsupport.WriteText(t, filepath.Join(root, "zdjęcie.jpg"), "img")
	testsupport.WriteText(t, filepath.Join(root, "weird.xyz"), "?")

	out, stderr, err := runCLI(t, "--log-level", "error", root)
	if err != nil {
		t.Fatalf("run: %v (stderr=%s)", err, stderr)
	}
	requireContains(t, out, "zdjecie.jpg")
	requireContains(t, out, "jpg")
	requireContains(t, out, "xyz")
	if _, err := os.Stat(filepath.Join(root, "Images", "zdjecie.jpg")); err != nil {
		t.Fatalf("expected Images/zdjecie.jpg: %v", err)
	}
	if strings.Contains(out, "INFO") {
		t.Fatalf("logs leaked onto stdout: %q", out)
	}
}

func TestRootDryRun(t *testing.T) {
	setupCLITestEnv(t)
	root := t.TempDir()
	testsupport.WriteText(t, filepath.Join(root, "a b.txt"), "x")

	out, _, err := runCLI(t, "--dry-run", "--no-journal", root)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, strings.ToLower(out), "would move 1 file")
	requireContains(t, out, "a_b.txt")
	if _, err := os.Stat(filepath.Join(root, "a b.txt")); err != nil {
		t.Fatal("dry run must leave the file in place")
	}
}

func TestRootRejectsBadLogFormat(t *testing.T) {
	setupCLITestEnv(t)
	if _, _, err := runCLI(t, "--log-format", "xml", t.TempDir()); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "defaults were used")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(env.baseDir, "custom", "config.toml")
	out, _, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate custom: %v", err)
	}
	requireContains(t, out, target)
	requireContains(t, out, "Documents")
}

func TestConfigValidateRejectsBadConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "bad.toml")
	testsupport.WriteText(t, target, "[naming]\ncollision = \"overwrite\"\n")

	if _, _, err := runCLI(t, "--config", target, "config", "validate"); err == nil {
		t.Fatal("expected error for invalid collision policy")
	}
}

func TestHistoryListsAndShowsRuns(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	root := t.TempDir()
	testsupport.WriteText(t, filepath.Join(root, "notes.txt"), "abc")
	out, _, err = runCLI(t, "--log-level", "error", root)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	runID := runIDFrom(t, out)

	out, _, err = runCLI(t, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, runID[:shortIDLength])
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, "history", "show", runID[:shortIDLength])
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, runID)
	requireContains(t, out, "notes.txt")
	requireContains(t, out, "moved")

	if _, _, err := runCLI(t, "history", "show", "does-not-exist"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestNoJournalSkipsHistory(t *testing.T) {
	setupCLITestEnv(t)
	root := t.TempDir()
	testsupport.WriteText(t, filepath.Join(root, "a.txt"), "a")

	if _, _, err := runCLI(t, "--no-journal", "--log-level", "error", root); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, _, err := runCLI(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestRootHelpExplainsSubcommandNames(t *testing.T) {
	setupCLITestEnv(t)
	out, _, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	requireContains(t, out, "clean-folder ./history")
}

func TestRootCleansDirectoryNamedLikeSubcommand(t *testing.T) {
	env := setupCLITestEnv(t)
	root := filepath.Join(env.baseDir, "history")
	testsupport.WriteText(t, filepath.Join(root, "song.mp3"), "mp3")

	if _, _, err := runCLI(t, "--no-journal", "--log-level", "error", "./history"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Audio", "song.mp3")); err != nil {
		t.Fatalf("expected history/Audio/song.mp3: %v", err)
	}
}
