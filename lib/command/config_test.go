package command

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	. "chardiff/lib/command/commandtest"
)

func runConfig(t *testing.T, tmpDir string, args []string, options ConfigOption) (int, string, string) {
	t.Helper()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	cmd, err := NewConfig(tmpDir, args, options, stdout, stderr)
	if err != nil {
		t.Fatal(err)
	}
	code := cmd.Run()
	return code, stdout.String(), stderr.String()
}

func setupConfigEnvironment(t *testing.T) string {
	t.Helper()
	tmpDir, _, _ := SetupTestEnvironment(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	return filepath.Join(tmpDir, "project")
}

func TestConfig(t *testing.T) {
	t.Run("sets and reads a local value", func(t *testing.T) {
		dir := setupConfigEnvironment(t)

		if code, _, stderr := runConfig(t, dir, []string{"timeout", "5s"}, ConfigOption{}); code != 0 {
			t.Fatalf("want exit 0, but got %d: %s", code, stderr)
		}
		if got := ReadFile(t, dir, ".chardiff.yaml"); !strings.Contains(got, "timeout: 5s") {
			t.Errorf("unexpected local config %q", got)
		}

		code, stdout, _ := runConfig(t, dir, []string{"timeout"}, ConfigOption{})
		if code != 0 || stdout != "5s\n" {
			t.Errorf("want 5s and exit 0, but got %q and %d", stdout, code)
		}
	})

	t.Run("local values override global ones", func(t *testing.T) {
		dir := setupConfigEnvironment(t)

		runConfig(t, dir, []string{"color", "never"}, ConfigOption{File: "global"})
		runConfig(t, dir, []string{"insertColor", "green"}, ConfigOption{File: "global"})
		runConfig(t, dir, []string{"color", "always"}, ConfigOption{File: "local"})

		_, stdout, _ := runConfig(t, dir, nil, ConfigOption{List: true})
		if want := "color=always\ninsertColor=green\n"; stdout != want {
			t.Errorf("want %q, but got %q", want, stdout)
		}

		_, stdout, _ = runConfig(t, dir, []string{"color"}, ConfigOption{File: "global"})
		if stdout != "never\n" {
			t.Errorf("want never, but got %q", stdout)
		}
	})

	t.Run("unsets a value", func(t *testing.T) {
		dir := setupConfigEnvironment(t)

		runConfig(t, dir, []string{"pager", "false"}, ConfigOption{})
		if code, _, _ := runConfig(t, dir, []string{"pager"}, ConfigOption{Unset: true}); code != 0 {
			t.Fatalf("want exit 0, but got %d", code)
		}

		code, stdout, _ := runConfig(t, dir, []string{"pager"}, ConfigOption{})
		if code != 1 || stdout != "" {
			t.Errorf("want no value and exit 1, but got %q and %d", stdout, code)
		}
	})

	t.Run("writes to a named file", func(t *testing.T) {
		dir := setupConfigEnvironment(t)

		runConfig(t, dir, []string{"deleteColor", "yellow"}, ConfigOption{File: "other.yaml"})
		if got := ReadFile(t, dir, "other.yaml"); !strings.Contains(got, "deleteColor: yellow") {
			t.Errorf("unexpected config %q", got)
		}
	})

	t.Run("refuses the global file without a user config directory", func(t *testing.T) {
		if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
			t.Skip("the user config directory does not come from HOME here")
		}
		dir := setupConfigEnvironment(t)
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "")

		code, _, stderr := runConfig(t, dir, []string{"color", "never"}, ConfigOption{File: "global"})
		if code != 1 {
			t.Errorf("want exit 1, but got %d", code)
		}
		if !strings.Contains(stderr, "no global config file") {
			t.Errorf("unexpected stderr %q", stderr)
		}
		if _, err := os.Stat(filepath.Join(dir, "global")); !os.IsNotExist(err) {
			t.Errorf("a file named global was written: %v", err)
		}
	})

	t.Run("rejects an unknown key", func(t *testing.T) {
		dir := setupConfigEnvironment(t)

		code, _, stderr := runConfig(t, dir, []string{"editor", "vi"}, ConfigOption{})
		if code != 2 {
			t.Errorf("want exit 2, but got %d", code)
		}
		if !strings.Contains(stderr, "editor") {
			t.Errorf("unexpected stderr %q", stderr)
		}
	})

	t.Run("rejects an invalid value", func(t *testing.T) {
		dir := setupConfigEnvironment(t)

		code, _, _ := runConfig(t, dir, []string{"timeout", "soon"}, ConfigOption{})
		if code != 1 {
			t.Errorf("want exit 1, but got %d", code)
		}
	})

	t.Run("reports a malformed file", func(t *testing.T) {
		dir := setupConfigEnvironment(t)
		WriteFile(t, dir, ".chardiff.yaml", "color: [\n")

		code, _, stderr := runConfig(t, dir, []string{"color"}, ConfigOption{})
		if code != 3 {
			t.Errorf("want exit 3, but got %d", code)
		}
		if !strings.Contains(stderr, ".chardiff.yaml") {
			t.Errorf("unexpected stderr %q", stderr)
		}
	})
}
