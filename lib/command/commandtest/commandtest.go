package commandtest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnvironment returns a scratch directory and buffers standing in for
// stdout and stderr. The directory is removed when the test ends.
func SetupTestEnvironment(t *testing.T) (string, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	tmpDir := t.TempDir()
	outStream, errStream := new(bytes.Buffer), new(bytes.Buffer)

	return tmpDir, outStream, errStream
}

func WriteFile(t *testing.T, path, name, content string) {
	t.Helper()

	dir := filepath.Join(path, filepath.Dir(name))
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		t.Fatalf("Failed to create directory: %s", err)
	}

	// Write the content to the file
	file, err := os.Create(filepath.Join(path, name))
	if err != nil {
		t.Fatalf("Failed to create file: %s", err)
	}
	defer file.Close()

	_, err = file.WriteString(content)
	if err != nil {
		t.Fatalf("Failed to write to file: %s", err)
	}
}

func ReadFile(t *testing.T, path, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(path, name))
	if err != nil {
		t.Fatalf("Failed to read file: %s", err)
	}
	return string(data)
}

func MakeExecutable(t *testing.T, path, name string) {
	t.Helper()

	err := os.Chmod(filepath.Join(path, name), 0755)
	if err != nil {
		t.Fatalf("Failed to make file executable: %s", err)
	}
}

func MakeUnreadable(t *testing.T, path, name string) {
	t.Helper()

	err := os.Chmod(filepath.Join(path, name), 0200)
	if err != nil {
		t.Fatalf("Failed to make file unreadable: %s", err)
	}
}
