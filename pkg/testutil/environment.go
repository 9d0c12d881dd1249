package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/spf13/afero"
)

// FileTree represents a directory structure for testing. Values are either
// file contents (string) or nested FileTrees.
type FileTree map[string]interface{}

// TestEnvironment is an in-memory filesystem with a configuration root
type TestEnvironment struct {
	FS   afero.Fs
	Root string

	t *testing.T
}

// NewTestEnvironment creates an empty memory filesystem whose root directory
// carries a .git marker
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		FS:   filesystem.NewMemory(),
		Root: "/project",
		t:    t,
	}
	if err := env.FS.MkdirAll(filepath.Join(env.Root, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create root marker: %v", err)
	}
	return env
}

// Path joins elements onto the environment root
func (env *TestEnvironment) Path(elem ...string) string {
	return filepath.Join(append([]string{env.Root}, elem...)...)
}

// WithFileTree creates tree under the root
func (env *TestEnvironment) WithFileTree(tree FileTree) *TestEnvironment {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.Root, tree)
	return env
}

// WriteFile writes content at a root-relative path, creating parents
func (env *TestEnvironment) WriteFile(rel, content string) string {
	env.t.Helper()
	full := env.Path(rel)
	if err := env.FS.MkdirAll(filepath.Dir(full), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", full, err)
	}
	if err := afero.WriteFile(env.FS, full, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", full, err)
	}
	return full
}

// ReadFile returns the content at a root-relative path
func (env *TestEnvironment) ReadFile(rel string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, env.Path(rel))
	if err != nil {
		env.t.Fatalf("Failed to read file %s: %v", rel, err)
	}
	return string(data)
}

func createFileTree(t *testing.T, fs afero.Fs, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
			}
			if err := afero.WriteFile(fs, fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// RuleFile joins rule lines into a rule document
func RuleFile(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
