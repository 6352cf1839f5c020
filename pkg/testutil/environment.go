// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Isolated filesystem environments for handy tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/types"
)

// TestEnvironment provides an isolated scripts checkout and home directory
// in a temp dir, with the environment variables handy reads pointed at them.
type TestEnvironment struct {
	// ScriptsRoot is the simulated scripts checkout (contains the
	// collections dir)
	ScriptsRoot string

	// HomeDir is the simulated user home
	HomeDir string

	// CollectionsDir is ScriptsRoot joined with the configured
	// collections dir name
	CollectionsDir string

	cfg config.Config
	t   *testing.T
}

// NewTestEnvironment creates an isolated environment backed by t.TempDir.
// HOME, HANDY_ROOT and the XDG dirs are redirected for the test's duration.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	cfg := config.Default()

	env := &TestEnvironment{
		ScriptsRoot: filepath.Join(tempDir, "scripts"),
		HomeDir:     filepath.Join(tempDir, "home"),
		cfg:         cfg,
		t:           t,
	}
	env.CollectionsDir = filepath.Join(env.ScriptsRoot, cfg.Collections.Dir)

	for _, dir := range []string{env.ScriptsRoot, env.HomeDir, env.CollectionsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("HANDY_ROOT", env.ScriptsRoot)
	// HANDY_CONFIG_DIR rather than XDG_CONFIG_HOME: the xdg library reads
	// its environment once at init, long before t.Setenv runs
	t.Setenv("HANDY_CONFIG_DIR", filepath.Join(env.HomeDir, ".config", "handy"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.HomeDir, ".local", "state"))

	return env
}

// Config returns the defaults the environment was built with.
func (env *TestEnvironment) Config() config.Config {
	return env.cfg
}

// TargetDir returns where installed scripts land for this environment.
func (env *TestEnvironment) TargetDir() string {
	return filepath.Join(env.HomeDir, env.cfg.Scripts.InstallDir)
}

// AddCollection creates a collection directory and returns its model.
func (env *TestEnvironment) AddCollection(name string) types.Collection {
	env.t.Helper()

	path := filepath.Join(env.CollectionsDir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		env.t.Fatalf("Failed to create collection %s: %v", name, err)
	}
	return types.Collection{Name: name, Path: path}
}

// AddScript writes a script file into a collection and returns its entry.
// The file is written without the executable bit so install tests can verify
// the bit gets set on the copy.
func (env *TestEnvironment) AddScript(collection, name, content string) types.ScriptEntry {
	env.t.Helper()

	collPath := filepath.Join(env.CollectionsDir, collection)
	if err := os.MkdirAll(collPath, 0755); err != nil {
		env.t.Fatalf("Failed to create collection %s: %v", collection, err)
	}

	path := filepath.Join(collPath, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write script %s: %v", name, err)
	}
	return types.ScriptEntry{Name: name, Collection: collection, Path: path}
}

// AddRCFile creates a shell rc file under the environment's home.
func (env *TestEnvironment) AddRCFile(name, content string) string {
	env.t.Helper()

	path := filepath.Join(env.HomeDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write rc file %s: %v", name, err)
	}
	return path
}

// ReadFile reads a file and fails the test on error.
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// FileTree represents a directory structure for testing. String values are
// file contents; nested FileTree values are subdirectories.
type FileTree map[string]interface{}

// WithFileTree creates a file tree under the scripts root.
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.ScriptsRoot, tree)
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			// It's a file
			if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := os.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			// It's a directory
			if err := os.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
