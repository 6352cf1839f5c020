// Package paths provides centralized path handling for handy: the scripts
// root (where collections live), the install target under the user's home,
// shell rc file locations, and XDG directories for config and state.
package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/errors"
)

// Environment variable names
const (
	// EnvScriptsRoot is the primary environment variable for the scripts
	// checkout location (the directory containing the collections dir)
	EnvScriptsRoot = "HANDY_ROOT"

	// EnvInstallDir overrides the install target directory
	EnvInstallDir = "HANDY_INSTALL_DIR"

	// EnvConfigDir overrides the XDG config directory for handy
	EnvConfigDir = "HANDY_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// HandyDirName is the directory name for handy-specific files
	HandyDirName = "handy"

	// UserConfigFile is the name of the user configuration file
	UserConfigFile = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "handy.log"
)

// Paths provides centralized path management for handy
type Paths interface {
	ScriptsRoot() string
	UsedFallback() bool
	HomeDir() string
	CollectionsDir() string
	CollectionPath(collectionName string) string
	TargetDir() string
	InstalledScriptPath(scriptName string) string
	RCFilePath(rcName string) string
	ConfigDir() string
	StateDir() string
	LogFilePath() string
}

// paths provides centralized path management for handy
type paths struct {
	// scriptsRoot is the root directory of the scripts checkout
	scriptsRoot string

	// home is the user's home directory
	home string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgState is the XDG state directory
	xdgState string

	// cfg holds the resolved configuration values paths depend on
	cfg config.Config

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance with the given scripts root.
// If scriptsRoot is empty, it will be determined from environment variables
// or defaults.
func New(scriptsRoot string, cfg config.Config) (Paths, error) {
	p := &paths{cfg: cfg}

	// Set up scripts root
	if scriptsRoot == "" {
		root, usedFallback, err := FindScriptsRoot()
		if err != nil {
			return nil, err
		}
		p.scriptsRoot = root
		p.usedFallback = usedFallback
	} else {
		p.scriptsRoot = ExpandHome(scriptsRoot)
		p.usedFallback = false
	}

	// Ensure scripts root is absolute
	absRoot, err := filepath.Abs(p.scriptsRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to get absolute path for scripts root")
	}
	p.scriptsRoot = absRoot

	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}
	p.home = home

	p.setupXDGDirs()

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	// Config directory
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = ExpandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, HandyDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, HandyDirName)
	} else {
		p.xdgState = filepath.Join(p.home, ".local", "state", HandyDirName)
	}
}

// FindScriptsRoot determines the scripts root using the following priority:
// 1. HANDY_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
//
// The function returns:
// - string: The resolved scripts root path
// - bool: Whether the current working directory was used as fallback
// - error: Any error that occurred during resolution
//
// This allows handy to work in three common scenarios:
// - Explicit configuration via HANDY_ROOT
// - Automatic detection when run from within a git-managed scripts repo
// - Fallback to current directory for quick testing or non-git setups
func FindScriptsRoot() (string, bool, error) {
	// Check HANDY_ROOT first (highest priority)
	if root := os.Getenv(EnvScriptsRoot); root != "" {
		return ExpandHome(root), false, nil
	}

	// Try to find git repository root
	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	// Fallback to current working directory with warning
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrIO, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	output, err := cmd.Output()
	if err != nil {
		// Git command failed - not in a git repo or git not installed
		return "", err
	}

	// Trim whitespace and return the path
	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrIO, "failed to get home directory")
	}
	return homeDir, nil
}

// UserConfigPath returns the user config file location. It is a free function
// because configuration loading happens before a Paths instance exists.
func UserConfigPath() string {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		return filepath.Join(ExpandHome(configDir), UserConfigFile)
	}
	return filepath.Join(xdg.ConfigHome, HandyDirName, UserConfigFile)
}

// ScriptsRoot returns the root directory of the scripts checkout
func (p *paths) ScriptsRoot() string {
	return p.scriptsRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// HomeDir returns the user's home directory
func (p *paths) HomeDir() string {
	return p.home
}

// CollectionsDir returns the directory containing one subdirectory per collection
func (p *paths) CollectionsDir() string {
	return filepath.Join(p.scriptsRoot, p.cfg.Collections.Dir)
}

// CollectionPath returns the path to a specific collection
func (p *paths) CollectionPath(collectionName string) string {
	return filepath.Join(p.CollectionsDir(), collectionName)
}

// TargetDir returns the install target directory. HANDY_INSTALL_DIR wins
// over the configured directory name under $HOME.
func (p *paths) TargetDir() string {
	if dir := os.Getenv(EnvInstallDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(p.home, p.cfg.Scripts.InstallDir)
}

// InstalledScriptPath returns where a script of the given name lives once installed
func (p *paths) InstalledScriptPath(scriptName string) string {
	return filepath.Join(p.TargetDir(), scriptName)
}

// RCFilePath returns the absolute path of a shell rc file name under $HOME
func (p *paths) RCFilePath(rcName string) string {
	return filepath.Join(p.home, rcName)
}

// ConfigDir returns the XDG config directory for handy
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for handy
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path to the handy log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}
