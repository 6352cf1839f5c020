// Package config loads handy's layered configuration: built-in defaults,
// an optional handy.toml at the scripts root, an optional user config under
// the XDG config directory, and HANDY_ environment overrides. Later layers
// override earlier ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Config is the fully merged configuration. The toml and comment tags drive
// the commented rendering genconfig prints.
type Config struct {
	Scripts     ScriptsConfig     `koanf:"scripts" toml:"scripts"`
	Collections CollectionsConfig `koanf:"collections" toml:"collections"`
	Shell       ShellConfig       `koanf:"shell" toml:"shell"`
}

// ScriptsConfig controls what counts as a script and where copies go.
type ScriptsConfig struct {
	// Extension is the recognized script extension, including the dot
	Extension string `koanf:"extension" toml:"extension" comment:"Recognized script extension. Only files ending with this are installable."`

	// InstallDir is the target directory name under $HOME
	InstallDir string `koanf:"install_dir" toml:"install_dir" comment:"Directory under $HOME that installed scripts are copied into."`
}

// CollectionsConfig controls where collections are discovered.
type CollectionsConfig struct {
	// Dir is the collections directory name under the scripts root
	Dir string `koanf:"dir" toml:"dir" comment:"Directory under the scripts root that holds one subdirectory per collection."`
}

// ShellConfig controls rc file integration.
type ShellConfig struct {
	// RCFiles are the shell startup file names under $HOME
	RCFiles []string `koanf:"rc_files" toml:"rc_files" comment:"Shell startup files (relative to $HOME) that receive load directives.\nFiles that do not exist are never created."`

	// Marker is the comment text written above appended source lines
	Marker string `koanf:"marker" toml:"marker" comment:"Comment placed above each appended source line."`
}

// Root config file names tried at the scripts root, in order.
var rootConfigNames = []string{".handy.toml", "handy.toml"}

// Load builds the merged configuration. scriptsRoot and userConfigPath may
// be empty; missing files are simply skipped.
func Load(scriptsRoot, userConfigPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Scripts-root config if it exists
	if scriptsRoot != "" {
		for _, filename := range rootConfigNames {
			path := filepath.Join(scriptsRoot, filename)
			if fileExists(path) {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("failed to load root config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// 3. User config if it exists
	if userConfigPath != "" && fileExists(userConfigPath) {
		if err := k.Load(file.Provider(userConfigPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load user config from %s: %w", userConfigPath, err)
		}
	}

	// 4. Environment overrides. Double underscore separates sections so
	// keys with underscores survive: HANDY_SCRIPTS__INSTALL_DIR maps to
	// scripts.install_dir.
	if err := k.Load(env.Provider("HANDY_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "HANDY_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in defaults with no file or environment layers
// applied.
func Default() Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		// The embedded defaults always parse; reaching here means the
		// binary itself is broken.
		panic(fmt.Sprintf("config: embedded defaults failed to load: %v", err))
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults failed to unmarshal: %v", err))
	}
	return cfg
}

// RenderDefaults returns the default configuration as commented TOML, a
// ready starting point for a user config file. Every assignment is commented
// out so the rendered file changes nothing until edited.
func RenderDefaults() (string, error) {
	data, err := gotoml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("failed to render default config: %w", err)
	}
	header := "# handy configuration.\n" +
		"# Values here override the built-in defaults and the scripts-root\n" +
		"# handy.toml; HANDY_ environment variables override this file in turn.\n\n"
	return header + commentOutConfigValues(string(data)), nil
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	return fileExists(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
