// Package internal carries the bootstrapping shared by every handy command:
// resolving the scripts root, loading the layered configuration, and
// building the Paths accessor.
package internal

import (
	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/paths"
)

// Runtime bundles what a command needs to run.
type Runtime struct {
	Config config.Config
	Paths  paths.Paths

	// UsedFallback is true when the scripts root fell back to the current
	// working directory; commands surface a warning for it.
	UsedFallback bool
}

// NewRuntime resolves the scripts root (explicit value, HANDY_ROOT, git
// root, cwd fallback), loads configuration layered on top of it, and builds
// the paths accessor.
func NewRuntime(scriptsRoot string) (*Runtime, error) {
	root := scriptsRoot
	usedFallback := false
	if root == "" {
		resolved, fellBack, err := paths.FindScriptsRoot()
		if err != nil {
			return nil, err
		}
		root = resolved
		usedFallback = fellBack
	}

	cfg, err := config.Load(root, paths.UserConfigPath())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load configuration")
	}

	p, err := paths.New(root, *cfg)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Config:       *cfg,
		Paths:        p,
		UsedFallback: usedFallback,
	}, nil
}
