// Package snippet renders the source block for manual wiring into shells
// handy does not manage: the marker comment plus one source line per
// requested (or installed) script.
package snippet

import (
	"os"

	"github.com/arthur-debert/handy/pkg/commands/internal"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/installer"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/shellconfig"
)

// SnippetOptions defines the options for the Snippet command.
type SnippetOptions struct {
	// ScriptsRoot is the scripts checkout; empty means resolve it from the
	// environment.
	ScriptsRoot string

	// ScriptNames restricts the block to these names. Empty means every
	// installed copy.
	ScriptNames []string
}

// SnippetResult is the rendered block.
type SnippetResult struct {
	// Scripts are the names the block covers, in output order
	Scripts []string

	// Block is the paste-ready text, empty when nothing is installed
	Block string
}

// Snippet builds the source block.
func Snippet(opts SnippetOptions) (*SnippetResult, error) {
	log := logging.GetLogger("commands.snippet")
	log.Debug().Str("command", "Snippet").Msg("Executing command")

	rt, err := internal.NewRuntime(opts.ScriptsRoot)
	if err != nil {
		return nil, err
	}

	names := opts.ScriptNames
	if len(names) == 0 {
		installed, err := installer.ListInstalled(rt.Config, rt.Paths)
		if err != nil {
			return nil, err
		}
		for _, item := range installed {
			names = append(names, item.Name)
		}
	} else {
		// Explicit names must refer to installed copies
		for _, name := range names {
			path := rt.Paths.InstalledScriptPath(name)
			if !fileExists(path) {
				return nil, errors.Newf(errors.ErrNotFound,
					"script is not installed: %s", name).
					WithDetail("path", path)
			}
		}
	}

	writer := shellconfig.New(rt.Config, rt.Paths, false)
	result := &SnippetResult{
		Scripts: names,
		Block:   writer.Snippet(names),
	}

	log.Info().
		Str("command", "Snippet").
		Int("scriptCount", len(names)).
		Msg("Command finished")
	return result, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
