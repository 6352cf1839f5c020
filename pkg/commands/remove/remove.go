// Package remove implements the inverse of install: delete the installed
// copy of a script and strip its load directives from the rc files.
package remove

import (
	"fmt"
	"os"

	"github.com/arthur-debert/handy/pkg/commands/internal"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/shellconfig"
	"github.com/arthur-debert/handy/pkg/synthfs"
	"github.com/arthur-debert/handy/pkg/types"
)

// RemoveOptions defines the options for the Remove command.
type RemoveOptions struct {
	// ScriptsRoot is the scripts checkout; empty means resolve it from the
	// environment.
	ScriptsRoot string

	// ScriptNames are the installed copies to remove.
	ScriptNames []string

	// DryRun previews operations without touching the filesystem.
	DryRun bool
}

// RemovedScript is the outcome for one script name.
type RemovedScript struct {
	Name          string
	InstalledPath string

	// CopyRemoved is true when an installed copy existed and was deleted
	CopyRemoved bool

	// RCFiles are the rc files a directive was stripped from
	RCFiles []string

	Err error
}

// RemoveResult is the outcome of a remove run.
type RemoveResult struct {
	DryRun  bool
	Scripts []RemovedScript
}

// Failed reports whether any script failed to remove.
func (r *RemoveResult) Failed() bool {
	for _, s := range r.Scripts {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Remove deletes each named script's installed copy and strips its
// directives. Scripts are handled independently; a name that is neither
// installed nor registered anywhere is reported as NOT_FOUND on its unit.
func Remove(opts RemoveOptions) (*RemoveResult, error) {
	log := logging.GetLogger("commands.remove")
	log.Debug().
		Str("command", "Remove").
		Strs("scripts", opts.ScriptNames).
		Bool("dryRun", opts.DryRun).
		Msg("Executing command")

	rt, err := internal.NewRuntime(opts.ScriptsRoot)
	if err != nil {
		return nil, err
	}

	executor := synthfs.NewSynthfsExecutor(opts.DryRun, rt.Paths)
	writer := shellconfig.New(rt.Config, rt.Paths, opts.DryRun)

	result := &RemoveResult{DryRun: opts.DryRun}
	for _, name := range opts.ScriptNames {
		unit := RemovedScript{
			Name:          name,
			InstalledPath: rt.Paths.InstalledScriptPath(name),
		}

		if info, err := os.Stat(unit.InstalledPath); err == nil && info.Mode().IsRegular() {
			ops := []types.Operation{{
				Type:        types.OperationDeleteFile,
				Target:      unit.InstalledPath,
				Description: fmt.Sprintf("Remove installed copy of %s", name),
				Status:      types.StatusReady,
			}}
			if err := executor.ExecuteOperations(ops); err != nil {
				log.Warn().Err(err).Str("script", name).Msg("Failed to delete installed copy")
				unit.Err = err
			} else {
				unit.CopyRemoved = true
			}
		}

		// Directives can outlive the copy, so strip them regardless
		for _, rcName := range rt.Config.Shell.RCFiles {
			stripped, err := writer.RemoveLoadDirective(rt.Paths.RCFilePath(rcName), name)
			if err != nil {
				if unit.Err == nil {
					unit.Err = err
				}
				continue
			}
			if stripped {
				unit.RCFiles = append(unit.RCFiles, rcName)
			}
		}

		if unit.Err == nil && !unit.CopyRemoved && len(unit.RCFiles) == 0 {
			unit.Err = errors.Newf(errors.ErrNotFound,
				"script is not installed: %s", name).
				WithDetail("path", unit.InstalledPath)
		}

		result.Scripts = append(result.Scripts, unit)
	}

	log.Info().
		Str("command", "Remove").
		Int("scriptCount", len(result.Scripts)).
		Msg("Command finished")
	return result, nil
}
