// Package install implements handy's main flow: pick scripts from a
// collection (or take every collection at once), copy them into the target
// directory, and register each copy in the user's shell startup files.
package install

import (
	"io"

	"github.com/arthur-debert/handy/pkg/catalog"
	"github.com/arthur-debert/handy/pkg/commands/internal"
	"github.com/arthur-debert/handy/pkg/installer"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/menu"
	"github.com/arthur-debert/handy/pkg/paths"
	"github.com/arthur-debert/handy/pkg/shellconfig"
	"github.com/arthur-debert/handy/pkg/style"
	"github.com/arthur-debert/handy/pkg/types"
)

// InstallScriptsOptions defines the options for the InstallScripts command.
type InstallScriptsOptions struct {
	// ScriptsRoot is the scripts checkout; empty means resolve it from the
	// environment.
	ScriptsRoot string

	// Collection is the collection to install from. Ignored when All is set.
	Collection string

	// All installs every script of every collection, best effort.
	All bool

	// Input and Output drive the interactive menu.
	Input  io.Reader
	Output io.Writer

	// DryRun previews operations without touching the filesystem.
	DryRun bool
}

// UnitResult is the outcome for one script: the copy plus its rc file
// registrations. Err carries the first failure; directives appended before
// the failure are still listed.
type UnitResult struct {
	Entry      types.ScriptEntry
	Installed  types.InstalledScript
	Directives []types.DirectiveResult
	Err        error
}

// CollectionError records a collection whose install aborted before any of
// its scripts ran.
type CollectionError struct {
	Collection string
	Err        error
}

// InstallResult is the outcome of an install run.
type InstallResult struct {
	// ScriptsRoot is the resolved scripts checkout
	ScriptsRoot string

	// UsedFallback is true when the root fell back to the working directory
	UsedFallback bool

	// Collection is the collection operated on, empty for an all-run
	Collection string

	// All marks a bulk run over every collection
	All bool

	DryRun bool

	// RCFiles are the startup files that received directives
	RCFiles []string

	Units            []UnitResult
	CollectionErrors []CollectionError
}

// Failed reports whether anything in the run went wrong.
func (r *InstallResult) Failed() bool {
	if len(r.CollectionErrors) > 0 {
		return true
	}
	for _, unit := range r.Units {
		if unit.Err != nil {
			return true
		}
	}
	return false
}

// Counts returns how many units installed cleanly and how many failed.
func (r *InstallResult) Counts() (installed, failed int) {
	for _, unit := range r.Units {
		if unit.Err != nil {
			failed++
		} else {
			installed++
		}
	}
	return installed, failed
}

// InstallScripts runs the install flow. With All set every collection is
// installed without prompting; otherwise the named collection's menu is
// shown and the selection installed. Every installed script is registered
// in each existing configured rc file.
func InstallScripts(opts InstallScriptsOptions) (*InstallResult, error) {
	log := logging.GetLogger("commands.install")
	log.Debug().
		Str("command", "InstallScripts").
		Str("collection", opts.Collection).
		Bool("all", opts.All).
		Bool("dryRun", opts.DryRun).
		Msg("Executing command")

	rt, err := internal.NewRuntime(opts.ScriptsRoot)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(rt.Config)
	inst := installer.New(rt.Config, rt.Paths, opts.DryRun)
	writer := shellconfig.New(rt.Config, rt.Paths, opts.DryRun)
	rcFiles := writer.ExistingRCFiles()

	result := &InstallResult{
		ScriptsRoot:  rt.Paths.ScriptsRoot(),
		UsedFallback: rt.UsedFallback,
		All:          opts.All,
		DryRun:       opts.DryRun,
		RCFiles:      rcFiles,
	}

	if opts.All {
		collections, err := cat.ListCollections(rt.Paths.CollectionsDir())
		if err != nil {
			return nil, err
		}
		for _, coll := range collections {
			scriptResults, err := inst.InstallCollection(coll)
			if err != nil {
				log.Warn().Err(err).
					Str("collection", coll.Name).
					Msg("Collection install failed, continuing")
				result.CollectionErrors = append(result.CollectionErrors, CollectionError{
					Collection: coll.Name,
					Err:        err,
				})
				continue
			}
			for _, res := range scriptResults {
				result.Units = append(result.Units, registerUnit(writer, rt.Paths, rcFiles, res))
			}
		}
		installed, failed := result.Counts()
		log.Info().
			Str("command", "InstallScripts").
			Int("installed", installed).
			Int("failed", failed).
			Msg("Command finished")
		return result, nil
	}

	coll, err := cat.FindCollection(rt.Paths.CollectionsDir(), opts.Collection)
	if err != nil {
		return nil, err
	}
	result.Collection = coll.Name

	scripts, err := cat.ListScripts(coll)
	if err != nil {
		return nil, err
	}

	renderer := style.NewRenderer(style.FormatAuto, opts.Output)
	sel, err := menu.NewWithRenderer(opts.Input, opts.Output, renderer).SelectScript(coll, scripts)
	if err != nil {
		return nil, err
	}

	if sel.All {
		scriptResults, err := inst.InstallCollection(coll)
		if err != nil {
			return nil, err
		}
		for _, res := range scriptResults {
			result.Units = append(result.Units, registerUnit(writer, rt.Paths, rcFiles, res))
		}
	} else {
		installed, err := inst.InstallScript(sel.Entry)
		result.Units = append(result.Units, registerUnit(writer, rt.Paths, rcFiles, installer.ScriptResult{
			Entry:     sel.Entry,
			Installed: installed,
			Err:       err,
		}))
	}

	installed, failed := result.Counts()
	log.Info().
		Str("command", "InstallScripts").
		Int("installed", installed).
		Int("failed", failed).
		Msg("Command finished")
	return result, nil
}

// registerUnit appends the script's load directive to each rc file. A
// registration failure is recorded on the unit but does not stop the other
// rc files from being tried.
func registerUnit(writer *shellconfig.Writer, p paths.Paths, rcFiles []string, res installer.ScriptResult) UnitResult {
	unit := UnitResult{
		Entry:     res.Entry,
		Installed: res.Installed,
		Err:       res.Err,
	}
	if res.Err != nil {
		return unit
	}

	for _, rcName := range rcFiles {
		rcPath := p.RCFilePath(rcName)
		status, err := writer.AppendLoadDirective(rcPath, res.Entry.Name)
		if err != nil {
			if unit.Err == nil {
				unit.Err = err
			}
			continue
		}
		unit.Directives = append(unit.Directives, types.DirectiveResult{
			RCFile: rcName,
			Path:   rcPath,
			Status: status,
		})
	}
	return unit
}
