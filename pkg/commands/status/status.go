// Package status reports per-script install state: whether the copy is
// present and executable, and which rc files carry its load directive.
// Installed copies whose catalog source has vanished are reported too.
package status

import (
	"os"
	"sort"

	"github.com/arthur-debert/handy/pkg/catalog"
	"github.com/arthur-debert/handy/pkg/commands/internal"
	"github.com/arthur-debert/handy/pkg/installer"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/shellconfig"
)

// StatusOptions defines the options for the Status command.
type StatusOptions struct {
	// ScriptsRoot is the scripts checkout; empty means resolve it from the
	// environment.
	ScriptsRoot string

	// ScriptNames restricts the report to these names. Empty means every
	// catalog script plus every installed copy.
	ScriptNames []string
}

// ScriptStatus is the state of one script.
type ScriptStatus struct {
	// Name is the script file name
	Name string

	// Collection is the owning collection, empty for orphaned copies
	Collection string

	// InCatalog is true when a source file for the name exists
	InCatalog bool

	// Installed is true when a copy is present in the target directory
	Installed bool

	// Executable is true when the installed copy carries the exec bit
	Executable bool

	// InstalledPath is where the copy lives (or would live)
	InstalledPath string

	// RCFiles are the existing rc files whose contents source the copy
	RCFiles []string
}

// StatusResult is the full report.
type StatusResult struct {
	TargetDir string
	Scripts   []ScriptStatus
}

// Status builds the install-state report.
func Status(opts StatusOptions) (*StatusResult, error) {
	log := logging.GetLogger("commands.status")
	log.Debug().Str("command", "Status").Msg("Executing command")

	rt, err := internal.NewRuntime(opts.ScriptsRoot)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(rt.Config)
	writer := shellconfig.New(rt.Config, rt.Paths, false)
	rcFiles := writer.ExistingRCFiles()

	// Collect every known name: catalog first, then installed copies the
	// catalog no longer mentions.
	byName := make(map[string]*ScriptStatus)
	var order []string

	collections, err := cat.ListCollections(rt.Paths.CollectionsDir())
	if err != nil {
		return nil, err
	}
	for _, coll := range collections {
		scripts, err := cat.ListScripts(coll)
		if err != nil {
			return nil, err
		}
		for _, entry := range scripts {
			if _, seen := byName[entry.Name]; seen {
				// Same file name in two collections: one copy in the
				// target dir, first collection wins the report line
				continue
			}
			byName[entry.Name] = &ScriptStatus{
				Name:       entry.Name,
				Collection: entry.Collection,
				InCatalog:  true,
			}
			order = append(order, entry.Name)
		}
	}

	installed, err := installer.ListInstalled(rt.Config, rt.Paths)
	if err != nil {
		return nil, err
	}
	for _, item := range installed {
		if _, seen := byName[item.Name]; !seen {
			byName[item.Name] = &ScriptStatus{Name: item.Name}
			order = append(order, item.Name)
		}
	}

	if len(opts.ScriptNames) > 0 {
		order = dedupeNames(opts.ScriptNames)
	} else {
		sort.Strings(order)
	}

	result := &StatusResult{TargetDir: rt.Paths.TargetDir()}
	for _, name := range order {
		st := byName[name]
		if st == nil {
			// Requested name nobody knows: report it as fully absent
			st = &ScriptStatus{Name: name}
		}
		st.InstalledPath = rt.Paths.InstalledScriptPath(name)

		if info, err := os.Stat(st.InstalledPath); err == nil && info.Mode().IsRegular() {
			st.Installed = true
			st.Executable = info.Mode()&0o111 != 0
		}

		for _, rcName := range rcFiles {
			has, err := writer.HasLoadDirective(rt.Paths.RCFilePath(rcName), name)
			if err != nil {
				return nil, err
			}
			if has {
				st.RCFiles = append(st.RCFiles, rcName)
			}
		}

		result.Scripts = append(result.Scripts, *st)
	}

	log.Info().
		Str("command", "Status").
		Int("scriptCount", len(result.Scripts)).
		Msg("Command finished")
	return result, nil
}

// dedupeNames keeps the requested names in request order. Names nothing
// knows about stay in: they report as absent.
func dedupeNames(requested []string) []string {
	var order []string
	seen := make(map[string]bool)
	for _, name := range requested {
		if seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	return order
}
