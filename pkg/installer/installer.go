// Package installer copies catalog scripts into the install target under
// the user's home. Copies always carry the executable bit; a failed copy
// never leaves a partial file behind.
package installer

import (
	"fmt"
	"os"

	"github.com/arthur-debert/handy/pkg/catalog"
	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/paths"
	"github.com/arthur-debert/handy/pkg/synthfs"
	"github.com/arthur-debert/handy/pkg/types"
	"github.com/rs/zerolog"
)

// InstalledMode is the permission set for installed copies, regardless of
// what the source file carries.
const InstalledMode uint32 = 0o755

// Installer copies scripts into the target directory via the synthfs
// executor.
type Installer struct {
	cfg      config.Config
	paths    paths.Paths
	executor *synthfs.SynthfsExecutor
	catalog  *catalog.Catalog
	logger   zerolog.Logger
	dryRun   bool
}

// ScriptResult is the per-script outcome of a collection install. Err is nil
// when Installed is valid.
type ScriptResult struct {
	Entry     types.ScriptEntry
	Installed types.InstalledScript
	Err       error
}

// New creates an Installer. In dry-run mode operations are logged but no
// file is touched.
func New(cfg config.Config, p paths.Paths, dryRun bool) *Installer {
	return &Installer{
		cfg:      cfg,
		paths:    p,
		executor: synthfs.NewSynthfsExecutor(dryRun, p),
		catalog:  catalog.New(cfg),
		logger:   logging.GetLogger("installer"),
		dryRun:   dryRun,
	}
}

// InstallScript copies one script into the target directory. The source must
// be an existing regular file. Re-installing an already installed script
// overwrites the copy (last write wins).
func (i *Installer) InstallScript(entry types.ScriptEntry) (types.InstalledScript, error) {
	log := i.logger.With().
		Str("script", entry.Name).
		Str("collection", entry.Collection).
		Logger()

	info, err := os.Stat(entry.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.InstalledScript{}, errors.Newf(errors.ErrNotFound,
				"script not found: %s", entry.Name).
				WithDetail("path", entry.Path)
		}
		return types.InstalledScript{}, errors.Wrap(err, errors.ErrIO, "cannot access script").
			WithDetail("path", entry.Path)
	}
	if !info.Mode().IsRegular() {
		return types.InstalledScript{}, errors.Newf(errors.ErrNotFound,
			"script is not a regular file: %s", entry.Name).
			WithDetail("path", entry.Path)
	}

	content, err := os.ReadFile(entry.Path)
	if err != nil {
		return types.InstalledScript{}, errors.Wrap(err, errors.ErrIO, "failed to read script").
			WithDetail("path", entry.Path)
	}

	target := i.paths.InstalledScriptPath(entry.Name)

	// Re-installs overwrite. Clear the old copy up front so synthfs
	// validation does not trip over it.
	if !i.dryRun {
		if _, err := os.Lstat(target); err == nil {
			log.Debug().Str("target", target).Msg("Replacing existing copy")
			if err := os.Remove(target); err != nil {
				return types.InstalledScript{}, errors.Wrap(err, errors.ErrIO,
					"failed to replace existing copy").
					WithDetail("path", target)
			}
		}
	}

	ops := i.buildOperations(entry, string(content), target)
	if err := i.executor.ExecuteOperations(ops); err != nil {
		i.cleanupPartial(target)
		return types.InstalledScript{}, err
	}

	log.Info().
		Str("target", target).
		Bool("dryRun", i.dryRun).
		Msg("Installed script")

	return types.InstalledScript{
		Name:   entry.Name,
		Path:   target,
		Source: entry.Path,
	}, nil
}

// InstallCollection installs every script of the collection in catalog
// order. Scripts install independently: one failure is recorded in its
// ScriptResult and the rest still run.
func (i *Installer) InstallCollection(collection types.Collection) ([]ScriptResult, error) {
	info, err := os.Stat(collection.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound,
				"collection directory does not exist: %s", collection.Name).
				WithDetail("path", collection.Path)
		}
		return nil, errors.Wrap(err, errors.ErrIO, "cannot access collection").
			WithDetail("path", collection.Path)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrNotFound,
			"collection path is not a directory: %s", collection.Name).
			WithDetail("path", collection.Path)
	}

	scripts, err := i.catalog.ListScripts(collection)
	if err != nil {
		return nil, err
	}

	results := make([]ScriptResult, 0, len(scripts))
	for _, entry := range scripts {
		installed, err := i.InstallScript(entry)
		if err != nil {
			i.logger.Warn().Err(err).
				Str("script", entry.Name).
				Msg("Script install failed, continuing with the rest")
		}
		results = append(results, ScriptResult{
			Entry:     entry,
			Installed: installed,
			Err:       err,
		})
	}

	i.logger.Debug().
		Str("collection", collection.Name).
		Int("scripts", len(results)).
		Msg("Collection install finished")
	return results, nil
}

// buildOperations produces the operation sequence for one script copy. The
// target directory create is emitted only when the directory is missing.
func (i *Installer) buildOperations(entry types.ScriptEntry, content, target string) []types.Operation {
	var ops []types.Operation

	targetDir := i.paths.TargetDir()
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		dirMode := uint32(0o755)
		ops = append(ops, types.Operation{
			Type:        types.OperationCreateDir,
			Target:      targetDir,
			Mode:        &dirMode,
			Description: fmt.Sprintf("Create target directory for %s", entry.Name),
			Status:      types.StatusReady,
		})
	}

	mode := InstalledMode
	ops = append(ops, types.Operation{
		Type:        types.OperationWriteFile,
		Source:      entry.Path,
		Target:      target,
		Content:     content,
		Mode:        &mode,
		Description: fmt.Sprintf("Install %s from collection %s", entry.Name, entry.Collection),
		Status:      types.StatusReady,
	})

	return ops
}

// cleanupPartial removes a possibly half-written copy after a failed
// install. Best effort: the error that got us here is the one that matters.
func (i *Installer) cleanupPartial(target string) {
	if i.dryRun {
		return
	}
	if _, err := os.Lstat(target); err != nil {
		return
	}
	if err := os.Remove(target); err != nil {
		i.logger.Warn().Err(err).
			Str("target", target).
			Msg("Failed to clean up partial install")
	}
}
