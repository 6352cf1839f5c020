// Package shellconfig registers installed scripts in shell startup files.
// Each registration appends a marker comment and a source line; removal
// strips them again. The package never creates rc files, only edits ones
// the user already has.
package shellconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/paths"
	"github.com/arthur-debert/handy/pkg/types"
	"github.com/rs/zerolog"
)

// Writer edits shell rc files under the user's home.
type Writer struct {
	cfg    config.Config
	paths  paths.Paths
	logger zerolog.Logger
	dryRun bool
}

// New creates a Writer. In dry-run mode edits are logged but no rc file is
// touched.
func New(cfg config.Config, p paths.Paths, dryRun bool) *Writer {
	return &Writer{
		cfg:    cfg,
		paths:  p,
		logger: logging.GetLogger("shellconfig"),
		dryRun: dryRun,
	}
}

// DirectiveLine returns the source line registered for a script. Paths under
// the home directory are written with a literal $HOME so the rc file stays
// valid if the checkout moves between machines.
func (w *Writer) DirectiveLine(scriptName string) string {
	return "source " + friendlyPath(w.paths.InstalledScriptPath(scriptName), w.paths.HomeDir())
}

// MarkerLine returns the comment written above each directive.
func (w *Writer) MarkerLine() string {
	return "# " + w.cfg.Shell.Marker
}

// AppendLoadDirective registers a script's source line in the rc file at
// rcPath. The rc file must already exist; handy never creates shell startup
// files. A second call for the same script is a no-op reported as
// DirectiveAlreadyPresent.
func (w *Writer) AppendLoadDirective(rcPath, scriptName string) (types.DirectiveStatus, error) {
	directive := w.DirectiveLine(scriptName)

	contents, err := os.ReadFile(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrNotFound,
				"rc file does not exist: %s", filepath.Base(rcPath)).
				WithDetail("path", rcPath)
		}
		return "", errors.Wrap(err, errors.ErrIO, "failed to read rc file").
			WithDetail("path", rcPath)
	}

	// Exact full-line match: a directive for one script must never hide
	// another's.
	if containsLine(string(contents), directive) {
		w.logger.Debug().
			Str("rcFile", rcPath).
			Str("script", scriptName).
			Msg("Directive already present")
		return types.DirectiveAlreadyPresent, nil
	}

	block := w.MarkerLine() + "\n" + directive + "\n"
	if len(contents) > 0 && !strings.HasSuffix(string(contents), "\n") {
		block = "\n\n" + block
	} else {
		block = "\n" + block
	}

	if w.dryRun {
		w.logger.Info().
			Str("rcFile", rcPath).
			Str("directive", directive).
			Msg("Would append load directive")
		return types.DirectiveAppended, nil
	}

	f, err := os.OpenFile(rcPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrIO, "failed to open rc file for append").
			WithDetail("path", rcPath)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(block); err != nil {
		return "", errors.Wrap(err, errors.ErrIO, "failed to append to rc file").
			WithDetail("path", rcPath)
	}

	w.logger.Info().
		Str("rcFile", rcPath).
		Str("script", scriptName).
		Msg("Appended load directive")
	return types.DirectiveAppended, nil
}

// RemoveLoadDirective strips a script's directive from the rc file, along
// with the marker comment directly above it and the blank line above that.
// A missing rc file or an absent directive is a quiet no-op. The returned
// bool reports whether anything was removed.
func (w *Writer) RemoveLoadDirective(rcPath, scriptName string) (bool, error) {
	directive := w.DirectiveLine(scriptName)

	contents, err := os.ReadFile(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrIO, "failed to read rc file").
			WithDetail("path", rcPath)
	}

	lines := strings.Split(string(contents), "\n")
	marker := w.MarkerLine()

	var kept []string
	removed := false
	for _, line := range lines {
		if line == directive {
			removed = true
			// Drop the marker comment above it, and the spacer blank
			// line above that
			if n := len(kept); n > 0 && kept[n-1] == marker {
				kept = kept[:n-1]
			}
			if n := len(kept); n > 0 && kept[n-1] == "" {
				kept = kept[:n-1]
			}
			continue
		}
		kept = append(kept, line)
	}

	if !removed {
		return false, nil
	}

	if w.dryRun {
		w.logger.Info().
			Str("rcFile", rcPath).
			Str("directive", directive).
			Msg("Would remove load directive")
		return true, nil
	}

	final := strings.Join(kept, "\n")
	if final != "" && !strings.HasSuffix(final, "\n") {
		final += "\n"
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(rcPath); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(rcPath, []byte(final), mode); err != nil {
		return false, errors.Wrap(err, errors.ErrIO, "failed to rewrite rc file").
			WithDetail("path", rcPath)
	}

	w.logger.Info().
		Str("rcFile", rcPath).
		Str("script", scriptName).
		Msg("Removed load directive")
	return true, nil
}

// HasLoadDirective reports whether the rc file carries the script's
// directive. A missing rc file simply has no directives.
func (w *Writer) HasLoadDirective(rcPath, scriptName string) (bool, error) {
	contents, err := os.ReadFile(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrIO, "failed to read rc file").
			WithDetail("path", rcPath)
	}
	return containsLine(string(contents), w.DirectiveLine(scriptName)), nil
}

// ExistingRCFiles returns the configured rc file names that actually exist
// under the home directory, in configuration order.
func (w *Writer) ExistingRCFiles() []string {
	var existing []string
	for _, name := range w.cfg.Shell.RCFiles {
		if config.FileExists(w.paths.RCFilePath(name)) {
			existing = append(existing, name)
		}
	}
	return existing
}

// Snippet renders the block a user can paste into a shell startup file handy
// does not manage: the marker comment followed by one source line per
// script.
func (w *Writer) Snippet(scriptNames []string) string {
	if len(scriptNames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(w.MarkerLine())
	b.WriteString("\n")
	for _, name := range scriptNames {
		b.WriteString(w.DirectiveLine(name))
		b.WriteString("\n")
	}
	return b.String()
}

// containsLine reports whether text has a line exactly equal to line.
func containsLine(text, line string) bool {
	for _, existing := range strings.Split(text, "\n") {
		if existing == line {
			return true
		}
	}
	return false
}

// friendlyPath rewrites paths under home to use a literal $HOME.
func friendlyPath(path, home string) string {
	if home != "" && strings.HasPrefix(path, home) {
		rel := strings.TrimPrefix(path, home)
		rel = strings.TrimPrefix(rel, string(os.PathSeparator))
		return fmt.Sprintf("$HOME/%s", filepath.ToSlash(rel))
	}
	return path
}
