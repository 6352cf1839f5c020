package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/types"
)

// CollectionView is one collection with its scripts, ready for listing.
// Commands convert their results into this before rendering.
type CollectionView struct {
	Name        string
	Description string
	Scripts     []string
}

// ReportUnit is one script's outcome inside an install or remove report.
type ReportUnit struct {
	Script     string
	Collection string
	Action     string   // past-tense verb, e.g. "installed" or "removed"
	RCFiles    []string // rc files whose load directives changed
	Err        error
}

// ScriptState is one script's install state for status rendering.
type ScriptState struct {
	Name       string
	Collection string
	Installed  bool
	Executable bool
	InCatalog  bool
	RCFiles    []string // rc files that currently load the script
}

// Renderer defines the interface for rendering various output types
type Renderer interface {
	RenderCollectionList(collections []CollectionView) string
	RenderMenu(collection string, scripts []types.ScriptEntry) string
	RenderReport(units []ReportUnit) string
	RenderScriptStatuses(targetDir string, scripts []ScriptState) string
	RenderError(err error) string
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderCollectionList renders every collection with its scripts
func (r *TerminalRenderer) RenderCollectionList(collections []CollectionView) string {
	if len(collections) == 0 {
		return MutedStyle.Render("No collections found")
	}

	var result strings.Builder
	result.WriteString(SubtitleStyle.Render("Available collections") + "\n\n")

	for _, collection := range collections {
		line := fmt.Sprintf("%s %s", InfoIndicator, CollectionStyle.Render(collection.Name))
		if collection.Description != "" {
			line += " " + MutedStyle.Render(collection.Description)
		}
		result.WriteString(line + "\n")

		for _, script := range collection.Scripts {
			result.WriteString(Indent(ScriptStyle.Render(script), 1) + "\n")
		}

		// Spacing between collections
		result.WriteString("\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderMenu renders the numbered selection block for one collection:
// entries 1..N plus option N+1 to install everything at once.
func (r *TerminalRenderer) RenderMenu(collection string, scripts []types.ScriptEntry) string {
	var result strings.Builder
	result.WriteString(SubtitleStyle.Render("Scripts in "+collection+":") + "\n\n")

	for i, entry := range scripts {
		result.WriteString(fmt.Sprintf("  %d. %s\n", i+1, ScriptStyle.Render(entry.Name)))
	}
	allOption := len(scripts) + 1
	result.WriteString(fmt.Sprintf("  %d. %s\n", allOption, Bold("Install all of "+collection)))

	return strings.TrimRight(result.String(), "\n")
}

// RenderReport renders the per-script outcome lines of an install or
// remove run.
func (r *TerminalRenderer) RenderReport(units []ReportUnit) string {
	if len(units) == 0 {
		return MutedStyle.Render("Nothing to do")
	}

	var result strings.Builder
	for _, unit := range units {
		result.WriteString(r.renderUnit(unit) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// renderUnit renders a single report line
func (r *TerminalRenderer) renderUnit(unit ReportUnit) string {
	name := ScriptStyle.Render(unit.Script)
	if unit.Collection != "" {
		name = CollectionStyle.Render(unit.Collection) + "/" + name
	}

	if unit.Err != nil {
		return fmt.Sprintf("%s %s %s", ErrorIndicator, name, unit.Err.Error())
	}

	line := fmt.Sprintf("%s %s %s", SuccessIndicator, name, unit.Action)
	if len(unit.RCFiles) > 0 {
		line += " → " + RCFileStyle.Render(strings.Join(unit.RCFiles, ", "))
	}
	return line
}

// RenderScriptStatuses renders the install state of every script
func (r *TerminalRenderer) RenderScriptStatuses(targetDir string, scripts []ScriptState) string {
	if len(scripts) == 0 {
		return MutedStyle.Render("No scripts found")
	}

	var result strings.Builder
	result.WriteString(SubtitleStyle.Render("Installed scripts in ") + PathStyle.Render(targetDir) + "\n\n")

	for _, script := range scripts {
		result.WriteString(r.renderScriptState(script) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// renderScriptState renders a single status line
func (r *TerminalRenderer) renderScriptState(script ScriptState) string {
	name := ScriptStyle.Render(script.Name)
	if script.Collection != "" {
		name += " " + MutedStyle.Render("("+script.Collection+")")
	}

	if !script.Installed {
		return fmt.Sprintf("%s %s %s", PendingIndicator, name, MutedStyle.Render("not installed"))
	}

	var problems []string
	if !script.Executable {
		problems = append(problems, "not executable")
	}
	if !script.InCatalog {
		problems = append(problems, "not in any collection")
	}
	if len(problems) > 0 {
		return fmt.Sprintf("%s %s %s", WarningIndicator, name, WarningStyle.Render(strings.Join(problems, ", ")))
	}

	loaded := MutedStyle.Render("not loaded by any rc file")
	if len(script.RCFiles) > 0 {
		loaded = RCFileStyle.Render(strings.Join(script.RCFiles, ", "))
	}
	return fmt.Sprintf("%s %s %s", SuccessIndicator, name, loaded)
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s %s %s", ErrorIndicator,
			ErrorStyle.Render("["+string(code)+"]"), err.Error())
	}

	return fmt.Sprintf("%s %s", ErrorIndicator, err.Error())
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderCollectionList renders a plain collection listing
func (r *PlainRenderer) RenderCollectionList(collections []CollectionView) string {
	if len(collections) == 0 {
		return "No collections found"
	}

	var result strings.Builder
	result.WriteString("Available collections:\n")

	for _, collection := range collections {
		line := "\n  " + collection.Name
		if collection.Description != "" {
			line += " - " + collection.Description
		}
		result.WriteString(line + "\n")

		for _, script := range collection.Scripts {
			result.WriteString("    " + script + "\n")
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderMenu renders a plain selection block
func (r *PlainRenderer) RenderMenu(collection string, scripts []types.ScriptEntry) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Scripts in %s:\n\n", collection))

	for i, entry := range scripts {
		result.WriteString(fmt.Sprintf("  %d. %s\n", i+1, entry.Name))
	}
	allOption := len(scripts) + 1
	result.WriteString(fmt.Sprintf("  %d. Install all of %s\n", allOption, collection))

	return strings.TrimRight(result.String(), "\n")
}

// RenderReport renders plain report lines
func (r *PlainRenderer) RenderReport(units []ReportUnit) string {
	if len(units) == 0 {
		return "Nothing to do"
	}

	var result strings.Builder
	for _, unit := range units {
		name := unit.Script
		if unit.Collection != "" {
			name = unit.Collection + "/" + unit.Script
		}

		if unit.Err != nil {
			result.WriteString(fmt.Sprintf("%s: error: %s\n", name, unit.Err.Error()))
			continue
		}

		line := fmt.Sprintf("%s: %s", name, unit.Action)
		if len(unit.RCFiles) > 0 {
			line += " -> " + strings.Join(unit.RCFiles, ", ")
		}
		result.WriteString(line + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderScriptStatuses renders plain status lines
func (r *PlainRenderer) RenderScriptStatuses(targetDir string, scripts []ScriptState) string {
	if len(scripts) == 0 {
		return "No scripts found"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Installed scripts in %s:\n\n", targetDir))

	for _, script := range scripts {
		name := script.Name
		if script.Collection != "" {
			name += " (" + script.Collection + ")"
		}

		if !script.Installed {
			result.WriteString(name + ": not installed\n")
			continue
		}

		parts := []string{"installed"}
		if !script.Executable {
			parts = append(parts, "not executable")
		}
		if !script.InCatalog {
			parts = append(parts, "not in any collection")
		}
		if len(script.RCFiles) > 0 {
			parts = append(parts, "loaded from "+strings.Join(script.RCFiles, ", "))
		}
		result.WriteString(name + ": " + strings.Join(parts, ", ") + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("Error [%s]: %s", code, err.Error())
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
