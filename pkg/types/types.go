// Package types defines the core data model shared across handy:
// collections, script entries, installed scripts, and the filesystem
// operations handed to the executor.
package types

// Collection is a named group of related installable scripts. It maps to one
// immediate subdirectory of the collections root and is discovered per run,
// never persisted.
type Collection struct {
	// Name is the directory name, e.g. "docker" or "github"
	Name string

	// Path is the absolute path to the collection directory
	Path string

	// Description is optional metadata from the collection's .handy.toml
	Description string
}

// ScriptEntry is one installable script file within a collection.
type ScriptEntry struct {
	// Name is the file name including extension, e.g. "docker_basic_helpers.sh"
	Name string

	// Collection is the owning collection's name
	Collection string

	// Path is the absolute path to the source file
	Path string
}

// InstalledScript is the copy of a ScriptEntry placed into the target
// directory. The copy always carries the executable bit.
type InstalledScript struct {
	// Name is the file name, identical to the source entry's name
	Name string

	// Path is the absolute path of the installed copy
	Path string

	// Source is the absolute path the copy was made from
	Source string
}

// DirectiveStatus reports what AppendLoadDirective did to an rc file.
type DirectiveStatus string

const (
	// DirectiveAppended means the load directive was added to the file
	DirectiveAppended DirectiveStatus = "appended"

	// DirectiveAlreadyPresent means an identical directive line already
	// existed and the file was left untouched
	DirectiveAlreadyPresent DirectiveStatus = "already_present"
)

// DirectiveResult is the outcome of registering one script in one rc file.
type DirectiveResult struct {
	// RCFile is the rc file name, e.g. ".bashrc"
	RCFile string

	// Path is the absolute path of the rc file
	Path string

	// Status says whether the line was appended or already there
	Status DirectiveStatus
}
