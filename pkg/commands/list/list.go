// Package list implements the non-interactive catalog listing: every
// collection with its scripts and optional description.
package list

import (
	"github.com/arthur-debert/handy/pkg/catalog"
	"github.com/arthur-debert/handy/pkg/commands/internal"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/types"
)

// ListCollectionsOptions defines the options for the ListCollections command.
type ListCollectionsOptions struct {
	// ScriptsRoot is the scripts checkout; empty means resolve it from the
	// environment.
	ScriptsRoot string
}

// CollectionListing is one collection with its scripts.
type CollectionListing struct {
	Collection types.Collection
	Scripts    []types.ScriptEntry
}

// ListCollectionsResult holds everything the catalog knows.
type ListCollectionsResult struct {
	// ScriptsRoot is the resolved checkout the listing came from
	ScriptsRoot string

	// UsedFallback is true when the root fell back to the working directory
	UsedFallback bool

	Collections []CollectionListing
}

// ListCollections enumerates every collection and its scripts.
func ListCollections(opts ListCollectionsOptions) (*ListCollectionsResult, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Str("command", "ListCollections").Msg("Executing command")

	rt, err := internal.NewRuntime(opts.ScriptsRoot)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(rt.Config)
	collections, err := cat.ListCollections(rt.Paths.CollectionsDir())
	if err != nil {
		return nil, err
	}

	result := &ListCollectionsResult{
		ScriptsRoot:  rt.Paths.ScriptsRoot(),
		UsedFallback: rt.UsedFallback,
	}
	for _, coll := range collections {
		scripts, err := cat.ListScripts(coll)
		if err != nil {
			return nil, err
		}
		result.Collections = append(result.Collections, CollectionListing{
			Collection: coll,
			Scripts:    scripts,
		})
	}

	log.Info().
		Str("command", "ListCollections").
		Int("collectionCount", len(result.Collections)).
		Msg("Command finished")
	return result, nil
}
