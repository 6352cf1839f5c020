// Package catalog discovers what can be installed: collections (immediate
// subdirectories of the collections root) and the script entries inside
// them. Discovery is read-only and re-run on every invocation; nothing is
// cached or persisted.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// CollectionConfigFile is the optional per-collection metadata file.
const CollectionConfigFile = ".handy.toml"

// collectionConfig is the parsed form of a collection's .handy.toml.
type collectionConfig struct {
	Description string `toml:"description"`
}

// Catalog enumerates collections and scripts according to the configured
// script extension.
type Catalog struct {
	cfg    config.Config
	logger zerolog.Logger
}

// New creates a Catalog for the given configuration.
func New(cfg config.Config) *Catalog {
	return &Catalog{
		cfg:    cfg,
		logger: logging.GetLogger("catalog"),
	}
}

// ListCollections returns every collection under collectionsDir in lexical
// name order. A missing collections root is not an error: there is simply
// nothing to install, and an empty result is returned.
func (c *Catalog) ListCollections(collectionsDir string) ([]types.Collection, error) {
	c.logger.Trace().Str("dir", collectionsDir).Msg("Listing collections")

	info, err := os.Stat(collectionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug().Str("dir", collectionsDir).Msg("Collections directory does not exist")
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrIO, "cannot access collections directory").
			WithDetail("path", collectionsDir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "collections path is not a directory").
			WithDetail("path", collectionsDir)
	}

	entries, err := os.ReadDir(collectionsDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrIO, "cannot read collections directory").
			WithDetail("path", collectionsDir)
	}

	var collections []types.Collection
	for _, entry := range entries {
		name := entry.Name()

		// Skip hidden directories
		if strings.HasPrefix(name, ".") {
			c.logger.Trace().Str("name", name).Msg("Skipping hidden entry")
			continue
		}

		if !entry.IsDir() {
			continue
		}

		collection := types.Collection{
			Name: name,
			Path: filepath.Join(collectionsDir, name),
		}

		// Optional metadata; a broken metadata file never hides a collection
		configPath := filepath.Join(collection.Path, CollectionConfigFile)
		if config.FileExists(configPath) {
			meta, err := loadCollectionConfig(configPath)
			if err != nil {
				c.logger.Warn().Err(err).
					Str("collection", name).
					Str("configPath", configPath).
					Msg("Failed to parse collection config, ignoring")
			} else {
				collection.Description = meta.Description
			}
		}

		collections = append(collections, collection)
		c.logger.Trace().Str("name", name).Msg("Found collection")
	}

	// Sort for consistent ordering
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Name < collections[j].Name
	})

	c.logger.Debug().Int("count", len(collections)).Msg("Listed collections")
	return collections, nil
}

// ListScripts returns the collection's script entries in lexical name order.
// Only immediate regular files carrying the configured extension count;
// subdirectories are never descended into. A missing collection directory
// yields an empty result, not an error.
func (c *Catalog) ListScripts(collection types.Collection) ([]types.ScriptEntry, error) {
	c.logger.Trace().Str("collection", collection.Name).Msg("Listing scripts")

	entries, err := os.ReadDir(collection.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrIO, "cannot read collection directory").
			WithDetail("collection", collection.Name).
			WithDetail("path", collection.Path)
	}

	var scripts []types.ScriptEntry
	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, c.cfg.Scripts.Extension) {
			continue
		}

		scripts = append(scripts, types.ScriptEntry{
			Name:       name,
			Collection: collection.Name,
			Path:       filepath.Join(collection.Path, name),
		})
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})

	c.logger.Debug().
		Str("collection", collection.Name).
		Int("count", len(scripts)).
		Msg("Listed scripts")
	return scripts, nil
}

// FindCollection resolves a collection by name, or reports which names would
// have been valid.
func (c *Catalog) FindCollection(collectionsDir, name string) (types.Collection, error) {
	collections, err := c.ListCollections(collectionsDir)
	if err != nil {
		return types.Collection{}, err
	}

	for _, collection := range collections {
		if collection.Name == name {
			return collection, nil
		}
	}

	names := make([]string, len(collections))
	for i, collection := range collections {
		names[i] = collection.Name
	}

	return types.Collection{}, errors.Newf(errors.ErrUnknownCollection, "unknown collection %q", name).
		WithDetail("collections", names)
}

// loadCollectionConfig reads and parses a collection's .handy.toml file
func loadCollectionConfig(configPath string) (collectionConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return collectionConfig{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to read collection config").
			WithDetail("path", configPath)
	}

	var meta collectionConfig
	if err := toml.Unmarshal(data, &meta); err != nil {
		return collectionConfig{}, errors.Wrap(err, errors.ErrConfigParse, "failed to parse TOML").
			WithDetail("path", configPath)
	}

	return meta, nil
}
