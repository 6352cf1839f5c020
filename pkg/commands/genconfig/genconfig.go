// Package genconfig renders the commented default configuration, optionally
// saving it as the user config file.
package genconfig

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/paths"
)

// GenConfigOptions defines the options for the GenConfig command.
type GenConfigOptions struct {
	// Write saves the rendered config as the user config file instead of
	// only returning it. An existing file is never overwritten.
	Write bool
}

// GenConfigResult holds the rendered configuration.
type GenConfigResult struct {
	ConfigContent string
	FilesWritten  []string
}

// GenConfig outputs or writes the default configuration.
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	content, err := config.RenderDefaults()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render default config")
	}

	result := &GenConfigResult{
		ConfigContent: content,
		FilesWritten:  []string{},
	}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	targetPath := paths.UserConfigPath()
	if _, err := os.Stat(targetPath); err == nil {
		logger.Warn().Str("path", targetPath).Msg("Config file already exists, skipping")
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return result, errors.Wrap(err, errors.ErrIO, "failed to create config directory").
			WithDetail("path", filepath.Dir(targetPath))
	}
	if err := os.WriteFile(targetPath, []byte(content), 0644); err != nil {
		return result, errors.Wrap(err, errors.ErrIO, "failed to write config file").
			WithDetail("path", targetPath)
	}

	logger.Info().Str("path", targetPath).Msg("Written config file")
	result.FilesWritten = append(result.FilesWritten, targetPath)
	return result, nil
}
