package installer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/handy/pkg/config"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/paths"
	"github.com/arthur-debert/handy/pkg/types"
)

// ListInstalled returns the script copies currently present in the target
// directory, in lexical name order. Source is left empty: the target dir
// does not record where a copy came from. A missing target directory means
// nothing is installed.
func ListInstalled(cfg config.Config, p paths.Paths) ([]types.InstalledScript, error) {
	targetDir := p.TargetDir()

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrIO, "cannot read target directory").
			WithDetail("path", targetDir)
	}

	var installed []types.InstalledScript
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, cfg.Scripts.Extension) {
			continue
		}
		installed = append(installed, types.InstalledScript{
			Name: name,
			Path: filepath.Join(targetDir, name),
		})
	}

	sort.Slice(installed, func(i, j int) bool {
		return installed[i].Name < installed[j].Name
	})
	return installed, nil
}
