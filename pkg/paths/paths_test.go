// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Temp filesystem, environment variables
// PURPOSE: Verify scripts root resolution and derived path construction

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/handy/pkg/paths"
	"github.com/arthur-debert/handy/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolvesFromEnvironment(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	p, err := paths.New("", env.Config())
	require.NoError(t, err)

	assert.Equal(t, env.ScriptsRoot, p.ScriptsRoot())
	assert.False(t, p.UsedFallback())
	assert.Equal(t, env.HomeDir, p.HomeDir())
}

func TestNewWithExplicitRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	explicit := t.TempDir()

	p, err := paths.New(explicit, env.Config())
	require.NoError(t, err)

	assert.Equal(t, explicit, p.ScriptsRoot())
	assert.False(t, p.UsedFallback())
}

func TestDerivedPaths(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	p, err := paths.New("", env.Config())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.ScriptsRoot, "collection"), p.CollectionsDir())
	assert.Equal(t, filepath.Join(env.ScriptsRoot, "collection", "docker"), p.CollectionPath("docker"))
	assert.Equal(t, filepath.Join(env.HomeDir, "handy_scripts"), p.TargetDir())
	assert.Equal(t, filepath.Join(env.HomeDir, "handy_scripts", "a.sh"), p.InstalledScriptPath("a.sh"))
	assert.Equal(t, filepath.Join(env.HomeDir, ".bashrc"), p.RCFilePath(".bashrc"))
}

func TestTargetDirInstallDirOverride(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	t.Setenv(paths.EnvInstallDir, "/opt/scripts")

	p, err := paths.New("", env.Config())
	require.NoError(t, err)

	assert.Equal(t, "/opt/scripts", p.TargetDir())
}

func TestStateAndConfigDirsFollowXDG(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	p, err := paths.New("", env.Config())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.HomeDir, ".local", "state", "handy"), p.StateDir())
	assert.Equal(t, filepath.Join(env.HomeDir, ".local", "state", "handy", "handy.log"), p.LogFilePath())
}

func TestExpandHome(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde alone", "~", env.HomeDir},
		{"tilde slash", "~/scripts", filepath.Join(env.HomeDir, "scripts")},
		{"absolute untouched", "/etc/scripts", "/etc/scripts"},
		{"relative untouched", "scripts", "scripts"},
		{"other user untouched", "~other/scripts", "~other/scripts"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.ExpandHome(tt.in))
		})
	}
}

func TestUserConfigPathOverride(t *testing.T) {
	testutil.NewTestEnvironment(t)
	t.Setenv(paths.EnvConfigDir, "/custom/handy-config")

	assert.Equal(t, "/custom/handy-config/config.toml", paths.UserConfigPath())
}

func TestFindScriptsRootPrefersEnv(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	root, usedFallback, err := paths.FindScriptsRoot()
	require.NoError(t, err)
	assert.Equal(t, env.ScriptsRoot, root)
	assert.False(t, usedFallback)
}
