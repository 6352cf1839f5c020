// pkg/commands/remove/remove_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: Real filesystem via testutil
// PURPOSE: Test removal of installed copies and their directives

package remove_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/handy/pkg/commands/install"
	"github.com/arthur-debert/handy/pkg/commands/remove"
	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installBasic(t *testing.T, env *testutil.TestEnvironment) {
	t.Helper()
	_, err := install.InstallScripts(install.InstallScriptsOptions{
		ScriptsRoot: env.ScriptsRoot,
		All:         true,
		Input:       strings.NewReader(""),
		Output:      &bytes.Buffer{},
	})
	require.NoError(t, err)
}

func TestRemoveInstalledScript(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	env.AddCollection("basic")
	env.AddScript("basic", "aa.sh", "a\n")
	env.AddScript("basic", "bb.sh", "b\n")
	rcPath := env.AddRCFile(".bashrc", "")
	installBasic(t, env)

	// Execute
	result, err := remove.Remove(remove.RemoveOptions{
		ScriptsRoot: env.ScriptsRoot,
		ScriptNames: []string{"aa.sh"},
	})

	// Verify
	require.NoError(t, err)
	assert.False(t, result.Failed())
	require.Len(t, result.Scripts, 1)

	unit := result.Scripts[0]
	assert.True(t, unit.CopyRemoved)
	assert.Equal(t, []string{".bashrc"}, unit.RCFiles)
	assert.NoFileExists(t, filepath.Join(env.TargetDir(), "aa.sh"))

	// bb.sh untouched
	assert.FileExists(t, filepath.Join(env.TargetDir(), "bb.sh"))
	content := env.ReadFile(rcPath)
	assert.NotContains(t, content, "aa.sh")
	assert.Contains(t, content, "source $HOME/handy_scripts/bb.sh")
}

func TestRemoveNotInstalled(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	env.AddCollection("basic")

	// Execute
	result, err := remove.Remove(remove.RemoveOptions{
		ScriptsRoot: env.ScriptsRoot,
		ScriptNames: []string{"ghost.sh"},
	})

	// Verify: per-unit NOT_FOUND, run itself succeeds
	require.NoError(t, err)
	assert.True(t, result.Failed())
	require.Len(t, result.Scripts, 1)
	assert.True(t, errors.IsErrorCode(result.Scripts[0].Err, errors.ErrNotFound))
}

func TestRemoveDirectiveOnly(t *testing.T) {
	// Setup: directive present but the copy is already gone
	env := testutil.NewTestEnvironment(t)
	env.AddCollection("basic")
	env.AddScript("basic", "aa.sh", "a\n")
	rcPath := env.AddRCFile(".bashrc", "")
	installBasic(t, env)
	require.NoError(t, os.Remove(filepath.Join(env.TargetDir(), "aa.sh")))

	// Execute
	result, err := remove.Remove(remove.RemoveOptions{
		ScriptsRoot: env.ScriptsRoot,
		ScriptNames: []string{"aa.sh"},
	})

	// Verify: stripping the stale directive still counts as success
	require.NoError(t, err)
	assert.False(t, result.Failed())
	unit := result.Scripts[0]
	assert.False(t, unit.CopyRemoved)
	assert.Equal(t, []string{".bashrc"}, unit.RCFiles)
	assert.NotContains(t, env.ReadFile(rcPath), "aa.sh")
}

func TestRemoveContinuesPastFailures(t *testing.T) {
	// Setup: one installed script, one unknown name
	env := testutil.NewTestEnvironment(t)
	env.AddCollection("basic")
	env.AddScript("basic", "aa.sh", "a\n")
	env.AddRCFile(".bashrc", "")
	installBasic(t, env)

	// Execute
	result, err := remove.Remove(remove.RemoveOptions{
		ScriptsRoot: env.ScriptsRoot,
		ScriptNames: []string{"ghost.sh", "aa.sh"},
	})

	// Verify
	require.NoError(t, err)
	require.Len(t, result.Scripts, 2)
	assert.Error(t, result.Scripts[0].Err)
	require.NoError(t, result.Scripts[1].Err)
	assert.NoFileExists(t, filepath.Join(env.TargetDir(), "aa.sh"))
}

func TestRemoveDryRun(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	env.AddCollection("basic")
	env.AddScript("basic", "aa.sh", "a\n")
	rcPath := env.AddRCFile(".bashrc", "")
	installBasic(t, env)
	before := env.ReadFile(rcPath)

	// Execute
	result, err := remove.Remove(remove.RemoveOptions{
		ScriptsRoot: env.ScriptsRoot,
		ScriptNames: []string{"aa.sh"},
		DryRun:      true,
	})

	// Verify: reported but untouched
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.True(t, result.Scripts[0].CopyRemoved)
	assert.Equal(t, []string{".bashrc"}, result.Scripts[0].RCFiles)
	assert.FileExists(t, filepath.Join(env.TargetDir(), "aa.sh"))
	assert.Equal(t, before, env.ReadFile(rcPath))
}
