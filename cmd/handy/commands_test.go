// cmd/handy/commands_test.go
// TEST TYPE: CLI Integration Tests
// DEPENDENCIES: testutil.TestEnvironment
// PURPOSE: Run the real cobra commands end to end against a temp checkout

package handy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and captures stdout and stderr.
func execute(t *testing.T, in string, args ...string) (string, string, error) {
	t.Helper()

	rootCmd := NewRootCmd()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	if in != "" {
		rootCmd.SetIn(strings.NewReader(in))
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootNoArgsListsCollectionsAndFails(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddScript("git", "git_helpers.sh", "alias gs='git status'\n")

	out, _, err := execute(t, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no collection specified")
	assert.Contains(t, out, "basic")
	assert.Contains(t, out, "git")
	assert.Contains(t, out, "aliases.sh")
}

func TestRootInstallAll(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddScript("basic", "functions.sh", "greet() { echo hi; }\n")
	env.AddScript("git", "git_helpers.sh", "alias gs='git status'\n")
	env.AddRCFile(".bashrc", "# my bashrc\n")

	out, _, err := execute(t, "", "all")
	require.NoError(t, err)

	// Copies land in the target dir with the exec bit set
	for _, name := range []string{"aliases.sh", "functions.sh", "git_helpers.sh"} {
		path := filepath.Join(env.TargetDir(), name)
		info, statErr := os.Stat(path)
		require.NoError(t, statErr, "expected %s to be installed", name)
		assert.NotZero(t, info.Mode()&0111, "expected %s to be executable", name)
	}

	// Each script is registered in the rc file under the marker
	rc := env.ReadFile(filepath.Join(env.HomeDir, ".bashrc"))
	assert.Contains(t, rc, "# my bashrc")
	assert.Contains(t, rc, "# Handy Scripts loading:")
	assert.Contains(t, rc, "source $HOME/handy_scripts/aliases.sh")
	assert.Contains(t, rc, "source $HOME/handy_scripts/git_helpers.sh")

	assert.Contains(t, out, "basic/aliases.sh: installed -> .bashrc")
	assert.Contains(t, out, "git/git_helpers.sh: installed -> .bashrc")
}

func TestRootInstallAllDryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddRCFile(".bashrc", "# my bashrc\n")

	out, _, err := execute(t, "", "all", "--dry-run")
	require.NoError(t, err)

	// Nothing was written
	_, statErr := os.Stat(filepath.Join(env.TargetDir(), "aliases.sh"))
	assert.True(t, os.IsNotExist(statErr), "dry run must not install files")
	rc := env.ReadFile(filepath.Join(env.HomeDir, ".bashrc"))
	assert.Equal(t, "# my bashrc\n", rc)

	assert.Contains(t, out, "DRY RUN MODE")
	assert.Contains(t, out, "would install")
}

func TestRootInteractiveSingleScript(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddScript("basic", "functions.sh", "greet() { echo hi; }\n")
	env.AddRCFile(".bashrc", "")

	out, _, err := execute(t, "2\n", "basic")
	require.NoError(t, err)

	assert.Contains(t, out, "Scripts in basic:")
	assert.Contains(t, out, "1. aliases.sh")
	assert.Contains(t, out, "2. functions.sh")
	assert.Contains(t, out, "3. Install all of basic")

	// Only the selected script was installed
	_, statErr := os.Stat(filepath.Join(env.TargetDir(), "functions.sh"))
	require.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(env.TargetDir(), "aliases.sh"))
	assert.True(t, os.IsNotExist(statErr))

	rc := env.ReadFile(filepath.Join(env.HomeDir, ".bashrc"))
	assert.Contains(t, rc, "source $HOME/handy_scripts/functions.sh")
	assert.NotContains(t, rc, "aliases.sh")
}

func TestRootInteractiveInstallAllOption(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddScript("basic", "functions.sh", "greet() { echo hi; }\n")
	env.AddRCFile(".zshrc", "")

	// Two scripts, so option 3 is "Install all of basic"
	_, _, err := execute(t, "3\n", "basic")
	require.NoError(t, err)

	for _, name := range []string{"aliases.sh", "functions.sh"} {
		_, statErr := os.Stat(filepath.Join(env.TargetDir(), name))
		require.NoError(t, statErr, "expected %s to be installed", name)
	}
}

func TestRootUnknownCollection(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")

	_, _, err := execute(t, "", "nope")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownCollection))
	assert.Contains(t, err.Error(), "nope")
}

func TestRootInvalidSelection(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")

	_, _, err := execute(t, "9\n", "basic")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidSelection))
}

func TestRootRejectsExtraArgs(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, _, err := execute(t, "", "basic", "extra")
	require.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestListCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddScript("git", "git_helpers.sh", "alias gs='git status'\n")

	out, _, err := execute(t, "", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Available collections:")
	assert.Contains(t, out, "basic")
	assert.Contains(t, out, "aliases.sh")
	assert.Contains(t, out, "git_helpers.sh")
}

func TestListCmdWithDescription(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.WithFileTree(testutil.FileTree{
		"collection": testutil.FileTree{
			"basic": testutil.FileTree{
				".handy.toml": "description = \"Everyday aliases\"\n",
			},
		},
	})

	out, _, err := execute(t, "", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Everyday aliases")
}

func TestStatusCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddScript("basic", "functions.sh", "greet() { echo hi; }\n")
	env.AddRCFile(".bashrc", "")

	_, _, err := execute(t, "", "all")
	require.NoError(t, err)

	out, _, err := execute(t, "", "status")
	require.NoError(t, err)

	assert.Contains(t, out, "Installed scripts in")
	assert.Contains(t, out, "aliases.sh (basic): installed")
	assert.Contains(t, out, "loaded from .bashrc")
}

func TestStatusCmdNotInstalled(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")

	out, _, err := execute(t, "", "status")
	require.NoError(t, err)

	assert.Contains(t, out, "aliases.sh (basic): not installed")
}

func TestRemoveCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddRCFile(".bashrc", "# my bashrc\n")

	_, _, err := execute(t, "", "all")
	require.NoError(t, err)

	out, _, err := execute(t, "", "remove", "aliases.sh")
	require.NoError(t, err)

	assert.Contains(t, out, "aliases.sh: removed")

	_, statErr := os.Stat(filepath.Join(env.TargetDir(), "aliases.sh"))
	assert.True(t, os.IsNotExist(statErr), "installed copy should be gone")

	rc := env.ReadFile(filepath.Join(env.HomeDir, ".bashrc"))
	assert.NotContains(t, rc, "aliases.sh")
	assert.Contains(t, rc, "# my bashrc")
}

func TestRemoveCmdUnknownScript(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, _, err := execute(t, "", "remove", "ghost.sh")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be removed")
}

func TestRemoveCmdRequiresArgs(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, _, err := execute(t, "", "remove")
	require.Error(t, err)
}

func TestSnippetCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddScript("basic", "aliases.sh", "alias ll='ls -l'\n")
	env.AddRCFile(".bashrc", "")

	_, _, err := execute(t, "", "all")
	require.NoError(t, err)

	out, _, err := execute(t, "", "snippet")
	require.NoError(t, err)

	assert.Contains(t, out, "# Handy Scripts loading:")
	assert.Contains(t, out, "source $HOME/handy_scripts/aliases.sh")
}

func TestSnippetCmdNothingInstalled(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out, errOut, err := execute(t, "", "snippet")
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Contains(t, errOut, "No scripts installed")
}

func TestGenConfigCmd(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out, _, err := execute(t, "", "genconfig")
	require.NoError(t, err)

	assert.Contains(t, out, "[scripts]")
	assert.Contains(t, out, "install_dir")
	assert.Contains(t, out, "[shell]")
}

func TestGenConfigCmdWrite(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out, _, err := execute(t, "", "genconfig", "--write")
	require.NoError(t, err)

	configPath := filepath.Join(env.HomeDir, ".config", "handy", "config.toml")
	assert.Contains(t, out, "Created "+configPath)

	content := env.ReadFile(configPath)
	assert.Contains(t, content, "[scripts]")

	// A second write never clobbers the existing file
	out, _, err = execute(t, "", "genconfig", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestCompletionCmd(t *testing.T) {
	testutil.NewTestEnvironment(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		_, _, err := execute(t, "", "completion", shell)
		require.NoError(t, err, "completion %s failed", shell)
	}
}

func TestCompletionCmdRejectsUnknownShell(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, _, err := execute(t, "", "completion", "tcsh")
	require.Error(t, err)
}

func TestHelpFlagUsesCustomTemplate(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out, _, err := execute(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "handy [collection]")
	assert.Contains(t, out, "COMMANDS:")
	assert.Contains(t, out, "MISC:")
	assert.Contains(t, out, "--dry-run")
}

func TestCommandGroups(t *testing.T) {
	rootCmd := NewRootCmd()

	var groupIDs []string
	for _, group := range rootCmd.Groups() {
		groupIDs = append(groupIDs, group.ID)
	}
	assert.Contains(t, groupIDs, "core")
	assert.Contains(t, groupIDs, "misc")

	for _, name := range []string{"list", "status", "remove", "snippet", "genconfig", "topics", "completion"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, "command %s missing", name)
		assert.Equal(t, name, cmd.Name())
	}
}
