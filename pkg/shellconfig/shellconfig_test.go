// pkg/shellconfig/shellconfig_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Temp filesystem via testutil
// PURPOSE: Verify rc file append/remove semantics and idempotence

package shellconfig_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/paths"
	"github.com/arthur-debert/handy/pkg/shellconfig"
	"github.com/arthur-debert/handy/pkg/testutil"
	"github.com/arthur-debert/handy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWriter(t *testing.T, env *testutil.TestEnvironment, dryRun bool) *shellconfig.Writer {
	t.Helper()
	p, err := paths.New(env.ScriptsRoot, env.Config())
	require.NoError(t, err)
	return shellconfig.New(env.Config(), p, dryRun)
}

func TestDirectiveLineUsesHomeVariable(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	w := newWriter(t, env, false)

	line := w.DirectiveLine("greet.sh")

	assert.Equal(t, "source $HOME/handy_scripts/greet.sh", line,
		"paths under home use a literal $HOME")
}

func TestAppendLoadDirective(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".bashrc", "export PATH=$PATH:/usr/local/bin\n")
	w := newWriter(t, env, false)

	// Execute
	status, err := w.AppendLoadDirective(rcPath, "greet.sh")

	// Verify
	require.NoError(t, err)
	assert.Equal(t, types.DirectiveAppended, status)

	content := env.ReadFile(rcPath)
	assert.Equal(t,
		"export PATH=$PATH:/usr/local/bin\n"+
			"\n"+
			"# Handy Scripts loading:\n"+
			"source $HOME/handy_scripts/greet.sh\n",
		content)
}

func TestAppendLoadDirectiveIdempotent(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".bashrc", "# my shell setup\n")
	w := newWriter(t, env, false)

	// Execute twice
	first, err := w.AppendLoadDirective(rcPath, "greet.sh")
	require.NoError(t, err)
	after := env.ReadFile(rcPath)

	second, err := w.AppendLoadDirective(rcPath, "greet.sh")
	require.NoError(t, err)

	// Verify
	assert.Equal(t, types.DirectiveAppended, first)
	assert.Equal(t, types.DirectiveAlreadyPresent, second)
	assert.Equal(t, after, env.ReadFile(rcPath), "second call must not change the file")
	assert.Equal(t, 1, strings.Count(env.ReadFile(rcPath), "source $HOME/handy_scripts/greet.sh"))
}

func TestAppendLoadDirectiveDistinctScripts(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".bashrc", "")
	w := newWriter(t, env, false)

	// Execute: installing script A must not suppress script B's directive
	_, err := w.AppendLoadDirective(rcPath, "aa.sh")
	require.NoError(t, err)
	status, err := w.AppendLoadDirective(rcPath, "bb.sh")
	require.NoError(t, err)

	// Verify
	assert.Equal(t, types.DirectiveAppended, status)
	content := env.ReadFile(rcPath)
	assert.Contains(t, content, "source $HOME/handy_scripts/aa.sh")
	assert.Contains(t, content, "source $HOME/handy_scripts/bb.sh")
}

func TestAppendLoadDirectiveMissingRCFile(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	w := newWriter(t, env, false)
	rcPath := filepath.Join(env.HomeDir, ".bashrc")

	// Execute
	_, err := w.AppendLoadDirective(rcPath, "greet.sh")

	// Verify: never create rc files
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	_, statErr := os.Stat(rcPath)
	assert.True(t, os.IsNotExist(statErr), "rc file must not be created")
}

func TestAppendLoadDirectiveNoTrailingNewline(t *testing.T) {
	// Setup: rc file whose last line is unterminated
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".zshrc", "alias ll='ls -l'")
	w := newWriter(t, env, false)

	// Execute
	_, err := w.AppendLoadDirective(rcPath, "greet.sh")

	// Verify: the alias line stays intact on its own line
	require.NoError(t, err)
	content := env.ReadFile(rcPath)
	assert.Equal(t,
		"alias ll='ls -l'\n"+
			"\n"+
			"# Handy Scripts loading:\n"+
			"source $HOME/handy_scripts/greet.sh\n",
		content)
}

func TestAppendLoadDirectiveDryRun(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".bashrc", "original\n")
	w := newWriter(t, env, true)

	// Execute
	status, err := w.AppendLoadDirective(rcPath, "greet.sh")

	// Verify
	require.NoError(t, err)
	assert.Equal(t, types.DirectiveAppended, status)
	assert.Equal(t, "original\n", env.ReadFile(rcPath), "dry run must not touch the file")
}

func TestRemoveLoadDirective(t *testing.T) {
	// Setup: append then remove restores the original file
	env := testutil.NewTestEnvironment(t)
	original := "export EDITOR=vim\n"
	rcPath := env.AddRCFile(".bashrc", original)
	w := newWriter(t, env, false)

	_, err := w.AppendLoadDirective(rcPath, "greet.sh")
	require.NoError(t, err)

	// Execute
	removed, err := w.RemoveLoadDirective(rcPath, "greet.sh")

	// Verify
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, original, env.ReadFile(rcPath),
		"remove must strip the directive, marker, and spacer line")
}

func TestRemoveLoadDirectiveAbsent(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".bashrc", "nothing here\n")
	w := newWriter(t, env, false)

	// Execute
	removed, err := w.RemoveLoadDirective(rcPath, "greet.sh")

	// Verify
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, "nothing here\n", env.ReadFile(rcPath))
}

func TestRemoveLoadDirectiveMissingFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	w := newWriter(t, env, false)

	removed, err := w.RemoveLoadDirective(filepath.Join(env.HomeDir, ".bashrc"), "greet.sh")

	require.NoError(t, err, "missing rc file is a quiet no-op")
	assert.False(t, removed)
}

func TestRemoveLoadDirectiveKeepsOtherScripts(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".bashrc", "")
	w := newWriter(t, env, false)

	_, err := w.AppendLoadDirective(rcPath, "aa.sh")
	require.NoError(t, err)
	_, err = w.AppendLoadDirective(rcPath, "bb.sh")
	require.NoError(t, err)

	// Execute
	removed, err := w.RemoveLoadDirective(rcPath, "aa.sh")

	// Verify
	require.NoError(t, err)
	assert.True(t, removed)
	content := env.ReadFile(rcPath)
	assert.NotContains(t, content, "aa.sh")
	assert.Contains(t, content, "source $HOME/handy_scripts/bb.sh")
}

func TestHasLoadDirective(t *testing.T) {
	// Setup
	env := testutil.NewTestEnvironment(t)
	rcPath := env.AddRCFile(".bashrc", "")
	w := newWriter(t, env, false)

	has, err := w.HasLoadDirective(rcPath, "greet.sh")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = w.AppendLoadDirective(rcPath, "greet.sh")
	require.NoError(t, err)

	has, err = w.HasLoadDirective(rcPath, "greet.sh")
	require.NoError(t, err)
	assert.True(t, has)

	// Missing file simply has no directives
	has, err = w.HasLoadDirective(filepath.Join(env.HomeDir, ".profile"), "greet.sh")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestExistingRCFiles(t *testing.T) {
	// Setup: only .zshrc exists out of the configured pair
	env := testutil.NewTestEnvironment(t)
	env.AddRCFile(".zshrc", "")
	w := newWriter(t, env, false)

	// Execute
	existing := w.ExistingRCFiles()

	// Verify
	assert.Equal(t, []string{".zshrc"}, existing)
}

func TestSnippet(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	w := newWriter(t, env, false)

	snippet := w.Snippet([]string{"aa.sh", "bb.sh"})

	assert.Equal(t,
		"# Handy Scripts loading:\n"+
			"source $HOME/handy_scripts/aa.sh\n"+
			"source $HOME/handy_scripts/bb.sh\n",
		snippet)
	assert.Empty(t, w.Snippet(nil))
}
