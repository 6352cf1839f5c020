package topics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTopic(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestTopicManagerScanTopics(t *testing.T) {
	topicsDir := t.TempDir()

	writeTopic(t, topicsDir, "dry-run.txt", "Information about dry-run mode")
	writeTopic(t, topicsDir, "architecture.md", "# Architecture\n\nSystem architecture details")
	writeTopic(t, topicsDir, "config.txxt", "Configuration Guide\n==================")
	writeTopic(t, topicsDir, "ignore.json", "This should be ignored")

	t.Run("default extensions", func(t *testing.T) {
		tm := New(topicsDir)
		require.NoError(t, tm.scanTopics())

		// Only .txt and .md should have been loaded
		tests := []struct {
			name     string
			expected bool
			content  string
		}{
			{"dry-run", true, "Information about dry-run mode"},
			{"architecture", true, "# Architecture\n\nSystem architecture details"},
			{"config", false, ""}, // .txxt not in defaults
			{"ignore", false, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, exists := tm.GetTopic(tt.name)
				assert.Equal(t, tt.expected, exists)
				if exists {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(topicsDir, Options{
			Extensions: []string{".txt", ".md", ".txxt"},
		})
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("config")
		require.True(t, exists)
		assert.Equal(t, "Configuration Guide\n==================", topic.Content)

		_, exists = tm.GetTopic("ignore")
		assert.False(t, exists)
	})
}

func TestTopicManagerGetTopic(t *testing.T) {
	topicsDir := t.TempDir()
	writeTopic(t, topicsDir, "option-dry-run.txt", "Dry run help")
	writeTopic(t, topicsDir, "option-verbose.txt", "Verbose help")
	writeTopic(t, topicsDir, "collections.txt", "Collections help")

	tm := New(topicsDir)
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		// Direct topic name
		{"collections", "collections", true},
		// Option topics with prefix
		{"option-dry-run", "option-dry-run", true},
		// Flag-style lookups should find option- prefixed files
		{"dry-run", "option-dry-run", true},
		{"--dry-run", "option-dry-run", true},
		{"-dry-run", "option-dry-run", true},
		{"verbose", "option-verbose", true},
		{"-v", "", false}, // Single letter flags don't match
		{"--verbose", "option-verbose", true},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestTopicManagerListTopics(t *testing.T) {
	topicsDir := t.TempDir()

	names := []string{"install", "shell-startup", "dry-run", "configuration"}
	for _, name := range names {
		writeTopic(t, topicsDir, name+".txt", "Help for "+name)
	}

	tm := New(topicsDir)
	require.NoError(t, tm.scanTopics())

	list := tm.ListTopics()
	assert.Len(t, list, len(names))
	for _, expected := range names {
		assert.Contains(t, list, expected)
	}
}

func TestNonexistentTopicsDir(t *testing.T) {
	tm := New("/nonexistent/directory")
	require.NoError(t, tm.scanTopics())

	assert.Empty(t, tm.ListTopics())
}

func TestEmptyTopicsDir(t *testing.T) {
	tm := New(t.TempDir())
	require.NoError(t, tm.scanTopics())

	assert.Empty(t, tm.ListTopics())
}

func TestSubdirectoryTopics(t *testing.T) {
	topicsDir := t.TempDir()
	advanced := filepath.Join(topicsDir, "advanced")
	require.NoError(t, os.MkdirAll(advanced, 0o755))
	writeTopic(t, advanced, "plugins.txt", "Plugin help")

	tm := New(topicsDir)
	require.NoError(t, tm.scanTopics())

	// Subdirectories are flattened: the file name alone is the topic name
	topic, exists := tm.GetTopic("plugins")
	require.True(t, exists)
	assert.Equal(t, "Plugin help", topic.Content)
}

func TestInitialize(t *testing.T) {
	topicsDir := t.TempDir()
	writeTopic(t, topicsDir, "test-topic.txt", "Test topic content")

	rootCmd := &cobra.Command{
		Use:   "testapp",
		Short: "Test application",
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install something",
		Run:   func(cmd *cobra.Command, args []string) {},
	})

	require.NoError(t, Initialize(rootCmd, topicsDir))

	helpCmd, _, err := rootCmd.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help", helpCmd.Name())
	assert.Equal(t, "help [command or topic]", helpCmd.Use)
}

func TestHelpCommandRendersTopic(t *testing.T) {
	topicsDir := t.TempDir()
	writeTopic(t, topicsDir, "dry-run.txt", "DRY RUN MODE\nThis is a test of dry run help.")

	rootCmd := &cobra.Command{
		Use:   "testapp",
		Short: "Test application",
	}
	require.NoError(t, Initialize(rootCmd, topicsDir))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"help", "dry-run"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "DRY RUN MODE")
}

func TestHelpCommandListsTopics(t *testing.T) {
	topicsDir := t.TempDir()
	writeTopic(t, topicsDir, "collections.txt", "About collections")
	writeTopic(t, topicsDir, "option-dry-run.txt", "About dry run")

	rootCmd := &cobra.Command{
		Use:   "testapp",
		Short: "Test application",
	}
	require.NoError(t, Initialize(rootCmd, topicsDir))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"help", "topics"})
	require.NoError(t, rootCmd.Execute())

	output := out.String()
	assert.Contains(t, output, "Available help topics:")
	assert.Contains(t, output, "collections")
	assert.Contains(t, output, "--dry-run")
	assert.Contains(t, output, "Use 'testapp help <topic>'")
}

func TestGlamourRendererPassesThroughNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()

	content := "plain text help"
	assert.Equal(t, content, r.Render(content, ".txt"))
}

func TestGlamourRendererRendersMarkdown(t *testing.T) {
	r := NewGlamourRenderer()

	rendered := r.Render("# Title\n\nBody text.", ".md")
	assert.Contains(t, rendered, "Title")
	assert.Contains(t, rendered, "Body text")
}
