package handy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/handy/internal/version"
	"github.com/arthur-debert/handy/pkg/cobrax/topics"
	"github.com/arthur-debert/handy/pkg/commands/genconfig"
	"github.com/arthur-debert/handy/pkg/commands/install"
	"github.com/arthur-debert/handy/pkg/commands/list"
	"github.com/arthur-debert/handy/pkg/commands/remove"
	"github.com/arthur-debert/handy/pkg/commands/snippet"
	"github.com/arthur-debert/handy/pkg/commands/status"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/paths"
	"github.com/arthur-debert/handy/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity int
		dryRun    bool
	)

	rootCmd := &cobra.Command{
		Use:     "handy [collection]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Args:    cobra.MaximumNArgs(1),
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		ValidArgsFunction: collectionNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// No collection given: show what is available, then fail so
				// scripts can tell nothing was installed
				root, err := initRoot()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if result, err := list.ListCollections(list.ListCollectionsOptions{ScriptsRoot: root}); err == nil {
					renderer := style.NewRenderer(style.FormatAuto, out)
					fmt.Fprintln(out, renderer.RenderCollectionList(collectionViews(result.Collections)))
				}
				return fmt.Errorf(MsgErrNoCollection)
			}

			root, err := initRoot()
			if err != nil {
				return err
			}

			if args[0] == "all" {
				log.Info().
					Str("scripts_root", root).
					Bool("dry_run", dryRun).
					Msg("Installing every collection")

				result, err := install.InstallScripts(install.InstallScriptsOptions{
					ScriptsRoot: root,
					All:         true,
					DryRun:      dryRun,
				})
				if err != nil {
					return err
				}

				for _, ce := range result.CollectionErrors {
					fmt.Fprintf(cmd.ErrOrStderr(), MsgCollectionSkipped, ce.Collection, ce.Err)
				}
				printReport(cmd, result)

				// Bulk installs are best effort; failures show up in the report
				return nil
			}

			log.Info().
				Str("scripts_root", root).
				Str("collection", args[0]).
				Bool("dry_run", dryRun).
				Msg("Installing from collection")

			result, err := install.InstallScripts(install.InstallScriptsOptions{
				ScriptsRoot: root,
				Collection:  args[0],
				DryRun:      dryRun,
				Input:       cmd.InOrStdin(),
				Output:      cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			printReport(cmd, result)

			if len(result.Units) == 1 && result.Units[0].Err != nil {
				return result.Units[0].Err
			}
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate + "\n")

	// Add all commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newSnippetCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help system
	// Try to find help topics relative to the executable location
	exe, err := os.Executable()
	if err == nil {
		// Look for help topics in various locations
		possiblePaths := []string{
			filepath.Join(filepath.Dir(exe), "topics"),                             // Same directory as binary (production)
			filepath.Join(filepath.Dir(exe), "..", "..", "cmd", "handy", "topics"), // Development
			"cmd/handy/topics", // Current directory fallback
		}

		for _, helpPath := range possiblePaths {
			if _, err := os.Stat(helpPath); err == nil {
				opts := topics.Options{
					Extensions: []string{".txt", ".md"},
					// Always use Glamour renderer for markdown files
					Renderer: topics.NewGlamourRenderer(),
				}

				if err := topics.InitializeWithOptions(rootCmd, helpPath, opts); err == nil {
					break
				}
			}
		}
	}

	return rootCmd
}

// initRoot resolves the scripts root and shows a warning if using fallback
func initRoot() (string, error) {
	root, usedFallback, err := paths.FindScriptsRoot()
	if err != nil {
		return "", err
	}

	if usedFallback {
		fmt.Fprintf(os.Stderr, MsgFallbackWarning+"\n", root)
	}

	return root, nil
}

// printReport renders the per-script outcomes of an install run
func printReport(cmd *cobra.Command, result *install.InstallResult) {
	out := cmd.OutOrStdout()
	if result.DryRun {
		fmt.Fprintln(out, MsgDryRunNotice)
	}
	renderer := style.NewRenderer(style.FormatAuto, out)
	fmt.Fprintln(out, renderer.RenderReport(installReport(result)))
}

// collectionViews adapts collection listings for the renderer
func collectionViews(listings []list.CollectionListing) []style.CollectionView {
	var views []style.CollectionView
	for _, listing := range listings {
		view := style.CollectionView{
			Name:        listing.Collection.Name,
			Description: listing.Collection.Description,
		}
		for _, entry := range listing.Scripts {
			view.Scripts = append(view.Scripts, entry.Name)
		}
		views = append(views, view)
	}
	return views
}

// installReport adapts install units for the renderer
func installReport(result *install.InstallResult) []style.ReportUnit {
	action := "installed"
	if result.DryRun {
		action = "would install"
	}

	var units []style.ReportUnit
	for _, unit := range result.Units {
		view := style.ReportUnit{
			Script:     unit.Entry.Name,
			Collection: unit.Entry.Collection,
			Action:     action,
			Err:        unit.Err,
		}
		for _, directive := range unit.Directives {
			view.RCFiles = append(view.RCFiles, directive.RCFile)
		}
		units = append(units, view)
	}
	return units
}

// removeReport adapts remove outcomes for the renderer
func removeReport(result *remove.RemoveResult) []style.ReportUnit {
	action := "removed"
	if result.DryRun {
		action = "would remove"
	}

	var units []style.ReportUnit
	for _, script := range result.Scripts {
		units = append(units, style.ReportUnit{
			Script:  script.Name,
			Action:  action,
			RCFiles: script.RCFiles,
			Err:     script.Err,
		})
	}
	return units
}

// scriptStates adapts the status report for the renderer
func scriptStates(scripts []status.ScriptStatus) []style.ScriptState {
	var states []style.ScriptState
	for _, s := range scripts {
		states = append(states, style.ScriptState{
			Name:       s.Name,
			Collection: s.Collection,
			Installed:  s.Installed,
			Executable: s.Executable,
			InCatalog:  s.InCatalog,
			RCFiles:    s.RCFiles,
		})
	}
	return states
}

// collectionNamesCompletion provides shell completion for collection names
func collectionNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	result, err := list.ListCollections(list.ListCollectionsOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	names := []string{"all"}
	for _, listing := range result.Collections {
		names = append(names, listing.Collection.Name)
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// scriptNamesCompletion provides shell completion for catalog script names
func scriptNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	result, err := list.ListCollections(list.ListCollectionsOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, listing := range result.Collections {
		for _, entry := range listing.Scripts {
			found := false
			for _, arg := range args {
				if arg == entry.Name {
					found = true
					break
				}
			}
			if !found {
				names = append(names, entry.Name)
			}
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// installedScriptsCompletion provides shell completion for installed script names
func installedScriptsCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	result, err := snippet.Snippet(snippet.SnippetOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, name := range result.Scripts {
		found := false
		for _, arg := range args {
			if arg == name {
				found = true
				break
			}
		}
		if !found {
			names = append(names, name)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := initRoot()
			if err != nil {
				return err
			}

			log.Info().Str("scripts_root", root).Msg("Listing collections from scripts root")

			result, err := list.ListCollections(list.ListCollectionsOptions{
				ScriptsRoot: root,
			})
			if err != nil {
				return fmt.Errorf(MsgErrListFailed, err)
			}

			renderer := style.NewRenderer(style.FormatAuto, cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderCollectionList(collectionViews(result.Collections)))

			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "status [script...]",
		Short:             MsgStatusShort,
		Long:              MsgStatusLong,
		Example:           MsgStatusExample,
		GroupID:           "core",
		ValidArgsFunction: scriptNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := initRoot()
			if err != nil {
				return err
			}

			log.Info().Str("scripts_root", root).Msg("Checking script status")

			result, err := status.Status(status.StatusOptions{
				ScriptsRoot: root,
				ScriptNames: args,
			})
			if err != nil {
				return fmt.Errorf(MsgErrStatusFailed, err)
			}

			renderer := style.NewRenderer(style.FormatAuto, cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderScriptStatuses(result.TargetDir, scriptStates(result.Scripts)))

			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <script>...",
		Short:             MsgRemoveShort,
		Long:              MsgRemoveLong,
		Example:           MsgRemoveExample,
		Args:              cobra.MinimumNArgs(1),
		GroupID:           "core",
		ValidArgsFunction: installedScriptsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := initRoot()
			if err != nil {
				return err
			}

			// Get dry-run flag value (it's a persistent flag)
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			log.Info().
				Str("scripts_root", root).
				Strs("scripts", args).
				Bool("dry_run", dryRun).
				Msg("Removing scripts")

			result, err := remove.Remove(remove.RemoveOptions{
				ScriptsRoot: root,
				ScriptNames: args,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			renderer := style.NewRenderer(style.FormatAuto, out)
			fmt.Fprintln(out, renderer.RenderReport(removeReport(result)))

			if result.Failed() {
				failed := 0
				for _, script := range result.Scripts {
					if script.Err != nil {
						failed++
					}
				}
				return fmt.Errorf(MsgErrRemoveFailed, failed)
			}
			return nil
		},
	}
}

func newSnippetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "snippet [script...]",
		Short:             MsgSnippetShort,
		Long:              MsgSnippetLong,
		Example:           MsgSnippetExample,
		GroupID:           "misc",
		ValidArgsFunction: installedScriptsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := initRoot()
			if err != nil {
				return err
			}

			result, err := snippet.Snippet(snippet.SnippetOptions{
				ScriptsRoot: root,
				ScriptNames: args,
			})
			if err != nil {
				return fmt.Errorf(MsgErrSnippetFailed, err)
			}

			if result.Block == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), MsgNoScriptsInstall)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), result.Block)
			return nil
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")

			result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
				Write: write,
			})
			if err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}

			if !write {
				fmt.Fprint(cmd.OutOrStdout(), result.ConfigContent)
				return nil
			}

			if len(result.FilesWritten) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), MsgConfigFileKept)
				return nil
			}
			for _, file := range result.FilesWritten {
				fmt.Fprintf(cmd.OutOrStdout(), MsgConfigFileCreated, file)
			}
			return nil
		},
	}

	cmd.Flags().Bool("write", false, MsgFlagWrite)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil && helpCmd.Name() == "help" {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
