package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nohwnd/codefix/internal/version"
	"github.com/nohwnd/codefix/pkg/action"
	"github.com/nohwnd/codefix/pkg/config"
	"github.com/nohwnd/codefix/pkg/filesystem"
	"github.com/nohwnd/codefix/pkg/loader"
	"github.com/nohwnd/codefix/pkg/logging"
	"github.com/nohwnd/codefix/pkg/registry"
	"github.com/nohwnd/codefix/pkg/render"
	"github.com/nohwnd/codefix/pkg/rewrite"
	"github.com/nohwnd/codefix/pkg/runner"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "codefix",
		Short: "Apply named fix actions to a source project",
		Long: `codefix runs named fix and refactor actions against a multi-file source
project and turns their edits into precise, reviewable per-file changes:
line-span text edits or full replacement buffers, with new files
materialized safely on disk.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRunCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codefix %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

// providersFor assembles the provider list for a request: everything
// in the global registry plus the config-defined rewrite provider.
func providersFor(cfg *config.Config) []action.Provider {
	providers := registry.Providers()
	if len(cfg.Rewrite.Actions) > 0 && !registry.Has(rewrite.ProviderName) {
		providers = append(providers, rewrite.NewProvider(cfg.Rewrite.Actions))
	}
	return providers
}

func newListCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the actions available for a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := filesystem.NewOS()
			cfg, err := config.Load(filepath.Dir(filePath))
			if err != nil {
				return err
			}

			model, err := loader.LoadProject(fs, filePath)
			if err != nil {
				return err
			}

			loc := action.Location{FilePath: filePath}
			actions, err := runner.ListActions(cmd.Context(), model.Current(), providersFor(cfg), loc)
			if err != nil {
				return err
			}

			if len(actions) == 0 {
				fmt.Println("no actions available")
				return nil
			}
			for _, a := range actions {
				fmt.Printf("%-40s %s\n", a.Key(), a.Title())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "File anchoring the request (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		filePath    string
		apply       bool
		textChanges bool
	)

	cmd := &cobra.Command{
		Use:   "run <action-key>",
		Short: "Run an action and show the resulting file changes",
		Long: `Run resolves the action identified by <action-key> (provider/id, or a
bare id under the rewrite provider), executes it, and prints the
resulting per-file changes. With --apply the final state is committed
back to the in-memory model; newly created files are placed on disk
either way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := filesystem.NewOS()
			cfg, err := config.Load(filepath.Dir(filePath))
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("text-changes") {
				textChanges = cfg.Output.TextChanges
			}
			if !cmd.Flags().Changed("apply") {
				apply = cfg.Output.ApplyChanges
			}

			model, err := loader.LoadProject(fs, filePath)
			if err != nil {
				return err
			}

			req := runner.Request{
				Key:              parseKey(args[0]),
				FilePath:         filePath,
				WantsTextChanges: textChanges,
				ApplyTextChanges: apply,
			}

			result, err := runner.New(fs).Run(cmd.Context(), model, providersFor(cfg), req)
			if err != nil {
				return err
			}

			r := render.New(os.Stdout)
			r.ChangeSet(result.Changes, result.Conflicts)
			if result.CommitErr != nil {
				r.CommitError(result.CommitErr)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "File anchoring the request (required)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Commit the final state to the model")
	cmd.Flags().BoolVar(&textChanges, "text-changes", true, "Emit line-span edits instead of full buffers")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// parseKey turns "provider/id" into a structural action key; a bare id
// belongs to the rewrite provider.
func parseKey(s string) action.Key {
	if i := strings.Index(s, "/"); i >= 0 {
		return action.Key{Provider: s[:i], ID: s[i+1:]}
	}
	return action.Key{Provider: rewrite.ProviderName, ID: s}
}
