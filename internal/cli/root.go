package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --config: TOML or YAML option file (default: ~/.config/molline/molline.toml)
//   - --verbose (-v): debug-level logging
//
// The logger is attached to the command context and reachable from every
// subcommand via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "molline writes molecules as canonical SMILES",
		Long: `molline converts molecular graphs into a deterministic line notation.
Two inputs describing the same structure, however their atoms are ordered,
produce the same string.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(configPath)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "option file (.toml, .yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.canonCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.ranksCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
