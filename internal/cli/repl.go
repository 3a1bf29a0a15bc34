package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/pipeline"
)

// replCommand creates the repl command, an interactive prompt that
// canonicalizes each line as it is entered.
func (c *CLI) replCommand() *cobra.Command {
	var (
		noCache bool
		flags   lineFlags
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Canonicalize SMILES interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runRepl(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRepl(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Log lines would interleave with the prompt; keep only errors.
	opts.Logger = c.Logger.WithPrefix("repl")
	opts.Logger.SetLevel(LogError)

	model := NewReplModel(func(smiles string) (pipeline.Record, error) {
		return runner.Canonicalize(ctx, pipeline.Input{Format: pipeline.FormatSMILES, Data: smiles}, opts)
	})

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("repl: %w", err)
	}
	return nil
}
