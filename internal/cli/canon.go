package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/pipeline"
)

// canonOpts holds the command-line flags for the canon command.
type canonOpts struct {
	graph   string // JSON graph file read in addition to the arguments
	noCache bool
	refresh bool
	line    lineFlags
}

// canonCommand creates the canon command. Each argument is one SMILES
// string; results are written to stdout in argument order.
func (c *CLI) canonCommand() *cobra.Command {
	var opts canonOpts

	cmd := &cobra.Command{
		Use:   "canon [smiles...]",
		Short: "Write molecules as canonical SMILES",
		Long: `Parse each molecule and write it back as a line-notation string.

Canonical output is identical for every input that describes the same
molecule, whatever the atom order. Use --native to keep the input order.`,
		Example: `  molline canon OCC
  molline canon 'C[C@H](N)O' 'N[C@@H](C)O'
  molline canon --graph ethanol.json
  molline canon --native --kekule c1ccccc1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.graph == "" && len(args) == 0 {
				return fmt.Errorf("give SMILES arguments or --graph")
			}
			popts, err := c.options(cmd, &opts.line)
			if err != nil {
				return err
			}
			popts.Refresh = opts.refresh

			var inputs []pipeline.Input
			if opts.graph != "" {
				in, err := readGraphInput(opts.graph)
				if err != nil {
					return err
				}
				inputs = append(inputs, in)
			}
			for _, arg := range args {
				inputs = append(inputs, pipeline.Input{Format: pipeline.FormatSMILES, Data: arg})
			}
			return c.runCanon(cmd.Context(), inputs, popts, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.graph, "graph", "", "read a molecule from a JSON graph file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")
	opts.line.register(cmd)

	return cmd
}

func (c *CLI) runCanon(ctx context.Context, inputs []pipeline.Input, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	failed := 0
	for _, in := range inputs {
		label := in.ID
		if label == "" {
			label = in.Data
		}
		rec, err := runner.Canonicalize(ctx, in, opts)
		if err != nil {
			failed++
			printError("%s: %s", label, errors.UserMessage(err))
			logger.Debug("canonicalize failed", "input", label, "code", rec.Code, "err", err)
			continue
		}
		fmt.Fprint(c.out, opts.Line.Record(rec.Text))
		logWarnings(logger, label, rec.Warnings)
		logger.Debug("canonicalized", "input", label, "atoms", rec.Atoms, "cached", rec.CacheHit)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d molecules failed", failed, len(inputs))
	}
	return nil
}
