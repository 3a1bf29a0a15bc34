package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/pipeline"
)

type treeOpts struct {
	output   string
	format   string
	detailed bool
	graph    string
	line     lineFlags
}

// treeCommand creates the tree command, which draws the traversal forest
// that produced a molecule's SMILES.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree [smiles]",
		Short: "Draw the traversal tree behind a SMILES string",
		Long: `Serialize a molecule and draw the spanning forest the writer walked.

Tree edges are solid, ring closures dashed. DOT is written as text; svg and
png are laid out with Graphviz. Without -f the format follows the -o
extension.`,
		Example: `  molline tree C1CC1
  molline tree -o ethanol.svg OCC
  molline tree --detailed -f png -o ring.png c1ccccc1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := moleculeInput(args, opts.graph)
			if err != nil {
				return err
			}
			popts, err := c.options(cmd, &opts.line)
			if err != nil {
				return err
			}
			return c.runTree(cmd.Context(), in, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot (default), svg, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with atom index and rank")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "read the molecule from a JSON graph file")
	opts.line.register(cmd)

	return cmd
}

func (c *CLI) runTree(ctx context.Context, in pipeline.Input, popts pipeline.Options, opts treeOpts) error {
	logger := loggerFromContext(ctx)

	format := opts.format
	if format == "" {
		format = treeFormatFor(opts.output)
	}
	if !pipeline.ValidTreeFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid tree format: %q (must be one of: dot, svg, png)", format)
	}

	m, err := pipeline.Parse(in.Data, in.Format)
	if err != nil {
		return err
	}
	tree, err := pipeline.RenderTree(m, pipeline.TreeOptions{
		Line:     popts.Line,
		Format:   format,
		Detailed: opts.detailed,
	})
	if err != nil {
		return err
	}
	logWarnings(logger, in.ID, tree.Result.Warnings)

	if err := writeOutput(c.out, tree.Data, opts.output); err != nil {
		return err
	}
	logger.Debug("rendered tree", "format", format, "bytes", len(tree.Data))

	if opts.output != "" {
		printSuccess("Tree rendered")
		printFile(opts.output)
		printKeyValue("SMILES", tree.Result.Text)
		printStats(m.AtomCount(), len(tree.Result.Warnings), false)
	}
	return nil
}

// treeFormatFor picks a format from an output file extension.
func treeFormatFor(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if pipeline.ValidTreeFormats[ext] {
		return ext
	}
	return pipeline.TreeFormatDOT
}
