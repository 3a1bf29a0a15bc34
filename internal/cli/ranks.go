package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/pipeline"
)

// rankReport is the --json form of the ranks command.
type rankReport struct {
	Text  string             `json:"text"`
	Atoms []pipeline.RankRow `json:"atoms"`
}

// ranksCommand creates the ranks command, which shows how each atom was
// ranked and where it landed in the canonical string.
func (c *CLI) ranksCommand() *cobra.Command {
	var (
		asJSON bool
		graph  string
		flags  lineFlags
	)

	cmd := &cobra.Command{
		Use:   "ranks [smiles]",
		Short: "Show canonical atom ranks",
		Long: `Show the invariant, symmetry class and canonical rank of every atom.

Atoms sharing a class are symmetry-equivalent; ties between them are broken
to give the final rank. The order column is the atom's position in the
written string.`,
		Example: `  molline ranks OCC
  molline ranks --json 'C[C@H](N)O'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := moleculeInput(args, graph)
			if err != nil {
				return err
			}
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			m, err := pipeline.Parse(in.Data, in.Format)
			if err != nil {
				return err
			}
			rows, res, err := pipeline.RankTable(m, opts.Line)
			if err != nil {
				return err
			}
			logWarnings(loggerFromContext(cmd.Context()), in.ID, res.Warnings)

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(rankReport{Text: res.Text, Atoms: rows})
			}
			if _, err := c.out.Write([]byte(renderRankTable(rows) + "\n")); err != nil {
				return err
			}
			printKeyValue("SMILES", res.Text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write the table as JSON")
	cmd.Flags().StringVar(&graph, "graph", "", "read the molecule from a JSON graph file")
	flags.register(cmd)

	return cmd
}
