package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/errors"
	molio "github.com/matzehuels/molline/pkg/io"
	"github.com/matzehuels/molline/pkg/smiles"
)

// graphCommand creates the graph command, which writes a SMILES string as
// a JSON graph document. The output is accepted by --graph and by the
// HTTP API.
func (c *CLI) graphCommand() *cobra.Command {
	var output, name string

	cmd := &cobra.Command{
		Use:   "graph [smiles]",
		Short: "Write a molecule as a JSON graph",
		Example: `  molline graph OCC
  molline graph --name ethanol -o ethanol.json OCC`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateLineInput(args[0]); err != nil {
				return err
			}
			m, err := smiles.Parse(args[0])
			if err != nil {
				return err
			}
			m.Name = name

			if output == "" {
				return molio.WriteJSON(m, c.out)
			}
			if err := molio.ExportJSON(m, output); err != nil {
				return err
			}
			printSuccess("Graph written")
			printFile(output)
			printNewline()
			printNextStep("Canonicalize it", "molline canon --graph "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&name, "name", "", "molecule name stored in the document")

	return cmd
}
