package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/pipeline"
)

// lineFlags are the output dialect flags shared by every command that
// writes SMILES. A flag only overrides the config file when it is set.
type lineFlags struct {
	native        bool
	explicitH     bool
	kekule        bool
	noStereo      bool
	strict        bool
	ringsFirst    bool
	foldH         bool
	ringNumbering string
	root          int
	minRingStereo int
}

func (f *lineFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.native, "native", false, "keep the input atom order instead of canonical order")
	fs.BoolVar(&f.explicitH, "explicit-hydrogens", false, "write every atom in brackets with its hydrogen count")
	fs.BoolVar(&f.kekule, "kekule", false, "write aromatic rings with alternating single and double bonds")
	fs.BoolVar(&f.noStereo, "no-stereo", false, "omit tetrahedral and double-bond stereo")
	fs.BoolVar(&f.strict, "strict", false, "fail on malformed stereo descriptors instead of dropping them")
	fs.BoolVar(&f.ringsFirst, "rings-first", false, "visit ring bonds before chain bonds")
	fs.BoolVar(&f.foldH, "fold-hydrogens", false, "let implicit hydrogens take part in ranking")
	fs.StringVar(&f.ringNumbering, "ring-numbering", "", "ring-closure numbers: reuse (default) or monotonic")
	fs.IntVar(&f.root, "root", 0, "atom to start its component with (with --native)")
	fs.IntVar(&f.minRingStereo, "min-ring-stereo", 0, "smallest ring size whose double bonds keep stereo")
}

func (f *lineFlags) apply(cmd *cobra.Command, o *line.Options) {
	fs := cmd.Flags()
	if fs.Changed("native") {
		o.Canonical = !f.native
	}
	if fs.Changed("explicit-hydrogens") {
		o.ExplicitHydrogens = f.explicitH
	}
	if fs.Changed("kekule") {
		o.Kekule = f.kekule
	}
	if fs.Changed("no-stereo") {
		o.AtomStereo = !f.noStereo
		o.BondStereo = !f.noStereo
	}
	if fs.Changed("strict") {
		o.Strict = f.strict
	}
	if fs.Changed("rings-first") {
		o.RingsFirst = f.ringsFirst
	}
	if fs.Changed("fold-hydrogens") {
		o.FoldHydrogens = f.foldH
	}
	if fs.Changed("ring-numbering") {
		o.RingNumbering = line.RingNumbering(f.ringNumbering)
	}
	if fs.Changed("root") {
		root := f.root
		o.Root = &root
	}
	if fs.Changed("min-ring-stereo") {
		o.MinRingStereoSize = f.minRingStereo
	}
}

// options merges the loaded config with the command's flags.
func (c *CLI) options(cmd *cobra.Command, f *lineFlags) (pipeline.Options, error) {
	opts := c.Config.Options()
	f.apply(cmd, &opts.Line)
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}
