package pipeline

import (
	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/mol"
	"github.com/matzehuels/molline/pkg/render/dot"
)

// Tree output formats.
const (
	TreeFormatDOT = "dot"
	TreeFormatSVG = "svg"
	TreeFormatPNG = "png"
)

// ValidTreeFormats is the set of supported tree output formats.
var ValidTreeFormats = map[string]bool{
	TreeFormatDOT: true,
	TreeFormatSVG: true,
	TreeFormatPNG: true,
}

// TreeOptions configures RenderTree.
type TreeOptions struct {
	Line     line.Options
	Format   string // dot, svg or png; default dot
	Detailed bool   // label nodes with atom index and rank
}

// Tree is a rendered traversal forest.
type Tree struct {
	Data   []byte
	Result *line.Result
}

// RenderTree serializes m and draws the forest that produced the text.
func RenderTree(m *mol.Molecule, opts TreeOptions) (*Tree, error) {
	if opts.Format == "" {
		opts.Format = TreeFormatDOT
	}
	if !ValidTreeFormats[opts.Format] {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid tree format: %q (must be one of: dot, svg, png)", opts.Format)
	}

	res, err := line.Serialize(m, opts.Line)
	if err != nil {
		return nil, err
	}
	src := dot.ToDOT(m, res.Forest, dot.Options{Detailed: opts.Detailed, Ranks: res.Ranks})

	var data []byte
	switch opts.Format {
	case TreeFormatSVG:
		data, err = dot.RenderSVG(src)
	case TreeFormatPNG:
		data, err = dot.RenderPNG(src)
	default:
		data = []byte(src)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format)
	}
	return &Tree{Data: data, Result: res}, nil
}
