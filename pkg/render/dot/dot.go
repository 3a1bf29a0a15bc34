package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/mol"
)

// Options configures forest rendering.
type Options struct {
	// Detailed adds the atom index and, when known, the canonical rank to
	// every node label.
	Detailed bool
	// Ranks are printed by Detailed labels. May be nil.
	Ranks []line.Rank
}

// ToDOT converts a traversal forest to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Nodes are labeled with their element symbol and pre-order position. Tree
// edges are drawn solid from parent to child; ring closures are dashed,
// point from closer back to opener, and carry their ring number. Bond order
// appears as the edge label, with direction markers appended.
func ToDOT(g line.Graph, f *line.Forest, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, n := range f.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(g, f, i, opts))}
		if n.Parent < 0 {
			attrs = append(attrs, "penwidth=2.5")
		}
		if a := g.Atom(n.Atom); a.Aromatic {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		label := edgeLabel(g, e)
		if e.Ring {
			fmt.Fprintf(&buf, "  n%d -> n%d [style=dashed, constraint=false, color=grey40, label=%q];\n",
				e.To, e.From, strings.TrimSpace(label+" "+line.RingLabel(e.Number)))
			continue
		}
		if label != "" {
			fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", e.From, e.To, label)
		} else {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(g line.Graph, f *line.Forest, node int, opts Options) string {
	atom := f.Atom(node)
	a := g.Atom(atom)
	sym := a.Symbol()
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}
	if !opts.Detailed {
		return sym
	}
	parts := []string{sym, fmt.Sprintf("#%d", atom)}
	if atom < len(opts.Ranks) {
		parts = append(parts, fmt.Sprintf("r%d", opts.Ranks[atom]))
	}
	return strings.Join(parts, "\n")
}

func edgeLabel(g line.Graph, e line.TreeEdge) string {
	b := g.Bond(e.Bond)
	var s string
	switch {
	case b.Aromatic:
		s = ":"
	case b.Order == mol.Double:
		s = "="
	case b.Order == mol.Triple:
		s = "#"
	case b.Order == mol.Quadruple:
		s = "$"
	}
	if e.Direction != 0 {
		s += string(e.Direction)
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	data, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// viewBox starts at the origin, so the image scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
