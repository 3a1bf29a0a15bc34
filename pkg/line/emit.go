package line

import (
	"strconv"
	"strings"

	"github.com/matzehuels/molline/pkg/mol"
)

// emitter writes the token stream for one forest.
type emitter struct {
	g       Graph
	f       *Forest
	opts    Options
	stereo  *stereoEncoder
	organic map[int]bool
}

func newEmitter(g Graph, f *Forest, opts Options, stereo *stereoEncoder) *emitter {
	e := &emitter{g: g, f: f, opts: opts, stereo: stereo}
	if len(opts.OrganicElements) > 0 {
		e.organic = make(map[int]bool, len(opts.OrganicElements))
		for _, sym := range opts.OrganicElements {
			n, _ := mol.Number(sym)
			e.organic[n] = true
		}
	}
	return e
}

type emitItem struct {
	node  int
	open  bool // write "(" first
	close bool // write ")" only
}

// component writes the tree rooted at root. Branches are driven by an
// explicit stack: every child but the last is wrapped in parentheses.
func (e *emitter) component(root int) string {
	var sb strings.Builder
	stack := []emitItem{{node: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.close {
			sb.WriteByte(')')
			continue
		}
		if it.open {
			sb.WriteByte('(')
		}
		n := &e.f.Nodes[it.node]
		if n.Parent >= 0 {
			sb.WriteString(e.bondSymbol(n.Parent))
		}
		e.atom(&sb, it.node)
		for _, r := range n.Rings {
			edge := &e.f.Edges[r]
			if edge.From == it.node {
				sb.WriteString(e.bondSymbol(r))
			}
			sb.WriteString(RingLabel(edge.Number))
		}

		kids := n.Children
		if len(kids) == 0 {
			continue
		}
		stack = append(stack, emitItem{node: e.f.Edges[kids[len(kids)-1]].To})
		for i := len(kids) - 2; i >= 0; i-- {
			stack = append(stack, emitItem{close: true}, emitItem{node: e.f.Edges[kids[i]].To, open: true})
		}
	}
	return sb.String()
}

// writtenAromatic reports whether the atom is written in lower case.
func (e *emitter) writtenAromatic(atom int) bool {
	return !e.opts.Kekule && e.g.Atom(atom).Aromatic
}

func (e *emitter) bondSymbol(edge int) string {
	te := &e.f.Edges[edge]
	b := e.g.Bond(te.Bond)
	if te.Direction != 0 {
		return string(te.Direction)
	}
	bothAromatic := e.writtenAromatic(b.Begin) && e.writtenAromatic(b.End)
	if b.Aromatic && !e.opts.Kekule {
		if e.opts.ExplicitAromaticBonds || !bothAromatic {
			return ":"
		}
		return ""
	}
	switch b.Order {
	case mol.Double:
		return "="
	case mol.Triple:
		return "#"
	case mol.Quadruple:
		return "$"
	}
	if e.opts.ExplicitSingleBonds || bothAromatic {
		return "-"
	}
	return ""
}

func (e *emitter) isOrganic(number int) bool {
	if !mol.IsOrganic(number) {
		return false
	}
	return e.organic == nil || e.organic[number]
}

// bondSum is the valence used by the atom's written bonds, aromatic bonds
// counting one when written as aromatic.
func (e *emitter) bondSum(atom int) int {
	sum := 0
	for _, b := range e.g.AtomBonds(atom) {
		bd := e.g.Bond(b)
		if bd.Aromatic && !e.opts.Kekule {
			sum++
		} else {
			sum += int(bd.Order)
		}
	}
	return sum
}

// needsBracket decides whether the atom can use its bare organic form.
func (e *emitter) needsBracket(node, atom int) bool {
	a := e.g.Atom(atom)
	if !e.opts.OrganicSubset || e.opts.ExplicitHydrogens {
		return true
	}
	if _, chiral := e.stereo.chirality[node]; chiral {
		return true
	}
	if (e.opts.Isotopes && a.Isotope != 0) || (e.opts.Charges && a.Charge != 0) || (e.opts.AtomClasses && a.Class != 0) {
		return true
	}
	if a.Number == 0 {
		return a.ImplicitH != 0
	}
	if !e.isOrganic(a.Number) {
		return true
	}
	aromatic := e.writtenAromatic(atom)
	if aromatic && !mol.CanBeAromatic(a.Number, false) {
		return true
	}
	h, _ := mol.DefaultHydrogens(a.Number, aromatic, e.bondSum(atom))
	return h != a.ImplicitH
}

func (e *emitter) atom(sb *strings.Builder, node int) {
	atom := e.f.Atom(node)
	a := e.g.Atom(atom)
	symbol := mol.Symbol(a.Number)
	if e.writtenAromatic(atom) {
		symbol = strings.ToLower(symbol)
	}
	if !e.needsBracket(node, atom) {
		sb.WriteString(symbol)
		return
	}

	sb.WriteByte('[')
	if e.opts.Isotopes && a.Isotope != 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(symbol)
	if c, ok := e.stereo.chirality[node]; ok {
		if c == mol.Clockwise {
			sb.WriteString("@@")
		} else {
			sb.WriteString("@")
		}
	}
	if a.ImplicitH > 0 {
		sb.WriteByte('H')
		if a.ImplicitH > 1 {
			sb.WriteString(strconv.Itoa(a.ImplicitH))
		}
	}
	if e.opts.Charges && a.Charge != 0 {
		sb.WriteString(chargeLabel(a.Charge))
	}
	if e.opts.AtomClasses && a.Class != 0 {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(a.Class))
	}
	sb.WriteByte(']')
}

func chargeLabel(c int) string {
	switch {
	case c == 1:
		return "+"
	case c == -1:
		return "-"
	case c > 0:
		return "+" + strconv.Itoa(c)
	default:
		return "-" + strconv.Itoa(-c)
	}
}
