package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/smiles"
)

func forest(t *testing.T, s string) (*line.Result, line.Graph) {
	t.Helper()
	m, err := smiles.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	res, err := line.Serialize(m, line.DefaultOptions())
	if err != nil {
		t.Fatalf("serialize %q: %v", s, err)
	}
	return res, m
}

func TestToDOT_Benzene(t *testing.T) {
	res, g := forest(t, "c1ccccc1")
	dot := ToDOT(g, res.Forest, Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("DOT should start with digraph header")
	}
	if n := strings.Count(dot, "label=\"c\""); n != 6 {
		t.Errorf("expected 6 aromatic carbon nodes, got %d", n)
	}
	if n := strings.Count(dot, "style=dashed"); n != 1 {
		t.Errorf("expected 1 ring closure, got %d", n)
	}
	if !strings.Contains(dot, `label=": 1"`) {
		t.Errorf("ring closure should carry bond symbol and number:\n%s", dot)
	}
	if n := strings.Count(dot, "penwidth=2.5"); n != 1 {
		t.Errorf("expected one root, got %d", n)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	res, g := forest(t, "CC=O")
	dot := ToDOT(g, res.Forest, Options{Detailed: true, Ranks: res.Ranks})

	for _, want := range []string{`\n#0`, `\nr`, `label="="`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "dashed") {
		t.Error("acyclic molecule should have no ring closures")
	}
}

func TestToDOT_DirectionMarkers(t *testing.T) {
	res, g := forest(t, "F/C=C/F")
	dot := ToDOT(g, res.Forest, Options{})
	if !strings.Contains(dot, `label="/"`) {
		t.Errorf("marked bonds should show their direction:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="62"`) {
		t.Errorf("width not set: %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	res, g := forest(t, "c1ccccc1O")
	svg, err := RenderSVG(ToDOT(g, res.Forest, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output should be SVG")
	}
}
