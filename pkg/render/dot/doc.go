// Package dot draws the traversal forest behind a line-notation string.
//
// # Overview
//
// The writer turns a molecule into a spanning forest plus ring closures
// before emitting text. Seeing that forest explains why a string starts
// where it does, where branches open, and which bonds became ring-closure
// digits. This package produces Graphviz diagrams of it.
//
// # Usage
//
// Serialize, then convert the forest to DOT and render it:
//
//	res, err := line.Serialize(m, line.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	src := dot.ToDOT(m, res.Forest, dot.Options{Detailed: true, Ranks: res.Ranks})
//	svg, err := dot.RenderSVG(src)
//
// Rendering uses the WebAssembly build of Graphviz bundled with
// go-graphviz; no system installation is needed.
package dot
