// Package render groups the visual outputs of molline.
//
// The [dot] subpackage draws the spanning forest the line writer walked:
// tree bonds solid, ring closures dashed, atoms labelled by element and,
// optionally, by index and canonical rank. DOT text is produced directly;
// SVG and PNG are laid out with Graphviz.
//
// [dot]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/render/dot
package render
