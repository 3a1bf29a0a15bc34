// Package pkg provides the core libraries for molline, a canonical SMILES
// writer.
//
// # Overview
//
// molline turns a molecular graph into a line-notation string. In canonical
// mode two graphs that describe the same molecule, whatever their atom
// order, produce the same string. The pkg directory is organized into
// three areas:
//
//  1. Chemistry - [mol] (graph model), [smiles] (reader), [io] (JSON graphs),
//     [line] (ranking, traversal and writing) and [perm] (permutation parity)
//  2. Orchestration - [pipeline] (parse, cache, serialize, batch)
//  3. Infrastructure - [cache], [registry], [server], [render/dot],
//     [observability] and [errors]
//
// # Architecture
//
// The typical data flow:
//
//	SMILES text / JSON graph
//	         ↓
//	    [smiles] / [io] package (build a Molecule)
//	         ↓
//	    [line] package (rank atoms, build the forest, emit text)
//	         ↓
//	    canonical string, warnings, forest
//
// [pipeline] wraps this flow with input validation, result caching and a
// bounded worker pool. The CLI and [server] both run through it.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/molline/pkg/line"
//	    "github.com/matzehuels/molline/pkg/smiles"
//	)
//
//	m, err := smiles.Parse("OCC")
//	if err != nil {
//	    return err
//	}
//	res, err := line.Serialize(m, line.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Text) // CCO
//
// # Errors
//
// Every package reports failures through [errors]: input problems carry an
// INVALID_* or PARSE_ERROR code, engine defects INTERNAL_ERROR. Stereo that
// cannot be written is not an error; it is returned as a warning.
//
// [mol]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/mol
// [smiles]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/smiles
// [io]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/io
// [line]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/line
// [perm]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/perm
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/cache
// [registry]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/registry
// [server]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/server
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/render/dot
// [observability]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/molline/pkg/errors
package pkg
