// Package line writes molecular graphs as line-notation strings.
//
// # Overview
//
// Serialize turns a [Graph] into text in five steps:
//
//  1. Invariants: every atom is described by a labeling-independent tuple
//     (see [AtomInvariant]).
//  2. Ranks: [ComputeRanks] refines invariant classes by neighborhood until
//     stable and, optionally, breaks remaining ties.
//  3. Forest: [BuildForest] walks each component depth-first, classifying
//     bonds as tree edges or ring closures and numbering the closures with a
//     [RingNumbers] pool.
//  4. Stereo: tetrahedral descriptors become "@"/"@@" and double-bond
//     descriptors become "/" and "\" markers, both computed for the order the
//     atoms are actually written in.
//  5. Tokens: atoms, bonds, ring digits and branches are emitted.
//
// In canonical mode two graphs describing the same structure produce the
// same text no matter how their atoms and bonds are numbered. When stereo is
// written, steps 3 to 5 run once per way of breaking rank ties (up to
// [MaxTieBranches]) and the smallest text is kept, because a symmetry of the
// skeleton can mirror a stereocenter or a double bond. In native mode
// the graph's own order drives the traversal, which is what a reader usually
// wants to see when round-tripping a hand-written string.
//
// # Usage
//
//	m, _ := smiles.Parse("OC(=O)c1ccccc1")
//	res, err := line.Serialize(m, line.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Text)
//	for _, w := range res.Warnings {
//	    log.Warn(w.Message)
//	}
//
// # Errors
//
// Structural problems in the input are reported as INVALID_STRUCTURE,
// malformed stereo descriptors as INVALID_STEREO when Options.Strict is set,
// and broken internal invariants as INTERNAL_ERROR. Use errors.IsInternal to
// tell engine defects apart from bad input.
//
// # Concurrency
//
// Each call owns its ranks, forest and ring-number pool. Serialize may be
// called concurrently on graphs that are not being mutated.
package line
