// Package perm provides small permutation utilities: index sequences,
// Heap's-algorithm enumeration and permutation parity.
//
// Parity is what the stereo encoder uses to compare a reference neighbor
// ordering with the order in which neighbors are actually written. Generate
// is mostly useful in tests that relabel a molecule in every possible way.
package perm

import "slices"

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// This is useful for initializing permutation arrays or creating index sequences.
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
//
// Note that factorials grow extremely fast: 13! = 6,227,020,800 exceeds 32-bit int.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation, safe to modify without affecting others.
//
// Generate handles edge cases gracefully:
//   - n = 0: returns [[]] (one empty permutation)
//   - n = 1: returns [[0]] (one single-element permutation)
//
// For n >= 13, the number of permutations exceeds billions. Always use a limit
// when n is large, or your program will exhaust memory.
func Generate(n, limit int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	if n == 1 {
		return [][]int{{0}}
	}

	perm := Seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = Factorial(min(n, 12))
	}
	if limit > 0 {
		capacity = min(capacity, limit)
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(perm))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i&1 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[state[i]], perm[i] = perm[i], perm[state[i]]
			}
			result = append(result, slices.Clone(perm))
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return result
}

// Parity reports whether p is an odd permutation of [0, n-1].
// It counts cycles: a permutation of n elements with c cycles has
// parity (n - c) mod 2. p must be a valid permutation; entries outside
// [0, len(p)) make the result meaningless.
func Parity(p []int) bool {
	seen := make([]bool, len(p))
	swaps := 0
	for i := range p {
		if seen[i] {
			continue
		}
		length := 0
		for j := i; !seen[j]; j = p[j] {
			seen[j] = true
			length++
		}
		swaps += length - 1
	}
	return swaps%2 == 1
}

// Inverse returns the inverse permutation q with q[p[i]] = i.
func Inverse(p []int) []int {
	q := make([]int, len(p))
	for i, v := range p {
		q[v] = i
	}
	return q
}

// Relative expresses order as a permutation of reference: the result r
// satisfies order[i] == reference[r[i]]. It returns false when the two
// slices do not hold the same set of distinct values.
func Relative[T comparable](reference, order []T) ([]int, bool) {
	if len(reference) != len(order) {
		return nil, false
	}
	pos := make(map[T]int, len(reference))
	for i, v := range reference {
		if _, dup := pos[v]; dup {
			return nil, false
		}
		pos[v] = i
	}
	r := make([]int, len(order))
	used := make([]bool, len(reference))
	for i, v := range order {
		j, ok := pos[v]
		if !ok || used[j] {
			return nil, false
		}
		used[j] = true
		r[i] = j
	}
	return r, true
}
