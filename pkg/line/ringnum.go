package line

import (
	"strconv"

	"github.com/matzehuels/molline/pkg/errors"
)

// RingNumbers hands out ring-closure numbers. A number that is open is never
// issued again until it is released.
type RingNumbers struct {
	policy RingNumbering
	open   []bool // open[n] for n >= 1
	next   int    // next never-used number
	count  int
}

// NewRingNumbers creates an allocator with the given policy. An empty policy
// means RingReuse.
func NewRingNumbers(policy RingNumbering) *RingNumbers {
	if policy == "" {
		policy = RingReuse
	}
	return &RingNumbers{policy: policy, open: []bool{true}, next: 1}
}

// Acquire returns a number that is not open and marks it open.
func (r *RingNumbers) Acquire() int {
	n := r.next
	if r.policy == RingReuse {
		n = 1
		for n < len(r.open) && r.open[n] {
			n++
		}
	}
	for len(r.open) <= n {
		r.open = append(r.open, false)
	}
	r.open[n] = true
	if n >= r.next {
		r.next = n + 1
	}
	r.count++
	return n
}

// Release closes n. Releasing a number that is not open is an internal error.
func (r *RingNumbers) Release(n int) error {
	if n < 1 || n >= len(r.open) || !r.open[n] {
		return errors.Internal("ring number %d released but not open", n)
	}
	r.open[n] = false
	r.count--
	return nil
}

// Open returns how many numbers are currently open.
func (r *RingNumbers) Open() int { return r.count }

// RingLabel formats a ring-closure number: one digit up to 9, "%nn" up to
// 99 and "%(n)" beyond.
func RingLabel(n int) string {
	switch {
	case n < 10:
		return strconv.Itoa(n)
	case n < 100:
		return "%" + strconv.Itoa(n)
	default:
		return "%(" + strconv.Itoa(n) + ")"
	}
}
