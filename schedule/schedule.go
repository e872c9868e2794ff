/*
 * schedule.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

/*Package schedule decides at which timesteps dynamics measurements are
taken, and from which time origin.

Dynamical quantities decay over many decades of simulation time, so sampling
every step wastes effort while sampling uniformly loses the short-time
behaviour. A Steps sequence therefore ramps linearly away from its origin
and then switches to multiples of successive powers of ten, giving roughly
logarithmic coverage with numLinear points per decade.

A Series interleaves many such sequences, starting a fresh time origin every
genSteps timesteps (up to maxGen of them), which is what multi-time-origin
correlation functions need. The consumer of a Series is a dynamics
accumulator: every (Index, Step) pair is one scheduling decision to record.
The package only produces the schedule; it does no validation of how dense
or sparse a sampling policy is sensible.
*/
package schedule

// Steps generates the sampling steps for a single time origin starting at
// start: first the linear ramp start+1 .. start+numLinear, then multiples
// of 10, 100, ... (numLinear of each), ending with max itself. All values
// but the last are strictly below max.
type Steps struct {
	max   int
	lin   int
	scale int
	count int //values emitted at the current scale
	prev  int //last emitted value
	done  bool
}

// NewSteps returns a Steps sequence for one origin. numLinear must be
// positive, and start strictly below max.
func NewSteps(max, numLinear, start int) *Steps {
	return &Steps{max: max, lin: numLinear, scale: 1, prev: start}
}

//floorDiv divides rounding toward negative infinity, which matters for
//origins at negative steps.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Next returns the next sampling step. ok is false once the sequence is
// exhausted; the final returned step is always max itself.
func (S *Steps) Next() (step int, ok bool) {
	if S.done {
		return 0, false
	}
	var next int
	if S.scale == 1 {
		next = S.prev + 1
	} else {
		next = (floorDiv(S.prev, S.scale) + 1) * S.scale
	}
	if next >= S.max {
		S.done = true
		return S.max, true
	}
	S.count++
	if S.count == S.lin {
		S.scale *= 10
		S.count = 0
	}
	S.prev = next
	return next, true
}

// Series merges the step sequences of many time origins into a single
// non-decreasing stream of scheduling decisions. Origin 0 starts at step 0;
// a new origin starts every genSteps steps, up to maxGen origins in total.
// When several origins sample the same step, one decision per origin is
// produced.
//
// A fresh Series already holds its first decision: step 0 from origin 0,
// the capture of the first origin. Advance moves to the next one.
type Series struct {
	total    int
	lin      int
	genSteps int
	maxGen   int
	gens     []*Steps
	pending  []int
	alive    []bool
	curr     int
	index    int
}

// NewSeries returns a Series over total timesteps with numLinear points per
// decade, a new origin every genSteps steps and at most maxGen origins.
func NewSeries(total, numLinear, genSteps, maxGen int) *Series {
	S := &Series{
		total:    total,
		lin:      numLinear,
		genSteps: genSteps,
		maxGen:   maxGen,
	}
	S.spawn(0) //origin 0, current decision (0, 0)
	return S
}

//spawn creates the generator for the next origin, whose first decision is
//its own start step (the zero record of that origin).
func (S *Series) spawn(start int) {
	g := NewSteps(S.total, S.lin, start)
	S.curr = start
	S.index = len(S.gens)
	v, ok := g.Next()
	S.gens = append(S.gens, g)
	S.pending = append(S.pending, v)
	S.alive = append(S.alive, ok)
}

// Step returns the timestep of the current scheduling decision.
func (S *Series) Step() int { return S.curr }

// Index returns the origin index of the current scheduling decision.
func (S *Series) Index() int { return S.index }

// Advance moves to the next scheduling decision. It returns false when the
// schedule is exhausted, leaving the current decision in place.
func (S *Series) Advance() bool {
	//the next origin's start competes with the live generators
	nextStart := len(S.gens) * S.genSteps
	canSpawn := len(S.gens) < S.maxGen && nextStart < S.total
	min, at := 0, -1
	for i, v := range S.pending {
		if S.alive[i] && (at == -1 || v < min) {
			min, at = v, i
		}
	}
	if canSpawn && (at == -1 || nextStart <= min) {
		S.spawn(nextStart)
		return true
	}
	if at == -1 {
		return false
	}
	S.curr = min
	S.index = at
	S.pending[at], S.alive[at] = S.gens[at].Next()
	return true
}
