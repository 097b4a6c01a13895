package tante

import "slices"

// RandomOperation draws one operation from ops, each weighted by its
// configured weight. ops is considered in canonical order regardless of how
// it was passed. It returns false if every weight in ops is zero.
func (n *Network) RandomOperation(ops []Operation) (Operation, bool) {
	ordered := slices.Clone(ops)
	slices.Sort(ordered)
	weights := make([]int, len(ordered))
	for i, op := range ordered {
		weights[i] = n.Settings.Weight(op)
	}
	i := pickWeighted(weights, n.rng.Float64())
	if i < 0 {
		return 0, false
	}
	return ordered[i], true
}

// pickWeighted selects an index from weights using u, a uniform draw in
// [0,1). It scans a cumulative-sum table for the first bound strictly above
// u*total. A slot whose bound did not advance past its predecessor has zero
// width and is never chosen. Returns -1 if the total weight is zero.
func pickWeighted(weights []int, u float64) int {
	cumulative := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		cumulative[i] = total
	}
	if total == 0 {
		return -1
	}

	draw := u * float64(total)
	prev := 0
	for i, bound := range cumulative {
		if bound == prev {
			continue
		}
		if float64(bound) > draw {
			return i
		}
		prev = bound
	}
	// u at the top of [0,1) with rounding: fall back to the last live slot.
	for i := len(cumulative) - 1; i >= 0; i-- {
		if i == 0 || cumulative[i] != cumulative[i-1] {
			return i
		}
	}
	return -1
}
