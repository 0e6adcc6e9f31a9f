// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package sorting

import "github.com/SnellerInc/parsort/ints"

// PairwiseSortingNetworkSort sorts x ascending in place: both halves
// are sorted recursively, then the range is merged with a network
// of pairwise merges of doubling width.
//
// If rp is nil, default parameters are used.
func PairwiseSortingNetworkSort[T Signed](x []T, rp *RuntimeParameters) {
	if len(x) <= 1 {
		return
	}

	rp = rp.orDefault()
	p := pairwiseSorter[T]{
		data:      x,
		pool:      newThreadPool(rp.threads()),
		threshold: rp.forkThreshold(),
	}

	p.sort(0, len(x)-1)
}

// Ranges are closed intervals [low, high].
type pairwiseSorter[T Signed] struct {
	data      []T
	pool      *threadPool
	threshold int
}

func (p *pairwiseSorter[T]) sort(low, high int) {
	if low >= high {
		return
	}

	mid := midpoint(low, high)
	p.pool.fork(high-low+1, p.threshold,
		func() { p.sort(low, mid) },
		func() { p.sort(mid+1, high) })

	p.merge(low, high)
}

// merge runs rounds of width 1, 2, 4, ... over [low, high]. In the
// round of width `step`, every block pair starting at low+j*2*step
// is merged. Pairs of one round are disjoint and are merged
// concurrently; a round starts only after the previous one is
// complete.
func (p *pairwiseSorter[T]) merge(low, high int) {
	length := high - low + 1
	for step := 1; step < length; step *= 2 {
		width := 2 * step

		// first indices of the pairs are low+j*width < high-step+1,
		// so that the second block is never empty
		pairs := ints.CeilDiv(length-step, width)

		round := func(first, last int) {
			buf := make([]T, width)
			for j := first; j < last; j++ {
				start := low + j*width
				end := ints.Min(start+width, high+1)
				mergeRuns(p.data[start:end], step, buf)
			}
		}

		if length < p.threshold {
			round(0, pairs)
		} else {
			p.pool.For(0, pairs, ints.Max(p.threshold/width, 1), round)
		}
	}
}
