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

// BitonicMergeSort sorts x ascending in place with a bitonic
// merge network. The length of x need not be a power of two.
//
// If rp is nil, default parameters are used.
func BitonicMergeSort[T Signed](x []T, rp *RuntimeParameters) {
	if len(x) <= 1 {
		return
	}

	rp = rp.orDefault()
	b := bitonicSorter[T]{
		data:      x,
		pool:      newThreadPool(rp.threads()),
		threshold: rp.forkThreshold(),
	}

	b.sort(0, len(x), Ascending)
}

type bitonicSorter[T Signed] struct {
	data      []T
	pool      *threadPool
	threshold int
}

// sort sorts data[low:low+count] in the given direction.
//
// The left half is sorted in the opposite direction, which
// makes the whole range a bitonic sequence before merging.
func (b *bitonicSorter[T]) sort(low, count int, dir Direction) {
	if count <= 1 {
		return
	}

	mid := count / 2
	b.pool.fork(count, b.threshold,
		func() { b.sort(low, mid, dir.reversed()) },
		func() { b.sort(low+mid, count-mid, dir) })

	b.merge(low, count, dir)
}

// merge turns the bitonic sequence data[low:low+count]
// into a sequence sorted in the given direction.
func (b *bitonicSorter[T]) merge(low, count int, dir Direction) {
	if count <= 1 {
		return
	}

	// k >= count/2, thus every pair (i, i+k) has its first
	// index in [low, low+k) and its second one in [low+k,
	// low+count); no two pairs share an index.
	k := ints.PowerOfTwoBelow(count)
	exchange := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			b.compareExchange(i, i+k, dir)
		}
	}

	if count < b.threshold {
		exchange(low, low+count-k)
	} else {
		b.pool.For(low, low+count-k, b.threshold/2, exchange)
	}

	b.pool.fork(count, b.threshold,
		func() { b.merge(low, k, dir) },
		func() { b.merge(low+k, count-k, dir) })
}

func (b *bitonicSorter[T]) compareExchange(i, j int, dir Direction) {
	if !inOrder(b.data[i], b.data[j], dir) {
		b.data[i], b.data[j] = b.data[j], b.data[i]
	}
}
