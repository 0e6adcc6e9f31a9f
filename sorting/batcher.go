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

// BatcherOddEvenMergeSort sorts x ascending in place: both halves
// are sorted recursively and then combined by an odd-even merge.
//
// If rp is nil, default parameters are used.
func BatcherOddEvenMergeSort[T Signed](x []T, rp *RuntimeParameters) {
	if len(x) <= 1 {
		return
	}

	rp = rp.orDefault()
	b := batcherSorter[T]{
		data:      x,
		pool:      newThreadPool(rp.threads()),
		threshold: rp.forkThreshold(),
	}

	b.sort(0, len(x)-1)
}

// Note: unlike the bitonic sorter, ranges are closed
// intervals [low, high].
type batcherSorter[T Signed] struct {
	data      []T
	pool      *threadPool
	threshold int
}

func midpoint(low, high int) int {
	return low + (high-low)/2
}

func (b *batcherSorter[T]) sort(low, high int) {
	if low >= high {
		return
	}

	mid := midpoint(low, high)
	b.pool.fork(high-low+1, b.threshold,
		func() { b.sort(low, mid) },
		func() { b.sort(mid+1, high) })

	b.oddEvenMerge(low, high)
}

// oddEvenMerge merges the sorted halves of [low, high]. Both
// halves are merged on their own first (these two merges touch
// disjoint ranges), then the whole range is merged linearly.
func (b *batcherSorter[T]) oddEvenMerge(low, high int) {
	if high <= low {
		return
	}

	mid := midpoint(low, high)
	b.pool.fork(high-low+1, b.threshold,
		func() { b.merge(low, mid) },
		func() { b.merge(mid+1, high) })

	b.merge(low, high)
}

// merge merges [low, mid] and [mid+1, high] (both sorted)
// through a temporary buffer.
func (b *batcherSorter[T]) merge(low, high int) {
	if high <= low {
		return
	}

	mid := midpoint(low, high)
	mergeRuns(b.data[low:high+1], mid-low+1, nil)
}
