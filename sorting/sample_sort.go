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

import (
	"math/rand"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/parsort/ints"
)

// SampleSort sorts x ascending in place. Ranges are partitioned
// into buckets around splitters sampled from the range; buckets
// are pushed onto a stack shared by all workers, and ranges shorter
// than rp.SampleSortThreshold are finished with insertion sort.
//
// If rp is nil, default parameters are used.
func SampleSort[T Signed](x []T, rp *RuntimeParameters) {
	if len(x) <= 1 {
		return
	}

	rp = rp.orDefault()
	workers := rp.threads()
	s := sampleSorter[T]{
		data:      x,
		parts:     ints.Max(workers, 2),
		threshold: ints.Max(rp.SampleSortThreshold, 2),
		pending:   newRangeStack(),
		rp:        rp,
	}

	all := ints.Span(0, len(x))
	s.sorted = newRangeConsumer(all, s.pending.close)
	s.pending.push(all)

	seed := rp.seed()
	rp.logf("sample sort: %d items, %d workers, %d buckets, threshold %d, seed %d",
		len(x), workers, s.parts, s.threshold, seed)

	tasks := make([]func(), workers)
	for i := range tasks {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		tasks[i] = func() { s.worker(rng) }
	}
	newThreadPool(workers).Do(tasks...)

	if !s.sorted.finished() {
		panic("sample sort: workers stopped before the input was sorted")
	}
}

type sampleSorter[T Signed] struct {
	data      []T
	parts     int // number of buckets created by a partition step
	threshold int // ranges shorter than that are sorted directly
	pending   *rangeStack
	sorted    *rangeConsumer
	rp        *RuntimeParameters
}

func (s *sampleSorter[T]) worker(rng *rand.Rand) {
	defer func() {
		// don't leave other workers waiting for ranges
		// that will never come
		if p := recover(); p != nil {
			s.pending.close()
			panic(p)
		}
	}()

	for {
		r, ok := s.pending.pop()
		if !ok {
			return
		}
		s.process(r, rng)
	}
}

// process either sorts r directly (a terminal range)
// or partitions it and pushes the buckets.
func (s *sampleSorter[T]) process(r ints.Interval, rng *rand.Rand) {
	if r.Len() < s.threshold {
		insertionSort(s.data[r.Start:r.End])
		s.sorted.Notify(r)
		return
	}

	buckets := s.partition(r, rng)
	for _, b := range buckets {
		if b.Empty() {
			continue
		}

		if b.Len() == r.Len() {
			// all values went to a single bucket (e.g. all are
			// equal); partitioning again would not make progress
			s.rp.logf("sample sort: range %s did not split, sorting sequentially", r)
			slices.Sort(s.data[r.Start:r.End])
			s.sorted.Notify(r)
			return
		}

		s.pending.push(b)
	}
}

// partition reorders r so that values are grouped by bucket
// and returns the bucket ranges (absolute indices).
func (s *sampleSorter[T]) partition(r ints.Interval, rng *rand.Rand) []ints.Interval {
	splitters := s.sampleSplitters(r, rng)
	data := s.data[r.Start:r.End]

	counts := make([]int, s.parts)
	for _, v := range data {
		counts[bucketOf(splitters, v)]++
	}

	// prefix sums: the start of each bucket
	starts := make([]int, s.parts)
	buckets := make([]ints.Interval, s.parts)
	offset := 0
	for i, c := range counts {
		starts[i] = offset
		buckets[i] = ints.Span(r.Start+offset, c)
		offset += c
	}

	tmp := make([]T, len(data))
	for _, v := range data {
		b := bucketOf(splitters, v)
		tmp[starts[b]] = v
		starts[b]++
	}
	copy(data, tmp)

	return buckets
}

// sampleSplitters picks one random value from each of
// parts-1 equal-width subranges of r and returns them sorted.
func (s *sampleSorter[T]) sampleSplitters(r ints.Interval, rng *rand.Rand) []T {
	n := r.Len()
	k := s.parts - 1
	splitters := make([]T, k)
	for i := range splitters {
		lo := r.Start + i*n/k
		hi := r.Start + (i+1)*n/k
		j := lo
		if hi > lo {
			j += rng.Intn(hi - lo)
		}
		splitters[i] = s.data[ints.Min(j, r.End-1)]
	}

	insertionSort(splitters)
	return splitters
}

// bucketOf returns the smallest index i such that
// v <= splitters[i], or len(splitters) if there's none.
// A value equal to a splitter goes to the lower bucket.
func bucketOf[T Signed](splitters []T, v T) int {
	lo, hi := 0, len(splitters)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if v <= splitters[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
