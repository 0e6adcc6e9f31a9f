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
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Design:
//
// Every sorting procedure of this package takes the whole slice and
// runtime parameters, and returns once the slice is sorted. Inside,
// a procedure works on ranges of the slice; a range is owned by exactly
// one task at a time. A task may fork sub-tasks on disjoint subranges
// through a threadPool, and always joins them before it touches their
// ranges again.
//
// Sample sort is driven by a stack of pending ranges instead: workers
// pop a range, either sort it or split it into buckets pushed back onto
// the stack, and report sorted ranges to a rangeConsumer. The consumer
// closes the stack once the sorted ranges cover the whole slice.

// SortingFunction sorts a slice of int64 ascending in place.
type SortingFunction func(x []int64, rp *RuntimeParameters)

// Algorithm is a named sorting procedure.
type Algorithm struct {
	Name string

	// Parallel is false for the sequential reference sort.
	Parallel bool

	Sort SortingFunction
}

// ErrUnknownAlgorithm is returned by Lookup for names
// that are not registered.
var ErrUnknownAlgorithm = errors.New("unknown sorting algorithm")

// ReferenceName is the name of the sequential sort that
// the parallel procedures are validated against.
const ReferenceName = "reference"

var algorithms = map[string]Algorithm{
	"bitonic":  {Name: "bitonic", Parallel: true, Sort: BitonicMergeSort[int64]},
	"batcher":  {Name: "batcher", Parallel: true, Sort: BatcherOddEvenMergeSort[int64]},
	"pairwise": {Name: "pairwise", Parallel: true, Sort: PairwiseSortingNetworkSort[int64]},
	"sample":   {Name: "sample", Parallel: true, Sort: SampleSort[int64]},
	ReferenceName: {Name: ReferenceName, Sort: func(x []int64, _ *RuntimeParameters) {
		slices.Sort(x)
	}},
}

// Algorithms returns all registered algorithms ordered by name.
func Algorithms() []Algorithm {
	names := maps.Keys(algorithms)
	slices.Sort(names)

	out := make([]Algorithm, 0, len(names))
	for _, name := range names {
		out = append(out, algorithms[name])
	}
	return out
}

// Lookup finds an algorithm by name.
func Lookup(name string) (Algorithm, error) {
	alg, ok := algorithms[name]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}
