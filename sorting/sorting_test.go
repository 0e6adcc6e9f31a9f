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
	"bytes"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/parsort/ints"
	"github.com/SnellerInc/parsort/verify"
)

var parallelSorts = []struct {
	name string
	sort SortingFunction
}{
	{"bitonic", BitonicMergeSort[int64]},
	{"batcher", BatcherOddEvenMergeSort[int64]},
	{"pairwise", PairwiseSortingNetworkSort[int64]},
	{"sample", SampleSort[int64]},
}

// testParameters returns parameters forcing forks even for tiny ranges.
func testParameters(threads int, seed int64) *RuntimeParameters {
	return NewRuntimeParameters(threads, WithForkThreshold(2), WithSeed(seed))
}

func testSort(t *testing.T, name string, sort SortingFunction, input []int64, rp *RuntimeParameters) {
	t.Helper()

	want := slices.Clone(input)
	slices.Sort(want)
	before := verify.Fingerprint(input)

	got := slices.Clone(input)
	sort(got, rp)

	if err := verify.Check(before, got); err != nil {
		t.Fatalf("%s: %s (input %v)", name, err, shorten(input))
	}
	if err := verify.Equal(want, got); err != nil {
		t.Fatalf("%s: %s (input %v)", name, err, shorten(input))
	}
}

func shorten(x []int64) string {
	if len(x) > 20 {
		return fmt.Sprintf("%v... (%d items)", x[:20], len(x))
	}
	return fmt.Sprint(x)
}

func TestSortEmpty(t *testing.T) {
	for _, s := range parallelSorts {
		empty := []int64{}
		s.sort(empty, nil)
		if len(empty) != 0 {
			t.Errorf("%s: expected empty slice, got %v", s.name, empty)
		}

		var null []int64
		s.sort(null, testParameters(4, 1))
		if null != nil {
			t.Errorf("%s: expected nil slice, got %v", s.name, null)
		}
	}
}

func TestSortBoundarySizes(t *testing.T) {
	inputs := [][]int64{
		{42},
		{-7},
		{1, 2},
		{2, 1},
		{3, 3},
		{math.MaxInt64, math.MinInt64},
	}

	for _, s := range parallelSorts {
		for _, in := range inputs {
			testSort(t, s.name, s.sort, in, nil)
			testSort(t, s.name, s.sort, in, testParameters(4, 1))
		}
	}
}

func TestSortDuplicatesScenario(t *testing.T) {
	input := []int64{5, -3, 5, 0, -3, 2}
	want := []int64{-3, -3, 0, 2, 5, 5}

	for _, s := range parallelSorts {
		for _, threads := range []int{1, 2, 3, 8} {
			got := slices.Clone(input)
			s.sort(got, testParameters(threads, 7))
			if !slices.Equal(got, want) {
				t.Errorf("%s (threads=%d): got %v, want %v", s.name, threads, got, want)
			}
		}
	}
}

func TestSortMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	sizes := []int{3, 7, 10, 31, 50, 64, 100, 127, 1000, 1025, 4096, 5000}

	for _, s := range parallelSorts {
		for _, size := range sizes {
			input := ints.RandomSlice[int64](size, -1000000, 1000000, rng)
			testSort(t, s.name, s.sort, input, nil)
			testSort(t, s.name, s.sort, input, testParameters(4, int64(size)))
		}
	}
}

func TestSortInputPatterns(t *testing.T) {
	const n = 777

	patterns := map[string]func(i int) int64{
		"sorted":    func(i int) int64 { return int64(i) },
		"reversed":  func(i int) int64 { return int64(n - i) },
		"equal":     func(i int) int64 { return 5 },
		"two-value": func(i int) int64 { return int64(i % 2) },
		"sawtooth":  func(i int) int64 { return int64(i % 17) },
		"organ-pipe": func(i int) int64 {
			if i < n/2 {
				return int64(i)
			}
			return int64(n - i)
		},
		"extremes": func(i int) int64 {
			switch i % 3 {
			case 0:
				return math.MinInt64
			case 1:
				return math.MaxInt64
			}
			return 0
		},
	}

	for name, gen := range patterns {
		input := make([]int64, n)
		for i := range input {
			input[i] = gen(i)
		}
		for _, s := range parallelSorts {
			testSort(t, s.name+"/"+name, s.sort, input, testParameters(4, 3))
		}
	}
}

// TestSortConcurrentStress repeats sorting of random inputs many
// times with forks at every level; run with -race to check that
// concurrent tasks never touch the same indices.
func TestSortConcurrentStress(t *testing.T) {
	trials := 200
	if testing.Short() {
		trials = 10
	}

	rng := rand.New(rand.NewSource(1))
	for _, s := range parallelSorts {
		for _, size := range []int{10, 50, 100, 4096} {
			n := trials
			if size > 1000 {
				n = ints.Max(trials/10, 2)
			}
			for i := 0; i < n; i++ {
				input := ints.RandomSlice[int64](size, -1000, 1000, rng)
				threads := 2 + i%7
				testSort(t, s.name, s.sort, input, testParameters(threads, int64(i)))
			}
		}
	}
}

func TestSortConcurrentCalls(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	inputs := make([][]int64, 8)
	for i := range inputs {
		inputs[i] = ints.RandomSlice[int64](3000, -50, 50, rng)
	}

	for _, s := range parallelSorts {
		outputs := make([][]int64, len(inputs))
		pool := newThreadPool(len(inputs))
		fns := make([]func(), len(inputs))
		for i := range fns {
			i := i
			fns[i] = func() {
				outputs[i] = slices.Clone(inputs[i])
				s.sort(outputs[i], testParameters(3, int64(i)))
			}
		}
		pool.Do(fns...)

		for i := range outputs {
			if !slices.IsSorted(outputs[i]) {
				t.Errorf("%s: output #%d not sorted", s.name, i)
			}
		}
	}
}

func testGenericSorts[T Signed](t *testing.T, lo, hi T) {
	sorts := []struct {
		name string
		sort func([]T, *RuntimeParameters)
	}{
		{"bitonic", BitonicMergeSort[T]},
		{"batcher", BatcherOddEvenMergeSort[T]},
		{"pairwise", PairwiseSortingNetworkSort[T]},
		{"sample", SampleSort[T]},
	}

	rng := rand.New(rand.NewSource(3))
	for _, s := range sorts {
		for _, size := range []int{2, 9, 100, 2000} {
			input := ints.RandomSlice(size, lo, hi, rng)
			want := slices.Clone(input)
			slices.Sort(want)

			s.sort(input, testParameters(4, 11))
			if !slices.Equal(input, want) {
				t.Errorf("%s %T: wrong result for %d items", s.name, lo, size)
			}
		}
	}
}

func TestSortOtherKeyTypes(t *testing.T) {
	testGenericSorts[int8](t, math.MinInt8, math.MaxInt8)
	testGenericSorts[int16](t, -300, 300)
	testGenericSorts[int32](t, math.MinInt32, math.MaxInt32)
	testGenericSorts[int](t, -5, 5)
}

func TestSampleSortBucketOf(t *testing.T) {
	splitters := []int64{-10, 0, 0, 20}

	testcases := []struct {
		value  int64
		bucket int
	}{
		{-100, 0},
		{-10, 0}, // ties go to the lower bucket
		{-9, 1},
		{0, 1},
		{1, 3},
		{20, 3},
		{21, 4}, // greater than all splitters: the last bucket
	}

	for _, tc := range testcases {
		if got := bucketOf(splitters, tc.value); got != tc.bucket {
			t.Errorf("bucketOf(%d) = %d, want %d", tc.value, got, tc.bucket)
		}
	}

	if got := bucketOf([]int64{}, 5); got != 0 {
		t.Errorf("no splitters: got bucket %d", got)
	}
}

func TestSampleSortPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	data := ints.RandomSlice[int64](1000, -100, 100, rng)
	before := verify.Fingerprint(data[200:900])

	s := sampleSorter[int64]{data: data, parts: 5}
	r := R(200, 900)
	buckets := s.partition(r, rng)

	if len(buckets) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(buckets))
	}
	if err := verify.Permutation(before, data[200:900]); err != nil {
		t.Fatal(err)
	}

	next := r.Start
	for i, b := range buckets {
		if b.Start != next {
			t.Fatalf("bucket #%d %s does not follow the previous one", i, b)
		}
		next = b.End
		if i == 0 || b.Empty() {
			continue
		}
		// every value of a bucket is greater than all values of the lower buckets
		lowMax := data[r.Start]
		for _, v := range data[r.Start:b.Start] {
			lowMax = ints.Max(lowMax, v)
		}
		for _, v := range data[b.Start:b.End] {
			if v <= lowMax {
				t.Fatalf("bucket #%d contains %d, lower buckets contain %d", i, v, lowMax)
			}
		}
	}
	if next != r.End {
		t.Errorf("buckets end at %d, expected %d", next, r.End)
	}
}

func TestSampleSortSplittersAreSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	data := ints.RandomSlice[int64](500, -1000, 1000, rng)
	s := sampleSorter[int64]{data: data, parts: 8}

	for _, r := range []ints.Interval{R(0, 500), R(10, 13), R(100, 101)} {
		splitters := s.sampleSplitters(r, rng)
		if len(splitters) != 7 {
			t.Fatalf("expected 7 splitters, got %d", len(splitters))
		}
		if !slices.IsSorted(splitters) {
			t.Errorf("splitters %v are not sorted", splitters)
		}
		for _, v := range splitters {
			if !slices.Contains(data[r.Start:r.End], v) {
				t.Errorf("splitter %d was not sampled from %s", v, r)
			}
		}
	}
}

func TestSampleSortThresholds(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	input := ints.RandomSlice[int64](2000, -10, 10, rng)

	for _, threshold := range []int{1, 2, 16, 5000} {
		for _, threads := range []int{1, 2, 5} {
			rp := NewRuntimeParameters(threads, WithSampleSortThreshold(threshold), WithSeed(1))
			testSort(t, "sample", SampleSort[int64], input, rp)
		}
	}
}

func TestSampleSortLogsDegenerateRanges(t *testing.T) {
	var buf bytes.Buffer
	rp := NewRuntimeParameters(4,
		WithSeed(99),
		WithLogger(log.New(&buf, "", 0)))

	input := make([]int64, 100)
	for i := range input {
		input[i] = 1
	}
	SampleSort(input, rp)

	out := buf.String()
	if !strings.Contains(out, "seed 99") {
		t.Errorf("expected the seed to be logged, got %q", out)
	}
	if !strings.Contains(out, "did not split") {
		t.Errorf("expected a degenerate range to be logged, got %q", out)
	}
}

func TestSampleSortPropagatesPanics(t *testing.T) {
	// a range outside the input makes workers panic;
	// the panic must reach the caller instead of
	// leaving other workers waiting forever
	s := sampleSorter[int64]{
		data:      make([]int64, 10),
		parts:     4,
		threshold: 4,
		pending:   newRangeStack(),
		rp:        NewRuntimeParameters(4),
	}
	s.sorted = newRangeConsumer(R(0, 10), s.pending.close)
	s.pending.push(R(8, 30))

	tasks := make([]func(), 4)
	for i := range tasks {
		rng := rand.New(rand.NewSource(int64(i)))
		tasks[i] = func() { s.worker(rng) }
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	newThreadPool(4).Do(tasks...)
}

func TestRuntimeParameters(t *testing.T) {
	rp := NewRuntimeParameters(0)
	if rp.Threads < 1 {
		t.Errorf("expected at least one thread, got %d", rp.Threads)
	}
	if rp.SampleSortThreshold != rp.Threads {
		t.Errorf("sample sort threshold %d should default to threads %d", rp.SampleSortThreshold, rp.Threads)
	}
	if rp.ForkThreshold != DefaultForkThreshold {
		t.Errorf("fork threshold %d", rp.ForkThreshold)
	}

	rp = NewRuntimeParameters(3, WithForkThreshold(-1), WithSampleSortThreshold(64), WithSeed(5))
	if rp.Threads != 3 || rp.ForkThreshold != 2 || rp.SampleSortThreshold != 64 {
		t.Errorf("unexpected parameters %+v", rp)
	}
	if rp.seed() != 5 || rp.seed() != 5 {
		t.Errorf("the seed should be fixed")
	}

	var nilrp *RuntimeParameters
	if nilrp.orDefault() == nil {
		t.Errorf("nil parameters should be replaced with defaults")
	}
}

func TestLookup(t *testing.T) {
	names := []string{}
	for _, alg := range Algorithms() {
		names = append(names, alg.Name)
		found, err := Lookup(alg.Name)
		if err != nil || found.Name != alg.Name {
			t.Errorf("Lookup(%q) = %v, %v", alg.Name, found.Name, err)
		}
	}

	want := []string{"batcher", "bitonic", "pairwise", ReferenceName, "sample"}
	if !slices.Equal(names, want) {
		t.Errorf("got algorithms %v, want %v", names, want)
	}

	_, err := Lookup("bogo")
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}

	ref, _ := Lookup(ReferenceName)
	x := []int64{3, 1, 2}
	ref.Sort(x, nil)
	if !slices.Equal(x, []int64{1, 2, 3}) || ref.Parallel {
		t.Errorf("unexpected reference sort result %v", x)
	}
}

func TestInsertionSortAndMergeRuns(t *testing.T) {
	x := []int16{9, -1, 4, 4, 0, -8}
	insertionSort(x)
	if !slices.Equal(x, []int16{-8, -1, 0, 4, 4, 9}) {
		t.Errorf("insertion sort: %v", x)
	}

	testcases := []struct {
		input []int16
		mid   int
		want  []int16
	}{
		{[]int16{1, 4, 7, 2, 3, 9}, 3, []int16{1, 2, 3, 4, 7, 9}},
		{[]int16{5, 6, 1}, 2, []int16{1, 5, 6}},
		{[]int16{1, 2, 3}, 0, []int16{1, 2, 3}},
		{[]int16{1, 2, 3}, 3, []int16{1, 2, 3}},
		{[]int16{2, 2, 1, 2}, 2, []int16{1, 2, 2, 2}},
	}
	for _, tc := range testcases {
		got := slices.Clone(tc.input)
		mergeRuns(got, tc.mid, make([]int16, 2))
		if !slices.Equal(got, tc.want) {
			t.Errorf("mergeRuns(%v, %d) = %v, want %v", tc.input, tc.mid, got, tc.want)
		}
	}
}

func BenchmarkSorts(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	for _, size := range []int{4096, 1 << 16} {
		input := ints.RandomSlice[int64](size, -10000, 10000, rng)
		work := make([]int64, size)
		for _, alg := range Algorithms() {
			alg := alg
			b.Run(fmt.Sprintf("%s/%d", alg.Name, size), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					copy(work, input)
					alg.Sort(work, nil)
				}
			})
		}
	}
}
