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
	"log"
	"runtime"
	"time"

	"github.com/SnellerInc/parsort/ints"
)

// DefaultForkThreshold is the default length of a range
// below which the parallel procedures stop forking.
const DefaultForkThreshold = 1024

// RuntimeParameters holds the configuration of a single
// sorting call. None of the parameters changes the result
// of sorting, only the way the work is scheduled.
type RuntimeParameters struct {
	// Threads is the available-parallelism count: the number
	// of goroutines sorting concurrently, the number of
	// sample sort buckets and its default small-range threshold.
	Threads int

	// ForkThreshold is the length of a range below which
	// a task does all of its work without forking.
	ForkThreshold int

	// SampleSortThreshold is the length of a range below
	// which sample sort switches to insertion sort.
	SampleSortThreshold int

	// Seed of the splitter sampling. It's used only
	// when HasSeed is true, otherwise each call
	// gets a fresh random seed.
	Seed    int64
	HasSeed bool

	// Logger receives diagnostic messages.
	// If Logger is nil, nothing is logged.
	Logger *log.Logger
}

// Option is an optional argument to NewRuntimeParameters.
type Option func(rp *RuntimeParameters)

// NewRuntimeParameters creates parameters for the given
// number of threads. If threads <= 0, runtime.GOMAXPROCS(0)
// is used.
func NewRuntimeParameters(threads int, opts ...Option) *RuntimeParameters {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	rp := &RuntimeParameters{
		Threads:       threads,
		ForkThreshold: DefaultForkThreshold,
	}

	for _, opt := range opts {
		opt(rp)
	}

	if rp.ForkThreshold < 2 {
		rp.ForkThreshold = 2
	}
	if rp.SampleSortThreshold <= 0 {
		rp.SampleSortThreshold = rp.Threads
	}

	return rp
}

// WithForkThreshold sets the length of a range below
// which no concurrent tasks are created.
func WithForkThreshold(n int) Option {
	return func(rp *RuntimeParameters) {
		rp.ForkThreshold = n
	}
}

// WithSampleSortThreshold overrides the range length
// below which sample sort uses insertion sort.
// The default is the number of threads.
func WithSampleSortThreshold(n int) Option {
	return func(rp *RuntimeParameters) {
		rp.SampleSortThreshold = n
	}
}

// WithSeed fixes the seed used for sampling splitters.
func WithSeed(seed int64) Option {
	return func(rp *RuntimeParameters) {
		rp.Seed = seed
		rp.HasSeed = true
	}
}

// WithLogger is an option that makes the sorting
// procedures log diagnostic information.
func WithLogger(l *log.Logger) Option {
	return func(rp *RuntimeParameters) {
		rp.Logger = l
	}
}

// orDefault returns rp, or the default parameters if rp is nil.
func (rp *RuntimeParameters) orDefault() *RuntimeParameters {
	if rp == nil {
		return NewRuntimeParameters(0)
	}
	return rp
}

func (rp *RuntimeParameters) threads() int {
	return ints.Max(rp.Threads, 1)
}

func (rp *RuntimeParameters) forkThreshold() int {
	return ints.Max(rp.ForkThreshold, 2)
}

func (rp *RuntimeParameters) seed() int64 {
	if rp.HasSeed {
		return rp.Seed
	}
	seed, err := ints.RandomSeed()
	if err != nil {
		rp.logf("cannot read random seed: %s", err)
		return time.Now().UnixNano()
	}
	return seed
}

func (rp *RuntimeParameters) logf(f string, args ...any) {
	if rp.Logger != nil {
		rp.Logger.Printf(f, args...)
	}
}
