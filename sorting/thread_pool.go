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
	"sync"

	"github.com/SnellerInc/parsort/ints"
)

// threadPool runs fork-join tasks on at most `threads`
// goroutines, including the goroutine that forks.
//
// The pool never blocks waiting for a free thread: when
// all of them are busy, a forked task is run by the caller.
// Thanks to that, tasks may fork recursively without the
// risk of a deadlock.
type threadPool struct {
	threads int
	tokens  chan struct{} // one token per goroutine that can be spawned
}

func newThreadPool(threads int) *threadPool {
	threads = ints.Max(threads, 1)
	return &threadPool{
		threads: threads,
		tokens:  make(chan struct{}, threads-1),
	}
}

func (t *threadPool) tryAcquire() bool {
	select {
	case t.tokens <- struct{}{}:
		return true
	default:
		return false
	}
}

func (t *threadPool) release() {
	<-t.tokens
}

// Do executes all functions and returns once all of them
// have finished. The functions must operate on disjoint
// data, as some of them are run concurrently.
//
// If any function panics, Do panics with the value raised
// by the left-most of them, after all the others have
// finished.
func (t *threadPool) Do(fns ...func()) {
	switch len(fns) {
	case 0:
		return
	case 1:
		fns[0]()
		return
	}

	panics := make([]any, len(fns))
	inline := make([]int, 1, len(fns))

	var wg sync.WaitGroup
	for i := 1; i < len(fns); i++ {
		if !t.tryAcquire() {
			inline = append(inline, i)
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer func() {
				panics[i] = recover()
				t.release()
				wg.Done()
			}()
			fns[i]()
		}(i)
	}

	for _, i := range inline {
		func() {
			defer func() {
				panics[i] = recover()
			}()
			fns[i]()
		}()
	}

	wg.Wait()

	for _, p := range panics {
		if p != nil {
			panic(p)
		}
	}
}

// For splits range [lo:hi) into disjoint chunks of at least
// `grain` indices and calls fn for each of them. It returns
// once all the chunks are processed.
func (t *threadPool) For(lo, hi, grain int, fn func(lo, hi int)) {
	n := hi - lo
	if n <= 0 {
		return
	}

	grain = ints.Max(grain, 1)
	chunks := ints.Min(t.threads, n/grain)
	if chunks <= 1 {
		fn(lo, hi)
		return
	}

	size := ints.CeilDiv(n, chunks)
	fns := make([]func(), 0, chunks)
	for start := lo; start < hi; start += size {
		start, end := start, ints.Min(start+size, hi)
		fns = append(fns, func() { fn(start, end) })
	}

	t.Do(fns...)
}

// fork runs both functions, concurrently if the
// range they work on is long enough.
func (t *threadPool) fork(length, threshold int, a, b func()) {
	if length < threshold {
		a()
		b()
		return
	}
	t.Do(a, b)
}
