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
	"container/heap"
	"fmt"
	"sync"

	"github.com/SnellerInc/parsort/ints"
)

// rangeConsumer collects notifications about sorted (terminal)
// ranges of the input and calls `done` once they cover the
// whole input.
//
// We are assuming that all incoming ranges are disjoint and finally
// their sum equals to `all`. A range that overlaps the already
// sorted part, or lies outside `all`, breaks that assumption and
// makes Notify panic.
type rangeConsumer struct {
	lock      sync.Mutex
	all       ints.Interval    // what is the range of indices to sort
	remaining ints.Interval    // tail of `all` that left to sort
	queue     sortedRangeQueue // already sorted subranges that are not adjacent to the sorted head
	done      func()
}

func newRangeConsumer(all ints.Interval, done func()) *rangeConsumer {
	c := &rangeConsumer{
		all:       all,
		remaining: all,
		done:      done,
	}
	heap.Init(&c.queue)
	return c
}

// Notify informs the consumer that range r of the input is sorted.
func (c *rangeConsumer) Notify(r ints.Interval) {
	if r.Empty() {
		return
	}

	c.lock.Lock()
	finished := c.add(r)
	c.lock.Unlock()

	if finished {
		c.done()
	}
}

func (c *rangeConsumer) add(r ints.Interval) bool {
	if r.Start < c.all.Start || r.End > c.all.End || r.Start < c.remaining.Start {
		panic(fmt.Sprintf("sorted range %s overlaps already sorted part of %s", r, c.all))
	}

	heap.Push(&c.queue, r)

	for len(c.queue) > 0 {
		head := c.queue[0]
		if head.Start > c.remaining.Start {
			break
		}
		if head.Start < c.remaining.Start {
			panic(fmt.Sprintf("sorted range %s overlaps already sorted part of %s", head, c.all))
		}

		// the head range covers the head of remaining range, advance the pointer
		heap.Pop(&c.queue)
		c.remaining.Start = head.End
	}

	return c.remaining.Empty()
}

// finished reports if the whole input has been sorted.
func (c *rangeConsumer) finished() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.remaining.Empty()
}

// sortedRangeQueue keeps sort ranges ordered by the start index
type sortedRangeQueue []ints.Interval

// Len implements sort.Interface
func (r sortedRangeQueue) Len() int { return len(r) }

// Less implements sort.Interface
func (r sortedRangeQueue) Less(i, j int) bool { return r[i].Start < r[j].Start }

// Swap implements sort.Interface
func (r sortedRangeQueue) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// Push implements heap.Interface
func (r *sortedRangeQueue) Push(x any) {
	*r = append(*r, x.(ints.Interval))
}

// Pop implements heap.Interface
func (r *sortedRangeQueue) Pop() any {
	old := *r
	n := len(old)
	x := old[n-1]
	*r = old[0 : n-1]
	return x
}
