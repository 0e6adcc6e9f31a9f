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

// rangeStack is the stack of ranges waiting to be processed
// by the sample sort workers.
type rangeStack struct {
	lock   sync.Mutex
	cond   sync.Cond
	items  []ints.Interval
	closed bool
}

func newRangeStack() *rangeStack {
	s := &rangeStack{}
	s.cond.L = &s.lock
	return s
}

// push adds a range to the stack. Pushing to a closed
// stack is a no-op.
func (s *rangeStack) push(r ints.Interval) {
	s.lock.Lock()
	if !s.closed {
		s.items = append(s.items, r)
		s.cond.Signal()
	}
	s.lock.Unlock()
}

// pop removes the most recently pushed range. It waits
// while the stack is empty; false is returned once the
// stack gets closed.
func (s *rangeStack) pop() (ints.Interval, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for len(s.items) == 0 && !s.closed {
		s.cond.Wait()
	}

	if s.closed {
		return ints.Interval{}, false
	}

	n := len(s.items) - 1
	r := s.items[n]
	s.items = s.items[:n]
	return r, true
}

// close wakes up all waiting workers and makes
// subsequent pops fail.
func (s *rangeStack) close() {
	s.lock.Lock()
	s.closed = true
	s.items = nil
	s.lock.Unlock()
	s.cond.Broadcast()
}

func (s *rangeStack) len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.items)
}
