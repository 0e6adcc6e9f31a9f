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
	"testing"

	"github.com/SnellerInc/parsort/ints"
)

func R(start, end int) ints.Interval {
	return ints.Interval{Start: start, End: end}
}

func TestRangeConsumerCase1(t *testing.T) {
	notifications := []ints.Interval{
		R(50, 61),
		R(0, 21),
		R(40, 50),
		R(21, 40),
		R(61, 101)}

	testRangeConsumer(t, notifications)
}

func TestRangeConsumerCase2(t *testing.T) {
	notifications := []ints.Interval{
		R(21, 40),
		R(61, 101),
		R(50, 61),
		R(40, 50),
		R(0, 21)}

	testRangeConsumer(t, notifications)
}

func TestRangeConsumerCase3(t *testing.T) {
	notifications := []ints.Interval{
		R(0, 101)}

	testRangeConsumer(t, notifications)
}

func TestRangeConsumerIgnoresEmptyRanges(t *testing.T) {
	notifications := []ints.Interval{
		R(0, 0),
		R(0, 50),
		R(50, 50),
		R(50, 101)}

	testRangeConsumer(t, notifications)
}

func testRangeConsumer(t *testing.T, notifications []ints.Interval) {
	calls := 0
	consumer := newRangeConsumer(R(0, 101), func() { calls++ })

	for i, r := range notifications {
		if consumer.finished() {
			t.Fatalf("consumer finished before notification #%d", i)
		}
		consumer.Notify(r)
	}

	if !consumer.finished() {
		t.Errorf("consumer should have finished")
	}
	if calls != 1 {
		t.Errorf("done got called %d times, expected once", calls)
	}
	if len(consumer.queue) != 0 {
		t.Errorf("expected empty queue, got %v", consumer.queue)
	}
}

func TestRangeConsumerDetectsOverlaps(t *testing.T) {
	testcases := []struct {
		notifications []ints.Interval
	}{
		{[]ints.Interval{R(0, 10), R(5, 20)}},
		{[]ints.Interval{R(10, 20), R(15, 30), R(0, 10)}},
		{[]ints.Interval{R(0, 50), R(90, 120)}},
	}

	for i := range testcases {
		notifications := testcases[i].notifications
		consumer := newRangeConsumer(R(0, 100), func() {})
		panicked := func() (p bool) {
			defer func() {
				p = recover() != nil
			}()
			for _, r := range notifications {
				consumer.Notify(r)
			}
			return false
		}()
		if !panicked {
			t.Errorf("case #%d: overlapping notifications %v were accepted", i, notifications)
		}
	}
}

func TestRangeConsumerKeepsPendingRangesOrdered(t *testing.T) {
	consumer := newRangeConsumer(R(0, 100), func() {})
	for _, r := range []ints.Interval{R(70, 100), R(10, 20), R(40, 70), R(20, 40)} {
		consumer.Notify(r)
	}

	if consumer.remaining.Start != 0 {
		t.Errorf("nothing should be flushed before [0,10) is sorted")
	}
	if len(consumer.queue) != 4 {
		t.Fatalf("expected 4 pending ranges, got %v", consumer.queue)
	}
	if consumer.queue[0] != R(10, 20) {
		t.Errorf("expected head [10,20), got %s", consumer.queue[0])
	}

	consumer.Notify(R(0, 10))
	if !consumer.finished() {
		t.Errorf("consumer should have finished")
	}
}
