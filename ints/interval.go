// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package ints

import "fmt"

// Interval is a half-open interval [start, end)
// (start is always less than or equal to end)
//
// The sorting routines use an Interval to describe
// the contiguous part of a slice owned by a single task.
type Interval struct {
	Start, End int
}

// Span returns the interval [start, start+count).
func Span(start, count int) Interval {
	return Interval{Start: start, End: start + count}
}

// Empty returns whether [in] is an empty
// interval.
func (in Interval) Empty() bool {
	return in.Start >= in.End
}

// Len returns the length of the interval.
func (in Interval) Len() int {
	if in.End <= in.Start {
		return 0
	}
	return in.End - in.Start
}

// Contains returns whether i is in [in].
func (in Interval) Contains(i int) bool {
	return i >= in.Start && i < in.End
}

// Disjoint returns whether [in] and [other]
// have no index in common. Empty intervals
// are disjoint with everything.
func (in Interval) Disjoint(other Interval) bool {
	if in.Empty() || other.Empty() {
		return true
	}
	return in.End <= other.Start || other.End <= in.Start
}

// Split splits [in] at the absolute index [at],
// which is clamped to the interval bounds.
func (in Interval) Split(at int) (Interval, Interval) {
	at = Clamp(at, in.Start, Max(in.Start, in.End))
	return Interval{in.Start, at}, Interval{at, in.End}
}

// Halves splits [in] at Start+Len()/2; the right half
// is never shorter than the left one.
func (in Interval) Halves() (Interval, Interval) {
	return in.Split(in.Start + in.Len()/2)
}

func (in Interval) String() string {
	return fmt.Sprintf("[%d,%d)", in.Start, in.End)
}
