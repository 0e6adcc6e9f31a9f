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

/*
Package sorting contains parallel in-place sorting procedures
for slices of signed integers.

# Overview

There are four procedures, each sorting a slice ascending in place:

1. BitonicMergeSort builds bitonic sequences recursively and merges
them with a compare-exchange network generalised to any length.

2. BatcherOddEvenMergeSort sorts both halves and combines them with
odd-even merges of the halves followed by a linear merge.

3. PairwiseSortingNetworkSort sorts both halves and merges the range
with a bottom-up (doubling) merge network.

4. SampleSort partitions the input around sampled splitters into
buckets and processes buckets from a shared stack of pending ranges
until they are small enough for insertion sort.

All of them are no-ops for slices shorter than two elements.

# Design

Concurrency is strict fork-join: a task forks sub-tasks working on
disjoint subranges of the slice and waits for all of them before it
proceeds. The slice is the only shared mutable state and there are
no locks around it; correctness relies entirely on the disjointness
of concurrently processed ranges. Merge steps use temporary buffers
owned by a single task.

The sample sort shares one more structure, the stack of pending
ranges, which is guarded by a mutex. Sorted (terminal) ranges are
reported to a consumer, which ends the sort once they cover the whole
input.

RuntimeParameters control the number of threads, the size below which
a range is processed without forking and the seed used to sample
splitters. None of them affects the result.

A panic raised in a forked task (for instance, a failed allocation of
a merge buffer) is re-raised in the goroutine that called the sort,
after all other tasks forked at that point have finished. The slice
is left in an unspecified order in that case.
*/
package sorting
