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

// insertionSort sorts a small slice ascending.
func insertionSort[T Signed](x []T) {
	for i := 1; i < len(x); i++ {
		key := x[i]
		j := i - 1
		for j >= 0 && x[j] > key {
			x[j+1] = x[j]
			j--
		}
		x[j+1] = key
	}
}

// mergeRuns merges two sorted runs x[:mid] and x[mid:]
// into buf and copies the result back to x.
//
// buf must be at least len(x) long; its content is
// overwritten. When buf is nil, a new buffer is allocated.
func mergeRuns[T Signed](x []T, mid int, buf []T) {
	if mid <= 0 || mid >= len(x) {
		return
	}

	// the runs are already in order
	if x[mid-1] <= x[mid] {
		return
	}

	if len(buf) < len(x) {
		buf = make([]T, len(x))
	}

	i, j, k := 0, mid, 0
	for i < mid && j < len(x) {
		if x[i] <= x[j] {
			buf[k] = x[i]
			i++
		} else {
			buf[k] = x[j]
			j++
		}
		k++
	}
	k += copy(buf[k:], x[i:mid])
	copy(buf[k:], x[j:])

	copy(x, buf[:len(x)])
}
