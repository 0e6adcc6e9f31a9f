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

import "golang.org/x/exp/constraints"

// Signed is the set of key types accepted by the sorting procedures.
type Signed interface {
	constraints.Signed
}

// Direction encodes a sorting direction of a range
type Direction int

const (
	Ascending  Direction = 1  // Sort ascending
	Descending Direction = -1 // Sort descending
)

func (d Direction) reversed() Direction {
	return -d
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return "invalid"
}

// inOrder checks if a pair of values follows the direction.
func inOrder[T Signed](a, b T, d Direction) bool {
	if d == Ascending {
		return a <= b
	}
	return a >= b
}
