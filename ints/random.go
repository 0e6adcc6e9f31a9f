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

package ints

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// RandomSeed returns a seed produced by a cryptographically strong random number generator
func RandomSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1), nil
}

// RandomFill fills out with values drawn uniformly from
// the closed range [lo, hi]. If hi < lo the bounds are swapped.
func RandomFill[T constraints.Signed](out []T, lo, hi T, rng *rand.Rand) {
	if hi < lo {
		lo, hi = hi, lo
	}
	// the width is computed in uint64 so that the full
	// range of int64 does not overflow
	width := uint64(int64(hi)-int64(lo)) + 1
	for i := range out {
		var off uint64
		switch {
		case width == 0:
			// [lo, hi] covers all of int64
			off = rng.Uint64()
		case width <= math.MaxInt64:
			off = uint64(rng.Int63n(int64(width)))
		default:
			off = rng.Uint64() % width
		}
		out[i] = T(int64(lo) + int64(off))
	}
}

// RandomSlice returns a new slice of n values from [lo, hi].
func RandomSlice[T constraints.Signed](n int, lo, hi T, rng *rand.Rand) []T {
	out := make([]T, n)
	RandomFill(out, lo, hi, rng)
	return out
}
