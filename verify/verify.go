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

// Package verify checks the results of sorting: that the
// output is in order and that it holds the same multiset
// of values as the input.
package verify

import (
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
	"golang.org/x/exp/constraints"
)

// fixed SipHash keys; the fingerprint only needs to be
// stable within a process, not secret
const (
	k0 = 0x736f72745f6b6579
	k1 = 0x7061727369727421
)

// Digest is an order-independent fingerprint of
// a multiset of integers.
type Digest struct {
	Len int
	Sum uint64
}

func (d Digest) String() string {
	return fmt.Sprintf("%d items, sum %016x", d.Len, d.Sum)
}

// Fingerprint computes the digest of values in x. Any
// permutation of x has the same digest; a different
// multiset has a different one with high probability.
func Fingerprint[T constraints.Signed](x []T) Digest {
	var buf [8]byte
	d := Digest{Len: len(x)}
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		d.Sum += siphash.Hash(k0, k1, buf[:])
	}
	return d
}

// OrderError describes the first pair of
// adjacent values that are not in ascending order.
type OrderError struct {
	Index      int // Next is at Index, Prev at Index-1
	Prev, Next int64
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("not sorted at index %d: %d > %d", e.Index, e.Prev, e.Next)
}

// PermutationError is returned when the output is
// not a permutation of the input.
type PermutationError struct {
	Want, Got Digest
}

func (e *PermutationError) Error() string {
	return fmt.Sprintf("values changed during sorting: expected %s, got %s", e.Want, e.Got)
}

// MismatchError is returned by Equal.
type MismatchError struct {
	Index     int
	Want, Got int64
	Length    bool // lengths differ; Want and Got hold them
}

func (e *MismatchError) Error() string {
	if e.Length {
		return fmt.Sprintf("expected %d items, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("mismatch at index %d: expected %d, got %d", e.Index, e.Want, e.Got)
}

// Sorted checks that x is in non-descending order.
func Sorted[T constraints.Signed](x []T) error {
	for i := 1; i < len(x); i++ {
		if x[i-1] > x[i] {
			return &OrderError{Index: i, Prev: int64(x[i-1]), Next: int64(x[i])}
		}
	}
	return nil
}

// Permutation checks that x has the fingerprint recorded
// before sorting.
func Permutation[T constraints.Signed](before Digest, x []T) error {
	after := Fingerprint(x)
	if after != before {
		return &PermutationError{Want: before, Got: after}
	}
	return nil
}

// Check checks both the order and the permutation invariant.
func Check[T constraints.Signed](before Digest, x []T) error {
	if err := Sorted(x); err != nil {
		return err
	}
	return Permutation(before, x)
}

// Equal compares the result of a sort with the
// result of the reference sort element by element.
func Equal[T constraints.Signed](want, got []T) error {
	if len(want) != len(got) {
		return &MismatchError{Want: int64(len(want)), Got: int64(len(got)), Length: true}
	}
	for i := range want {
		if want[i] != got[i] {
			return &MismatchError{Index: i, Want: int64(want[i]), Got: int64(got[i])}
		}
	}
	return nil
}
