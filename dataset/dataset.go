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

// Package dataset reads and writes files holding
// inputs for the sorting benchmarks.
//
// A dataset is:
//
//	magic   "PSRT"
//	version 1 byte
//	count   uvarint
//	values  count little-endian int64
//	digest  blake2b-256 of all the bytes above
//
// Files with the ".zst" suffix are zstd-compressed.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

const (
	magic   = "PSRT"
	version = 1
)

var (
	// ErrFormat is returned for input that is not a dataset.
	ErrFormat = errors.New("dataset: invalid format")
	// ErrChecksum is returned when the digest does not match the content.
	ErrChecksum = errors.New("dataset: checksum mismatch")
)

// Write writes values to w.
func Write(w io.Writer, values []int64) error {
	h, err := blake2b.New256(nil)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(io.MultiWriter(w, h))
	bw.WriteString(magic)
	bw.WriteByte(version)

	var tmp [binary.MaxVarintLen64]byte
	bw.Write(tmp[:binary.PutUvarint(tmp[:], uint64(len(values)))])
	for _, v := range values {
		binary.LittleEndian.PutUint64(tmp[:8], uint64(v))
		bw.Write(tmp[:8])
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	_, err = w.Write(h.Sum(nil))
	return err
}

// Read reads a dataset written by Write.
func Read(r io.Reader) ([]int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(buf) < len(magic)+1+1+blake2b.Size256 {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrFormat, len(buf))
	}

	body, digest := buf[:len(buf)-blake2b.Size256], buf[len(buf)-blake2b.Size256:]
	if !bytes.HasPrefix(body, []byte(magic)) {
		return nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}
	sum := blake2b.Sum256(body)
	if !bytes.Equal(sum[:], digest) {
		return nil, ErrChecksum
	}

	body = body[len(magic):]
	if body[0] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, body[0])
	}
	body = body[1:]

	count, n := binary.Uvarint(body)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad item count", ErrFormat)
	}
	body = body[n:]
	if uint64(len(body)) != count*8 || count > uint64(len(body)) {
		return nil, fmt.Errorf("%w: %d items declared, %d bytes of data", ErrFormat, count, len(body))
	}

	values := make([]int64, count)
	for i := range values {
		values[i] = int64(binary.LittleEndian.Uint64(body[i*8:]))
	}
	return values, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Save writes values to a file, compressing it when
// the path ends with ".zst".
func Save(path string, values []int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if compressed(path) {
		err = saveCompressed(f, values)
	} else {
		err = Write(f, values)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func saveCompressed(w io.Writer, values []int64) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return err
	}
	if err := Write(enc, values); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Load reads a dataset from a file written by Save.
func Load(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	values, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}
