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

package dataset

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"golang.org/x/exp/slices"
)

func TestSaveLoad(t *testing.T) {
	values := []int64{5, -3, 5, 0, -3, 2, math.MinInt64, math.MaxInt64}
	dir := t.TempDir()

	for _, name := range []string{"input.bin", "input.bin.zst"} {
		path := filepath.Join(dir, name)
		if err := Save(path, values); err != nil {
			t.Fatal(err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got, values) {
			t.Errorf("%s: got %v, want %v", name, got, values)
		}
	}
}

func TestReadEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no values, got %v", got)
	}
}

func TestReadCorrupted(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []int64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	flipped := slices.Clone(good)
	flipped[len(magic)+3] ^= 0x40
	if _, err := Read(bytes.NewReader(flipped)); !errors.Is(err, ErrChecksum) {
		t.Errorf("expected ErrChecksum, got %v", err)
	}

	if _, err := Read(bytes.NewReader(good[:10])); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for a short input, got %v", err)
	}

	other := slices.Clone(good)
	copy(other, "NOPE")
	if _, err := Read(bytes.NewReader(other)); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for bad magic, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	if err == nil {
		t.Errorf("expected an error")
	}
}
