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

package main

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/parsort/dataset"
	"github.com/SnellerInc/parsort/ints"
	"github.com/SnellerInc/parsort/sorting"
	"github.com/SnellerInc/parsort/verify"
)

type bench struct {
	plan   *plan
	algs   []sorting.Algorithm
	seed   int64
	params *sorting.RuntimeParameters
	logger *log.Logger

	// loaded is the content of plan.Input, if any
	loaded []int64
}

// result is the outcome of all trials of
// one algorithm at one input size.
type result struct {
	alg    string
	size   int
	trials int
	best   time.Duration
	mean   time.Duration
	err    error
}

func (r *result) status() string {
	if r.err != nil {
		return "FAIL: " + r.err.Error()
	}
	return "ok"
}

func resolveAlgorithms(names []string) ([]sorting.Algorithm, error) {
	var out []sorting.Algorithm
	seen := make(map[string]bool)
	for _, name := range names {
		if name == "all" {
			for _, alg := range sorting.Algorithms() {
				if alg.Parallel && !seen[alg.Name] {
					seen[alg.Name] = true
					out = append(out, alg)
				}
			}
			continue
		}
		alg, err := sorting.Lookup(strings.ToLower(name))
		if err != nil {
			return nil, err
		}
		if !seen[alg.Name] {
			seen[alg.Name] = true
			out = append(out, alg)
		}
	}
	return out, nil
}

func newBench(p *plan, logger *log.Logger) (*bench, error) {
	algs, err := resolveAlgorithms(p.Algorithms)
	if err != nil {
		return nil, err
	}

	var seed int64
	if p.Seed != nil {
		seed = *p.Seed
	} else {
		seed, err = ints.RandomSeed()
		if err != nil {
			return nil, fmt.Errorf("cannot create seed: %w", err)
		}
	}

	opts := []sorting.Option{
		sorting.WithSeed(seed),
		sorting.WithLogger(logger),
	}
	if p.ForkThreshold > 0 {
		opts = append(opts, sorting.WithForkThreshold(p.ForkThreshold))
	}

	b := &bench{
		plan:   p,
		algs:   algs,
		seed:   seed,
		params: sorting.NewRuntimeParameters(p.Threads, opts...),
		logger: logger,
	}

	if p.Input != "" {
		b.loaded, err = dataset.Load(p.Input)
		if err != nil {
			return nil, err
		}
		logger.Printf("loaded %d values from %s", len(b.loaded), p.Input)
	}
	return b, nil
}

// sizes returns the input sizes to run.
// A loaded dataset replaces the generated sizes.
func (b *bench) sizes() []int {
	if b.loaded != nil {
		return []int{len(b.loaded)}
	}
	return b.plan.Sizes
}

// input returns the input of the given trial. Generated inputs
// depend only on the seed, the size and the trial number, so
// every algorithm sorts the same data.
func (b *bench) input(size, trial int) []int64 {
	if b.loaded != nil {
		return slices.Clone(b.loaded)
	}
	rng := rand.New(rand.NewSource(b.seed ^ int64(size)<<20 ^ int64(trial)))
	return ints.RandomSlice(size, b.plan.Low, b.plan.High, rng)
}

func (b *bench) run() []result {
	var results []result
	for _, size := range b.sizes() {
		for _, alg := range b.algs {
			results = append(results, b.measure(alg, size))
		}
	}
	return results
}

func (b *bench) measure(alg sorting.Algorithm, size int) result {
	r := result{alg: alg.Name, size: size}
	var total time.Duration
	for trial := 0; trial < b.plan.Trials; trial++ {
		data := b.input(size, trial)
		want := slices.Clone(data)
		slices.Sort(want)
		before := verify.Fingerprint(data)

		start := time.Now()
		alg.Sort(data, b.params)
		elapsed := time.Since(start)

		r.trials++
		total += elapsed
		if r.best == 0 || elapsed < r.best {
			r.best = elapsed
		}

		err := verify.Check(before, data)
		if err == nil {
			err = verify.Equal(want, data)
		}
		if err != nil {
			b.logger.Printf("%s, size %d, trial %d: %s", alg.Name, size, trial, err)
			r.err = err
			break
		}
	}
	if r.trials > 0 {
		r.mean = total / time.Duration(r.trials)
	}
	return r
}

// dump writes the first input to path.
func (b *bench) dump(path string) error {
	sizes := b.sizes()
	if len(sizes) == 0 {
		return fmt.Errorf("nothing to dump")
	}
	return dataset.Save(path, b.input(sizes[0], 0))
}

// demo sorts the first input with every selected
// algorithm and prints the arrays.
func (b *bench) demo(w io.Writer) error {
	sizes := b.sizes()
	if len(sizes) == 0 {
		return fmt.Errorf("no input for the demo")
	}
	data := b.input(sizes[0], 0)
	want := slices.Clone(data)
	slices.Sort(want)

	fmt.Fprintf(w, "Unsorted: %v\n", data)
	fmt.Fprintf(w, "Expected: %v\n", want)
	var failed error
	for _, alg := range b.algs {
		got := slices.Clone(data)
		alg.Sort(got, b.params)
		fmt.Fprintf(w, "%s: %v\n", alg.Name, got)
		if err := verify.Equal(want, got); err != nil && failed == nil {
			failed = fmt.Errorf("%s: %w", alg.Name, err)
		}
	}
	return failed
}
