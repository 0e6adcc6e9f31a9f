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

// Command sortbench runs the parallel sorting procedures on random
// (or loaded) inputs, validates their output against the reference
// sort and prints a table of timings.
//
// Usage:
//
//	sortbench [-c plan.yaml] [-a bitonic,sample] [-n 10,100,4096] [-r trials] [-t threads]
//	sortbench -demo -a pairwise -n 20
//	sortbench -i input.bin.zst -a all
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

var (
	dashc     string
	dasha     string
	dashn     string
	dashlo    int64
	dashhi    int64
	dashr     int
	dasht     int
	dashf     int
	dashseed  int64
	dashi     string
	dashdump  string
	dashdemo  bool
	dashv     bool
	printPlan bool
)

func init() {
	flag.StringVar(&dashc, "c", "", "YAML file with the benchmark plan (flags override it)")
	flag.StringVar(&dasha, "a", "all", "comma-separated algorithms to run, or 'all'")
	flag.StringVar(&dashn, "n", "10,50,100,4096", "comma-separated input sizes")
	flag.Int64Var(&dashlo, "lo", -10000, "smallest generated value")
	flag.Int64Var(&dashhi, "hi", 10000, "largest generated value")
	flag.IntVar(&dashr, "r", 10, "trials per algorithm and size")
	flag.IntVar(&dasht, "t", 0, "threads (default GOMAXPROCS)")
	flag.IntVar(&dashf, "f", 0, "fork threshold (default is the library default)")
	flag.Int64Var(&dashseed, "seed", 0, "seed for input generation and splitter sampling (default random)")
	flag.StringVar(&dashi, "i", "", "dataset file to sort instead of generated input")
	flag.StringVar(&dashdump, "dump", "", "write the first generated input to a dataset file")
	flag.BoolVar(&dashdemo, "demo", false, "print the input, expected and sorted arrays")
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&printPlan, "p", false, "print the effective plan as YAML and exit")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid size %q", field)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseList(s string) []string {
	var out []string
	for _, field := range strings.Split(s, ",") {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}

// effectivePlan loads the plan file (if any) and applies
// the flags that were set explicitly on the command line.
func effectivePlan() (*plan, error) {
	p := defaultPlan()
	if dashc != "" {
		var err error
		p, err = loadPlan(dashc)
		if err != nil {
			return nil, err
		}
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "a":
			p.Algorithms = parseList(dasha)
		case "n":
			p.Sizes, err = parseSizes(dashn)
		case "lo":
			p.Low = dashlo
		case "hi":
			p.High = dashhi
		case "r":
			p.Trials = dashr
		case "t":
			p.Threads = dasht
		case "f":
			p.ForkThreshold = dashf
		case "seed":
			seed := dashseed
			p.Seed = &seed
		case "i":
			p.Input = dashi
		}
	})
	if err != nil {
		return nil, err
	}
	return p, p.validate()
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		exitf("usage: %s [flags]; see -h", os.Args[0])
	}

	p, err := effectivePlan()
	if err != nil {
		exitf("%s", err)
	}

	if printPlan {
		buf, err := p.marshal()
		if err != nil {
			exitf("%s", err)
		}
		os.Stdout.Write(buf)
		return
	}

	logger := log.New(io.Discard, "", 0)
	if dashv {
		logger = log.New(os.Stderr, "sortbench: ", log.Lmicroseconds)
	}

	b, err := newBench(p, logger)
	if err != nil {
		exitf("%s", err)
	}

	if dashdump != "" {
		if err := b.dump(dashdump); err != nil {
			exitf("%s", err)
		}
		logger.Printf("input written to %s", dashdump)
	}

	if dashdemo {
		if err := b.demo(os.Stdout); err != nil {
			exitf("%s", err)
		}
		return
	}

	results := b.run()
	writeReport(os.Stdout, b, results)
	for i := range results {
		if results[i].err != nil {
			os.Exit(1)
		}
	}
}
