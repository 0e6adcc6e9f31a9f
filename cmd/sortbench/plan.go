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
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// plan describes one benchmark run.
//
// A plan file is YAML, for example:
//
//	algorithms: [bitonic, sample]
//	sizes: [10, 4096, 1000000]
//	low: -10000
//	high: 10000
//	trials: 5
//	threads: 8
//	seed: 42
type plan struct {
	Algorithms    []string `json:"algorithms"`
	Sizes         []int    `json:"sizes"`
	Low           int64    `json:"low"`
	High          int64    `json:"high"`
	Trials        int      `json:"trials"`
	Threads       int      `json:"threads,omitempty"`
	ForkThreshold int      `json:"forkThreshold,omitempty"`
	Seed          *int64   `json:"seed,omitempty"`
	Input         string   `json:"input,omitempty"`
}

func defaultPlan() *plan {
	return &plan{
		Algorithms: []string{"all"},
		Sizes:      []int{10, 50, 100, 4096},
		Low:        -10000,
		High:       10000,
		Trials:     10,
	}
}

// loadPlan reads a plan file. Fields missing
// from the file keep their default values.
func loadPlan(path string) (*plan, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := defaultPlan()
	if err := yaml.UnmarshalStrict(buf, p); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return p, nil
}

func (p *plan) marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

func (p *plan) validate() error {
	if len(p.Algorithms) == 0 {
		return errors.New("no algorithms selected")
	}
	if p.Input == "" && len(p.Sizes) == 0 {
		return errors.New("no input sizes selected")
	}
	for _, n := range p.Sizes {
		if n < 0 {
			return fmt.Errorf("invalid size %d", n)
		}
	}
	if p.Low > p.High {
		return fmt.Errorf("invalid value range [%d, %d]", p.Low, p.High)
	}
	if p.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", p.Trials)
	}
	if p.Threads < 0 {
		return fmt.Errorf("threads must not be negative, got %d", p.Threads)
	}
	return nil
}
