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
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/cpu"
)

// cpuFeatures lists the vector extensions of the host
// that matter when comparing timings between machines.
func cpuFeatures() string {
	var out []string
	if cpu.X86.HasAVX2 {
		out = append(out, "avx2")
	}
	if cpu.X86.HasAVX512F {
		out = append(out, "avx512f")
	}
	if cpu.ARM64.HasASIMD {
		out = append(out, "asimd")
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, ",")
}

func writeReport(w io.Writer, b *bench, results []result) {
	fmt.Fprintf(w, "run %s\n", uuid.New())
	fmt.Fprintf(w, "GOMAXPROCS %d, threads %d, fork threshold %d, seed %d, cpu %s\n",
		runtime.GOMAXPROCS(0), b.params.Threads, b.params.ForkThreshold, b.seed, cpuFeatures())
	if b.plan.Input != "" {
		fmt.Fprintf(w, "input %s\n", b.plan.Input)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tSIZE\tTRIALS\tBEST\tMEAN\tSTATUS")
	for i := range results {
		r := &results[i]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
			r.alg, r.size, r.trials, round(r.best), round(r.mean), r.status())
	}
	tw.Flush()
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(time.Microsecond)
	default:
		return d
	}
}
