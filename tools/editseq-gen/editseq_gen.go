package main

// editseq_gen.go is a tiny helper utility to generate deterministic
// module-parameter-edit sequences for standalone benchmarking of pixelcache
// outside `go test` (§4.1: a realistic parameter-edit trace is a slider drag
// that revisits a small set of values far more often than a uniform draw
// would predict). It emits newline-separated "op,instance,param" records,
// where param is drawn from a Zipf distribution over a small value alphabet
// to mimic a user settling a slider back onto a handful of favorite values.
//
// Usage:
//   go run ./tools/editseq-gen -n 1000000 -dist=zipf -seed=42 -out edits.csv
//
// Flags:
//   -n       number of edit records to generate (default 1e6)
//   -dist    distribution over param values: "uniform" or "zipf" (default zipf)
//   -zipfs   Zipf s parameter (>1)  (default 1.2)
//   -zipfv   Zipf v parameter (>=1) (default 1.0)
//   -values  size of the param value alphabet (default 64)
//   -seed    RNG seed (default current time)
//   -out     output file (default stdout)
//
// © 2025 pixelcache authors. MIT License.

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

var editOps = []string{"exposure", "whitebalance", "sharpen", "denoise", "contrast"}

func main() {
	var (
		n       = flag.Int("n", 1_000_000, "number of edit records to generate")
		dist    = flag.String("dist", "zipf", "distribution over param values: uniform or zipf")
		zipfS   = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = flag.Float64("zipfv", 1.0, "zipf v parameter (>=1)")
		values  = flag.Uint64("values", 64, "size of the param value alphabet")
		seedVal = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	var genParam func() uint64
	switch *dist {
	case "uniform":
		genParam = func() uint64 { return rnd.Uint64() % *values }
	case "zipf":
		if *zipfS <= 1.0 || *zipfV < 1.0 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >=1")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, *values-1)
		genParam = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	for i := 0; i < *n; i++ {
		op := editOps[rnd.Intn(len(editOps))]
		instance := rnd.Intn(4)
		fmt.Fprintf(w, "%s,%d,%d\n", op, instance, genParam())
	}
}
