// arbor-bench is a benchmark and stress test for the arbor tree engine.
// It builds, edits and reads large trees and measures each phase.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phroun/arbor"
	"github.com/phroun/arbor/internal/ordered"
	"github.com/phroun/arbor/revision"
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
}

// bench carries the settings shared by every phase.
type bench struct {
	count   int
	readers int
	verify  bool
	rng     *rand.Rand
	logger  *slog.Logger
}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "arbor-bench",
		Usage:   "benchmark and stress test for persistent AVL trees",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Usage:   "number of nodes per phase",
				Value:   1_000_000,
				EnvVars: []string{"ARBOR_BENCH_COUNT"},
			},
			&cli.IntFlag{
				Name:    "readers",
				Usage:   "number of concurrent reader goroutines",
				Value:   runtime.GOMAXPROCS(0),
				EnvVars: []string{"ARBOR_BENCH_READERS"},
			},
			&cli.Uint64Flag{
				Name:    "seed",
				Usage:   "random seed (0 picks one)",
				EnvVars: []string{"ARBOR_BENCH_SEED"},
			},
			&cli.BoolFlag{
				Name:    "verify",
				Usage:   "validate tree invariants after every phase",
				EnvVars: []string{"ARBOR_BENCH_VERIFY"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve prometheus metrics on this address while running (eg: :2112)",
				EnvVars: []string{"ARBOR_BENCH_METRICS_ADDR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "info",
				EnvVars: []string{"ARBOR_LOG_LEVEL", "LOG_LEVEL"},
			},
		},
		Action: runBench,
	}
	return app.Run(args)
}

func runBench(cctx *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cctx.String("log-level"))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	seed := cctx.Uint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}
	b := &bench{
		count:   cctx.Int("count"),
		readers: max(cctx.Int("readers"), 1),
		verify:  cctx.Bool("verify"),
		rng:     rand.New(rand.NewPCG(seed, seed)),
		logger:  logger,
	}
	if b.count <= 0 {
		return errors.New("count must be positive")
	}

	if addr := cctx.String("metrics-addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("serving metrics", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	fmt.Println("Arbor Benchmark and Stress Test")
	fmt.Println("===============================")
	fmt.Printf("Nodes per phase: %d\n", b.count)
	fmt.Printf("Readers: %d\n", b.readers)
	fmt.Printf("Seed: %d\n", seed)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	var results []BenchResult
	var failed error

	// Helper to run and print each benchmark
	runPhase := func(name string, fn func() (BenchResult, error)) {
		if failed != nil {
			return
		}
		fmt.Printf("  %-40s ", name+"...")
		result, err := fn()
		if err != nil {
			fmt.Println("FAILED")
			failed = fmt.Errorf("%s: %w", name, err)
			return
		}
		fmt.Printf("%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
	}

	fmt.Println("Construction:")
	var built *arbor.Node[int]
	runPhase("Bulk build from sorted slice", func() (BenchResult, error) {
		var r BenchResult
		built, r = b.benchBulkBuild()
		return r, b.check(built)
	})
	runPhase("Sequential append", func() (BenchResult, error) {
		tree, r := b.benchAppend()
		return r, b.check(tree)
	})

	fmt.Println("\nOrdered set:")
	var set *arbor.Node[int]
	var keys []int
	runPhase("Random inserts", func() (BenchResult, error) {
		var r BenchResult
		var err error
		set, keys, r, err = b.benchRandomInserts()
		if err != nil {
			return r, err
		}
		return r, b.check(set)
	})
	runPhase("Random removals (half)", func() (BenchResult, error) {
		tree, r, err := b.benchRandomRemovals(set, keys)
		if err != nil {
			return r, err
		}
		return r, b.check(tree)
	})

	fmt.Println("\nPositional:")
	runPhase("Random index lookups", func() (BenchResult, error) {
		return b.benchIndexLookups(built)
	})
	runPhase("Random positional inserts", func() (BenchResult, error) {
		tree, r, err := b.benchInsertAt(built)
		if err != nil {
			return r, err
		}
		return r, b.check(tree)
	})

	fmt.Println("\nConcurrency:")
	runPhase("Readers during revision commits", func() (BenchResult, error) {
		return b.benchConcurrentReaders(cctx.Context, built)
	})

	fmt.Println()
	fmt.Println("Results")
	fmt.Println("=======")
	for _, r := range results {
		fmt.Println(r)
	}

	return failed
}

// check validates tree when verification is enabled.
func (b *bench) check(tree *arbor.Node[int]) error {
	if !b.verify {
		return nil
	}
	return arbor.Validate(tree)
}

func (b *bench) benchBulkBuild() (*arbor.Node[int], BenchResult) {
	items := make([]int, b.count)
	for i := range items {
		items[i] = i
	}

	start := time.Now()
	tree := arbor.FromSlice(items)
	elapsed := time.Since(start)

	return tree, BenchResult{
		Name:     "Bulk build",
		Duration: elapsed,
		Ops:      b.count,
		Extra:    fmt.Sprintf("height=%d avg depth=%.2f", tree.Height(), arbor.AverageDepth(tree)),
	}
}

func (b *bench) benchAppend() (*arbor.Node[int], BenchResult) {
	var tree *arbor.Node[int]

	start := time.Now()
	for i := 0; i < b.count; i++ {
		tree = arbor.Append(tree, i)
	}
	elapsed := time.Since(start)

	return tree, BenchResult{
		Name:     "Sequential append",
		Duration: elapsed,
		Ops:      b.count,
		Extra:    fmt.Sprintf("height=%d", tree.Height()),
	}
}

func (b *bench) benchRandomInserts() (*arbor.Node[int], []int, BenchResult, error) {
	keys := make([]int, 0, b.count)
	var tree *arbor.Node[int]
	duplicates := 0

	start := time.Now()
	for i := 0; i < b.count; i++ {
		key := b.rng.IntN(b.count * 4)
		next, err := ordered.Insert(tree, key)
		if errors.Is(err, arbor.ErrDuplicate) {
			duplicates++
			continue
		}
		if err != nil {
			return nil, nil, BenchResult{}, err
		}
		tree = next
		keys = append(keys, key)
	}
	elapsed := time.Since(start)

	return tree, keys, BenchResult{
		Name:     "Random inserts",
		Duration: elapsed,
		Ops:      b.count,
		Extra:    fmt.Sprintf("size=%d duplicates=%d height=%d", tree.Size(), duplicates, tree.Height()),
	}, nil
}

func (b *bench) benchRandomRemovals(tree *arbor.Node[int], keys []int) (*arbor.Node[int], BenchResult, error) {
	b.rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	victims := keys[:len(keys)/2]

	start := time.Now()
	for _, key := range victims {
		next, err := ordered.Delete(tree, key)
		if err != nil {
			return nil, BenchResult{}, fmt.Errorf("removing %d: %w", key, err)
		}
		tree = next
	}
	elapsed := time.Since(start)

	return tree, BenchResult{
		Name:     "Random removals",
		Duration: elapsed,
		Ops:      len(victims),
		Extra:    fmt.Sprintf("size=%d height=%d", tree.Size(), tree.Height()),
	}, nil
}

func (b *bench) benchIndexLookups(tree *arbor.Node[int]) (BenchResult, error) {
	size := tree.Size()

	start := time.Now()
	for i := 0; i < b.count; i++ {
		index := b.rng.IntN(size)
		// The bulk-built tree holds 0..n-1, so content equals rank.
		v, ok := arbor.At(tree, index)
		if !ok || v != index {
			return BenchResult{}, fmt.Errorf("At(%d) = %d, %v", index, v, ok)
		}
	}
	elapsed := time.Since(start)

	return BenchResult{
		Name:     "Random index lookups",
		Duration: elapsed,
		Ops:      b.count,
	}, nil
}

func (b *bench) benchInsertAt(tree *arbor.Node[int]) (*arbor.Node[int], BenchResult, error) {
	ops := b.count / 10

	start := time.Now()
	for i := 0; i < ops; i++ {
		next, err := arbor.InsertAt(tree, b.rng.IntN(tree.Size()+1), -i)
		if err != nil {
			return nil, BenchResult{}, err
		}
		tree = next
	}
	elapsed := time.Since(start)

	return tree, BenchResult{
		Name:     "Random positional inserts",
		Duration: elapsed,
		Ops:      ops,
		Extra:    fmt.Sprintf("size=%d height=%d", tree.Size(), tree.Height()),
	}, nil
}

// benchConcurrentReaders runs index lookups on snapshots taken from a
// revision log while one writer keeps committing appends to it.
func (b *bench) benchConcurrentReaders(ctx context.Context, initial *arbor.Node[int]) (BenchResult, error) {
	history, err := revision.New(revision.Options[int]{
		Name:    "bench",
		Initial: initial,
		Logger:  b.logger,
	})
	if err != nil {
		return BenchResult{}, err
	}

	writes := b.count / 10
	var reads atomic.Int64
	var done atomic.Bool

	start := time.Now()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer done.Store(true)
		for i := 0; i < writes; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, err := history.Apply("append", func(tree *arbor.Node[int]) (*arbor.Node[int], error) {
				return arbor.Append(tree, tree.Size()), nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	for r := 0; r < b.readers; r++ {
		seed := b.rng.Uint64()
		group.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(r)))
			for !done.Load() {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				snapshot := history.Current()
				size := snapshot.Size()
				for i := 0; i < 1000; i++ {
					index := rng.IntN(size)
					v, ok := arbor.At(snapshot, index)
					if !ok || v != index {
						return fmt.Errorf("reader %d: At(%d) = %d, %v on size %d", r, index, v, ok, size)
					}
				}
				reads.Add(1000)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return BenchResult{}, err
	}
	elapsed := time.Since(start)

	if err := b.check(history.Current()); err != nil {
		return BenchResult{}, err
	}

	return BenchResult{
		Name:     "Readers during revision commits",
		Duration: elapsed,
		Ops:      int(reads.Load()),
		Extra:    fmt.Sprintf("writes=%d revisions=%d", writes, history.CurrentRevision()),
	}, nil
}
