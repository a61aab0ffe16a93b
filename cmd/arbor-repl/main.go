// arbor-repl is an interactive shell for exploring persistent AVL trees:
// edit an ordered set of integers, index it by rank, draw it, and move
// through its revision history.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/phroun/arbor"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "arbor-repl",
		Usage:   "interactive shell for persistent AVL trees",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "warn",
				EnvVars: []string{"ARBOR_LOG_LEVEL", "LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "seed",
				Usage:   "comma-separated integers to bulk build the initial tree from (sorted first)",
				EnvVars: []string{"ARBOR_SEED"},
			},
			&cli.IntFlag{
				Name:    "cache-size",
				Usage:   "number of tree drawings to keep cached",
				Value:   64,
				EnvVars: []string{"ARBOR_CACHE_SIZE"},
			},
		},
		Action: runREPL,
	}
	return app.Run(args)
}

func runREPL(cctx *cli.Context) error {
	logger := configLogging(cctx.String("log-level"))

	seed, err := parseSeed(cctx.String("seed"))
	if err != nil {
		return err
	}

	repl, err := NewREPL(Options{
		In:        os.Stdin,
		Out:       os.Stdout,
		Logger:    logger,
		Initial:   arbor.FromSlice(seed),
		CacheSize: cctx.Int("cache-size"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Arbor REPL - persistent AVL tree shell")
	fmt.Fprintln(os.Stdout, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(os.Stdout)
	return repl.Run()
}

func configLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "error":
		lvl = slog.LevelError
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// parseSeed reads a comma-separated list of integers, sorted and
// de-duplicated so the bulk-built tree is a valid ordered set.
func parseSeed(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid seed value %q: %w", field, err)
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out, nil
}
