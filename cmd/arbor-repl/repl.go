package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phroun/arbor"
	"github.com/phroun/arbor/internal/ordered"
	"github.com/phroun/arbor/render"
	"github.com/phroun/arbor/revision"
)

// Options configures a REPL.
type Options struct {
	In        io.Reader
	Out       io.Writer
	Logger    *slog.Logger
	Initial   *arbor.Node[int]
	CacheSize int
}

// REPL holds the state of the interactive session
type REPL struct {
	log    *revision.Log[int]
	reader *bufio.Reader
	out    io.Writer
	logger *slog.Logger

	// Drawings keyed by root; roots are immutable so entries never go stale.
	drawings *lru.Cache[*arbor.Node[int], string]
}

// NewREPL creates a session over the given input and output.
func NewREPL(opts Options) (*REPL, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 64
	}
	drawings, err := lru.New[*arbor.Node[int], string](cacheSize)
	if err != nil {
		return nil, err
	}
	history, err := revision.New(revision.Options[int]{
		Name:    "repl",
		Initial: opts.Initial,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return &REPL{
		log:      history,
		reader:   bufio.NewReader(opts.In),
		out:      opts.Out,
		logger:   logger,
		drawings: drawings,
	}, nil
}

// Run reads commands until EOF or quit.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.out, "arbor> ")
		input, err := r.reader.ReadString('\n')
		if err != nil && input == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.handleCommand(input) {
			return nil
		}
	}
}

func (r *REPL) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	r.logger.Debug("command", "cmd", cmd, "args", args)

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case "insert":
		r.cmdInsert(args)

	case "upsert":
		r.cmdUpsert(args)

	case "remove":
		r.cmdRemove(args)

	case "find":
		r.cmdFind(args)

	case "append":
		r.cmdPush(args, arbor.Right)

	case "prepend":
		r.cmdPush(args, arbor.Left)

	case "insertat":
		r.cmdInsertAt(args)

	case "removeat":
		r.cmdRemoveAt(args)

	case "at":
		r.cmdAt(args, arbor.Left)

	case "rat":
		r.cmdAt(args, arbor.Right)

	case "first":
		r.cmdFurthest(arbor.Left)

	case "last":
		r.cmdFurthest(arbor.Right)

	case "path":
		r.cmdPath(args)

	case "list":
		r.cmdList()

	case "draw":
		r.cmdDraw()

	case "outline":
		fmt.Fprintln(r.out, render.Outline(r.log.Current(), render.Sprint[int]))

	case "stats":
		r.cmdStats()

	case "check":
		r.cmdCheck()

	case "tx", "transaction":
		r.cmdTransaction(args)

	case "undoseek", "undo":
		r.cmdUndoSeek(args)

	case "revisions":
		r.cmdRevisions()

	case "forks":
		r.cmdForks()

	case "forkswitch":
		r.cmdForkSwitch(args)

	case "version":
		r.cmdVersion()

	default:
		r.printf("Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

ORDERED SET (assumes the tree is kept sorted):
  insert <k>...           Insert keys, failing on duplicates
  upsert <k>...           Insert keys, replacing equal keys
  remove <k>...           Remove keys
  find <k>                Show whether a key is present and its rank

POSITIONAL (may break the ascending order the ordered set commands need):
  append <v>...           Add values at the right end
  prepend <v>...          Add values at the left end
  insertat <i> <v>        Insert a value so it lands at rank i
  removeat <i>            Remove the value at rank i
  at <i>                  Show the value at rank i from the left
  rat <i>                 Show the value at rank i from the right
  first, last             Show the extremal values

INSPECTION:
  path <k>                Show the root-to-key path
  list                    List all values in order
  draw                    Draw the tree
  outline                 Show the tree as an outline
  stats                   Show size, height and average depth
  check                   Verify cached sizes, heights and balance

VERSION CONTROL:
  tx start <name>         Start a transaction with optional name
  tx commit               Commit the current transaction
  tx rollback             Rollback the current transaction
  undoseek <revision>     Seek to a specific revision in current fork
  revisions               List revisions in current fork
  forks                   List all forks
  forkswitch <fork>       Switch to a different fork
  version                 Show current fork and revision

NOTE: Forks are created automatically when you edit from a non-HEAD revision.
      Use 'forkswitch' to navigate between existing forks.

OTHER:
  help                    Show this help message
  quit, exit              Exit the REPL
`
	fmt.Fprintln(r.out, help)
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", a)
		}
		out = append(out, v)
	}
	return out, nil
}

// edit applies one tree edit per value as its own revision.
func (r *REPL) edit(verb string, args []string, fn func(tree *arbor.Node[int], v int) (*arbor.Node[int], error)) {
	if len(args) < 1 {
		r.printf("Usage: %s <value>...\n", verb)
		return
	}
	values, err := parseInts(args)
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	for _, v := range values {
		result, err := r.log.Apply(fmt.Sprintf("%s %d", verb, v), func(tree *arbor.Node[int]) (*arbor.Node[int], error) {
			return fn(tree, v)
		})
		if err != nil {
			r.printf("%s %d: %v\n", verb, v, err)
			continue
		}
		r.printf("%s %d (fork=%d, revision=%d, size=%d)\n", verb, v, result.Fork, result.Revision, r.log.Current().Size())
	}
}

func (r *REPL) cmdInsert(args []string) {
	r.edit("insert", args, ordered.Insert[int])
}

func (r *REPL) cmdUpsert(args []string) {
	r.edit("upsert", args, func(tree *arbor.Node[int], v int) (*arbor.Node[int], error) {
		return ordered.Upsert(tree, v), nil
	})
}

func (r *REPL) cmdRemove(args []string) {
	r.edit("remove", args, ordered.Delete[int])
}

func (r *REPL) cmdPush(args []string, side arbor.Direction) {
	verb := "append"
	if side == arbor.Left {
		verb = "prepend"
	}
	defer r.warnIfUnordered(r.inOrder())
	r.edit(verb, args, func(tree *arbor.Node[int], v int) (*arbor.Node[int], error) {
		return arbor.InsertOrReplace(tree, arbor.FurthestInserter[int](side), v, arbor.ThrowIfFound)
	})
}

// inOrder reports whether the current tree is strictly ascending, which the
// ordered set commands depend on.
func (r *REPL) inOrder() bool {
	prev, first := 0, true
	for v := range arbor.All(r.log.Current()) {
		if !first && v <= prev {
			return false
		}
		prev, first = v, false
	}
	return true
}

// warnIfUnordered tells the user when a positional edit has just broken
// key order.
func (r *REPL) warnIfUnordered(wasOrdered bool) {
	if wasOrdered && !r.inOrder() {
		fmt.Fprintln(r.out, "Warning: values are no longer in ascending order; insert, upsert, remove, find and path will give wrong answers")
	}
}

func (r *REPL) cmdInsertAt(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "Usage: insertat <index> <value>")
		return
	}
	values, err := parseInts(args)
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	index := values[0]
	defer r.warnIfUnordered(r.inOrder())
	r.edit("insertat", args[1:], func(tree *arbor.Node[int], v int) (*arbor.Node[int], error) {
		return arbor.InsertAt(tree, index, v)
	})
}

func (r *REPL) cmdRemoveAt(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: removeat <index>")
		return
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		r.printf("Invalid index: %v\n", err)
		return
	}
	var removed int
	result, err := r.log.Apply(fmt.Sprintf("removeat %d", index), func(tree *arbor.Node[int]) (*arbor.Node[int], error) {
		res, err := arbor.RemoveAt(tree, index)
		if err != nil {
			return nil, err
		}
		removed = res.Removed.Content()
		return res.Tree, nil
	})
	if err != nil {
		r.printf("removeat %d: %v\n", index, err)
		return
	}
	r.printf("removed %d (fork=%d, revision=%d)\n", removed, result.Fork, result.Revision)
}

func (r *REPL) cmdFind(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: find <key>")
		return
	}
	key, err := strconv.Atoi(args[0])
	if err != nil {
		r.printf("Invalid key: %v\n", err)
		return
	}
	rank, found := ordered.Rank(r.log.Current(), key)
	if found {
		r.printf("%d found at rank %d\n", key, rank)
	} else {
		r.printf("%d not found; would be inserted at rank %d\n", key, rank)
	}
}

func (r *REPL) cmdAt(args []string, from arbor.Direction) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: at|rat <index>")
		return
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		r.printf("Invalid index: %v\n", err)
		return
	}
	tree := r.log.Current()
	var v int
	var ok bool
	if from == arbor.Left {
		v, ok = arbor.At(tree, index)
	} else {
		v, ok = arbor.AtFromRight(tree, index)
	}
	if !ok {
		r.printf("Index %d out of range (size %d)\n", index, tree.Size())
		return
	}
	r.printf("%d\n", v)
}

func (r *REPL) cmdFurthest(side arbor.Direction) {
	tree := r.log.Current()
	n := arbor.First(tree)
	if side == arbor.Right {
		n = arbor.Last(tree)
	}
	if n == nil {
		fmt.Fprintln(r.out, "Tree is empty")
		return
	}
	r.printf("%d\n", n.Content())
}

func (r *REPL) cmdPath(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: path <key>")
		return
	}
	key, err := strconv.Atoi(args[0])
	if err != nil {
		r.printf("Invalid key: %v\n", err)
		return
	}
	path, found := arbor.Path(r.log.Current(), ordered.Finder(key))
	var steps []string
	for n := range path.Reverse().All() {
		steps = append(steps, strconv.Itoa(n.Content()))
	}
	if len(steps) == 0 {
		fmt.Fprintln(r.out, "Tree is empty")
		return
	}
	suffix := ""
	if !found {
		suffix = " -> (empty)"
	}
	r.printf("%s%s\n", strings.Join(steps, " -> "), suffix)
}

func (r *REPL) cmdList() {
	tree := r.log.Current()
	var values []string
	for v := range arbor.All(tree) {
		values = append(values, strconv.Itoa(v))
	}
	r.printf("[%s] (%d values)\n", strings.Join(values, " "), tree.Size())
}

func (r *REPL) cmdDraw() {
	tree := r.log.Current()
	if drawing, ok := r.drawings.Get(tree); ok {
		fmt.Fprint(r.out, drawing)
		return
	}
	drawing := render.DrawAsText(tree, render.Sprint[int])
	if tree != nil {
		r.drawings.Add(tree, drawing)
	} else {
		drawing += "\n"
	}
	fmt.Fprint(r.out, drawing)
}

func (r *REPL) cmdStats() {
	tree := r.log.Current()
	fmt.Fprintln(r.out, "Tree Status:")
	r.printf("  Size: %d\n", tree.Size())
	r.printf("  Height: %d\n", tree.Height())
	r.printf("  Average depth: %.3f\n", arbor.AverageDepth(tree))
	r.printf("  Balance factor: %d\n", arbor.BalanceFactor(tree))
	r.printf("  Fork: %d, Revision: %d\n", r.log.CurrentFork(), r.log.CurrentRevision())
	r.printf("  In Transaction: %v (depth: %d)\n", r.log.InTransaction(), r.log.TransactionDepth())
}

func (r *REPL) cmdCheck() {
	if err := arbor.Validate(r.log.Current()); err != nil {
		r.printf("Check failed: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "OK")
}

func (r *REPL) cmdTransaction(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: tx start|commit|rollback [name]")
		return
	}

	switch strings.ToLower(args[0]) {
	case "start":
		name := strings.Join(args[1:], " ")
		if err := r.log.TransactionStart(name); err != nil {
			r.printf("Transaction start error: %v\n", err)
			return
		}
		r.printf("Transaction started (depth=%d, name=%q)\n", r.log.TransactionDepth(), name)

	case "commit":
		result, err := r.log.TransactionCommit()
		if err != nil {
			r.printf("Transaction commit error: %v\n", err)
			return
		}
		r.printf("Transaction committed. Now at fork=%d, revision=%d\n", result.Fork, result.Revision)

	case "rollback":
		if err := r.log.TransactionRollback(); err != nil {
			r.printf("Transaction rollback error: %v\n", err)
			return
		}
		r.printf("Transaction rolled back. Now at fork=%d, revision=%d\n", r.log.CurrentFork(), r.log.CurrentRevision())

	default:
		fmt.Fprintln(r.out, "Unknown transaction command. Use: start, commit, or rollback")
	}
}

func (r *REPL) cmdUndoSeek(args []string) {
	var rev revision.RevisionID
	switch len(args) {
	case 0:
		current := r.log.CurrentRevision()
		if current == 0 {
			fmt.Fprintln(r.out, "Already at revision 0")
			return
		}
		rev = current - 1
	default:
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			r.printf("Invalid revision number: %v\n", err)
			return
		}
		rev = revision.RevisionID(v)
	}

	if err := r.log.UndoSeek(rev); err != nil {
		r.printf("UndoSeek error: %v\n", err)
		return
	}
	r.printf("Now at fork=%d, revision=%d (size=%d)\n", r.log.CurrentFork(), r.log.CurrentRevision(), r.log.Current().Size())
}

func (r *REPL) cmdRevisions() {
	currentFork := r.log.CurrentFork()
	currentRev := r.log.CurrentRevision()
	forkInfo, err := r.log.GetForkInfo(currentFork)
	if err != nil {
		r.printf("Error getting fork: %v\n", err)
		return
	}

	r.printf("Fork %d - Revisions:\n", currentFork)

	revisions, err := r.log.GetRevisionRange(0, forkInfo.HighestRevision)
	if err != nil {
		r.printf("Error getting revisions: %v\n", err)
		return
	}

	for _, info := range revisions {
		marker := "  "
		if info.Revision == currentRev {
			marker = "> "
		}
		changes := ""
		if info.HasChanges {
			changes = " [has changes]"
		}
		name := info.Name
		if name == "" {
			name = "(unnamed)"
		}
		r.printf("%s%d: %s%s (size=%d)\n", marker, info.Revision, name, changes, info.Size)
	}
}

func (r *REPL) cmdForks() {
	current := r.log.CurrentFork()
	fmt.Fprintln(r.out, "Forks:")
	for _, f := range r.log.Forks() {
		marker := "  "
		if f.ID == current {
			marker = "> "
		}
		if f.ID == 0 {
			r.printf("%sfork 0: revisions 0-%d\n", marker, f.HighestRevision)
			continue
		}
		r.printf("%sfork %d: from fork %d at revision %d, revisions up to %d\n",
			marker, f.ID, f.ParentFork, f.ParentRevision, f.HighestRevision)
	}
}

func (r *REPL) cmdForkSwitch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: forkswitch <fork_id>")
		r.printf("Current fork: %d\n", r.log.CurrentFork())
		return
	}

	forkID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		r.printf("Invalid fork ID: %v\n", err)
		return
	}

	if err := r.log.ForkSeek(revision.ForkID(forkID)); err != nil {
		r.printf("ForkSeek error: %v\n", err)
		return
	}
	r.printf("Now at fork=%d, revision=%d\n", r.log.CurrentFork(), r.log.CurrentRevision())
}

func (r *REPL) cmdVersion() {
	r.printf("Current Fork: %d\n", r.log.CurrentFork())
	r.printf("Current Revision: %d\n", r.log.CurrentRevision())

	info, err := r.log.GetRevisionInfo(r.log.CurrentRevision())
	if err == nil && info != nil {
		r.printf("Revision Name: %q\n", info.Name)
		r.printf("Has Changes: %v\n", info.HasChanges)
	}
}
