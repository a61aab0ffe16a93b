// Package revision keeps a history of persistent arbor trees with undo,
// forks and nested transactions.
//
// Because every tree version is immutable and shares structure with its
// neighbours, recording a revision costs one root pointer. Seeking back to
// an old revision and editing from there starts a new fork that inherits
// the revisions up to that point; the abandoned future stays reachable
// through its own fork.
//
// The tree engine has no notion of a "latest" version. A Log is the single
// writer-serialised reference to one: edits run under its lock, and the
// trees it hands out can be read concurrently without any locking.
package revision

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phroun/arbor"
)

// ForkID uniquely identifies a fork within a Log.
type ForkID uint64

// RevisionID identifies a revision within a fork.
type RevisionID uint64

// ForkRevision is a composite key for looking up versioned state.
type ForkRevision struct {
	Fork     ForkID
	Revision RevisionID
}

// ForkInfo contains metadata about a fork.
type ForkInfo struct {
	ID              ForkID
	ParentFork      ForkID
	ParentRevision  RevisionID // revision at which this fork split from parent
	HighestRevision RevisionID
}

// RevisionInfo contains metadata about a revision for undo history display.
type RevisionInfo struct {
	Revision   RevisionID
	Name       string // from TransactionStart or Apply
	HasChanges bool   // true if actual edits occurred
	Size       int    // number of nodes in the tree at this revision
}

// ChangeResult contains version information after an edit.
type ChangeResult struct {
	Fork     ForkID
	Revision RevisionID
}

// EditFunc derives a new tree from the current one. Returning an error
// discards the edit.
type EditFunc[T any] func(tree *arbor.Node[T]) (*arbor.Node[T], error)

// Options configures a Log.
type Options[T any] struct {
	// Name labels the log in metrics and log lines.
	Name string

	// Initial is the tree at fork 0, revision 0. Nil starts empty.
	Initial *arbor.Node[T]

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger

	// ResolveCacheSize bounds the cache of inherited revision lookups.
	// Defaults to 256.
	ResolveCacheSize int
}

// transactionState holds the state of an active transaction.
type transactionState[T any] struct {
	depth    int    // nesting depth
	name     string // from outermost TransactionStart
	poisoned bool   // whether any inner transaction rolled back

	// Pre-transaction state for rollback
	preTransactionRoot *arbor.Node[T]
	preTransactionFork ForkID
	preTransactionRev  RevisionID

	hasMutations bool
}

// Log is a versioned history of trees.
type Log[T any] struct {
	name   string
	logger *slog.Logger

	mu sync.RWMutex

	// Working tree; differs from the recorded revision only inside a transaction.
	current *arbor.Node[T]

	currentFork     ForkID
	currentRevision RevisionID

	// Trees recorded by each fork. Inherited revisions live under the parent's key.
	roots        map[ForkRevision]*arbor.Node[T]
	revisionInfo map[ForkRevision]*RevisionInfo
	forks        map[ForkID]*ForkInfo
	nextForkID   ForkID

	// Maps a requested version to the key it is stored under.
	resolved *lru.Cache[ForkRevision, ForkRevision]

	transaction *transactionState[T]
}

// New creates a Log whose fork 0, revision 0 holds opts.Initial.
func New[T any](opts Options[T]) (*Log[T], error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cacheSize := opts.ResolveCacheSize
	if cacheSize <= 0 {
		cacheSize = 256
	}
	resolved, err := lru.New[ForkRevision, ForkRevision](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating resolve cache: %w", err)
	}

	l := &Log[T]{
		name:         opts.Name,
		logger:       logger.With("log", opts.Name),
		current:      opts.Initial,
		roots:        make(map[ForkRevision]*arbor.Node[T]),
		revisionInfo: make(map[ForkRevision]*RevisionInfo),
		forks:        make(map[ForkID]*ForkInfo),
		nextForkID:   1,
		resolved:     resolved,
	}

	key := ForkRevision{0, 0}
	l.roots[key] = opts.Initial
	l.revisionInfo[key] = &RevisionInfo{
		Revision: 0,
		Name:     "initial",
		Size:     opts.Initial.Size(),
	}
	l.forks[0] = &ForkInfo{
		ID:              0,
		ParentFork:      0,
		ParentRevision:  0,
		HighestRevision: 0,
	}
	currentTreeSize.WithLabelValues(l.name).Set(float64(opts.Initial.Size()))
	return l, nil
}

// Current returns the working tree.
func (l *Log[T]) Current() *arbor.Node[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// CurrentFork returns the fork being edited.
func (l *Log[T]) CurrentFork() ForkID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentFork
}

// CurrentRevision returns the revision the working tree was last recorded at.
func (l *Log[T]) CurrentRevision() RevisionID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentRevision
}

// InTransaction returns true if any transaction is active.
func (l *Log[T]) InTransaction() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.transaction != nil
}

// TransactionDepth returns the current nesting depth (0 = no active transaction).
func (l *Log[T]) TransactionDepth() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.transaction == nil {
		return 0
	}
	return l.transaction.depth
}

// Apply runs fn on the working tree. Outside a transaction a successful
// edit becomes a new revision named name; inside one it only replaces the
// working tree until the outermost commit. An error from fn leaves the log
// unchanged and is returned as is.
func (l *Log[T]) Apply(name string, fn EditFunc[T]) (ChangeResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, err := fn(l.current)
	if err != nil {
		editsFailed.WithLabelValues(l.name).Inc()
		return ChangeResult{Fork: l.currentFork, Revision: l.currentRevision}, err
	}
	l.current = next
	currentTreeSize.WithLabelValues(l.name).Set(float64(next.Size()))

	if l.transaction != nil {
		l.transaction.hasMutations = true
		return ChangeResult{Fork: l.currentFork, Revision: l.currentRevision + 1}, nil
	}
	return l.recordRevision(name, true), nil
}

// recordRevision stores the working tree as the next revision, starting a
// new fork first if the current revision is not the fork's newest.
// Caller must hold the write lock.
func (l *Log[T]) recordRevision(name string, hasChanges bool) ChangeResult {
	forkInfo := l.forks[l.currentFork]
	if l.currentRevision < forkInfo.HighestRevision {
		l.startFork()
		forkInfo = l.forks[l.currentFork]
	}

	l.currentRevision++
	if l.currentRevision > forkInfo.HighestRevision {
		forkInfo.HighestRevision = l.currentRevision
	}

	key := ForkRevision{l.currentFork, l.currentRevision}
	l.roots[key] = l.current
	l.revisionInfo[key] = &RevisionInfo{
		Revision:   l.currentRevision,
		Name:       name,
		HasChanges: hasChanges,
		Size:       l.current.Size(),
	}
	revisionsCommitted.WithLabelValues(l.name).Inc()

	return ChangeResult{Fork: l.currentFork, Revision: l.currentRevision}
}

// startFork branches off the current fork at the current revision.
// Caller must hold the write lock.
func (l *Log[T]) startFork() {
	id := l.nextForkID
	l.nextForkID++
	l.forks[id] = &ForkInfo{
		ID:              id,
		ParentFork:      l.currentFork,
		ParentRevision:  l.currentRevision,
		HighestRevision: l.currentRevision,
	}
	l.logger.Debug("created fork", "fork", id, "parent", l.currentFork, "revision", l.currentRevision)
	forksCreated.WithLabelValues(l.name).Inc()
	l.currentFork = id
}

// TransactionStart begins a new transaction with an optional descriptive name.
func (l *Log[T]) TransactionStart(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.transaction == nil {
		// First level: create new transaction state
		l.transaction = &transactionState[T]{
			depth:              1,
			name:               name,
			preTransactionRoot: l.current,
			preTransactionFork: l.currentFork,
			preTransactionRev:  l.currentRevision,
		}
	} else {
		// Nested: just increment depth
		l.transaction.depth++
	}
	return nil
}

// TransactionCommit commits the current transaction. The outermost commit
// always creates a new revision, even without edits.
func (l *Log[T]) TransactionCommit() (ChangeResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.transaction == nil {
		return ChangeResult{}, ErrNoTransaction
	}

	l.transaction.depth--

	if l.transaction.depth > 0 {
		// Inner commit: just decrement, don't finalize
		return ChangeResult{Fork: l.currentFork, Revision: l.currentRevision}, nil
	}

	if l.transaction.poisoned {
		l.rollbackToPreTransaction()
		l.transaction = nil
		return ChangeResult{}, ErrTransactionPoisoned
	}

	result := l.recordRevision(l.transaction.name, l.transaction.hasMutations)
	l.transaction = nil
	return result, nil
}

// TransactionRollback discards all edits in the current transaction. An
// inner rollback poisons the transaction so the outermost commit fails.
func (l *Log[T]) TransactionRollback() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.transaction == nil {
		return ErrNoTransaction
	}

	l.transaction.poisoned = true
	l.transaction.depth--

	if l.transaction.depth == 0 {
		// Outermost level: perform actual rollback
		l.rollbackToPreTransaction()
		l.transaction = nil
	}
	// Inner level: poison flag will cause outer commit to rollback

	return nil
}

// rollbackToPreTransaction restores state to before the transaction.
func (l *Log[T]) rollbackToPreTransaction() {
	l.current = l.transaction.preTransactionRoot
	l.currentFork = l.transaction.preTransactionFork
	l.currentRevision = l.transaction.preTransactionRev
	currentTreeSize.WithLabelValues(l.name).Set(float64(l.current.Size()))
	transactionsRolledBack.WithLabelValues(l.name).Inc()
}

// UndoSeek moves the working tree to another revision of the current fork.
// Editing afterwards from an earlier revision starts a new fork.
func (l *Log[T]) UndoSeek(rev RevisionID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.transaction != nil {
		return ErrTransactionPending
	}
	if rev == l.currentRevision {
		return nil
	}
	if rev > l.forks[l.currentFork].HighestRevision {
		return ErrRevisionNotFound
	}

	key, ok := l.resolve(ForkRevision{l.currentFork, rev})
	if !ok {
		return ErrRevisionNotFound
	}
	l.current = l.roots[key]
	l.currentRevision = rev
	currentTreeSize.WithLabelValues(l.name).Set(float64(l.current.Size()))
	return nil
}

// ForkSeek switches to the newest revision of another fork.
func (l *Log[T]) ForkSeek(fork ForkID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.transaction != nil {
		return ErrTransactionPending
	}
	forkInfo, ok := l.forks[fork]
	if !ok {
		return ErrForkNotFound
	}
	if fork == l.currentFork {
		return nil
	}

	key, ok := l.resolve(ForkRevision{fork, forkInfo.HighestRevision})
	if !ok {
		return ErrRevisionNotFound
	}
	l.current = l.roots[key]
	l.currentFork = fork
	l.currentRevision = forkInfo.HighestRevision
	currentTreeSize.WithLabelValues(l.name).Set(float64(l.current.Size()))
	return nil
}

// At returns the tree recorded at the given fork and revision, including
// revisions the fork inherited from its parents.
func (l *Log[T]) At(fork ForkID, rev RevisionID) (*arbor.Node[T], error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.forks[fork]; !ok {
		return nil, ErrForkNotFound
	}
	key, ok := l.resolve(ForkRevision{fork, rev})
	if !ok {
		return nil, ErrRevisionNotFound
	}
	return l.roots[key], nil
}

// resolve finds the key a version is stored under, following parent forks
// for inherited revisions. Caller must hold the lock.
func (l *Log[T]) resolve(want ForkRevision) (ForkRevision, bool) {
	if _, ok := l.roots[want]; ok {
		return want, true
	}
	if key, ok := l.resolved.Get(want); ok {
		return key, true
	}

	key := want
	for {
		forkInfo, ok := l.forks[key.Fork]
		if !ok || key.Revision > forkInfo.HighestRevision {
			return ForkRevision{}, false
		}
		if _, ok := l.roots[key]; ok {
			l.resolved.Add(want, key)
			return key, true
		}
		if key.Fork == 0 || key.Revision > forkInfo.ParentRevision {
			return ForkRevision{}, false
		}
		key.Fork = forkInfo.ParentFork
	}
}

// GetRevisionInfo returns information about a specific revision of the
// current fork.
func (l *Log[T]) GetRevisionInfo(rev RevisionID) (*RevisionInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	key, ok := l.resolve(ForkRevision{l.currentFork, rev})
	if !ok {
		return nil, ErrRevisionNotFound
	}
	info := *l.revisionInfo[key]
	return &info, nil
}

// GetRevisionRange returns info for revisions in [start, end] inclusive.
func (l *Log[T]) GetRevisionRange(start, end RevisionID) ([]RevisionInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Nothing resolves past the fork's newest revision, and clamping keeps
	// rev from wrapping when end is the largest RevisionID.
	end = min(end, l.forks[l.currentFork].HighestRevision)

	var result []RevisionInfo
	for rev := start; rev <= end; rev++ {
		if key, ok := l.resolve(ForkRevision{l.currentFork, rev}); ok {
			result = append(result, *l.revisionInfo[key])
		}
	}
	return result, nil
}

// GetForkInfo returns metadata about a fork.
func (l *Log[T]) GetForkInfo(fork ForkID) (ForkInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	forkInfo, ok := l.forks[fork]
	if !ok {
		return ForkInfo{}, ErrForkNotFound
	}
	return *forkInfo, nil
}

// Forks returns metadata about every fork, ordered by ID.
func (l *Log[T]) Forks() []ForkInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ForkInfo, 0, len(l.forks))
	for _, forkInfo := range l.forks {
		out = append(out, *forkInfo)
	}
	slices.SortFunc(out, func(a, b ForkInfo) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}
