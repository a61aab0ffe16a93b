package revision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var revisionsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_revisions_committed_total",
	Help: "Number of revisions committed to a revision log",
}, []string{"log"})

var editsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_revision_edits_failed_total",
	Help: "Number of edits rejected by the tree engine",
}, []string{"log"})

var transactionsRolledBack = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_revision_transactions_rolled_back_total",
	Help: "Number of outermost transactions rolled back, including poisoned commits",
}, []string{"log"})

var forksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_revision_forks_created_total",
	Help: "Number of forks created by editing from an earlier revision",
}, []string{"log"})

var currentTreeSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "arbor_revision_current_tree_size",
	Help: "Number of nodes in the current tree of a revision log",
}, []string{"log"})
