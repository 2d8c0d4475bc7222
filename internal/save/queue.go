package save

import (
	"sync"

	"go.uber.org/atomic"

	"gsd/internal/models"
	"gsd/internal/providers"
)

// OperationQueue serializes persistence operations per record kind.
//
// The write protocol is not safe to run concurrently against the same
// primary/backup/temp file triple, so at most one operation per kind is in
// flight. Requests arriving while one runs are queued FIFO and started as
// the previous one completes; accepted requests are never dropped.
type OperationQueue struct {
	logger providers.Logger

	mu      sync.Mutex
	busy    map[models.RecordKind]bool
	pending map[models.RecordKind][]func()

	inFlight atomic.Bool // any game-data operation running
}

func NewOperationQueue(logger providers.Logger) *OperationQueue {
	return &OperationQueue{
		logger:  logger,
		busy:    make(map[models.RecordKind]bool),
		pending: make(map[models.RecordKind][]func()),
	}
}

// Enqueue runs op on the kind's lane, immediately when the lane is idle,
// otherwise after every previously accepted operation.
func (q *OperationQueue) Enqueue(kind models.RecordKind, op func()) {
	q.mu.Lock()
	if q.busy[kind] {
		q.pending[kind] = append(q.pending[kind], op)
		n := len(q.pending[kind])
		q.mu.Unlock()
		q.logger.Debugf(providers.TypeSave, "Operation for %s queued behind in-flight save (%d pending)", kind, n)
		return
	}
	q.busy[kind] = true
	if kind == models.KindGameData {
		q.inFlight.Store(true)
	}
	q.mu.Unlock()

	go q.run(kind, op)
}

// EnqueueWait enqueues op and blocks until it has completed. Used for
// quick saves and shutdown flushes that must not return early.
func (q *OperationQueue) EnqueueWait(kind models.RecordKind, op func()) {
	done := make(chan struct{})
	q.Enqueue(kind, func() {
		defer close(done)
		op()
	})
	<-done
}

// InFlight reports whether a game-data operation is currently running.
// The backup scheduler skips its tick while this is true.
func (q *OperationQueue) InFlight() bool {
	return q.inFlight.Load()
}

func (q *OperationQueue) run(kind models.RecordKind, op func()) {
	for {
		op()

		q.mu.Lock()
		next := q.pending[kind]
		if len(next) == 0 {
			q.busy[kind] = false
			if kind == models.KindGameData {
				q.inFlight.Store(false)
			}
			q.mu.Unlock()
			return
		}
		op = next[0]
		q.pending[kind] = next[1:]
		q.mu.Unlock()
	}
}
