package pool

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/volts-dev/pool/errors"
)

// collectStackTraceForNextReap is the process-wide leak capture flag. A
// reap that finds no captured stack arms it; the next borrow anywhere in
// the process clears it and snapshots its caller's stack onto the entry,
// which a later reap of that entry logs. Benign races are acceptable, at
// worst an extra stack gets captured.
var collectStackTraceForNextReap atomic.Bool

// entryListener is notified when an entry's proxy is closed. The pool
// registers itself as a non-owning listener on every entry it grows,
// this is the only edge from entry back to pool.
type entryListener interface {
	onEntryTerminated(e *entry)
}

// entry is one pooled entry: a wrapped back-end session plus its
// lifecycle flags, timestamps and listeners.
type entry struct {
	id          string
	backend     Backend
	maxLifetime time.Duration

	creationTime     time.Time
	lastTimeAcquired time.Time
	lastTimeReleased time.Time

	// acquireMu/beingAcquired implement the claim flag as a primitive
	// independent from mu, so the pool mutex never has to be held while
	// this flag transitions.
	acquireMu     sync.Mutex
	beingAcquired bool

	// mu serialises createConnectionProxy, destroy and fireTerminated;
	// held across backend I/O so only one goroutine ever works on this
	// entry's backend at a time.
	mu           sync.Mutex
	currentProxy interface{}
	destroyed    bool
	leakStack    []byte
	listeners    []entryListener
}

func newEntry(id string, b Backend, maxLifetime time.Duration) *entry {
	now := time.Now()
	return &entry{
		id:               id,
		backend:          b,
		maxLifetime:      maxLifetime,
		creationTime:     now,
		lastTimeAcquired: now,
		lastTimeReleased: now,
	}
}

// markAsBeingAcquiredIfAvailable atomically tests-and-sets the claim
// flag. An entry already claimed is rejected without touching the entry
// mutex; otherwise availability is read under the entry mutex, so the
// call waits while another goroutine holds it (for example across a
// destroy's backend I/O).
func (e *entry) markAsBeingAcquiredIfAvailable() bool {
	e.acquireMu.Lock()
	defer e.acquireMu.Unlock()

	if e.beingAcquired || !e.isAvailable() {
		return false
	}
	e.beingAcquired = true
	return true
}

func (e *entry) clearClaim() {
	e.acquireMu.Lock()
	e.beingAcquired = false
	e.acquireMu.Unlock()
}

// isAvailable is true iff no outstanding proxy and not destroyed. Kept as
// core entry logic, never delegated to the backend.
func (e *entry) isAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.destroyed && e.currentProxy == nil
}

// createConnectionProxy is called after a successful claim, or by the
// recycle path on an entry already affiliated with the caller. It is
// mutually exclusive per entry, fails on a destroyed entry, and clears
// the claim flag on every return path, after releasing the entry mutex.
func (e *entry) createConnectionProxy(ctx context.Context) (interface{}, error) {
	defer e.clearClaim()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return nil, errors.CreateConnection(e.id, errors.ErrShutdown)
	}

	if collectStackTraceForNextReap.CompareAndSwap(true, false) {
		e.leakStack = debug.Stack()
	}
	e.lastTimeAcquired = time.Now()

	if err := e.backend.TestConnection(); err != nil {
		return nil, errors.CreateConnection(e.id, err)
	}

	proxy, err := e.backend.CreateProxy(ctx, e.fireTerminated)
	if err != nil {
		return nil, errors.CreateConnection(e.id, err)
	}

	e.currentProxy = proxy
	return proxy, nil
}

// canBeRecycledForCallingThread delegates to the backend's optional
// Recycler capability; backends that don't implement it are never
// recyclable.
func (e *entry) canBeRecycledForCallingThread() bool {
	r, ok := e.backend.(Recycler)
	if !ok {
		return false
	}
	return r.Recyclable()
}

func (e *entry) registerListener(l entryListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

func (e *entry) unregisterListener(l entryListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, x := range e.listeners {
		if x == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// fireTerminated is invoked by the backend's proxy wrapper when the
// caller closes it. It frees the entry (clearing currentProxy) before
// notifying listeners, so a woken waiter's scan already sees it
// available.
func (e *entry) fireTerminated() {
	e.mu.Lock()
	e.currentProxy = nil
	listeners := append([]entryListener(nil), e.listeners...)
	e.mu.Unlock()

	for _, l := range listeners {
		l.onEntryTerminated(e)
	}

	e.mu.Lock()
	e.lastTimeReleased = time.Now()
	e.mu.Unlock()
}

// destroy is mutually exclusive per entry. reap=true forces destruction
// of an entry deemed leaked and logs/arms the leak-capture flag;
// reap=false is a no-op against anything but a currently-available entry,
// protecting in-flight work from concurrent shrink/eviction.
func (e *entry) destroy(reap bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return
	}

	if reap {
		if len(e.leakStack) > 0 {
			log.Warnf("reaping entry %s acquired at %s, leak stack:\n%s", e.id, e.lastTimeAcquired, e.leakStack)
			e.leakStack = nil
		} else {
			log.Warnf("reaping entry %s acquired at %s with no captured stack; arming capture for next reap", e.id, e.lastTimeAcquired)
			collectStackTraceForNextReap.Store(true)
		}
	} else if e.currentProxy != nil {
		return
	}

	if err := e.backend.Destroy(reap); err != nil {
		log.Err(err)
	}
	e.destroyed = true
}

func (e *entry) acquiredAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTimeAcquired
}

func (e *entry) releasedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTimeReleased
}

// maxLifetimeExceeded is true iff max_lifetime_ms > 0 and the entry was
// created longer ago than that.
func (e *entry) maxLifetimeExceeded() bool {
	if e.maxLifetime <= 0 {
		return false
	}
	return time.Now().After(e.creationTime.Add(e.maxLifetime))
}
