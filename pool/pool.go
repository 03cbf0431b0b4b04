// Package pool implements a generic, concurrency-safe pool of expensive,
// reusable back-end sessions: it bounds resource count, multiplexes a
// finite set of live sessions across concurrent borrowers, validates and
// recycles entries, and periodically reclaims leaked, idle or aged ones.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/volts-dev/pool/errors"
	"github.com/volts-dev/pool/logger"
)

var log = logger.New("Pool")

// Pool owns the entry collection and implements borrow/return, growth,
// wait/notify, destroy and refresh. Its mutex serialises every structural
// change to the collection, size queries, waiter notification and
// maintenance passes, but is never held across backend I/O (see
// entry.createConnectionProxy).
type Pool struct {
	config  *Config
	factory Factory

	mu        sync.Mutex
	cond      *sync.Cond
	entries   []*entry
	destroyed bool

	maintDone chan struct{}
}

// New builds a pool bound to factory and starts its maintenance
// scheduler. The pool does not pre-populate itself; the first
// maintenance tick (or an explicit Refresh) performs the initial top-up
// to MinPoolSize.
func New(factory Factory, opts ...Option) *Pool {
	p := &Pool{
		config:    NewConfig(opts...),
		factory:   factory,
		maintDone: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.runMaintenance()
	return p
}

// Borrow returns a backend-issued proxy, or fails with PoolExhausted or
// PoolClosed. Creation and proxy failures are logged and retried within
// the budget, never returned on their own.
func (p *Pool) Borrow(ctx context.Context) (interface{}, error) {
	name := p.config.UniqueResourceName

	if p.isDestroyed() {
		return nil, errors.PoolClosed(name)
	}

	if proxy, ok := p.tryRecycle(ctx); ok {
		return proxy, nil
	}

	deadline := time.Now().Add(p.config.BorrowTimeout)

	for {
		if p.isDestroyed() {
			return nil, errors.PoolClosed(name)
		}

		if proxy, err, ok := p.acquireFromExisting(ctx); ok {
			return proxy, err
		}

		if p.tryGrow(ctx) {
			if proxy, err, ok := p.acquireFromExisting(ctx); ok {
				return proxy, err
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, errors.PoolExhausted(name, p.config.BorrowTimeout)
		}
		if ctxDone(ctx) {
			return nil, errors.PoolExhausted(name, p.config.BorrowTimeout)
		}

		p.waitForAvailable(remaining)
	}
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// tryRecycle scans for the first entry already affiliated with the
// caller's unit of work (per the backend's Recycler capability).
// Recycle failures are logged and swallowed; the borrower falls through
// to normal acquisition.
func (p *Pool) tryRecycle(ctx context.Context) (interface{}, bool) {
	p.mu.Lock()
	candidates := append([]*entry(nil), p.entries...)
	p.mu.Unlock()

	for _, e := range candidates {
		if !e.canBeRecycledForCallingThread() {
			continue
		}
		proxy, err := e.createConnectionProxy(ctx)
		if err != nil {
			log.Dbgf("recycle attempt failed, falling back to normal acquisition: %v", err)
			continue
		}
		return proxy, true
	}
	return nil, false
}

// acquireFromExisting repeatedly claims the first available entry and
// creates its proxy until one succeeds or no claimable entry remains.
// An entry that fails proxy creation is removed and destroyed, and the
// scan continues, per-borrower, without coalescing failures.
func (p *Pool) acquireFromExisting(ctx context.Context) (proxy interface{}, err error, ok bool) {
	for {
		e := p.claimFirstAvailable()
		if e == nil {
			return nil, nil, false
		}

		proxy, err := e.createConnectionProxy(ctx)
		if err != nil {
			log.Warnf("failed to create connection proxy, entry removed: %v", err)
			e.destroy(false)
			p.removeEntry(e)
			continue
		}
		return proxy, nil, true
	}
}

func (p *Pool) claimFirstAvailable() *entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.markAsBeingAcquiredIfAvailable() {
			return e
		}
	}
	return nil
}

func (p *Pool) removeEntry(target *entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.entries {
		if e == target {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return
		}
	}
}

// tryGrow creates one new entry and inserts it, unless the pool is at
// MaxPoolSize or destroyed. Growth past MaxPoolSize is forbidden even
// transiently: the cap is rechecked after the (possibly slow) factory
// call, under the pool mutex, before inserting.
func (p *Pool) tryGrow(ctx context.Context) bool {
	if !p.canGrow() {
		return false
	}

	e, err := p.createEntry(ctx)
	if err != nil {
		log.Warnf("failed to grow pool: %v", err)
		return false
	}

	p.mu.Lock()
	if p.destroyed || len(p.entries) >= p.config.MaxPoolSize {
		p.mu.Unlock()
		e.destroy(false)
		return false
	}
	p.entries = append(p.entries, e)
	p.mu.Unlock()
	return true
}

func (p *Pool) canGrow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.destroyed && len(p.entries) < p.config.MaxPoolSize
}

func (p *Pool) createEntry(ctx context.Context) (*entry, error) {
	backend, err := p.factory(ctx)
	if err != nil {
		return nil, errors.CreateConnection(p.config.UniqueResourceName, err)
	}
	e := newEntry(uuid.New().String(), backend, p.config.MaxLifetime)
	e.registerListener(p)
	return e, nil
}

// waitForAvailable suspends the caller on the pool's condition for up to
// remaining. Go's sync.Cond has no deadline parameter, so a timer arms a
// Broadcast at expiry; Borrow recomputes its own remaining budget on
// every wake, spurious or real.
func (p *Pool) waitForAvailable(remaining time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return
	}

	timer := time.AfterFunc(remaining, func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	defer timer.Stop()

	p.cond.Wait()
}

// onEntryTerminated is the entryListener callback invoked when an entry's
// proxy closes, after the entry has released its own mutex. It wakes one
// waiter.
func (p *Pool) onEntryTerminated(e *entry) {
	p.mu.Lock()
	p.cond.Signal()
	p.mu.Unlock()
}

// Destroy is idempotent: marks the pool destroyed, destroys every entry
// (warning on any still in-use), stops the maintenance scheduler and
// drops the collection.
func (p *Pool) Destroy() {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.destroyed = true
	entries := p.entries
	p.entries = nil
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, e := range entries {
		if !e.isAvailable() {
			log.Warnf("destroying in-use entry %s during pool destroy", e.id)
			e.mu.Lock()
			e.currentProxy = nil
			e.mu.Unlock()
		}
		e.destroy(false)
	}

	close(p.maintDone)
}

// Refresh destroys every currently available entry (in-use ones are left
// alone) then tops up to MinPoolSize.
func (p *Pool) Refresh() {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	var toDestroy, remaining []*entry
	for _, e := range p.entries {
		if e.isAvailable() {
			toDestroy = append(toDestroy, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	p.entries = remaining
	p.mu.Unlock()

	for _, e := range toDestroy {
		e.destroy(false)
	}

	p.topUp(context.Background())
}

// TotalSize returns the current entry count, or 0 once destroyed.
func (p *Pool) TotalSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return 0
	}
	return len(p.entries)
}

// AvailableSize returns the count of entries currently available for
// borrow, or 0 once destroyed.
func (p *Pool) AvailableSize() int {
	p.mu.Lock()
	entries := append([]*entry(nil), p.entries...)
	destroyed := p.destroyed
	p.mu.Unlock()

	if destroyed {
		return 0
	}

	n := 0
	for _, e := range entries {
		if e.isAvailable() {
			n++
		}
	}
	return n
}

func (p *Pool) isDestroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroyed
}
