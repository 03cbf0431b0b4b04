package pool

import (
	"context"
	"time"
)

// runMaintenance is the pool's maintenance scheduler: a single periodic
// task, stopped by Destroy(), that performs one tick every
// MaintenanceInterval.
func (p *Pool) runMaintenance() {
	ticker := time.NewTicker(p.config.MaintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.maintDone:
			return
		case <-ticker.C:
			p.maintenanceTick()
		}
	}
}

// maintenanceTick performs, in order: reap-in-use, max-lifetime
// eviction, top-up, shrink-idle. Each step acquires the pool mutex only
// for the duration of its scan/structural-edit, never across backend
// destroy I/O.
func (p *Pool) maintenanceTick() {
	if p.isDestroyed() {
		return
	}

	p.reapInUse()
	p.evictMaxLifetime()
	p.topUp(context.Background())
	p.shrinkIdle()
}

// reapInUse forcibly destroys entries that have been in-use longer than
// ReapTimeout, the mechanism for leak recovery. Disabled when
// ReapTimeout <= 0.
func (p *Pool) reapInUse() {
	if p.config.ReapTimeout <= 0 {
		return
	}
	now := time.Now()

	p.mu.Lock()
	var toReap, remaining []*entry
	for _, e := range p.entries {
		if !e.isAvailable() && now.Sub(e.acquiredAt()) > p.config.ReapTimeout {
			toReap = append(toReap, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	p.entries = remaining
	p.mu.Unlock()

	for _, e := range toReap {
		e.destroy(true)
	}
}

// evictMaxLifetime destroys available entries whose age exceeds
// MaxLifetime. Disabled when MaxLifetime <= 0 (entry.maxLifetimeExceeded
// is always false in that case).
func (p *Pool) evictMaxLifetime() {
	p.mu.Lock()
	var toEvict, remaining []*entry
	for _, e := range p.entries {
		if e.isAvailable() && e.maxLifetimeExceeded() {
			toEvict = append(toEvict, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	p.entries = remaining
	p.mu.Unlock()

	for _, e := range toEvict {
		e.destroy(false)
	}
}

// topUp creates entries until the pool reaches MinPoolSize. A factory
// failure is logged and breaks the loop; it is retried on the next tick
// (or the next explicit Refresh).
func (p *Pool) topUp(ctx context.Context) {
	for {
		p.mu.Lock()
		needed := !p.destroyed && len(p.entries) < p.config.MinPoolSize
		p.mu.Unlock()
		if !needed {
			return
		}

		e, err := p.createEntry(ctx)
		if err != nil {
			log.Warnf("top-up failed: %v", err)
			return
		}

		p.mu.Lock()
		if p.destroyed || len(p.entries) >= p.config.MinPoolSize {
			p.mu.Unlock()
			e.destroy(false)
			return
		}
		p.entries = append(p.entries, e)
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}

// shrinkIdle destroys up to (total - MinPoolSize) available entries that
// have been idle at least MaxIdleTime. Disabled when MaxIdleTime <= 0.
func (p *Pool) shrinkIdle() {
	if p.config.MaxIdleTime <= 0 {
		return
	}
	now := time.Now()

	p.mu.Lock()
	removable := len(p.entries) - p.config.MinPoolSize
	if removable <= 0 {
		p.mu.Unlock()
		return
	}

	var toShrink, remaining []*entry
	for _, e := range p.entries {
		if len(toShrink) < removable && e.isAvailable() && now.Sub(e.releasedAt()) >= p.config.MaxIdleTime {
			toShrink = append(toShrink, e)
			continue
		}
		remaining = append(remaining, e)
	}
	p.entries = remaining
	p.mu.Unlock()

	for _, e := range toShrink {
		e.destroy(false)
	}
}
