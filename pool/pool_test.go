package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeProxy struct {
	closed  int32
	onClose func()
}

func (p *fakeProxy) Close() {
	if atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		p.onClose()
	}
}

type fakeBackend struct {
	mu        sync.Mutex
	failTest  bool
	destroyed bool
	reaped    bool
}

func (b *fakeBackend) CreateProxy(ctx context.Context, onClose func()) (interface{}, error) {
	return &fakeProxy{onClose: onClose}, nil
}

func (b *fakeBackend) TestConnection() error {
	if b.failTest {
		return errors.New("probe failed")
	}
	return nil
}

func (b *fakeBackend) Destroy(reap bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyed = true
	b.reaped = reap
	return nil
}

// countingFactory returns a Factory counting successful creations and,
// when failFirstN > 0, failing the first failFirstN attempts.
func countingFactory(created *int64, failFirstN int32) Factory {
	var attempts int32
	return func(ctx context.Context) (Backend, error) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= failFirstN {
			return nil, errors.New("dial failed")
		}
		atomic.AddInt64(created, 1)
		return &fakeBackend{}, nil
	}
}

func TestBorrowGrowsToMaxThenExhausts(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0), MaxPoolSize(4), BorrowTimeout(time.Second))
	defer p.Destroy()

	ctx := context.Background()
	proxies := make([]interface{}, 4)
	for i := 0; i < 4; i++ {
		proxy, err := p.Borrow(ctx)
		if err != nil {
			t.Fatalf("borrow %d: %v", i, err)
		}
		proxies[i] = proxy
	}

	if got := p.TotalSize(); got != 4 {
		t.Fatalf("total size = %d, want 4", got)
	}

	start := time.Now()
	_, err := p.Borrow(ctx)
	if err == nil {
		t.Fatal("expected PoolExhausted, got nil")
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Fatalf("exhausted too early: %s", elapsed)
	}
}

func TestBorrowWakesOnReturn(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0), MaxPoolSize(2), BorrowTimeout(5*time.Second))
	defer p.Destroy()

	ctx := context.Background()
	a, err := p.Borrow(ctx)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Borrow(ctx)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		if _, err := p.Borrow(ctx); err != nil {
			t.Error(err)
		}
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	a.(*fakeProxy).Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter never woke after return")
	}
}

func TestMaxLifetimeEviction(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0),
		MinPoolSize(1), MaxPoolSize(3),
		MaxLifetime(50*time.Millisecond),
		MaintenanceInterval(20*time.Millisecond),
	)
	defer p.Destroy()

	p.Refresh()
	if got := p.TotalSize(); got != 1 {
		t.Fatalf("total size after refresh = %d, want 1", got)
	}

	time.Sleep(200 * time.Millisecond)

	if got := atomic.LoadInt64(&created); got < 2 {
		t.Fatalf("expected the aged entry to be replaced, created=%d", got)
	}
	if got := p.TotalSize(); got != 1 {
		t.Fatalf("total size after eviction+topup = %d, want 1", got)
	}
}

func TestReapInUse(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0),
		MaxPoolSize(2),
		ReapTimeout(50*time.Millisecond),
		MaintenanceInterval(20*time.Millisecond),
	)
	defer p.Destroy()

	ctx := context.Background()
	if _, err := p.Borrow(ctx); err != nil {
		t.Fatal(err)
	}
	if got := p.TotalSize(); got != 1 {
		t.Fatalf("total size = %d, want 1", got)
	}

	time.Sleep(250 * time.Millisecond)

	if got := p.TotalSize(); got != 0 {
		t.Fatalf("leaked entry should have been reaped, total size = %d", got)
	}
}

func TestGrowthRetriesAfterFactoryFailure(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 1), MaxPoolSize(1), BorrowTimeout(time.Second))
	defer p.Destroy()

	proxy, err := p.Borrow(context.Background())
	if err != nil {
		t.Fatalf("borrow should succeed on retry: %v", err)
	}
	if proxy == nil {
		t.Fatal("expected a proxy")
	}
	if got := p.TotalSize(); got != 1 {
		t.Fatalf("total size = %d, want 1", got)
	}
}

func TestRefreshRecreatesAvailableEntries(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0), MinPoolSize(2), MaxPoolSize(2))
	defer p.Destroy()

	p.Refresh()
	if got := p.TotalSize(); got != 2 {
		t.Fatalf("total size = %d, want 2", got)
	}
	first := atomic.LoadInt64(&created)

	p.Refresh()
	if got := p.TotalSize(); got != 2 {
		t.Fatalf("total size after second refresh = %d, want 2", got)
	}
	if atomic.LoadInt64(&created) != first+2 {
		t.Fatalf("refresh should destroy+recreate both available entries")
	}
}

func TestClaimFlagExclusive(t *testing.T) {
	e := newEntry("e1", &fakeBackend{}, 0)

	const n = 50
	var wins int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if e.markAsBeingAcquiredIfAvailable() {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestBorrowCloseRoundTripLeavesSizeUnchanged(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0), MaxPoolSize(2))
	defer p.Destroy()

	for i := 0; i < 3; i++ {
		proxy, err := p.Borrow(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got := p.TotalSize(); got != 1 {
			t.Fatalf("iteration %d: total size = %d, want 1", i, got)
		}
		proxy.(*fakeProxy).Close()
	}
	if got := p.TotalSize(); got != 1 {
		t.Fatalf("total size = %d, want 1", got)
	}
}

func TestDestroyIsIdempotentAndFailsFutureBorrows(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0), MaxPoolSize(2))

	if _, err := p.Borrow(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.Destroy()
	p.Destroy() // must not panic or block

	if _, err := p.Borrow(context.Background()); err == nil {
		t.Fatal("expected PoolClosed after destroy")
	}
	if got := p.AvailableSize(); got != 0 {
		t.Fatalf("available size after destroy = %d, want 0", got)
	}
	if got := p.TotalSize(); got != 0 {
		t.Fatalf("total size after destroy = %d, want 0", got)
	}
}

func TestBorrowTimeoutZeroFailsImmediatelyWhenFull(t *testing.T) {
	var created int64
	p := New(countingFactory(&created, 0), MaxPoolSize(1), BorrowTimeout(0))
	defer p.Destroy()

	if _, err := p.Borrow(context.Background()); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if _, err := p.Borrow(context.Background()); err == nil {
		t.Fatal("expected PoolExhausted")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("borrow_timeout=0 should fail immediately, took %s", elapsed)
	}
}
