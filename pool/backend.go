package pool

import "context"

// Backend is the capability set a back-end session must satisfy. It is
// the external collaborator that knows how to open, probe and tear down
// one concrete kind of resource (a database connection, a transactional
// resource, a raw socket). The pool core only ever holds a Backend
// value, never a concrete type.
type Backend interface {
	// CreateProxy builds the user-facing handle returned from Borrow.
	// Called with the entry's mutex held; may perform backend I/O. The
	// proxy must invoke onClose exactly once, when the caller is done
	// with it, so the entry can fire its termination notification.
	CreateProxy(ctx context.Context, onClose func()) (interface{}, error)

	// TestConnection probes liveness before a proxy is handed out.
	TestConnection() error

	// Destroy tears the backend down. reap is true when the entry is
	// being forcibly reclaimed rather than voluntarily retired.
	Destroy(reap bool) error
}

// Recycler is an optional capability: a Backend implementing it can be
// handed back to the same caller without going through the normal
// availability scan. A Backend that doesn't implement it is never
// recyclable.
type Recycler interface {
	Recyclable() bool
}

// Factory opens a new back-end session in state "available".
type Factory func(ctx context.Context) (Backend, error)
