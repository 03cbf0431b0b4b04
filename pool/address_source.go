package pool

import (
	"context"

	"github.com/volts-dev/pool/selector"
)

// AddressSource resolves one backend node address for a Factory to dial.
// It is an external collaborator the example backend depends on, not the
// pool core itself, since the pool has no business knowing how its
// back-end addresses are discovered.
type AddressSource func(ctx context.Context) (string, error)

// StaticAddressSource always resolves to addr, for callers that don't
// need service discovery.
func StaticAddressSource(addr string) AddressSource {
	return func(ctx context.Context) (string, error) {
		return addr, nil
	}
}

// SelectorAddressSource adapts a selector.ISelector (backed by a
// registry.IRegistry, e.g. the memory or etcd driver) into an
// AddressSource, so the example backend can grow the pool against a
// discovered backend fleet instead of one fixed address.
func SelectorAddressSource(sel selector.ISelector, service string) AddressSource {
	return func(ctx context.Context) (string, error) {
		next, err := sel.Select(service)
		if err != nil {
			return "", err
		}
		node, err := next()
		if err != nil {
			return "", err
		}
		return node.Address, nil
	}
}
