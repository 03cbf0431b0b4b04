package cacher

import (
	"time"

	extcacher "github.com/volts-dev/cacher"
	"github.com/volts-dev/pool/registry"
)

// ICacher wraps a registry with a TTL cache in front of its lookups, so a
// selector doing repeated Select() calls doesn't hit the backing registry
// on every call.
type ICacher interface {
	registry.IRegistry

	// Match looks a service up by endpoint rather than exact name, used
	// by selectors that key on HTTP/RPC endpoint instead of service name.
	Match(endpoint string) ([]*registry.Service, error)
	Stop()
}

type cache struct {
	registry.IRegistry

	ttl   time.Duration
	store *extcacher.Cacher
}

// New wraps r with a cache whose entry lifetime is taken from opts (see
// registry.RegisterTTL), defaulting to the package default when unset.
func New(r registry.IRegistry, opts ...registry.Option) ICacher {
	cfg := &registry.Config{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &cache{
		IRegistry: r,
		ttl:       ttl,
		store:     extcacher.New(),
	}
}

func (self *cache) GetService(name string) ([]*registry.Service, error) {
	if v, ok := self.store.Get(name); ok {
		if services, ok := v.([]*registry.Service); ok {
			return services, nil
		}
	}

	services, err := self.IRegistry.GetService(name)
	if err != nil {
		return nil, err
	}

	self.store.Set(name, services, self.ttl)
	return services, nil
}

// Match looks a service up by endpoint name; this cacher has no notion of
// endpoints beyond service name, so it degrades to GetService.
func (self *cache) Match(endpoint string) ([]*registry.Service, error) {
	return self.GetService(endpoint)
}

func (self *cache) Stop() {
	self.store.Flush()
}
