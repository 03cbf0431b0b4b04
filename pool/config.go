package pool

import (
	"time"

	"github.com/volts-dev/pool/config"
)

type (
	Option func(*Config)

	// Config is the read-only bag of tuning parameters consumed by the
	// entry, the pool manager and the maintenance scheduler.
	Config struct {
		config.Config `field:"-"`

		// UniqueResourceName is the Id of the errors the pool returns and
		// part of the config-reload registry key (see String()). Log lines
		// do not carry it.
		UniqueResourceName string `field:"unique_resource_name"`

		MinPoolSize         int           `field:"min_pool_size"`
		MaxPoolSize         int           `field:"max_pool_size"`
		BorrowTimeout       time.Duration `field:"borrow_timeout"`
		MaxIdleTime         time.Duration `field:"max_idle_time"`
		ReapTimeout         time.Duration `field:"reap_timeout"`
		MaxLifetime         time.Duration `field:"max_lifetime"`
		MaintenanceInterval time.Duration `field:"maintenance_interval"`
		TestQuery           string        `field:"test_query"`
	}
)

func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Config:              *config.New(),
		MaxPoolSize:         10,
		BorrowTimeout:       30 * time.Second,
		MaintenanceInterval: 60 * time.Second,
	}
	cfg.Init(opts...)

	if cfg.MaintenanceInterval <= 0 {
		cfg.MaintenanceInterval = 60 * time.Second
	}

	config.Register(cfg)
	return cfg
}

func (self *Config) Init(opts ...Option) {
	for _, o := range opts {
		if o != nil {
			o(self)
		}
	}
}

func (self *Config) String() string {
	if self.UniqueResourceName != "" {
		return "pool." + self.UniqueResourceName
	}
	return "pool"
}

func (self *Config) Load() error {
	return self.LoadToModel(self)
}

func (self *Config) Save() error {
	return self.SaveFromModel(self)
}

func UniqueResourceName(name string) Option {
	return func(cfg *Config) { cfg.UniqueResourceName = name }
}

func MinPoolSize(n int) Option {
	return func(cfg *Config) { cfg.MinPoolSize = n }
}

func MaxPoolSize(n int) Option {
	return func(cfg *Config) { cfg.MaxPoolSize = n }
}

func BorrowTimeout(d time.Duration) Option {
	return func(cfg *Config) { cfg.BorrowTimeout = d }
}

func MaxIdleTime(d time.Duration) Option {
	return func(cfg *Config) { cfg.MaxIdleTime = d }
}

func ReapTimeout(d time.Duration) Option {
	return func(cfg *Config) { cfg.ReapTimeout = d }
}

func MaxLifetime(d time.Duration) Option {
	return func(cfg *Config) { cfg.MaxLifetime = d }
}

func MaintenanceInterval(d time.Duration) Option {
	return func(cfg *Config) { cfg.MaintenanceInterval = d }
}

func TestQuery(q string) Option {
	return func(cfg *Config) { cfg.TestQuery = q }
}
