package pixelcache

// config.go defines the internal configuration object and the functional
// options New() accepts: all fields get sane defaults, options never
// allocate unless strictly necessary, and the struct itself is never
// exposed — callers can only reach it through Option. There is no
// WeightFn/EjectCallback knob here: pixelcache entries have no user-defined weight
// function (their "weight" is the policy-managed age/pin integer, §4.3)
// and no eviction callback, because a victim entry is reused in place, not
// destroyed (§3 I1) — there is nothing for a callback to observe.
//
// © 2025 pixelcache authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// config bundles every knob that influences cache behaviour.
type config struct {
	name               string
	registry           *prometheus.Registry
	logger             *zap.Logger
	growthLogThreshold int64
}

// Option is a functional option passed to New.
type Option func(*config)

func defaultConfig() *config {
	return &config{
		name:   "default",
		logger: zap.NewNop(),
	}
}

// WithName sets the cache's diagnostic name, used as a metrics label and in
// Print() output. Useful when a host runs several caches (one per open
// image) and wants to tell them apart on a dashboard.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger plugs an external zap.Logger. The cache never logs on the hot
// path (Get/Available); only slow events — construction failure and buffer
// growth — are emitted. An allocation failure during Get is returned to the
// caller, not logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection for the cache instance.
// Not calling this option (or passing nil) disables metrics; the cache
// then uses a no-op sink and pays nothing extra per lookup.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithGrowthLogThreshold sets the buffer size, in bytes, at or above which a
// growth is logged: a growth is logged when the entry's new size is at
// least this value. The default, 0, logs every growth; hosts
// that resize viewports frequently may want to raise this to avoid log
// spam from routine zoom-level changes.
func WithGrowthLogThreshold(bytes int64) Option {
	return func(c *config) {
		c.growthLogThreshold = bytes
	}
}

func applyOptions(cfg *config, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
}
