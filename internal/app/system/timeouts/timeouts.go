// Package timeouts holds the deadlines handlers put on MongoDB and Redis work.
//
//   - Ping: health checks
//   - Short: single-document reads and lookups
//   - Medium: list queries, counts and writes
//   - Long: multi-collection work such as badge minting and schema setup
package timeouts

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// Config is one set of deadlines. Zero fields mean "keep the current value"
// when passed to Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

func defaults() Config {
	return Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

var current atomic.Pointer[Config]

func init() { Reset() }

func Ping() time.Duration   { return current.Load().Ping }
func Short() time.Duration  { return current.Load().Short }
func Medium() time.Duration { return current.Load().Medium }
func Long() time.Duration   { return current.Load().Long }

// Current returns a copy of the active deadlines.
func Current() Config { return *current.Load() }

// Configure overlays the positive fields of cfg onto the active deadlines.
func Configure(cfg Config) {
	for {
		old := current.Load()
		next := *old
		overlay(&next.Ping, cfg.Ping)
		overlay(&next.Short, cfg.Short)
		overlay(&next.Medium, cfg.Medium)
		overlay(&next.Long, cfg.Long)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

func overlay(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// Reset restores the defaults.
func Reset() {
	d := defaults()
	current.Store(&d)
}

// ConfigureFromEnv reads SKILLLINK_TIMEOUT_{PING,SHORT,MEDIUM,LONG} as Go
// durations ("2s", "500ms") and returns how many were applied. Unparseable
// or non-positive values are ignored.
func ConfigureFromEnv() int {
	var cfg Config
	applied := 0
	for name, dst := range map[string]*time.Duration{
		"SKILLLINK_TIMEOUT_PING":   &cfg.Ping,
		"SKILLLINK_TIMEOUT_SHORT":  &cfg.Short,
		"SKILLLINK_TIMEOUT_MEDIUM": &cfg.Medium,
		"SKILLLINK_TIMEOUT_LONG":   &cfg.Long,
	} {
		d, err := time.ParseDuration(os.Getenv(name))
		if err != nil || d <= 0 {
			continue
		}
		*dst = d
		applied++
	}
	Configure(cfg)
	return applied
}

// WithTimeout wraps context.WithTimeout. The returned cancel logs a warning
// when the deadline fired before the caller finished.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "mint badge")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
