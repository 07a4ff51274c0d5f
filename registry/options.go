// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import "time"

const (
	DefaultCacheSize    = 256
	DefaultPollInterval = time.Second
	DefaultLateWindow   = 10 * time.Minute
	DefaultReadTimeout  = 30 * time.Second
)

// Options configures a Registry. Zero values select the defaults.
type Options struct {
	// CacheSize bounds the number of cached polls.
	CacheSize int
	// MaxAge makes cached polls older than it refetch on lookup, 0 keeps them until invalidated.
	MaxAge time.Duration
	// PollInterval is how often receipts are checked when no block arrives.
	PollInterval time.Duration
	// LateWindow bounds how long a timed out action is still followed in background.
	LateWindow time.Duration
	// ReadTimeout bounds a shared ledger read.
	ReadTimeout time.Duration
	// Clock returns the current time, IsOver is derived from it.
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.LateWindow <= 0 {
		o.LateWindow = DefaultLateWindow
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// LookupOption tunes a single LookupPoll call.
type LookupOption func(*lookupOptions)

type lookupOptions struct {
	refresh bool
}

// Refresh bypasses the cache and reads the ledger.
func Refresh() LookupOption {
	return func(o *lookupOptions) { o.refresh = true }
}
