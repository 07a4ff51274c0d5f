// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry is the poll registry client. It owns a best effort cache of
// polls read from the ledger and the pending actions of issued writes.
package registry

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/betcoin/pollbet/cache"
	"github.com/betcoin/pollbet/co"
	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/log"
	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient/bind"
)

var logger = log.WithContext("pkg", "registry")

// Binding is the contract surface the registry drives.
type Binding interface {
	Address() thor.Address
	ReadPoll(ctx context.Context, pollID uint64) (*poll.Record, error)
	CreatePoll(ctx context.Context, startTime, endTime uint64, question string, options []string, sender bind.Signer) (*pollbet.Handle, error)
	SubmitVote(ctx context.Context, pollID uint64, optionIndex int, sender bind.Signer) (*pollbet.Handle, error)
	Resolve(ctx context.Context, h *pollbet.Handle) (*pollbet.Outcome, error)
	BestBlock(ctx context.Context) (uint32, error)
}

type entry struct {
	rec     *poll.Record
	fetched time.Time
}

// Registry creates, looks up and votes on polls and reconciles the writes it issued.
type Registry struct {
	binding Binding
	opts    Options

	polls *cache.LRU[uint64, *entry]
	stats cache.Stats
	reads singleflight.Group

	mu       sync.Mutex
	epochs   map[uint64]uint64
	actions  map[string]*PendingAction
	watching map[string]struct{}

	blocks co.Signal
	goes   *co.Goes
}

// New creates a registry over binding.
func New(binding Binding, opts Options) (*Registry, error) {
	opts = opts.withDefaults()
	polls, err := cache.NewLRU[uint64, *entry](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Registry{
		binding:  binding,
		opts:     opts,
		polls:    polls,
		epochs:   make(map[uint64]uint64),
		actions:  make(map[string]*PendingAction),
		watching: make(map[string]struct{}),
		goes:     co.NewGoes(context.Background()),
	}, nil
}

func (r *Registry) now() time.Time {
	return r.opts.Clock()
}

// Stats returns cache hits, misses and lookups that joined an in-flight read.
func (r *Registry) Stats() (hit, miss, shared int64) {
	_, hit, miss = r.stats.Stats()
	return hit, miss, r.stats.SharedCount()
}

// LookupPoll returns the poll with IsOver evaluated now. The ledger is read
// on a cache miss, on Refresh, or when the cached copy is older than MaxAge.
func (r *Registry) LookupPoll(ctx context.Context, pollID uint64, opts ...LookupOption) (*poll.Poll, error) {
	var o lookupOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !o.refresh {
		if e, ok := r.polls.Get(pollID); ok && r.fresh(e) {
			r.stats.Hit()
			metricLookups().AddWithLabel(1, map[string]string{"result": "hit"})
			return poll.FromRecord(pollID, r.binding.Address(), e.rec, r.now()), nil
		}
	}

	rec, err := r.read(ctx, pollID)
	if err != nil {
		metricLookups().AddWithLabel(1, map[string]string{"result": "error"})
		return nil, err
	}
	return poll.FromRecord(pollID, r.binding.Address(), rec, r.now()), nil
}

func (r *Registry) fresh(e *entry) bool {
	return r.opts.MaxAge <= 0 || r.now().Sub(e.fetched) <= r.opts.MaxAge
}

// read coalesces concurrent reads of the same poll and epoch into one ledger call.
func (r *Registry) read(ctx context.Context, pollID uint64) (*poll.Record, error) {
	const op = "registry.LookupPoll"

	r.mu.Lock()
	epoch := r.epochs[pollID]
	r.mu.Unlock()

	var leader bool
	key := strconv.FormatUint(pollID, 10) + "@" + strconv.FormatUint(epoch, 10)
	ch := r.reads.DoChan(key, func() (any, error) {
		leader = true
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.ReadTimeout)
		defer cancel()

		start := time.Now()
		rec, err := r.binding.ReadPoll(readCtx, pollID)
		metricReadDuration().Observe(time.Since(start).Milliseconds())
		if err != nil {
			logger.Debug("read poll failed", "id", pollID, "err", err)
			return nil, err
		}
		r.store(pollID, epoch, rec)
		return rec, nil
	})

	select {
	case res := <-ch:
		if leader {
			r.stats.Miss()
			metricLookups().AddWithLabel(1, map[string]string{"result": "miss"})
		} else {
			r.stats.Shared()
			metricLookups().AddWithLabel(1, map[string]string{"result": "shared"})
		}
		if res.Err != nil {
			return nil, wrap(op, res.Err).WithPoll(pollID)
		}
		return res.Val.(*poll.Record), nil
	case <-ctx.Done():
		return nil, poll.NewError(poll.NetworkError, op, ctx.Err()).WithPoll(pollID)
	}
}

// store caches rec unless the poll was invalidated since the read started.
func (r *Registry) store(pollID, epoch uint64, rec *poll.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epochs[pollID] != epoch {
		logger.Trace("dropped stale read", "id", pollID, "epoch", epoch)
		return
	}
	r.polls.Add(pollID, &entry{rec: rec, fetched: r.now()})
}

// Invalidate drops the cached poll. Reads started before are not cached.
func (r *Registry) Invalidate(pollID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidateLocked(pollID)
}

func (r *Registry) invalidateLocked(pollID uint64) {
	r.epochs[pollID]++
	r.polls.Remove(pollID)
}

// Action returns a snapshot of the pending action.
func (r *Registry) Action(id string) (*PendingAction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Actions returns snapshots of all actions, oldest first.
func (r *Registry) Actions() []*PendingAction {
	r.mu.Lock()
	list := make([]*PendingAction, 0, len(r.actions))
	for _, a := range r.actions {
		list = append(list, a.Clone())
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].SubmittedAt.Equal(list[j].SubmittedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].SubmittedAt.Before(list[j].SubmittedAt)
	})
	return list
}

// NotifyBlock wakes everything waiting for a confirmation.
func (r *Registry) NotifyBlock() {
	r.blocks.Broadcast()
}

// Close stops the background watchers and waits for them.
func (r *Registry) Close() {
	r.goes.Stop()
	r.goes.Wait()
}

// wrap adds the registry operation to a binding error, keeping its kind.
func wrap(op string, err error) *poll.Error {
	return poll.NewError(poll.KindOf(err), op, err)
}
