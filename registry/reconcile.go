// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"context"
	"errors"
	"time"

	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/poll"
)

var errClosed = errors.New("registry closed")

// Reconcile waits up to timeout for the action to be confirmed or to fail.
// Timeout and NetworkError leave the action submitted, it is then followed in
// background for LateWindow so a late receipt is still applied.
// The returned action is a snapshot taken when Reconcile returns.
func (r *Registry) Reconcile(ctx context.Context, actionID string, timeout time.Duration) (*PendingAction, error) {
	const op = "registry.Reconcile"

	a, ok := r.Action(actionID)
	if !ok {
		return nil, poll.Errorf(poll.NotFound, op, "unknown action %s", actionID)
	}
	if a.Status.Terminal() {
		return a, a.Err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()
	for {
		// subscribe before checking so a block between the two is not missed
		wake := r.blocks.Wait()

		done, err := r.check(ctx, actionID)
		if done {
			a, _ := r.Action(actionID)
			return a, a.Err
		}
		if err != nil && ctx.Err() == nil {
			err = r.fail(actionID, poll.NewError(poll.NetworkError, op, err), false)
			r.watch(actionID)
			a, _ := r.Action(actionID)
			return a, err
		}

		select {
		case <-ctx.Done():
			err := r.fail(actionID, poll.NewError(poll.Timeout, op, ctx.Err()), false)
			r.watch(actionID)
			metricReconciles().AddWithLabel(1, map[string]string{"outcome": "timeout"})
			a, _ := r.Action(actionID)
			return a, err
		case <-r.goes.Stopping():
			return nil, poll.NewError(poll.NetworkError, op, errClosed)
		case <-wake:
		case <-ticker.C:
		}
	}
}

// check resolves the action once. It reports whether the action is terminal.
func (r *Registry) check(ctx context.Context, actionID string) (bool, error) {
	r.mu.Lock()
	a, ok := r.actions[actionID]
	if !ok {
		r.mu.Unlock()
		return false, errors.New("unknown action")
	}
	if a.Status.Terminal() {
		r.mu.Unlock()
		return true, nil
	}
	h := *a.Handle
	r.mu.Unlock()

	out, err := r.binding.Resolve(ctx, &h)
	if errors.Is(err, pollbet.ErrPending) {
		best, err := r.binding.BestBlock(ctx)
		if err != nil {
			return false, err
		}
		if h.IsExpired(best) {
			r.fail(actionID, poll.Errorf(poll.Timeout, "registry.Reconcile",
				"transaction %s expired at block %d without receipt", h.TxID, h.ExpiresAt()), true)
			metricReconciles().AddWithLabel(1, map[string]string{"outcome": "expired"})
			return true, nil
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	r.apply(actionID, out)
	return true, nil
}

// apply moves a submitted action to its terminal state from the outcome.
func (r *Registry) apply(actionID string, out *pollbet.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[actionID]
	if !ok || a.Status.Terminal() {
		return
	}
	a.Outcome = out
	a.UpdatedAt = r.now()
	if a.PollID == nil && out.PollID != nil {
		id := *out.PollID
		a.PollID = &id
	}

	if out.Reverted {
		e := poll.Errorf(poll.Rejected, "registry.Reconcile", "transaction %s reverted in block %d", a.Handle.TxID, out.BlockNumber).
			WithSender(a.Handle.Sender)
		if a.PollID != nil {
			e = e.WithPoll(*a.PollID)
		}
		if a.Vote != nil {
			e = e.WithOption(a.Vote.OptionIndex)
		}
		a.Status = StatusFailed
		a.Err = e
		metricReconciles().AddWithLabel(1, map[string]string{"outcome": "rejected"})
		logger.Warn("action rejected", "action", actionID, "block", out.BlockNumber)
	} else {
		a.Status = StatusConfirmed
		a.Err = nil
		metricReconciles().AddWithLabel(1, map[string]string{"outcome": "confirmed"})
		logger.Info("action confirmed", "action", actionID, "block", out.BlockNumber)
	}
	metricPendingAction().Add(-1)

	if a.PollID != nil {
		r.invalidateLocked(*a.PollID)
	}
}

// fail records err on a submitted action, terminal marks it failed. It returns err.
func (r *Registry) fail(actionID string, err *poll.Error, terminal bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[actionID]
	if !ok || a.Status.Terminal() {
		return err
	}
	if a.PollID != nil {
		err = err.WithPoll(*a.PollID)
	}
	err = err.WithSender(a.Handle.Sender)
	a.Err = err
	a.UpdatedAt = r.now()
	if terminal {
		a.Status = StatusFailed
		metricPendingAction().Add(-1)
		logger.Warn("action failed", "action", actionID, "err", err)
	} else {
		logger.Debug("action still pending", "action", actionID, "err", err)
	}
	return err
}

// watch follows a submitted action in background until it is terminal or
// LateWindow passes. At most one watcher runs per action.
func (r *Registry) watch(actionID string) {
	r.mu.Lock()
	if _, ok := r.watching[actionID]; ok {
		r.mu.Unlock()
		return
	}
	r.watching[actionID] = struct{}{}
	r.mu.Unlock()

	started := r.goes.Go(func(ctx context.Context) {
		defer func() {
			r.mu.Lock()
			delete(r.watching, actionID)
			r.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(ctx, r.opts.LateWindow)
		defer cancel()

		ticker := time.NewTicker(r.opts.PollInterval)
		defer ticker.Stop()
		for {
			wake := r.blocks.Wait()
			if done, _ := r.check(ctx, actionID); done {
				return
			}
			select {
			case <-ctx.Done():
				logger.Debug("stopped following action", "action", actionID)
				return
			case <-wake:
			case <-ticker.C:
			}
		}
	})
	if !started {
		r.mu.Lock()
		delete(r.watching, actionID)
		r.mu.Unlock()
	}
}
