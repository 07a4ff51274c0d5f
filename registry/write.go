// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"context"

	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient/bind"
)

// CreatePoll validates the draft locally, then submits it. The returned
// action carries the draft without an id, the ledger assigns one on confirmation.
func (r *Registry) CreatePoll(ctx context.Context, draft poll.Draft, sender bind.Signer) (*PendingAction, error) {
	const op = "registry.CreatePoll"

	if err := draft.Validate(); err != nil {
		r.countWrite(poll.ActionCreate, err)
		return nil, wrap(op, err)
	}

	h, err := r.binding.CreatePoll(ctx, draft.StartTime, draft.EndTime, draft.Question, draft.Options, sender)
	if err != nil {
		r.countWrite(poll.ActionCreate, err)
		logger.Warn("create poll failed", "question", draft.Question, "err", err)
		return nil, wrap(op, err)
	}
	r.countWrite(poll.ActionCreate, nil)

	a := r.record(h, &PendingAction{Kind: poll.ActionCreate, Draft: draft.Clone()})
	logger.Info("poll creation submitted", "action", a.ID, "sender", h.Sender)
	return a, nil
}

// SubmitVote checks the poll is open and the option exists, then submits the vote.
// Two votes of the same sender are independent actions, the ledger arbitrates.
func (r *Registry) SubmitVote(ctx context.Context, pollID uint64, optionIndex int, sender bind.Signer) (*PendingAction, error) {
	const op = "registry.SubmitVote"

	p, err := r.LookupPoll(ctx, pollID)
	if err != nil {
		r.countWrite(poll.ActionVote, err)
		return nil, wrap(op, err).WithOption(optionIndex)
	}

	var fail *poll.Error
	switch {
	case p.IsOver:
		fail = poll.Errorf(poll.PollClosed, op, "poll ended at %d", p.EndTime)
	case !p.HasOption(optionIndex):
		fail = poll.Errorf(poll.InvalidOption, op, "option index out of range [0,%d)", len(p.Options))
	}
	if fail != nil {
		fail = fail.WithPoll(pollID).WithOption(optionIndex)
		if sender != nil {
			fail = fail.WithSender(sender.Address())
		}
		r.countWrite(poll.ActionVote, fail)
		return nil, fail
	}

	h, err := r.binding.SubmitVote(ctx, pollID, optionIndex, sender)
	if err != nil {
		r.countWrite(poll.ActionVote, err)
		logger.Warn("vote failed", "id", pollID, "option", optionIndex, "err", err)
		return nil, wrap(op, err).WithPoll(pollID).WithOption(optionIndex)
	}
	r.countWrite(poll.ActionVote, nil)

	id := pollID
	a := r.record(h, &PendingAction{
		Kind:   poll.ActionVote,
		Vote:   &poll.Vote{PollID: pollID, OptionIndex: optionIndex, Voter: h.Sender},
		PollID: &id,
	})
	logger.Info("vote submitted", "action", a.ID, "id", pollID, "option", optionIndex, "sender", h.Sender)
	return a, nil
}

// Adopt starts tracking a write submitted elsewhere, such as by an earlier
// process. Adopting a known transaction returns the existing action.
func (r *Registry) Adopt(h *pollbet.Handle) *PendingAction {
	r.mu.Lock()
	if a, ok := r.actions[actionID(h.TxID)]; ok {
		r.mu.Unlock()
		return a.Clone()
	}
	r.mu.Unlock()

	cpy := *h
	a := &PendingAction{Kind: h.Kind}
	if h.PollID != nil {
		id := *h.PollID
		a.PollID = &id
	}
	return r.record(&cpy, a)
}

// record stores a new submitted action and returns a snapshot of it.
func (r *Registry) record(h *pollbet.Handle, a *PendingAction) *PendingAction {
	now := r.now()
	a.ID = actionID(h.TxID)
	a.Handle = h
	a.SubmittedAt = now
	a.UpdatedAt = now
	a.Status = StatusSubmitted

	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[a.ID] = a
	metricPendingAction().Add(1)
	return a.Clone()
}

func actionID(txID thor.Bytes32) string {
	return txID.String()
}

func (r *Registry) countWrite(kind poll.ActionKind, err error) {
	result := "ok"
	if err != nil {
		result = poll.KindOf(err).String()
	}
	metricWrites().AddWithLabel(1, map[string]string{"kind": string(kind), "result": result})
}
