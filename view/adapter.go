// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package view

import (
	"context"
	"math/big"
	"time"

	"github.com/betcoin/pollbet/log"
	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/registry"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient/bind"
)

var logger = log.WithContext("pkg", "view")

// Registry is the part of the registry client the adapter renders.
type Registry interface {
	LookupPoll(ctx context.Context, pollID uint64, opts ...registry.LookupOption) (*poll.Poll, error)
	CreatePoll(ctx context.Context, draft poll.Draft, sender bind.Signer) (*registry.PendingAction, error)
	SubmitVote(ctx context.Context, pollID uint64, optionIndex int, sender bind.Signer) (*registry.PendingAction, error)
	Reconcile(ctx context.Context, actionID string, timeout time.Duration) (*registry.PendingAction, error)
	Action(id string) (*registry.PendingAction, bool)
	Actions() []*registry.PendingAction
}

// OptionView is one row of a rendered poll.
type OptionView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Votes string `json:"votes"`
}

// PollView is a poll ready to be rendered.
type PollView struct {
	ID       uint64       `json:"id"`
	Address  thor.Address `json:"address"`
	Question string       `json:"question"`
	Options  []OptionView `json:"options"`
	StartsAt time.Time    `json:"startsAt"`
	EndsAt   time.Time    `json:"endsAt"`
	IsOver   bool         `json:"isOver"`
	Status   poll.Status  `json:"status"`
}

// ActionView is a pending action with its last failure rendered.
type ActionView struct {
	*registry.PendingAction
	Error *Failure `json:"error,omitempty"`
}

func renderPoll(p *poll.Poll) PollView {
	v := PollView{
		ID:       p.ID,
		Address:  p.Address,
		Question: p.Question,
		Options:  make([]OptionView, len(p.Options)),
		StartsAt: time.Unix(int64(p.StartTime), 0).UTC(),
		EndsAt:   time.Unix(int64(p.EndTime), 0).UTC(),
		IsOver:   p.IsOver,
		Status:   p.Status,
	}
	for i, text := range p.Options {
		votes := "0"
		if i < len(p.Tallies) && p.Tallies[i] != nil {
			votes = p.Tallies[i].String()
		}
		v.Options[i] = OptionView{Index: i, Text: text, Votes: votes}
	}
	return v
}

func renderAction(a *registry.PendingAction) ActionView {
	v := ActionView{PendingAction: a}
	if a.Err != nil {
		v.Error = &Failure{Kind: poll.KindOf(a.Err), Message: a.Err.Error()}
	}
	return v
}

// TotalVotes sums the tallies of a rendered poll.
func (v PollView) TotalVotes() *big.Int {
	total := new(big.Int)
	for _, o := range v.Options {
		if n, ok := new(big.Int).SetString(o.Votes, 10); ok {
			total.Add(total, n)
		}
	}
	return total
}

// Adapter exposes the registry operations as view models.
type Adapter struct {
	registry Registry
	sender   bind.Signer
}

// NewAdapter creates an adapter submitting writes as sender. A nil sender
// makes every write fail with SubmissionRejected.
func NewAdapter(reg Registry, sender bind.Signer) *Adapter {
	return &Adapter{registry: reg, sender: sender}
}

// Poll looks a poll up, bypassing the cache when refresh is set.
func (a *Adapter) Poll(ctx context.Context, pollID uint64, refresh bool) Model[PollView] {
	var opts []registry.LookupOption
	if refresh {
		opts = append(opts, registry.Refresh())
	}
	p, err := a.registry.LookupPoll(ctx, pollID, opts...)
	if err != nil {
		logger.Debug("lookup failed", "poll", pollID, "err", err)
	}
	return fromResult(p, err, renderPoll)
}

// Create submits the form as a new poll.
func (a *Adapter) Create(ctx context.Context, form CreateForm) Model[ActionView] {
	act, err := a.registry.CreatePoll(ctx, form.Draft(), a.sender)
	if err != nil {
		logger.Debug("create failed", "err", err)
	}
	return fromResult(act, err, renderAction)
}

// Vote submits the ballot.
func (a *Adapter) Vote(ctx context.Context, b Ballot) Model[ActionView] {
	act, err := a.registry.SubmitVote(ctx, b.PollID, b.Option, a.sender)
	if err != nil {
		logger.Debug("vote failed", "poll", b.PollID, "option", b.Option, "err", err)
	}
	return fromResult(act, err, renderAction)
}

// Reconcile waits up to timeout for the action to confirm.
func (a *Adapter) Reconcile(ctx context.Context, actionID string, timeout time.Duration) Model[ActionView] {
	act, err := a.registry.Reconcile(ctx, actionID, timeout)
	return fromResult(act, err, renderAction)
}

// Action returns the current state of an action without waiting.
func (a *Adapter) Action(actionID string) Model[ActionView] {
	act, ok := a.registry.Action(actionID)
	if !ok {
		return Error[ActionView](poll.NotFound, "unknown action "+actionID)
	}
	return Ready(renderAction(act))
}

func (a *Adapter) Actions() Model[[]ActionView] {
	list := a.registry.Actions()
	views := make([]ActionView, len(list))
	for i, act := range list {
		views[i] = renderAction(act)
	}
	return Ready(views)
}

// Track runs op in the background and streams Loading followed by its result.
// The channel is closed after the result.
func Track[T any](ctx context.Context, op func(context.Context) Model[T]) <-chan Model[T] {
	ch := make(chan Model[T], 2)
	ch <- Loading[T]()
	go func() {
		defer close(ch)
		ch <- op(ctx)
	}()
	return ch
}
