// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient/bind"
	"github.com/betcoin/pollbet/tx"
)

// fakeBinding is an in-memory Binding counting every call.
type fakeBinding struct {
	mu       sync.Mutex
	polls    map[uint64]*poll.Record
	outcomes map[thor.Bytes32]*pollbet.Outcome
	readErr  error
	// resolveErr is returned by Resolve instead of the outcome when set
	resolveErr error
	readGate   chan struct{}
	best       uint32
	txSeq      uint64

	reads, inflight, creates, votes, resolves atomic.Int64
}

func newFakeBinding() *fakeBinding {
	return &fakeBinding{
		polls:    make(map[uint64]*poll.Record),
		outcomes: make(map[thor.Bytes32]*pollbet.Outcome),
		best:     100,
	}
}

var fakeAddress = thor.BytesToAddress([]byte("fake"))

func (f *fakeBinding) Address() thor.Address { return fakeAddress }

func (f *fakeBinding) setPoll(id uint64, rec *poll.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[id] = rec
}

// gate makes reads block until the returned func is called.
func (f *fakeBinding) gate() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.readGate = ch
	return func() {
		f.mu.Lock()
		f.readGate = nil
		f.mu.Unlock()
		close(ch)
	}
}

func (f *fakeBinding) ReadPoll(ctx context.Context, pollID uint64) (*poll.Record, error) {
	f.reads.Add(1)
	f.inflight.Add(1)
	defer f.inflight.Add(-1)

	// the state is read when the call starts, a gate only delays the answer
	f.mu.Lock()
	gate := f.readGate
	readErr := f.readErr
	rec, ok := f.polls[pollID]
	var cpy poll.Record
	if ok {
		cpy = *rec
		cpy.Options = append([]string(nil), rec.Options...)
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, poll.NewError(poll.NetworkError, "fake.ReadPoll", ctx.Err())
		}
	}
	if readErr != nil {
		return nil, readErr
	}
	if !ok {
		return nil, poll.Errorf(poll.NotFound, "fake.ReadPoll", "poll not found").WithPoll(pollID)
	}
	return &cpy, nil
}

func (f *fakeBinding) handle(kind poll.ActionKind, sender bind.Signer) (*pollbet.Handle, error) {
	if sender == nil {
		return nil, poll.Errorf(poll.SubmissionRejected, "fake.send", "no sender")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txSeq++
	var id thor.Bytes32
	new(big.Int).SetUint64(f.txSeq).FillBytes(id[24:])
	return &pollbet.Handle{
		TxID:       id,
		Kind:       kind,
		Sender:     sender.Address(),
		BlockRef:   f.best,
		Expiration: bind.DefaultExpiration,
	}, nil
}

func (f *fakeBinding) CreatePoll(_ context.Context, startTime, endTime uint64, _ string, options []string, sender bind.Signer) (*pollbet.Handle, error) {
	f.creates.Add(1)
	if startTime >= endTime || len(options) < poll.MinOptions {
		return nil, poll.Errorf(poll.InvalidInput, "fake.CreatePoll", "bad draft")
	}
	return f.handle(poll.ActionCreate, sender)
}

func (f *fakeBinding) SubmitVote(_ context.Context, pollID uint64, _ int, sender bind.Signer) (*pollbet.Handle, error) {
	f.votes.Add(1)
	h, err := f.handle(poll.ActionVote, sender)
	if err != nil {
		return nil, err
	}
	h.PollID = &pollID
	return h, nil
}

func (f *fakeBinding) Resolve(_ context.Context, h *pollbet.Handle) (*pollbet.Outcome, error) {
	f.resolves.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	out, ok := f.outcomes[h.TxID]
	if !ok {
		return nil, pollbet.ErrPending
	}
	cpy := *out
	return &cpy, nil
}

func (f *fakeBinding) BestBlock(context.Context) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.best, nil
}

// confirm lands the transaction, assigning createdID to creates.
func (f *fakeBinding) confirm(h *pollbet.Handle, reverted bool, createdID *uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &pollbet.Outcome{Reverted: reverted, BlockNumber: f.best + 1, PollID: h.PollID}
	if createdID != nil {
		out.PollID = createdID
	}
	f.outcomes[h.TxID] = out
}

func (f *fakeBinding) setBest(n uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.best = n
}

type fakeSigner struct{ addr thor.Address }

func (s fakeSigner) Address() thor.Address { return s.addr }

func (s fakeSigner) SignTransaction(trx *tx.Transaction) (*tx.Transaction, error) { return trx, nil }

var voterX = fakeSigner{addr: thor.BytesToAddress([]byte("voterX"))}

// clock is a settable test clock.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(unix int64) *clock { return &clock{now: time.Unix(unix, 0)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
