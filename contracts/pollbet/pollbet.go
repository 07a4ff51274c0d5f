// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pollbet is the typed binding of the PollBet contract.
package pollbet

import (
	"context"
	"math/big"
	"strings"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/betcoin/pollbet/abi"
	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/contracts/pollbet/gen"
	"github.com/betcoin/pollbet/log"
	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient"
	"github.com/betcoin/pollbet/thorclient/bind"
	"github.com/betcoin/pollbet/thorclient/common"
	"github.com/betcoin/pollbet/tx"
)

const (
	methodGetPoll     = "getPoll"
	methodGetPollInfo = "getPollInfo"
	methodGetTallies  = "getTallies"
	methodCreatePoll  = "createPoll"
	methodVote        = "vote"
	eventPollCreated  = "PollCreated"

	// ReasonNotFound is the revert reason of reads for unknown ids.
	ReasonNotFound = "poll not found"
)

var logger = log.WithContext("pkg", "pollbet")

// ErrPending is returned by Resolve while the transaction has no receipt.
var ErrPending = errors.New("transaction pending")

// Binding exposes one method per PollBet contract function.
type Binding struct {
	caller      *bind.Caller
	pollCreated *abi.Event

	// option counts of polls seen by ReadPoll, for vote range checks
	optionCounts sync.Map
}

// New binds the PollBet contract deployed at address. A non-empty abiVersion
// must match the embedded ABI version.
func New(client *thorclient.Client, address thor.Address, abiVersion string) (*Binding, error) {
	if abiVersion != "" && abiVersion != gen.ABIVersion {
		return nil, errors.Errorf("unsupported PollBet ABI version %q, want %q", abiVersion, gen.ABIVersion)
	}
	caller, err := bind.NewCaller(client, gen.PollBetABI(), address)
	if err != nil {
		return nil, errors.Wrap(err, "load PollBet ABI")
	}
	for _, name := range []string{methodGetPoll, methodGetPollInfo, methodGetTallies, methodCreatePoll, methodVote} {
		if _, ok := caller.ABI().MethodByName(name); !ok {
			return nil, errors.Errorf("PollBet ABI: method %s missing", name)
		}
	}
	ev, ok := caller.ABI().EventByName(eventPollCreated)
	if !ok {
		return nil, errors.Errorf("PollBet ABI: event %s missing", eventPollCreated)
	}
	return &Binding{caller: caller, pollCreated: ev}, nil
}

// Address returns the contract address.
func (b *Binding) Address() thor.Address {
	return b.caller.Address()
}

// KnownOptions returns the option count last read for the poll.
func (b *Binding) KnownOptions(pollID uint64) (int, bool) {
	v, ok := b.optionCounts.Load(pollID)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// ReadPoll reads the poll record in one batched inspection of the view methods.
func (b *Binding) ReadPoll(ctx context.Context, pollID uint64) (*poll.Record, error) {
	const op = "pollbet.ReadPoll"

	id := new(big.Int).SetUint64(pollID)
	methods := []string{methodGetPoll, methodGetPollInfo, methodGetTallies}
	clauses := make([]*tx.Clause, 0, len(methods))
	for _, m := range methods {
		clause, err := b.caller.Clause(m, id)
		if err != nil {
			return nil, poll.NewError(poll.KindUnknown, op, err).WithPoll(pollID)
		}
		clauses = append(clauses, clause)
	}

	results, err := b.caller.Batch(ctx, thor.Address{}, clauses...)
	if err != nil {
		return nil, poll.NewError(transportKind(err), op, err).WithPoll(pollID)
	}

	outputs := make([][]any, 0, len(methods))
	for i, res := range results {
		if err := bind.CheckResult(methods[i], res); err != nil {
			var revert *bind.RevertError
			if errors.As(err, &revert) && isNotFound(methods[i], revert.Reason) {
				return nil, poll.NewError(poll.NotFound, op, err).WithPoll(pollID)
			}
			return nil, poll.NewError(poll.NetworkError, op, err).WithPoll(pollID)
		}
		out, err := b.unpack(methods[i], res)
		if err != nil {
			return nil, poll.NewError(poll.NetworkError, op, err).WithPoll(pollID)
		}
		outputs = append(outputs, out)
	}

	rec, err := decodeRecord(outputs)
	if err != nil {
		return nil, poll.NewError(poll.NetworkError, op, err).WithPoll(pollID)
	}
	if rec.Question == "" && len(rec.Options) == 0 {
		return nil, poll.Errorf(poll.NotFound, op, "empty record").WithPoll(pollID)
	}

	b.optionCounts.Store(pollID, len(rec.Options))
	return rec, nil
}

func (b *Binding) unpack(method string, res *types.CallResult) ([]any, error) {
	m, _ := b.caller.ABI().MethodByName(method)
	data, err := hexutil.Decode(res.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s output", method)
	}
	out, err := m.UnpackOutput(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s output", method)
	}
	return out, nil
}

// decodeRecord assembles the outputs of getPoll, getPollInfo and getTallies.
func decodeRecord(outputs [][]any) (*poll.Record, error) {
	if len(outputs) != 3 || len(outputs[0]) != 2 || len(outputs[1]) != 2 || len(outputs[2]) != 1 {
		return nil, errors.New("unexpected output arity")
	}
	var (
		rec poll.Record
		ok  bool
	)
	if rec.Question, ok = outputs[0][0].(string); !ok {
		return nil, errors.Errorf("question: unexpected type %T", outputs[0][0])
	}
	if rec.Options, ok = outputs[0][1].([]string); !ok {
		return nil, errors.Errorf("options: unexpected type %T", outputs[0][1])
	}
	if rec.StartTime, ok = outputs[1][0].(uint64); !ok {
		return nil, errors.Errorf("startTime: unexpected type %T", outputs[1][0])
	}
	if rec.EndTime, ok = outputs[1][1].(uint64); !ok {
		return nil, errors.Errorf("endTime: unexpected type %T", outputs[1][1])
	}
	if rec.Tallies, ok = outputs[2][0].([]*big.Int); !ok {
		return nil, errors.Errorf("tallies: unexpected type %T", outputs[2][0])
	}
	return &rec, nil
}

// CreatePoll submits a createPoll transaction and returns without waiting for inclusion.
func (b *Binding) CreatePoll(ctx context.Context, startTime, endTime uint64, question string, options []string, sender bind.Signer) (*Handle, error) {
	const op = "pollbet.CreatePoll"
	if startTime >= endTime {
		return nil, poll.Errorf(poll.InvalidInput, op, "start time %d not before end time %d", startTime, endTime)
	}
	if len(options) < poll.MinOptions {
		return nil, poll.Errorf(poll.InvalidInput, op, "need at least %d options, got %d", poll.MinOptions, len(options))
	}
	h, err := b.send(ctx, op, poll.ActionCreate, sender, methodCreatePoll, startTime, endTime, question, options)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// SubmitVote submits a vote transaction and returns without waiting for inclusion.
func (b *Binding) SubmitVote(ctx context.Context, pollID uint64, optionIndex int, sender bind.Signer) (*Handle, error) {
	const op = "pollbet.SubmitVote"
	if optionIndex < 0 {
		return nil, poll.Errorf(poll.InvalidInput, op, "negative option index").WithPoll(pollID).WithOption(optionIndex)
	}
	if n, ok := b.KnownOptions(pollID); ok && optionIndex >= n {
		return nil, poll.Errorf(poll.InvalidInput, op, "option index out of range [0,%d)", n).WithPoll(pollID).WithOption(optionIndex)
	}
	h, err := b.send(ctx, op, poll.ActionVote, sender, methodVote, new(big.Int).SetUint64(pollID), big.NewInt(int64(optionIndex)))
	if err != nil {
		var pe *poll.Error
		if errors.As(err, &pe) {
			return nil, pe.WithPoll(pollID).WithOption(optionIndex)
		}
		return nil, err
	}
	h.PollID = &pollID
	return h, nil
}

func (b *Binding) send(ctx context.Context, op string, kind poll.ActionKind, sender bind.Signer, method string, args ...any) (*Handle, error) {
	if sender == nil {
		return nil, poll.Errorf(poll.SubmissionRejected, op, "no sender")
	}
	from := sender.Address()

	trx, err := b.caller.Attach(sender).Sender(method, args...).Send(ctx, nil)
	if err != nil {
		k := classifySubmit(err)
		logger.Debug("submission failed", "method", method, "sender", from, "kind", k, "err", err)
		return nil, poll.NewError(k, op, err).WithSender(from)
	}

	h := &Handle{
		TxID:       trx.ID(),
		Kind:       kind,
		Sender:     from,
		BlockRef:   trx.BlockRef().Number(),
		Expiration: trx.Expiration(),
	}
	logger.Debug("transaction submitted", "method", method, "id", h.TxID, "sender", from, "expiresAt", h.ExpiresAt())
	return h, nil
}

// classifySubmit maps a failed build or send to the error taxonomy.
func classifySubmit(err error) poll.Kind {
	var (
		revert *bind.RevertError
		vmErr  *bind.VMError
	)
	switch {
	case errors.As(err, &revert), errors.As(err, &vmErr):
		return poll.SubmissionRejected
	case errors.Is(err, bind.ErrSignTransaction):
		return poll.SubmissionRejected
	case common.IsRejection(err):
		return poll.SubmissionRejected
	default:
		return transportKind(err)
	}
}

// transportKind classifies a failed exchange with the node. A caller cancel
// is not blamed on the network.
func transportKind(err error) poll.Kind {
	switch {
	case common.IsNetworkError(err):
		return poll.NetworkError
	case errors.Is(err, context.Canceled), common.IsRejection(err):
		return poll.KindUnknown
	default:
		// undecodable answer
		return poll.NetworkError
	}
}

// Resolve reads the receipt of the handle's transaction.
func (b *Binding) Resolve(ctx context.Context, h *Handle) (*Outcome, error) {
	const op = "pollbet.Resolve"

	receipt, err := b.caller.Client().TransactionReceipt(ctx, &h.TxID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrPending
		}
		return nil, poll.NewError(transportKind(err), op, err).WithSender(h.Sender)
	}

	out := &Outcome{
		Reverted:       receipt.Reverted,
		BlockID:        receipt.Meta.BlockID,
		BlockNumber:    receipt.Meta.BlockNumber,
		BlockTimestamp: receipt.Meta.BlockTimestamp,
		PollID:         h.PollID,
	}
	if !receipt.Reverted && h.Kind == poll.ActionCreate {
		id, err := b.createdPollID(receipt)
		if err != nil {
			return nil, poll.NewError(poll.NetworkError, op, err).WithSender(h.Sender)
		}
		out.PollID = &id
	}
	return out, nil
}

func (b *Binding) createdPollID(receipt *types.Receipt) (uint64, error) {
	for _, output := range receipt.Outputs {
		for _, ev := range output.Events {
			if ev.Address != b.Address() || len(ev.Topics) == 0 || ev.Topics[0] != b.pollCreated.ID() {
				continue
			}
			var created struct {
				PollId  *big.Int
				Creator ethcommon.Address
			}
			if err := b.pollCreated.DecodeTopics(ev.Topics, &created); err != nil {
				return 0, errors.Wrap(err, "decode PollCreated")
			}
			if !created.PollId.IsUint64() {
				return 0, errors.Errorf("poll id %v overflows", created.PollId)
			}
			return created.PollId.Uint64(), nil
		}
	}
	return 0, errors.New("receipt carries no PollCreated event")
}

// BestBlock returns the number of the node's best block.
func (b *Binding) BestBlock(ctx context.Context) (uint32, error) {
	blk, err := b.caller.Client().Block(ctx, common.BestRevision)
	if err != nil {
		return 0, poll.NewError(transportKind(err), "pollbet.BestBlock", err)
	}
	return blk.Number, nil
}

// isNotFound reports whether a revert of method means the poll does not exist.
// Only getPoll may revert without a reason for an unknown id.
func isNotFound(method, reason string) bool {
	if reason == "" {
		return method == methodGetPoll
	}
	return strings.Contains(reason, ReasonNotFound)
}
