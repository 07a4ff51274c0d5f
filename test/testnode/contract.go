// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thor"
)

const (
	viewGas  = 3_000
	writeGas = 60_000
)

var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

type execution struct {
	output   []byte
	events   []*types.Event
	gas      uint64
	reverted bool
}

func revert(reason string) *execution {
	stringTy, _ := ethabi.NewType("string", "", nil)
	data, _ := ethabi.Arguments{{Type: stringTy}}.Pack(reason)
	return &execution{
		output:   append(append([]byte(nil), revertSelector...), data...),
		gas:      viewGas,
		reverted: true,
	}
}

// call runs one clause against the contract state. State changes are only
// kept when commit is set. Callers hold n.mu.
func (n *Node) call(caller thor.Address, input []byte, now uint64, commit bool) *execution {
	method, err := n.abi.MethodByInput(input)
	if err != nil {
		return revert("")
	}
	args, err := method.DecodeInput(input)
	if err != nil {
		return revert("")
	}

	switch method.Name() {
	case "getPoll", "getPollInfo", "getTallies":
		if reason, ok := n.reverts[method.Name()]; ok {
			return revert(reason)
		}
		p, ok := n.polls[args[0].(*big.Int).Uint64()]
		if !ok {
			return revert("poll not found")
		}
		var out []byte
		switch method.Name() {
		case "getPoll":
			out, err = method.EncodeOutput(p.Question, p.Options)
		case "getPollInfo":
			out, err = method.EncodeOutput(p.StartTime, p.EndTime)
		default:
			out, err = method.EncodeOutput(p.Tallies)
		}
		if err != nil {
			return revert(err.Error())
		}
		return &execution{output: out, gas: viewGas}

	case "createPoll":
		start, end := args[0].(uint64), args[1].(uint64)
		question, options := args[2].(string), args[3].([]string)
		if start >= end {
			return revert("invalid time window")
		}
		if len(options) < 2 {
			return revert("not enough options")
		}
		if question == "" {
			return revert("empty question")
		}
		id := n.nextID
		out, _ := method.EncodeOutput(new(big.Int).SetUint64(id))
		ev, _ := n.abi.EventByName("PollCreated")
		topics, data, err := ev.Encode(new(big.Int).SetUint64(id), ethcommon.Address(caller))
		if err != nil {
			return revert(err.Error())
		}
		if commit {
			n.nextID++
			n.storePoll(id, Poll{Question: question, Options: options, StartTime: start, EndTime: end})
		}
		return &execution{
			output: out,
			events: []*types.Event{{Address: n.contract, Topics: topics, Data: hexutil.Encode(data)}},
			gas:    writeGas,
		}

	case "vote":
		id := args[0].(*big.Int).Uint64()
		option := args[1].(*big.Int)
		p, ok := n.polls[id]
		if !ok {
			return revert("poll not found")
		}
		if now >= p.EndTime {
			return revert("poll closed")
		}
		if now < p.StartTime {
			return revert("poll not started")
		}
		if !option.IsUint64() || option.Uint64() >= uint64(len(p.Options)) {
			return revert("invalid option")
		}
		ev, _ := n.abi.EventByName("Voted")
		topics, data, err := ev.Encode(new(big.Int).SetUint64(id), ethcommon.Address(caller), option)
		if err != nil {
			return revert(err.Error())
		}
		if commit {
			p.Tallies[option.Uint64()].Add(p.Tallies[option.Uint64()], big.NewInt(1))
		}
		return &execution{
			events: []*types.Event{{Address: n.contract, Topics: topics, Data: hexutil.Encode(data)}},
			gas:    writeGas,
		}
	}
	return revert("")
}

// execute applies a pooled transaction in blk and records its receipt. Callers hold n.mu.
func (n *Node) execute(blk *types.JSONBlockSummary, p *pendingTx) {
	receipt := &types.Receipt{
		GasPayer: p.origin,
		Paid:     (*math.HexOrDecimal256)(new(big.Int)),
		Reward:   (*math.HexOrDecimal256)(new(big.Int)),
		Meta: types.ReceiptMeta{
			BlockID:        blk.ID,
			BlockNumber:    blk.Number,
			BlockTimestamp: blk.Timestamp,
			TxID:           p.trx.ID(),
			TxOrigin:       p.origin,
		},
		Outputs: []*types.Output{},
	}
	gas, _ := p.trx.IntrinsicGas()
	outputs := make([]*types.Output, 0, len(p.trx.Clauses()))
	for _, c := range p.trx.Clauses() {
		if c.To() == nil || *c.To() != n.contract {
			outputs = append(outputs, &types.Output{Events: []*types.Event{}})
			continue
		}
		// dry run first so a revert leaves no state behind
		if exec := n.call(p.origin, c.Data(), blk.Timestamp, false); exec.reverted {
			receipt.Reverted = true
			gas += exec.gas
			break
		}
		exec := n.call(p.origin, c.Data(), blk.Timestamp, true)
		gas += exec.gas
		outputs = append(outputs, &types.Output{Events: exec.events})
	}
	if !receipt.Reverted {
		receipt.Outputs = outputs
	}
	receipt.GasUsed = gas
	n.receipts[receipt.Meta.TxID] = receipt
}
