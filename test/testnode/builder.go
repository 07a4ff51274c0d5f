// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"fmt"
	"time"

	"github.com/betcoin/pollbet/abi"
	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/contracts/pollbet/gen"
	"github.com/betcoin/pollbet/thor"
)

// DefaultContract is the address the PollBet contract is deployed at unless overridden.
var DefaultContract = thor.BytesToAddress([]byte("pollbet"))

// NodeBuilder implements the builder pattern for creating a test node instance
type NodeBuilder struct {
	contract thor.Address
	chainTag byte
	nextID   uint64
	hold     bool
	clock    func() time.Time
}

// NewNodeBuilder creates a new NodeBuilder with default configuration
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{
		contract: DefaultContract,
		chainTag: 0xa5,
		clock:    time.Now,
	}
}

// WithContract sets the address the contract answers on.
func (b *NodeBuilder) WithContract(addr thor.Address) *NodeBuilder {
	b.contract = addr
	return b
}

// WithChainTag sets the chain tag, the last byte of the genesis id.
func (b *NodeBuilder) WithChainTag(tag byte) *NodeBuilder {
	b.chainTag = tag
	return b
}

// WithNextPollID sets the id the next created poll gets.
func (b *NodeBuilder) WithNextPollID(id uint64) *NodeBuilder {
	b.nextID = id
	return b
}

// WithHeldReceipts keeps accepted transactions out of blocks until Release is called.
func (b *NodeBuilder) WithHeldReceipts() *NodeBuilder {
	b.hold = true
	return b
}

// WithClock sets the clock used for block timestamps.
func (b *NodeBuilder) WithClock(clock func() time.Time) *NodeBuilder {
	if clock == nil {
		panic("clock cannot be nil")
	}
	b.clock = clock
	return b
}

// Build creates a new, not yet started, Node.
func (b *NodeBuilder) Build() (*Node, error) {
	contractABI, err := abi.New(gen.PollBetABI())
	if err != nil {
		return nil, fmt.Errorf("failed to load contract abi: %w", err)
	}
	n := &Node{
		abi:      contractABI,
		contract: b.contract,
		chainTag: b.chainTag,
		nextID:   b.nextID,
		hold:     b.hold,
		clock:    b.clock,
		polls:    make(map[uint64]*Poll),
		receipts: make(map[thor.Bytes32]*types.Receipt),
		subs:     make(map[chan []byte]struct{}),
	}
	n.appendBlock()
	return n, nil
}

// Convenience constructors

// NewDefaultNode creates and starts a node with default configuration.
func NewDefaultNode() (*Node, error) {
	n, err := NewNodeBuilder().Build()
	if err != nil {
		return nil, err
	}
	n.Start()
	return n, nil
}
