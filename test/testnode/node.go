// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode serves an in-memory ledger hosting the PollBet contract
// over the node REST and websocket endpoints.
package testnode

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/betcoin/pollbet/abi"
	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/tx"
)

// Poll is the stored state of one poll.
type Poll struct {
	Question  string
	Options   []string
	StartTime uint64
	EndTime   uint64
	Tallies   []*big.Int
}

type pendingTx struct {
	trx    *tx.Transaction
	origin thor.Address
}

// Node represents a test node with a chain of blocks, a tx pool and the PollBet contract.
type Node struct {
	abi      *abi.ABI
	contract thor.Address
	chainTag byte
	clock    func() time.Time

	mu       sync.Mutex
	blocks   []*types.JSONBlockSummary
	polls    map[uint64]*Poll
	nextID   uint64
	pool     []*pendingTx
	receipts map[thor.Bytes32]*types.Receipt
	hold     bool
	failWith int // status answered to every request when non-zero
	rejectTx int // status answered to tx submissions when non-zero
	reverts  map[string]string
	subs     map[chan []byte]struct{}

	inspects atomic.Int64
	sent     atomic.Int64

	server *httptest.Server
}

// Start starts the api server.
func (n *Node) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.server != nil {
		return
	}
	n.server = httptest.NewServer(n.router())
}

// Stop closes the api server and all subscriptions.
func (n *Node) Stop() {
	n.mu.Lock()
	server := n.server
	n.server = nil
	for ch := range n.subs {
		close(ch)
		delete(n.subs, ch)
	}
	n.mu.Unlock()
	if server != nil {
		server.CloseClientConnections()
		server.Close()
	}
}

// URL returns the base url of the api server.
func (n *Node) URL() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.server == nil {
		return ""
	}
	return n.server.URL
}

// Contract returns the contract address.
func (n *Node) Contract() thor.Address {
	return n.contract
}

// ChainTag returns the chain tag.
func (n *Node) ChainTag() byte {
	return n.chainTag
}

// Inspects returns the number of /accounts/* requests served.
func (n *Node) Inspects() int64 {
	return n.inspects.Load()
}

// Sent returns the number of transactions accepted.
func (n *Node) Sent() int64 {
	return n.sent.Load()
}

// Best returns the best block.
func (n *Node) Best() *types.JSONBlockSummary {
	n.mu.Lock()
	defer n.mu.Unlock()
	cpy := *n.blocks[len(n.blocks)-1]
	return &cpy
}

// AddPoll stores a poll directly and returns its id.
func (n *Node) AddPoll(p Poll) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.storePoll(id, p)
	return id
}

// SetPoll stores a poll under the given id, replacing any previous one.
func (n *Node) SetPoll(id uint64, p Poll) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.storePoll(id, p)
	if id >= n.nextID {
		n.nextID = id + 1
	}
}

func (n *Node) storePoll(id uint64, p Poll) {
	stored := &Poll{
		Question:  p.Question,
		Options:   append([]string(nil), p.Options...),
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Tallies:   make([]*big.Int, len(p.Options)),
	}
	for i := range stored.Tallies {
		stored.Tallies[i] = new(big.Int)
		if i < len(p.Tallies) && p.Tallies[i] != nil {
			stored.Tallies[i].Set(p.Tallies[i])
		}
	}
	n.polls[id] = stored
}

// Tally returns the vote count of an option.
func (n *Node) Tally(id uint64, option int) *big.Int {
	n.mu.Lock()
	defer n.mu.Unlock()
	p, ok := n.polls[id]
	if !ok || option < 0 || option >= len(p.Tallies) {
		return nil
	}
	return new(big.Int).Set(p.Tallies[option])
}

// Pending returns the number of accepted transactions without receipt.
func (n *Node) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pool)
}

// Hold keeps accepted transactions out of blocks until Release.
func (n *Node) Hold() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hold = true
}

// Release stops holding transactions and mines them into a new block.
func (n *Node) Release() *types.JSONBlockSummary {
	n.mu.Lock()
	n.hold = false
	n.mu.Unlock()
	return n.Mine()
}

// FailWith makes the node answer every request with status, 0 restores normal service.
func (n *Node) FailWith(status int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failWith = status
}

// RevertCalls makes calls of the view method revert with reason, regardless of state.
func (n *Node) RevertCalls(method, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reverts == nil {
		n.reverts = make(map[string]string)
	}
	n.reverts[method] = reason
}

// RejectTransactions makes the node refuse submitted transactions with status, 0 accepts again.
func (n *Node) RejectTransactions(status int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejectTx = status
}

// Mine packs the pooled transactions into a new block, unless held, and
// publishes the block to subscribers. Expired transactions are dropped.
func (n *Node) Mine() *types.JSONBlockSummary {
	n.mu.Lock()
	blk := n.appendBlock()
	if !n.hold {
		for _, p := range n.pool {
			if p.trx.IsExpired(blk.Number) {
				continue
			}
			n.execute(blk, p)
		}
		n.pool = nil
	} else {
		kept := n.pool[:0]
		for _, p := range n.pool {
			if !p.trx.IsExpired(blk.Number) {
				kept = append(kept, p)
			}
		}
		n.pool = kept
	}
	cpy := *blk
	msg, _ := json.Marshal(&cpy)
	for ch := range n.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	n.mu.Unlock()
	return &cpy
}

// appendBlock creates the next block. Callers hold n.mu.
func (n *Node) appendBlock() *types.JSONBlockSummary {
	var (
		number uint32
		parent thor.Bytes32
	)
	if len(n.blocks) > 0 {
		prev := n.blocks[len(n.blocks)-1]
		number = prev.Number + 1
		parent = prev.ID
	}

	var numBytes [4]byte
	binary.BigEndian.PutUint32(numBytes[:], number)
	id := thor.Blake2b(parent[:], numBytes[:])
	copy(id[:], numBytes[:])
	if number == 0 {
		id[31] = n.chainTag
	}

	blk := &types.JSONBlockSummary{
		Number:      number,
		ID:          id,
		ParentID:    parent,
		Timestamp:   uint64(n.clock().Unix()),
		GasLimit:    40_000_000,
		IsTrunk:     true,
		IsFinalized: true,
	}
	n.blocks = append(n.blocks, blk)
	return blk
}

func (n *Node) router() http.Handler {
	router := mux.NewRouter()
	router.Use(n.failures)
	router.Path("/accounts/*").Methods(http.MethodPost).HandlerFunc(n.handleInspect)
	router.Path("/transactions").Methods(http.MethodPost).HandlerFunc(n.handleSendTransaction)
	router.Path("/transactions/{id}/receipt").Methods(http.MethodGet).HandlerFunc(n.handleGetReceipt)
	router.Path("/blocks/{revision}").Methods(http.MethodGet).HandlerFunc(n.handleGetBlock)
	router.Path("/subscriptions/block").Methods(http.MethodGet).HandlerFunc(n.handleSubscribeBlocks)
	return router
}

func (n *Node) failures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.mu.Lock()
		status := n.failWith
		n.mu.Unlock()
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(v)
}

func (n *Node) handleInspect(w http.ResponseWriter, r *http.Request) {
	n.inspects.Add(1)

	var body types.BatchCallData
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "body: "+err.Error(), http.StatusBadRequest)
		return
	}
	var caller thor.Address
	if body.Caller != nil {
		caller = *body.Caller
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.blocks[len(n.blocks)-1].Timestamp

	results := make([]*types.CallResult, 0, len(body.Clauses))
	for _, c := range body.Clauses {
		data, err := hexutil.Decode(c.Data)
		if err != nil {
			http.Error(w, "clause data: "+err.Error(), http.StatusBadRequest)
			return
		}
		res := &types.CallResult{Data: "0x", Events: []*types.Event{}}
		if c.To != nil && *c.To == n.contract {
			exec := n.call(caller, data, now, false)
			res.GasUsed = exec.gas
			res.Reverted = exec.reverted
			res.Data = hexutil.Encode(exec.output)
			res.Events = exec.events
			if exec.reverted {
				res.VMError = "execution reverted"
			}
		}
		results = append(results, res)
		if res.Reverted {
			break
		}
	}
	writeJSON(w, results)
}

func (n *Node) handleSendTransaction(w http.ResponseWriter, r *http.Request) {
	var raw types.RawTx
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "body: "+err.Error(), http.StatusBadRequest)
		return
	}
	data, err := hexutil.Decode(raw.Raw)
	if err != nil {
		http.Error(w, "raw: "+err.Error(), http.StatusBadRequest)
		return
	}
	var trx tx.Transaction
	if err := rlp.DecodeBytes(data, &trx); err != nil {
		http.Error(w, "raw: "+err.Error(), http.StatusBadRequest)
		return
	}
	origin, err := trx.Origin()
	if err != nil {
		http.Error(w, "bad tx: "+err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	if n.rejectTx != 0 {
		status := n.rejectTx
		n.mu.Unlock()
		http.Error(w, "tx rejected", status)
		return
	}
	if trx.ChainTag() != n.chainTag {
		n.mu.Unlock()
		http.Error(w, "bad tx: chain tag mismatch", http.StatusBadRequest)
		return
	}
	n.pool = append(n.pool, &pendingTx{trx: &trx, origin: origin})
	hold := n.hold
	n.mu.Unlock()
	n.sent.Add(1)

	id := trx.ID()
	writeJSON(w, &types.SendTxResult{ID: &id})
	if !hold {
		n.Mine()
	}
}

func (n *Node) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := thor.ParseBytes32(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id: "+err.Error(), http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	receipt := n.receipts[id]
	n.mu.Unlock()
	if receipt == nil {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, receipt)
}

func (n *Node) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	revision := mux.Vars(r)["revision"]

	n.mu.Lock()
	defer n.mu.Unlock()
	var blk *types.JSONBlockSummary
	switch revision {
	case "", "best", "finalized", "justified":
		blk = n.blocks[len(n.blocks)-1]
	default:
		num, err := strconv.ParseUint(revision, 10, 32)
		if err != nil {
			http.Error(w, "revision: "+err.Error(), http.StatusBadRequest)
			return
		}
		if num < uint64(len(n.blocks)) {
			blk = n.blocks[num]
		}
	}
	if blk == nil {
		writeJSON(w, nil)
		return
	}
	cpy := *blk
	writeJSON(w, &types.JSONCollapsedBlock{JSONBlockSummary: &cpy, Transactions: []thor.Bytes32{}})
}

func (n *Node) handleSubscribeBlocks(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch := make(chan []byte, 16)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()
	defer func() {
		n.mu.Lock()
		if _, ok := n.subs[ch]; ok {
			delete(n.subs, ch)
		}
		n.mu.Unlock()
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-ch:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
