// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/tx"
)

// Clause for json marshal
type Clause struct {
	To    *thor.Address         `json:"to"`
	Value *math.HexOrDecimal256 `json:"value"`
	Data  string                `json:"data"`
}

// Clauses array of clauses.
type Clauses []*Clause

// ConvertClause converts a tx clause into its json form.
func ConvertClause(c *tx.Clause) *Clause {
	return &Clause{
		To:    c.To(),
		Value: (*math.HexOrDecimal256)(c.Value()),
		Data:  hexutil.Encode(c.Data()),
	}
}

func (c *Clause) String() string {
	var to string
	if c.To == nil {
		to = "nil"
	} else {
		to = c.To.String()
	}
	var value *big.Int
	if c.Value != nil {
		value = (*big.Int)(c.Value)
	}
	return fmt.Sprintf(`Clause(
		To    %v
		Value %v
		Data  %v
		)`, to, value, c.Data)
}

// BatchCallData executes a batch of codes
type BatchCallData struct {
	Clauses    Clauses               `json:"clauses"`
	Gas        uint64                `json:"gas"`
	GasPrice   *math.HexOrDecimal256 `json:"gasPrice,omitempty"`
	ProvedWork *math.HexOrDecimal256 `json:"provedWork,omitempty"`
	Caller     *thor.Address         `json:"caller,omitempty"`
	GasPayer   *thor.Address         `json:"gasPayer,omitempty"`
	Expiration uint32                `json:"expiration,omitempty"`
	BlockRef   string                `json:"blockRef,omitempty"`
}

// Event represents a contract event log.
type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

// CallResult is the outcome of one inspected clause.
type CallResult struct {
	Data     string   `json:"data"`
	Events   []*Event `json:"events"`
	GasUsed  uint64   `json:"gasUsed"`
	Reverted bool     `json:"reverted"`
	VMError  string   `json:"vmError"`
}

// RawTx is the payload of a raw transaction submission.
type RawTx struct {
	Raw string `json:"raw"`
}

// SendTxResult is returned by the node once a tx is accepted into its pool.
type SendTxResult struct {
	ID *thor.Bytes32 `json:"id"`
}

// ReceiptMeta locates a receipt on chain.
type ReceiptMeta struct {
	BlockID        thor.Bytes32 `json:"blockID"`
	BlockNumber    uint32       `json:"blockNumber"`
	BlockTimestamp uint64       `json:"blockTimestamp"`
	TxID           thor.Bytes32 `json:"txID"`
	TxOrigin       thor.Address `json:"txOrigin"`
}

// Output is the outcome of one executed clause.
type Output struct {
	ContractAddress *thor.Address `json:"contractAddress"`
	Events          []*Event      `json:"events"`
}

// Receipt for json marshal
type Receipt struct {
	GasUsed  uint64                `json:"gasUsed"`
	GasPayer thor.Address          `json:"gasPayer"`
	Paid     *math.HexOrDecimal256 `json:"paid"`
	Reward   *math.HexOrDecimal256 `json:"reward"`
	Reverted bool                  `json:"reverted"`
	Meta     ReceiptMeta           `json:"meta"`
	Outputs  []*Output             `json:"outputs"`
}

// JSONBlockSummary is the summary of a block.
type JSONBlockSummary struct {
	Number      uint32       `json:"number"`
	ID          thor.Bytes32 `json:"id"`
	ParentID    thor.Bytes32 `json:"parentID"`
	Timestamp   uint64       `json:"timestamp"`
	GasLimit    uint64       `json:"gasLimit"`
	Beneficiary thor.Address `json:"beneficiary"`
	GasUsed     uint64       `json:"gasUsed"`
	TotalScore  uint64       `json:"totalScore"`
	IsTrunk     bool         `json:"isTrunk"`
	IsFinalized bool         `json:"isFinalized"`
}

// JSONCollapsedBlock is a block carrying only its tx ids.
type JSONCollapsedBlock struct {
	*JSONBlockSummary
	Transactions []thor.Bytes32 `json:"transactions"`
}
