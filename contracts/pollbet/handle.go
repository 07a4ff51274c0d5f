// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pollbet

import (
	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/thor"
)

// Handle references a submitted write.
type Handle struct {
	TxID       thor.Bytes32    `json:"txID"`
	Kind       poll.ActionKind `json:"kind"`
	Sender     thor.Address    `json:"sender"`
	BlockRef   uint32          `json:"blockRef"`
	Expiration uint32          `json:"expiration"`
	PollID     *uint64         `json:"pollId,omitempty"` // set for votes
}

// ExpiresAt returns the last block number the transaction can be included in.
func (h *Handle) ExpiresAt() uint32 {
	return h.BlockRef + h.Expiration
}

// IsExpired reports whether the transaction can no longer be included after block best.
func (h *Handle) IsExpired(best uint32) bool {
	return best > h.ExpiresAt()
}

// Outcome is the resolved result of a write.
type Outcome struct {
	Reverted       bool         `json:"reverted"`
	BlockID        thor.Bytes32 `json:"blockID"`
	BlockNumber    uint32       `json:"blockNumber"`
	BlockTimestamp uint64       `json:"blockTimestamp"`
	// PollID is the voted poll, or the poll assigned by a confirmed create.
	PollID *uint64 `json:"pollId,omitempty"`
}
