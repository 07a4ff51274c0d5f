// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"fmt"
	"math"

	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/poll"
)

// RandDraft returns a valid draft whose voting window contains now.
func RandDraft(now uint64) poll.Draft {
	n := poll.MinOptions + RandIntN(4)
	options := make([]string, n)
	for i := range options {
		options[i] = fmt.Sprintf("option %d-%d", i, RandInt())
	}
	return poll.Draft{
		Question:  fmt.Sprintf("question %d?", RandInt()),
		Options:   options,
		StartTime: now - uint64(RandIntN(3600)),
		EndTime:   now + 1 + uint64(RandIntN(3600)),
	}
}

// RandHandle returns a handle of a random, never expiring transaction.
// A vote handle gets pollID, a create handle ignores it.
func RandHandle(kind poll.ActionKind, pollID uint64) *pollbet.Handle {
	h := &pollbet.Handle{
		TxID:       RandomHash(),
		Kind:       kind,
		Sender:     RandAddress(),
		Expiration: math.MaxUint32,
	}
	if kind == poll.ActionVote {
		h.PollID = &pollID
	}
	return h
}
