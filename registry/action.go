// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"time"

	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/poll"
)

// ActionStatus is the lifecycle stage of a pending action.
type ActionStatus string

const (
	StatusSubmitted ActionStatus = "submitted"
	StatusConfirmed ActionStatus = "confirmed"
	StatusFailed    ActionStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s ActionStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// PendingAction is an issued write and what is known about its confirmation.
type PendingAction struct {
	ID          string           `json:"id"`
	Kind        poll.ActionKind  `json:"kind"`
	Draft       *poll.Draft      `json:"draft,omitempty"`
	Vote        *poll.Vote       `json:"vote,omitempty"`
	Handle      *pollbet.Handle  `json:"handle"`
	SubmittedAt time.Time        `json:"submittedAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Status      ActionStatus     `json:"status"`
	PollID      *uint64          `json:"pollId,omitempty"`
	Outcome     *pollbet.Outcome `json:"outcome,omitempty"`
	// Err is the last failure observed, terminal only when Status is failed.
	Err error `json:"-"`
}

// Clone returns a deep copy.
func (a *PendingAction) Clone() *PendingAction {
	cpy := *a
	if a.Draft != nil {
		cpy.Draft = a.Draft.Clone()
	}
	if a.Vote != nil {
		v := *a.Vote
		cpy.Vote = &v
	}
	if a.Handle != nil {
		h := *a.Handle
		cpy.Handle = &h
	}
	if a.PollID != nil {
		id := *a.PollID
		cpy.PollID = &id
	}
	if a.Outcome != nil {
		o := *a.Outcome
		cpy.Outcome = &o
	}
	return &cpy
}
