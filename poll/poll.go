// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package poll defines the poll domain model and its error taxonomy.
package poll

import (
	"math/big"
	"strings"
	"time"

	"github.com/betcoin/pollbet/thor"
)

// MinOptions is the smallest number of choices a poll may offer.
const MinOptions = 2

// Status is the lifecycle stage of a poll relative to a clock.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
)

// Record is the raw poll state as decoded from the contract.
type Record struct {
	Question  string
	Options   []string
	StartTime uint64
	EndTime   uint64
	Tallies   []*big.Int
}

// Poll is a normalized poll. IsOver and Status are derived from the clock at read time.
type Poll struct {
	ID        uint64       `json:"id"`
	Address   thor.Address `json:"address"`
	Question  string       `json:"question"`
	Options   []string     `json:"options"`
	StartTime uint64       `json:"startTime"`
	EndTime   uint64       `json:"endTime"`
	Tallies   []*big.Int   `json:"tallies,omitempty"`
	IsOver    bool         `json:"isOver"`
	Status    Status       `json:"status"`
}

// FromRecord normalizes a record into a poll evaluated at now.
func FromRecord(id uint64, addr thor.Address, rec *Record, now time.Time) *Poll {
	p := &Poll{
		ID:        id,
		Address:   addr,
		Question:  rec.Question,
		Options:   append([]string(nil), rec.Options...),
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
		Tallies:   copyTallies(rec.Tallies),
	}
	p.Evaluate(now)
	return p
}

// Evaluate recomputes the derived fields against now.
func (p *Poll) Evaluate(now time.Time) {
	ts := now.Unix()
	p.IsOver = ts >= 0 && uint64(ts) >= p.EndTime
	switch {
	case p.IsOver:
		p.Status = StatusClosed
	case ts < 0 || uint64(ts) < p.StartTime:
		p.Status = StatusUpcoming
	default:
		p.Status = StatusOpen
	}
}

// Clone returns a deep copy.
func (p *Poll) Clone() *Poll {
	cpy := *p
	cpy.Options = append([]string(nil), p.Options...)
	cpy.Tallies = copyTallies(p.Tallies)
	return &cpy
}

// HasOption reports whether index is a valid vote value.
func (p *Poll) HasOption(index int) bool {
	return index >= 0 && index < len(p.Options)
}

func copyTallies(src []*big.Int) []*big.Int {
	if src == nil {
		return nil
	}
	dst := make([]*big.Int, len(src))
	for i, t := range src {
		if t != nil {
			dst[i] = new(big.Int).Set(t)
		}
	}
	return dst
}

// Draft is the optimistic shape of a poll whose creation is not confirmed yet.
type Draft struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	StartTime uint64   `json:"startTime"`
	EndTime   uint64   `json:"endTime"`
}

// Validate checks the draft: a non-empty question, at least two distinct
// non-empty options and a start strictly before the end.
func (d *Draft) Validate() error {
	const op = "poll.Draft.Validate"
	if strings.TrimSpace(d.Question) == "" {
		return Errorf(InvalidInput, op, "empty question")
	}
	if len(d.Options) < MinOptions {
		return Errorf(InvalidInput, op, "need at least %d options, got %d", MinOptions, len(d.Options))
	}
	seen := make(map[string]struct{}, len(d.Options))
	for i, o := range d.Options {
		if strings.TrimSpace(o) == "" {
			return Errorf(InvalidInput, op, "empty option").WithOption(i)
		}
		if _, dup := seen[o]; dup {
			return Errorf(InvalidInput, op, "duplicate option %q", o).WithOption(i)
		}
		seen[o] = struct{}{}
	}
	if d.StartTime >= d.EndTime {
		return Errorf(InvalidInput, op, "start time %d not before end time %d", d.StartTime, d.EndTime)
	}
	return nil
}

// Clone returns a deep copy.
func (d *Draft) Clone() *Draft {
	cpy := *d
	cpy.Options = append([]string(nil), d.Options...)
	return &cpy
}

// Vote is one ballot cast for a poll option.
type Vote struct {
	PollID      uint64       `json:"pollId"`
	OptionIndex int          `json:"optionIndex"`
	Voter       thor.Address `json:"voter"`
}

// ActionKind names the write a pending action stands for.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionVote   ActionKind = "vote"
)
