// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package view

import (
	"slices"
	"time"

	"github.com/betcoin/pollbet/poll"
)

// CreateForm holds the fields of the create-poll form. Every With* method
// returns a modified copy and leaves the receiver untouched.
type CreateForm struct {
	Question string    `json:"question"`
	Answers  []string  `json:"answers"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (f CreateForm) WithQuestion(q string) CreateForm {
	f.Answers = slices.Clone(f.Answers)
	f.Question = q
	return f
}

// WithAnswer appends an answer.
func (f CreateForm) WithAnswer(a string) CreateForm {
	f.Answers = append(slices.Clone(f.Answers), a)
	return f
}

// WithoutAnswer removes the answer at index i, out of range indexes are ignored.
func (f CreateForm) WithoutAnswer(i int) CreateForm {
	f.Answers = slices.Clone(f.Answers)
	if i >= 0 && i < len(f.Answers) {
		f.Answers = slices.Delete(f.Answers, i, i+1)
	}
	return f
}

func (f CreateForm) WithWindow(start, end time.Time) CreateForm {
	f.Answers = slices.Clone(f.Answers)
	f.Start, f.End = start, end
	return f
}

// Draft converts the form into the poll shape submitted to the registry.
// Times before the unix epoch are clamped to zero.
func (f CreateForm) Draft() poll.Draft {
	return poll.Draft{
		Question:  f.Question,
		Options:   slices.Clone(f.Answers),
		StartTime: unixSeconds(f.Start),
		EndTime:   unixSeconds(f.End),
	}
}

func unixSeconds(t time.Time) uint64 {
	if s := t.Unix(); s > 0 {
		return uint64(s)
	}
	return 0
}

// Ballot is the option picked for a poll.
type Ballot struct {
	PollID uint64 `json:"pollId"`
	Option int    `json:"option"`
}

// Select returns a ballot for the same poll with another option picked.
func (b Ballot) Select(option int) Ballot {
	b.Option = option
	return b
}
