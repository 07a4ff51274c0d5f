// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Signal a rendezvous point for goroutines waiting for the next occurrence of an event.
// It's channel based, so waiting can be combined with other cases in a select.
// The zero value is ready to use.
type Signal struct {
	l     sync.Mutex
	ch    chan struct{}
	count uint64
}

// Broadcast wakes all goroutines waiting on s.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()
	if s.ch != nil {
		close(s.ch)
		s.ch = nil
	}
	s.count++
}

// Wait returns a channel closed by the next Broadcast.
func (s *Signal) Wait() <-chan struct{} {
	s.l.Lock()
	defer s.l.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Count returns the number of broadcasts so far.
func (s *Signal) Count() uint64 {
	s.l.Lock()
	defer s.l.Unlock()
	return s.count
}
