// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Goes to run and manage life-cycle of go routines.
// All routines share a context that is cancelled by Stop.
type Goes struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewGoes creates a Goes whose routines stop when parent is done or Stop is called.
func NewGoes(parent context.Context) *Goes {
	ctx, cancel := context.WithCancel(parent)
	return &Goes{ctx: ctx, cancel: cancel}
}

// Go run f in go routine. f should return once ctx is done.
// Calls after Stop are ignored and report false.
func (g *Goes) Go(f func(ctx context.Context)) bool {
	if g.ctx.Err() != nil {
		return false
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f(g.ctx)
	}()
	return true
}

// Stop cancels the shared context. It is safe to call more than once.
func (g *Goes) Stop() {
	g.cancel()
}

// Stopping returns a channel closed once Stop is called or the parent is done.
func (g *Goes) Stopping() <-chan struct{} {
	return g.ctx.Done()
}

// Stopped reports whether Stop was called or the parent is done.
func (g *Goes) Stopped() bool {
	return g.ctx.Err() != nil
}

// Wait wait for all go routines started by 'Go' done.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done return the done channel for exiting of all go routines.
func (g *Goes) Done() chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
