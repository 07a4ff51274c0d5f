// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/test/testnode"
	"github.com/betcoin/pollbet/thorclient"
	"github.com/betcoin/pollbet/thorclient/common"
)

type countingNotifier struct{ n atomic.Int64 }

func (c *countingNotifier) NotifyBlock() { c.n.Add(1) }

func TestFollowBlocks(t *testing.T) {
	node, err := testnode.NewDefaultNode()
	require.NoError(t, err)
	defer node.Stop()

	client, err := thorclient.NewWithWS(node.URL())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	notifier := &countingNotifier{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		followBlocks(ctx, client, notifier, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		node.Mine()
		return notifier.n.Load() >= 2
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("followBlocks did not return")
	}
}

type failingSubscriber struct{ calls atomic.Int64 }

func (f *failingSubscriber) SubscribeBlocks(context.Context) (*common.Subscription[*types.JSONBlockSummary], error) {
	f.calls.Add(1)
	return nil, errors.New("refused")
}

func TestFollowBlocksResubscribes(t *testing.T) {
	sub := &failingSubscriber{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		followBlocks(ctx, sub, &countingNotifier{}, time.Millisecond)
	}()

	assert.Eventually(t, func() bool { return sub.calls.Load() >= 3 }, 5*time.Second, time.Millisecond)
	cancel()
	<-done
}
