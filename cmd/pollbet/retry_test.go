// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/betcoin/pollbet/poll"
)

func TestRetry(t *testing.T) {
	network := poll.Errorf(poll.NetworkError, "lookup", "connection refused")

	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return network
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return network
	})
	assert.Equal(t, poll.NetworkError, poll.KindOf(err))
	assert.Equal(t, 3, calls)

	calls = 0
	err = retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return poll.Errorf(poll.NotFound, "lookup", "poll not found")
	})
	assert.Equal(t, poll.NotFound, poll.KindOf(err))
	assert.Equal(t, 1, calls)
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, 10, time.Hour, func() error {
		calls++
		return poll.Errorf(poll.NetworkError, "lookup", "connection refused")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
