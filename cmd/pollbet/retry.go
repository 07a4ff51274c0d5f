// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/betcoin/pollbet/poll"
)

// retry runs fn until it succeeds, fails with something other than a
// NetworkError, or has been retried retries times. The delay doubles
// after each attempt.
func retry(ctx context.Context, retries int, delay time.Duration, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || attempt >= retries || !poll.IsKind(err, poll.NetworkError) {
			return err
		}
		logger.Debug("retrying", "attempt", attempt+1, "delay", delay, "err", err)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
		delay *= 2
	}
}
