// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thorclient/common"
)

type blockSubscriber interface {
	SubscribeBlocks(ctx context.Context) (*common.Subscription[*types.JSONBlockSummary], error)
}

type blockNotifier interface {
	NotifyBlock()
}

// followBlocks forwards new block notifications of the node until ctx is
// done, resubscribing after retryDelay whenever the subscription breaks.
// Waiting writes fall back to polling while unsubscribed.
func followBlocks(ctx context.Context, sub blockSubscriber, n blockNotifier, retryDelay time.Duration) {
	for {
		s, err := sub.SubscribeBlocks(ctx)
		if err != nil {
			logger.Debug("block subscription failed", "err", err)
		} else {
			logger.Debug("block subscription started")
			for ev := range s.EventChan {
				if ev.Error != nil {
					logger.Debug("block subscription broken", "err", ev.Error)
					break
				}
				logger.Trace("new block", "number", ev.Data.Number, "id", ev.Data.ID)
				n.NotifyBlock()
			}
			s.Unsubscribe()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}
