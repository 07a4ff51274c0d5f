// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thorclient/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.Contains(url, "https://") || strings.Contains(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.Contains(url, "http://") || strings.Contains(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeBlocks streams new block summaries. The subscription ends when ctx is
// done, Unsubscribe is called, or the connection fails.
func (c *Client) SubscribeBlocks(ctx context.Context, query string) (*common.Subscription[*types.JSONBlockSummary], error) {
	conn, err := c.connect(ctx, "/subscriptions/block", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[types.JSONBlockSummary](ctx, conn), nil
}

// subscribe creates a channel to handle new subscriptions
// It takes a websocket connection as an argument and returns the subscription delivering messages of type T.
func subscribe[T any](ctx context.Context, conn *websocket.Conn) *common.Subscription[*T] {
	eventChan := make(chan common.EventWrapper[*T])
	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() error {
		var err error
		once.Do(func() {
			close(done)
			err = conn.Close()
		})
		return err
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-done:
		}
	}()

	go func() {
		defer close(eventChan)
		defer unsubscribe()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				// a closed conn after unsubscribe is not an error
				select {
				case <-done:
					return
				default:
				}
				select {
				case <-done:
				case eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}:
				}
				return
			}

			select {
			case eventChan <- common.EventWrapper[*T]{Data: &data}:
			case <-done:
				return
			}
		}
	}()

	return &common.Subscription[*T]{
		EventChan:   eventChan,
		Unsubscribe: unsubscribe,
	}
}

func (c *Client) connect(ctx context.Context, endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
