// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package thorclient is the node facade used by contract bindings. It pairs the
// HTTP client with an optional websocket client.
package thorclient

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient/common"
	"github.com/betcoin/pollbet/thorclient/httpclient"
	"github.com/betcoin/pollbet/thorclient/wsclient"
	"github.com/betcoin/pollbet/tx"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithHTTP(httpConn *httpclient.Client) *Client {
	return &Client{httpConn: httpConn}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

type Option func(*getOptions)

type getOptions struct {
	revision string
}

func applyOptions(opts []Option) *getOptions {
	options := &getOptions{
		revision: common.BestRevision,
	}
	for _, o := range opts {
		o(options)
	}
	return options
}

func Revision(revision string) Option {
	return func(o *getOptions) {
		o.revision = revision
	}
}

func (c *Client) TransactionReceipt(ctx context.Context, id *thor.Bytes32, opts ...Option) (*types.Receipt, error) {
	options := applyOptions(opts)
	return c.httpConn.GetTransactionReceipt(ctx, id, options.revision)
}

func (c *Client) InspectClauses(ctx context.Context, calldata *types.BatchCallData, opts ...Option) ([]*types.CallResult, error) {
	options := applyOptions(opts)
	return c.httpConn.InspectClauses(ctx, calldata, options.revision)
}

// InspectTxClauses simulates the clauses of trx as if sent by senderAddr.
func (c *Client) InspectTxClauses(ctx context.Context, trx *tx.Transaction, senderAddr *thor.Address, opts ...Option) ([]*types.CallResult, error) {
	return c.InspectClauses(ctx, convertToBatchCallData(trx, senderAddr), opts...)
}

func (c *Client) SendTransaction(ctx context.Context, trx *tx.Transaction) (*types.SendTxResult, error) {
	rlpTx, err := rlp.EncodeToBytes(trx)
	if err != nil {
		return nil, fmt.Errorf("unable to encode transaction - %w", err)
	}

	return c.SendTransactionRaw(ctx, rlpTx)
}

func (c *Client) SendTransactionRaw(ctx context.Context, rlpTx []byte) (*types.SendTxResult, error) {
	return c.httpConn.SendTransaction(ctx, &types.RawTx{Raw: hexutil.Encode(rlpTx)})
}

func (c *Client) Block(ctx context.Context, revision string) (*types.JSONCollapsedBlock, error) {
	return c.httpConn.GetBlock(ctx, revision)
}

// ChainTag returns the last byte of the genesis block id.
func (c *Client) ChainTag(ctx context.Context) (byte, error) {
	genesisBlock, err := c.Block(ctx, "0")
	if err != nil {
		return 0, err
	}
	return genesisBlock.ID[31], nil
}

func (c *Client) SubscribeBlocks(ctx context.Context) (*common.Subscription[*types.JSONBlockSummary], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	return c.wsConn.SubscribeBlocks(ctx, "")
}

func convertToBatchCallData(trx *tx.Transaction, addr *thor.Address) *types.BatchCallData {
	clauses := trx.Clauses()
	cls := make(types.Clauses, len(clauses))
	for i, c := range clauses {
		cls[i] = types.ConvertClause(c)
	}

	blockRef := trx.BlockRef()

	return &types.BatchCallData{
		Clauses:    cls,
		Gas:        trx.Gas(),
		Caller:     addr,
		Expiration: trx.Expiration(),
		BlockRef:   hexutil.Encode(blockRef[:]),
	}
}
