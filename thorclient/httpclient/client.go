// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client to interact with the VeChainThor blockchain.
// It offers methods to inspect clauses, submit transactions, and fetch receipts and blocks
// through HTTP requests.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient/common"
)

// Client represents the HTTP client for interacting with the VeChainThor blockchain.
// It manages communication via HTTP requests.
type Client struct {
	url     string
	c       *http.Client
	genesis atomic.Pointer[types.JSONCollapsedBlock]
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// URL returns the node base url.
func (c *Client) URL() string {
	return c.url
}

// InspectClauses performs a clause inspection on batch call data at the specified revision.
func (c *Client) InspectClauses(ctx context.Context, calldata *types.BatchCallData, revision string) ([]*types.CallResult, error) {
	url := c.url + "/accounts/*"
	if revision != "" {
		url += "?revision=" + revision
	}
	body, err := c.httpPOST(ctx, url, calldata)
	if err != nil {
		return nil, fmt.Errorf("unable to request inspect clauses - %w", err)
	}

	var inspectionRes []*types.CallResult
	if err = json.Unmarshal(body, &inspectionRes); err != nil {
		return nil, fmt.Errorf("unable to unmarshal inspection result - %w", err)
	}

	return inspectionRes, nil
}

// GetTransactionReceipt retrieves the receipt for the given transaction ID at the specified head.
// ErrNotFound is returned while the transaction is not yet included.
func (c *Client) GetTransactionReceipt(ctx context.Context, txID *thor.Bytes32, head string) (*types.Receipt, error) {
	url := c.url + "/transactions/" + txID.String() + "/receipt"
	if head != "" {
		url += "?head=" + head
	}

	body, err := c.httpGET(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch receipt - %w", err)
	}

	if len(body) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, common.ErrNotFound
	}

	var receipt types.Receipt
	if err = json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}

	return &receipt, nil
}

// SendTransaction sends a raw transaction to the blockchain.
func (c *Client) SendTransaction(ctx context.Context, obj *types.RawTx) (*types.SendTxResult, error) {
	body, err := c.httpPOST(ctx, c.url+"/transactions", obj)
	if err != nil {
		return nil, fmt.Errorf("unable to send raw transaction - %w", err)
	}

	var txID types.SendTxResult
	if err = json.Unmarshal(body, &txID); err != nil {
		return nil, fmt.Errorf("unable to unmarshal send transaction result - %w", err)
	}

	return &txID, nil
}

// GetBlock retrieves a block by its revision.
func (c *Client) GetBlock(ctx context.Context, revision string) (*types.JSONCollapsedBlock, error) {
	if revision == "0" {
		if genesis := c.genesis.Load(); genesis != nil {
			return genesis, nil
		}
	}
	body, err := c.httpGET(ctx, c.url+"/blocks/"+revision)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve block - %w", err)
	}

	if len(body) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, common.ErrNotFound
	}

	var block types.JSONCollapsedBlock
	if err = json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("unable to unmarshal block - %w", err)
	}
	if block.JSONBlockSummary == nil {
		return nil, common.ErrNotFound
	}

	if block.Number == 0 {
		// Cache the genesis block for future requests
		c.genesis.Store(&block)
	}

	return &block, nil
}

func (c *Client) rawHTTPRequest(ctx context.Context, method, url string, payload io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response body: %w", err)
	}
	return responseBody, resp.StatusCode, nil
}
