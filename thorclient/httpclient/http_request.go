// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/betcoin/pollbet/thorclient/common"
)

func (c *Client) httpRequest(ctx context.Context, method, url string, payload io.Reader) ([]byte, error) {
	body, status, err := c.rawHTTPRequest(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, common.ErrNotFound
	}
	if status != http.StatusOK {
		return nil, &common.StatusError{Code: status, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *Client) httpGET(ctx context.Context, url string) ([]byte, error) {
	return c.httpRequest(ctx, http.MethodGet, url, nil)
}

func (c *Client) httpPOST(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}

	if string(data) == "[]" || string(data) == "null" {
		return nil, errors.New("invalid nil marshalling")
	}

	return c.httpRequest(ctx, http.MethodPost, url, bytes.NewBuffer(data))
}
