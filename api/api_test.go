// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/registry"
	"github.com/betcoin/pollbet/test/testnode"
	"github.com/betcoin/pollbet/thorclient"
	"github.com/betcoin/pollbet/thorclient/bind"
	"github.com/betcoin/pollbet/view"
)

type model struct {
	State string `json:"state"`
	Error *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
	Data json.RawMessage `json:"data"`
}

type actionData struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Status string  `json:"status"`
	PollID *uint64 `json:"pollId"`
}

func newTestServer(t *testing.T) *httptest.Server {
	node, err := testnode.NewNodeBuilder().WithNextPollID(42).Build()
	require.NoError(t, err)
	node.Start()
	t.Cleanup(node.Stop)

	binding, err := pollbet.New(thorclient.New(node.URL()), node.Contract(), "1")
	require.NoError(t, err)
	reg, err := registry.New(binding, registry.Options{PollInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(reg.Close)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	adapter := view.NewAdapter(reg, bind.NewSigner(key))

	ts := httptest.NewServer(New(adapter, Options{
		AllowedOrigins:   "*",
		EnableReqLogger:  true,
		EnableMetrics:    true,
		MaxReconcileWait: 5 * time.Second,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) (*model, int, http.Header) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var m model
	if json.Unmarshal(raw, &m) != nil {
		return nil, res.StatusCode, res.Header
	}
	return &m, res.StatusCode, res.Header
}

func createForm(answers ...string) view.CreateForm {
	now := time.Now()
	return view.CreateForm{Question: "which fork?", Answers: answers, Start: now.Add(-time.Minute), End: now.Add(time.Hour)}
}

func TestPollLifecycle(t *testing.T) {
	ts := newTestServer(t)

	m, code, header := do(t, http.MethodPost, ts.URL+"/polls", createForm("a", "b", "c"))
	require.Equal(t, http.StatusAccepted, code)
	require.Equal(t, "ready", m.State)
	assert.NotEmpty(t, header.Get(RequestIDHeader))

	var created actionData
	require.NoError(t, json.Unmarshal(m.Data, &created))
	assert.Equal(t, "create", created.Kind)
	assert.Equal(t, "submitted", created.Status)

	m, code, _ = do(t, http.MethodGet, ts.URL+"/actions/"+created.ID+"?timeoutMs=5000", nil)
	require.Equal(t, http.StatusOK, code)
	var confirmed actionData
	require.NoError(t, json.Unmarshal(m.Data, &confirmed))
	assert.Equal(t, "confirmed", confirmed.Status)
	require.NotNil(t, confirmed.PollID)
	assert.Equal(t, uint64(42), *confirmed.PollID)

	m, code, _ = do(t, http.MethodGet, ts.URL+"/polls/42", nil)
	require.Equal(t, http.StatusOK, code)
	var p view.PollView
	require.NoError(t, json.Unmarshal(m.Data, &p))
	assert.Equal(t, "which fork?", p.Question)
	require.Len(t, p.Options, 3)
	assert.Equal(t, "c", p.Options[2].Text)
	assert.False(t, p.IsOver)

	m, code, _ = do(t, http.MethodPost, ts.URL+"/polls/42/votes", voteBody(1))
	require.Equal(t, http.StatusAccepted, code)
	var vote actionData
	require.NoError(t, json.Unmarshal(m.Data, &vote))
	assert.Equal(t, "vote", vote.Kind)

	_, code, _ = do(t, http.MethodGet, ts.URL+"/actions/"+vote.ID+"?timeoutMs=5000", nil)
	require.Equal(t, http.StatusOK, code)

	m, code, _ = do(t, http.MethodGet, ts.URL+"/polls/42?refresh=true", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(m.Data, &p))
	assert.Equal(t, "1", p.Options[1].Votes)

	m, code, _ = do(t, http.MethodGet, ts.URL+"/actions", nil)
	require.Equal(t, http.StatusOK, code)
	var list []actionData
	require.NoError(t, json.Unmarshal(m.Data, &list))
	assert.Len(t, list, 2)
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		kind   string
	}{
		{"unknown poll", http.MethodGet, "/polls/999", nil, http.StatusNotFound, "NotFound"},
		{"single answer", http.MethodPost, "/polls", createForm("only"), http.StatusBadRequest, "InvalidInput"},
		{"unknown action", http.MethodGet, "/actions/0xdead", nil, http.StatusNotFound, "NotFound"},
		{"vote unknown poll", http.MethodPost, "/polls/999/votes", voteBody(0), http.StatusNotFound, "NotFound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, code, _ := do(t, tt.method, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			require.NotNil(t, m)
			assert.Equal(t, "error", m.State)
			assert.Equal(t, tt.kind, m.Error.Kind)
		})
	}
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t)

	_, code, _ := do(t, http.MethodGet, ts.URL+"/polls/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	_, code, _ = do(t, http.MethodPost, ts.URL+"/polls/1/votes", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code, _ = do(t, http.MethodPost, ts.URL+"/polls", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code, _ = do(t, http.MethodGet, ts.URL+"/actions/0x01?timeoutMs=soon", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestVoteOutOfRange(t *testing.T) {
	ts := newTestServer(t)

	m, _, _ := do(t, http.MethodPost, ts.URL+"/polls", createForm("a", "b"))
	var created actionData
	require.NoError(t, json.Unmarshal(m.Data, &created))
	do(t, http.MethodGet, ts.URL+"/actions/"+created.ID+"?timeoutMs=5000", nil)

	m, code, _ := do(t, http.MethodPost, ts.URL+"/polls/42/votes", voteBody(2))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidOption", m.Error.Kind)
}

func TestRequestIDIsKept(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/actions", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "fixed-id")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "fixed-id", res.Header.Get(RequestIDHeader))
}

func voteBody(option int) map[string]int {
	return map[string]int{"option": option}
}
