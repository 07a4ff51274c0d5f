// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thorclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/tx"
)

func TestWs_Error(t *testing.T) {
	client := New("http://test.com")

	_, err := client.SubscribeBlocks(context.Background())
	assert.Error(t, err)
}

func TestConvertToBatchCallData(t *testing.T) {
	trx := new(tx.Builder).Build()
	addr := &thor.Address{}
	expected := &types.BatchCallData{
		Clauses:    make(types.Clauses, 0),
		Gas:        0,
		Caller:     addr,
		Expiration: 0,
		BlockRef:   "0x0000000000000000",
	}
	assert.Equal(t, expected, convertToBatchCallData(trx, addr))
}

func TestChainTag(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blocks/0", r.URL.Path)
		json.NewEncoder(w).Encode(&types.JSONCollapsedBlock{
			JSONBlockSummary: &types.JSONBlockSummary{ID: thor.Bytes32{31: 0x27}},
		})
	}))
	defer ts.Close()

	tag, err := New(ts.URL).ChainTag(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(0x27), tag)
}

func TestSendTransaction(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := thor.Address{0x01}
	trx, err := tx.Sign(tx.NewBuilder().
		ChainTag(0x27).
		Clause(tx.NewClause(&to).WithData([]byte{0xaa})).
		Gas(50000).
		Nonce(1).
		Build(), key)
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw types.RawTx
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		data, err := hexutil.Decode(raw.Raw)
		require.NoError(t, err)

		var decoded tx.Transaction
		require.NoError(t, rlp.DecodeBytes(data, &decoded))
		id := decoded.ID()
		json.NewEncoder(w).Encode(&types.SendTxResult{ID: &id})
	}))
	defer ts.Close()

	res, err := New(ts.URL).SendTransaction(context.Background(), trx)
	require.NoError(t, err)
	assert.Equal(t, trx.ID(), *res.ID)
}

func TestRevisionOption(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "finalized", r.URL.Query().Get("revision"))
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	to := thor.Address{0x02}
	res, err := New(ts.URL).InspectClauses(context.Background(),
		&types.BatchCallData{Clauses: types.Clauses{{To: &to, Data: "0x"}}},
		Revision("finalized"))
	require.NoError(t, err)
	assert.Empty(t, res)
}
