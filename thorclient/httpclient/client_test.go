// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient/common"
)

func TestClient_GetTransactionReceipt(t *testing.T) {
	txID := thor.Bytes32{0x01}
	expectedReceipt := &types.Receipt{
		GasUsed:  1000,
		GasPayer: thor.Address{0x01},
		Paid:     math.NewHexOrDecimal256(0),
		Reward:   math.NewHexOrDecimal256(1000),
		Reverted: false,
		Meta:     types.ReceiptMeta{TxID: txID},
		Outputs:  []*types.Output{},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/"+txID.String()+"/receipt", r.URL.Path)

		receiptBytes, _ := json.Marshal(expectedReceipt)
		w.Write(receiptBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	receipt, err := client.GetTransactionReceipt(context.Background(), &txID, "")

	require.NoError(t, err)
	assert.Equal(t, expectedReceipt.GasUsed, receipt.GasUsed)
	assert.Equal(t, expectedReceipt.GasPayer, receipt.GasPayer)
	assert.Equal(t, expectedReceipt.Meta, receipt.Meta)
	assert.Equal(t, expectedReceipt.Outputs, receipt.Outputs)
	assert.False(t, receipt.Reverted)
	// decoded amounts differ from the literals in their internal word slices
	assert.Zero(t, (*big.Int)(receipt.Paid).Sign())
	assert.Zero(t, (*big.Int)(expectedReceipt.Reward).Cmp((*big.Int)(receipt.Reward)))
}

func TestClient_GetTransactionReceiptPending(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null\n"))
	}))
	defer ts.Close()

	client := New(ts.URL)
	receipt, err := client.GetTransactionReceipt(context.Background(), &thor.Bytes32{0x02}, "")

	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_InspectClauses(t *testing.T) {
	to := thor.Address{0x03}
	calldata := &types.BatchCallData{Clauses: types.Clauses{{To: &to, Data: "0x01"}}}
	expectedResults := []*types.CallResult{{
		Data:     "0x00",
		Events:   []*types.Event{},
		GasUsed:  1000,
		Reverted: false,
		VMError:  "",
	}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/*", r.URL.Path)
		assert.Equal(t, "best", r.URL.Query().Get("revision"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got types.BatchCallData
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, calldata.Clauses[0].Data, got.Clauses[0].Data)

		inspectionResBytes, _ := json.Marshal(expectedResults)
		w.Write(inspectionResBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	results, err := client.InspectClauses(context.Background(), calldata, common.BestRevision)

	assert.NoError(t, err)
	assert.Equal(t, expectedResults, results)
}

func TestClient_SendTransaction(t *testing.T) {
	rawTx := &types.RawTx{Raw: "0x01"}
	expectedResult := &types.SendTxResult{ID: &thor.Bytes32{0x01}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)

		txIDBytes, _ := json.Marshal(expectedResult)
		w.Write(txIDBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	result, err := client.SendTransaction(context.Background(), rawTx)

	assert.NoError(t, err)
	assert.Equal(t, expectedResult, result)
}

func TestClient_SendTransactionRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad tx: insufficient energy", http.StatusForbidden)
	}))
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.SendTransaction(context.Background(), &types.RawTx{Raw: "0x01"})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNot200Status)
	assert.True(t, common.IsRejection(err))
	assert.False(t, common.IsNetworkError(err))
	assert.Contains(t, err.Error(), "insufficient energy")
}

func TestClient_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.GetBlock(context.Background(), "best")

	assert.True(t, common.IsNetworkError(err))
	assert.False(t, common.IsRejection(err))
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := New(url)
	_, err := client.GetBlock(context.Background(), "best")

	require.Error(t, err)
	assert.True(t, common.IsNetworkError(err))
}

func TestClient_CanceledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(ts.URL)
	_, err := client.GetBlock(ctx, "best")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, common.IsNetworkError(err))
}

func TestClient_GetBlock(t *testing.T) {
	genesisID := thor.Bytes32{31: 0xa4}
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/blocks/0":
			json.NewEncoder(w).Encode(&types.JSONCollapsedBlock{
				JSONBlockSummary: &types.JSONBlockSummary{Number: 0, ID: genesisID},
			})
		default:
			w.Write([]byte("null"))
		}
	}))
	defer ts.Close()

	client := New(ts.URL + "/")
	block, err := client.GetBlock(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, genesisID, block.ID)

	// genesis is served from cache
	_, err = client.GetBlock(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = client.GetBlock(context.Background(), "100")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_NotFoundStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.GetTransactionReceipt(context.Background(), &thor.Bytes32{}, "")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, common.IsRejection(err))
}
