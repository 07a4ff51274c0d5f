// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betcoin/pollbet/thor"
)

func newTestTx() *Transaction {
	to := thor.BytesToAddress([]byte("contract"))
	return NewBuilder().
		ChainTag(0xa4).
		BlockRef(NewBlockRefFromID(thor.Bytes32{0, 0, 0, 10, 0xff})).
		Expiration(32).
		Clause(NewClause(&to).WithData([]byte{0x01, 0x00, 0x02})).
		GasPriceCoef(0).
		Gas(21000).
		Nonce(12345678).
		Build()
}

func TestSignAndOrigin(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	trx := newTestTx()
	_, err = trx.Origin()
	assert.Error(t, err, "unsigned tx has no origin")
	assert.True(t, trx.ID().IsZero())

	signed, err := Sign(trx, key)
	require.NoError(t, err)

	origin, err := signed.Origin()
	require.NoError(t, err)
	assert.Equal(t, thor.Address(crypto.PubkeyToAddress(key.PublicKey)), origin)
	assert.False(t, signed.ID().IsZero())
	assert.Equal(t, trx.SigningHash(), signed.SigningHash(), "signature is not part of signing hash")
}

func TestRLPRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signed, err := Sign(newTestTx(), key)
	require.NoError(t, err)

	data, err := rlp.EncodeToBytes(signed)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	assert.Equal(t, signed.ID(), decoded.ID())
	assert.Equal(t, signed.ChainTag(), decoded.ChainTag())
	assert.Equal(t, signed.BlockRef(), decoded.BlockRef())
	assert.Equal(t, signed.Expiration(), decoded.Expiration())
	assert.Equal(t, signed.Gas(), decoded.Gas())
	assert.Equal(t, signed.SigningHash(), decoded.SigningHash())
	require.Len(t, decoded.Clauses(), 1)
	assert.Equal(t, []byte{0x01, 0x00, 0x02}, decoded.Clauses()[0].Data())
}

func TestIsExpired(t *testing.T) {
	trx := newTestTx()
	assert.False(t, trx.IsExpired(10))
	assert.False(t, trx.IsExpired(42))
	assert.True(t, trx.IsExpired(43))
}

func TestIntrinsicGas(t *testing.T) {
	gas, err := IntrinsicGas()
	require.NoError(t, err)
	assert.Equal(t, TxGas+ClauseGas, gas)

	to := thor.Address{}
	gas, err = IntrinsicGas(NewClause(&to).WithData([]byte{0x00, 0x01}))
	require.NoError(t, err)
	assert.Equal(t, TxGas+ClauseGas+TxDataZeroGas+TxDataNonZeroGas, gas)

	gas, err = IntrinsicGas(NewClause(nil))
	require.NoError(t, err)
	assert.Equal(t, TxGas+ClauseGasContractCreation, gas)
}

func TestClauseCopies(t *testing.T) {
	to := thor.BytesToAddress([]byte{0x01})
	c := NewClause(&to)
	to[19] = 0x02
	assert.Equal(t, byte(0x01), c.To()[19], "clause keeps its own copy of the address")

	data := []byte{0xaa}
	c = c.WithData(data)
	data[0] = 0xbb
	assert.Equal(t, []byte{0xaa}, c.Data())
	assert.Zero(t, c.Value().Sign())
	assert.False(t, c.IsCreatingContract())
	assert.True(t, NewClause(nil).IsCreatingContract())
}

func TestBlockRefFromID(t *testing.T) {
	ref := NewBlockRefFromID(thor.Bytes32{0, 0, 0x01, 0x02, 0xff})
	assert.Equal(t, uint32(0x0102), ref.Number())
	assert.Equal(t, uint32(10), newTestTx().BlockRef().Number())
}
