// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betcoin/pollbet/contracts/pollbet/gen"
)

func newPollBetABI(t *testing.T) *ABI {
	a, err := New(gen.PollBetABI())
	require.NoError(t, err)
	return a
}

func TestMethodDecodeOutput(t *testing.T) {
	a := newPollBetABI(t)

	info, ok := a.MethodByName("getPollInfo")
	require.True(t, ok)
	data, err := info.EncodeOutput(uint64(10), uint64(20))
	require.NoError(t, err)

	var window struct {
		StartTime uint64
		EndTime   uint64
	}
	require.NoError(t, info.DecodeOutput(data, &window))
	assert.Equal(t, uint64(10), window.StartTime)
	assert.Equal(t, uint64(20), window.EndTime)

	tallies, ok := a.MethodByName("getTallies")
	require.True(t, ok)
	data, err = tallies.EncodeOutput([]*big.Int{big.NewInt(3), big.NewInt(4)})
	require.NoError(t, err)

	var got []*big.Int
	require.NoError(t, tallies.DecodeOutput(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[1].Int64())

	assert.Error(t, tallies.DecodeOutput(data[:len(data)-1], &got))
}

func TestEventDecode(t *testing.T) {
	a := newPollBetABI(t)
	voted, ok := a.EventByName("Voted")
	require.True(t, ok)

	voter := common.BytesToAddress([]byte{0xaa})
	topics, data, err := voted.Encode(big.NewInt(7), voter, big.NewInt(2))
	require.NoError(t, err)
	require.Len(t, topics, 3)
	assert.Equal(t, voted.ID(), topics[0])

	var option *big.Int
	require.NoError(t, voted.Decode(data, &option))
	assert.Equal(t, int64(2), option.Int64())

	var indexed struct {
		PollId *big.Int
		Voter  common.Address
	}
	require.NoError(t, voted.DecodeTopics(topics, &indexed))
	assert.Equal(t, int64(7), indexed.PollId.Int64())
	assert.Equal(t, voter, indexed.Voter)

	assert.Error(t, voted.Decode(data[:31], &option))
}
