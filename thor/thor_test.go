// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestBytes32MarshalUnmarshal(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var value Bytes32
	require.NoError(t, json.Unmarshal([]byte(originalHex), &value))

	marshalVal, err := json.Marshal(value)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalVal))

	marshalPtr, err := json.Marshal(&value)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalPtr))
}

func TestParseBytes32(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"with prefix", "0x" + "11" + strings.Repeat("0", 62), false},
		{"without prefix", "22" + strings.Repeat("0", 62), false},
		{"bad prefix", "1x" + strings.Repeat("0", 64), true},
		{"bad length", "0x1234", true},
		{"bad hex", "0x" + "zz" + strings.Repeat("0", 62), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes32(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte{0x01, 0x02})
	assert.Equal(t, "0x0000000000000000000000000000000000000102", addr.String())

	data, err := json.Marshal(struct{ A Address }{addr})
	require.NoError(t, err)
	assert.Equal(t, `{"A":"0x0000000000000000000000000000000000000102"}`, string(data))

	var decoded struct{ A Address }
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded.A)

	_, err = ParseAddress("0x12")
	assert.Error(t, err)
	_, err = ParseAddress("nope")
	assert.Error(t, err)
}

func TestBlake2b(t *testing.T) {
	data := []byte("pollbet")
	assert.Equal(t, Bytes32(blake2b.Sum256(data)), Blake2b(data))

	joined := Blake2b([]byte("poll"), []byte("bet"))
	assert.Equal(t, Blake2b(data), joined)
}
