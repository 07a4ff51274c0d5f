// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betcoin/pollbet/log"
	"github.com/betcoin/pollbet/thor"
)

func TestInitLoggerJSON(t *testing.T) {
	old := log.Root()
	defer log.SetDefault(old)

	var buf bytes.Buffer
	level := initLogger(&Config{Verbosity: 3, JSONLogs: true}, &buf, ^uintptr(0))
	assert.Equal(t, slog.LevelInfo, level.Level())

	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), buf.String())
	assert.Equal(t, "shown", m["msg"])
	assert.Equal(t, "main", m["pkg"])
}

func TestLoadSigner(t *testing.T) {
	signer, err := loadSigner(&Config{})
	require.NoError(t, err)
	assert.Nil(t, signer)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := thor.Address(crypto.PubkeyToAddress(key.PublicKey))

	keyFile := filepath.Join(t.TempDir(), "key")
	require.NoError(t, crypto.SaveECDSA(keyFile, key))
	signer, err = loadSigner(&Config{KeyFile: keyFile})
	require.NoError(t, err)
	assert.Equal(t, want, signer.Address())

	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, "secret")
	require.NoError(t, err)

	t.Setenv(envVar("PASSWORD"), "secret\n")
	signer, err = loadSigner(&Config{Keystore: account.URL.Path})
	require.NoError(t, err)
	assert.Equal(t, want, signer.Address())

	t.Setenv(envVar("PASSWORD"), "wrong")
	_, err = loadSigner(&Config{Keystore: account.URL.Path})
	assert.ErrorContains(t, err, "decrypt keystore")

	_, err = loadSigner(&Config{KeyFile: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorContains(t, err, "load key file")
}

func TestClockOffsetDisabled(t *testing.T) {
	assert.Zero(t, clockOffset(""))
}
