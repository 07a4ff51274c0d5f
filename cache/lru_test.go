// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[uint64, string](0)
	assert.Error(t, err)

	c, err := NewLRU[uint64, string](2)
	require.NoError(t, err)

	c.Add(1, "one")
	c.Add(2, "two")
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "one", v)

	// 2 is now the least recently used
	c.Add(3, "three")
	assert.False(t, c.Contains(2))
	assert.True(t, c.Contains(1))
	assert.Equal(t, 2, c.Len())

	_, ok = c.Peek(3)
	assert.True(t, ok)

	c.Remove(1)
	_, ok = c.Get(1)
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int](4)
	require.NoError(t, err)

	calls := 0
	loader := func(key string) (int, error) {
		calls++
		if key == "bad" {
			return 0, errors.New("boom")
		}
		return len(key), nil
	}

	v, err := c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrLoad("bad", loader)
	assert.Error(t, err)
	assert.False(t, c.Contains("bad"), "failed loads are not cached")
}
