// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoad(t *testing.T) {
	_, err := NewLRU("weights", 0)
	assert.ErrorContains(t, err, "cache weights")

	c, err := NewLRU("weights", 2)
	require.NoError(t, err)
	assert.Zero(t, c.Stats().HitRate())

	loads := 0
	square := func(key any) (any, error) {
		loads++
		return key.(int) * key.(int), nil
	}
	for range 3 {
		v, err := c.GetOrLoad(3, square)
		require.NoError(t, err)
		assert.Equal(t, 9, v)
	}
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad(4, func(any) (any, error) { return nil, errors.New("storage fault") })
	assert.EqualError(t, err, "storage fault")
	assert.False(t, c.Contains(4))

	hit, miss := c.Stats().Counts()
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(2), miss)
	assert.InDelta(t, 0.5, c.Stats().HitRate(), 1e-9)
}

func TestEviction(t *testing.T) {
	c, err := NewLRU("weights", 2)
	require.NoError(t, err)

	load := func(key any) (any, error) { return key, nil }
	for _, k := range []int{1, 2, 3} {
		_, err := c.GetOrLoad(k, load)
		require.NoError(t, err)
	}
	assert.False(t, c.Contains(1))
	assert.Equal(t, 2, c.Len())
}
