// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tdrop

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountText(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"0", 0, true},
		{"1_000", 1000, true},
		{"0x64", 100, true},
		{"0X0064", 100, true},
		{"0x0", 0, true},
		{"0x", 0, false},
		{"-1", 0, false},
		{"1e18", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		var a Amount
		err := a.UnmarshalText([]byte(tt.in))
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, a.Int().Uint64(), tt.in)
	}

	var nilAmount *Amount
	assert.True(t, nilAmount.Int().IsZero())

	big := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	data, err := json.Marshal(struct {
		V *Amount `json:"v"`
	}{NewAmount(big)})
	require.NoError(t, err)
	assert.Equal(t, `{"v":"`+big.Dec()+`"}`, string(data))

	var back struct {
		V *Amount `json:"v"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, big, back.V.Int())
}
