// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("string"))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(ErrNotActive))

	wrapped := errors.WithMessage(ErrInsufficientShares, "unstake 0xabc")
	assert.True(t, IsRevertErr(wrapped))
	assert.True(t, errors.Is(wrapped, ErrInsufficientShares))
	assert.Equal(t, "InsufficientShares", KindOf(wrapped))
	assert.Equal(t, "", KindOf(errors.New("plain")))
	assert.Equal(t, "unstake 0xabc: insufficient shares", wrapped.Error())
}

func TestBytes(t *testing.T) {
	var nilErr *ErrRevert
	assert.Nil(t, nilErr.Bytes())

	b := New("X", "hi").Bytes()
	assert.Equal(t, "08c379a0", hex.EncodeToString(b[:4]))
	assert.Len(t, b, 4+32+32+32)
	assert.Equal(t, byte(32), b[4+31])
	assert.Equal(t, byte(2), b[4+63])
	assert.Equal(t, "hi", string(b[4+64:4+66]))
}
