// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/api/subscriptions"
	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/runtime"
	"github.com/thetatoken/tdrop-governance/test/testchain"
)

func newServer(t *testing.T, backtraceLimit uint32) (*testchain.Chain, string) {
	c, err := testchain.New(chain.Options{OnDemand: true})
	require.NoError(t, err)

	subs := subscriptions.New(c.Chain, c.LogDB(), []string{"*"}, backtraceLimit)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		subs.Close()
		ts.Close()
		c.Close()
	})
	return c, "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions"
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	res.Body.Close()
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func transfer(t *testing.T, c *testchain.Chain, amount uint64) {
	alice, bob := c.Accounts()[1].Address, c.Accounts()[2].Address
	require.NoError(t, c.Exec(func(rt *runtime.Runtime) error {
		return rt.Transfer(alice, bob, uint256.NewInt(amount))
	}))
}

func TestBlocks(t *testing.T) {
	c, url := newServer(t, 100)
	require.NoError(t, c.MintBlocks(2))

	conn := dial(t, url+"/blocks?pos=0")

	for n := uint32(1); n <= 2; n++ {
		var blk chain.Block
		require.NoError(t, conn.ReadJSON(&blk))
		assert.Equal(t, n, blk.Number)
	}

	// blocks sealed after subscribing are pushed as well
	require.NoError(t, c.MintBlocks(1))
	var blk chain.Block
	require.NoError(t, conn.ReadJSON(&blk))
	assert.Equal(t, uint32(3), blk.Number)
	assert.Equal(t, c.Head().ID, blk.ID)
}

func TestBlocksFromHead(t *testing.T) {
	c, url := newServer(t, 100)
	require.NoError(t, c.MintBlocks(2))

	conn := dial(t, url+"/blocks")
	require.NoError(t, c.MintBlocks(1))

	var blk chain.Block
	require.NoError(t, conn.ReadJSON(&blk))
	assert.Equal(t, uint32(3), blk.Number)
}

func TestEvents(t *testing.T) {
	c, url := newServer(t, 100)
	head := c.Head().Number
	transfer(t, c, 1)

	conn := dial(t, url+"/events?name=Transfer&address="+builtin.Token.Address.String()+"&pos="+itoa(head))

	var ev logdb.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "Transfer", ev.Name)
	assert.Equal(t, head+1, ev.BlockNumber)

	transfer(t, c, 2)
	ev = logdb.Event{}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "Transfer", ev.Name)
	assert.Equal(t, head+2, ev.BlockNumber)
	assert.Equal(t, builtin.Token.Address, ev.Address)
}

func TestRejectedSubscriptions(t *testing.T) {
	c, url := newServer(t, 2)
	require.NoError(t, c.MintBlocks(5))
	head := c.Head().Number

	tests := []struct {
		name string
		path string
		code int
	}{
		{"beyond head", "/blocks?pos=" + itoa(head+1), http.StatusBadRequest},
		{"malformed pos", "/blocks?pos=abc", http.StatusBadRequest},
		{"backtrace limit", "/blocks?pos=0", http.StatusForbidden},
		{"unknown subject", "/transfers", http.StatusNotFound},
		{"bad address", "/events?address=0xzz", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res, err := websocket.DefaultDialer.Dial(url+tt.path, nil)
			require.Error(t, err)
			require.NotNil(t, res)
			defer res.Body.Close()
			assert.Equal(t, tt.code, res.StatusCode)
		})
	}
}

func itoa(n uint32) string {
	return strconv.FormatUint(uint64(n), 10)
}
