// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/api/blocks"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/test/testchain"
)

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func TestBlocks(t *testing.T) {
	c, err := testchain.NewDefault()
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.MintBlocks(2))

	router := mux.NewRouter()
	blocks.New(c.Chain).Mount(router, "/blocks")
	ts := httptest.NewServer(router)
	defer ts.Close()

	code, data := httpGet(t, ts.URL+"/blocks/best")
	require.Equal(t, http.StatusOK, code)
	var best chain.Block
	require.NoError(t, json.Unmarshal(data, &best))
	assert.Equal(t, uint32(2), best.Number)
	assert.Equal(t, c.Head().ID, best.ID)

	code, data = httpGet(t, ts.URL+"/blocks/0")
	require.Equal(t, http.StatusOK, code)
	var genesis chain.Block
	require.NoError(t, json.Unmarshal(data, &genesis))
	assert.Equal(t, c.GenesisID(), genesis.ID)

	code, data = httpGet(t, ts.URL+"/blocks/3")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))

	code, data = httpGet(t, ts.URL+"/blocks?from=1&limit=5")
	require.Equal(t, http.StatusOK, code)
	var list []chain.Block
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, uint32(1), list[0].Number)
	assert.Equal(t, best.ID, list[1].ID)

	code, _ = httpGet(t, ts.URL+"/blocks?limit=101")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = httpGet(t, ts.URL+"/blocks/abc")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = httpGet(t, ts.URL+"/blocks/4294967296")
	assert.Equal(t, http.StatusBadRequest, code)
}
