// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/api/requests"
	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/test/testchain"
)

func httpPost(t *testing.T, url string, body any) (int, *requests.Receipt) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode != http.StatusOK {
		return res.StatusCode, nil
	}
	var receipt requests.Receipt
	require.NoError(t, json.Unmarshal(data, &receipt), string(data))
	return res.StatusCode, &receipt
}

func TestExecute(t *testing.T) {
	c, err := testchain.New(chain.Options{OnDemand: true})
	require.NoError(t, err)
	defer c.Close()

	router := mux.NewRouter()
	requests.New(c.Chain).Mount(router, "/requests")
	ts := httptest.NewServer(router)
	defer ts.Close()

	alice := c.Accounts()[1].Address
	amount := big.NewInt(1000)
	approve, err := builtin.EncodeCall("approve(address,uint256)", common.Address(builtin.Pool.Address), amount)
	require.NoError(t, err)
	stake, err := builtin.EncodeCallWithSelector("stake(uint256)", amount)
	require.NoError(t, err)

	code, receipt := httpPost(t, ts.URL+"/requests", &requests.Request{
		Origin: alice,
		Clauses: []*requests.Clause{
			{To: builtin.Token.Address, Signature: "approve(address,uint256)", Data: approve},
			{To: builtin.Pool.Address, Data: stake},
		},
	})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, receipt.Reverted)
	names := make([]string, 0, len(receipt.Events))
	for _, ev := range receipt.Events {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "Approval")
	assert.Contains(t, names, "Staked")

	// the second clause fails, so the first is discarded too
	code, receipt = httpPost(t, ts.URL+"/requests", &requests.Request{
		Origin: alice,
		Clauses: []*requests.Clause{
			{To: builtin.Token.Address, Signature: "approve(address,uint256)", Data: approve},
			{To: builtin.Pool.Address, Signature: "unstake(uint256)", Data: common.LeftPadBytes(big.NewInt(5000).Bytes(), 32)},
		},
	})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "InsufficientShares", receipt.RevertKind)
	assert.Empty(t, receipt.Events)

	code, _ = httpPost(t, ts.URL+"/requests", &requests.Request{Origin: alice})
	assert.Equal(t, http.StatusBadRequest, code)
}
