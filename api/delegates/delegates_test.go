// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegates_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/api/delegates"
	"github.com/thetatoken/tdrop-governance/builtin"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/runtime"
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

func httpPost(t *testing.T, url string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func TestDelegates(t *testing.T) {
	c, err := testchain.New(chain.Options{OnDemand: true})
	require.NoError(t, err)
	defer c.Close()

	router := mux.NewRouter()
	delegates.New(c.Chain, true).Mount(router, "/delegates")
	ts := httptest.NewServer(router)
	defer ts.Close()

	alice, bob := c.Accounts()[1].Address, c.Accounts()[2].Address
	amount := uint256.NewInt(100)
	require.NoError(t, c.Exec(func(rt *runtime.Runtime) error {
		if err := rt.Approve(alice, builtin.Pool.Address, amount); err != nil {
			return err
		}
		_, err := rt.Stake(alice, amount)
		return err
	}))

	code, data := httpPost(t, ts.URL+"/delegates", &delegates.DelegateRequest{Delegator: alice, Delegatee: bob})
	require.Equal(t, http.StatusOK, code, string(data))

	var got delegates.Delegation
	code, data = httpGet(t, ts.URL+"/delegates/"+alice.String())
	require.Equal(t, http.StatusOK, code, string(data))
	require.NoError(t, json.Unmarshal(data, &got))
	require.NotNil(t, got.Delegate)
	assert.Equal(t, bob, *got.Delegate)
	assert.True(t, got.Weight.Int().IsZero())
	require.Len(t, got.Checkpoints, 2)
	assert.Equal(t, uint32(1), got.Checkpoints[0].Height)
	assert.Equal(t, amount, got.Checkpoints[0].Weight.Int())
	assert.Equal(t, uint32(2), got.Checkpoints[1].Height)
	assert.True(t, got.Checkpoints[1].Weight.Int().IsZero())

	got = delegates.Delegation{}
	code, data = httpGet(t, ts.URL+"/delegates/"+bob.String())
	require.Equal(t, http.StatusOK, code, string(data))
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got.Delegate)
	assert.Equal(t, amount, got.Weight.Int())
	require.Len(t, got.Checkpoints, 1)
	assert.Equal(t, uint32(2), got.Checkpoints[0].Height)

	// back to self
	code, data = httpPost(t, ts.URL+"/delegates", &delegates.DelegateRequest{Delegator: alice})
	require.Equal(t, http.StatusOK, code, string(data))
	require.NoError(t, c.View(func(n *builtin.Natives) error {
		w, err := n.Pool().Checkpoints().CurrentWeight(alice)
		assert.Equal(t, amount, w)
		return err
	}))

	code, _ = httpGet(t, ts.URL+"/delegates/bad")
	assert.Equal(t, http.StatusBadRequest, code)
}
