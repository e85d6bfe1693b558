// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/test/testchain"
)

func newServer(t *testing.T, opts Options) (*testchain.Chain, *httptest.Server) {
	c, err := testchain.NewDefault()
	require.NoError(t, err)
	handler, closeAPI := New(c.Chain, c.LogDB(), opts)
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeAPI()
		ts.Close()
		c.Close()
	})
	return c, ts
}

func do(t *testing.T, req *http.Request) *http.Response {
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	return res
}

func TestRoutes(t *testing.T) {
	c, ts := newServer(t, Options{AllowedOrigins: "*", EnableMetrics: true})

	for _, path := range []string{"/pool", "/token", "/proposals", "/blocks/best", "/events",
		"/votes/" + c.Accounts()[0].Address.String(), "/delegates/" + c.Accounts()[0].Address.String()} {
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		require.NoError(t, err)
		res := do(t, req)
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Equal(t, c.GenesisID().String(), res.Header.Get("x-genesis-id"), path)
	}

	// operations are mounted in dev mode only
	for _, path := range []string{"/pool/stake", "/requests", "/token/approve"} {
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader("{}"))
		require.NoError(t, err)
		res := do(t, req)
		assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, res.StatusCode, path)
	}
}

func TestDevMode(t *testing.T) {
	_, ts := newServer(t, Options{DevMode: true})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/pool/emit", strings.NewReader("{}"))
	require.NoError(t, err)
	res := do(t, req)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestGenesisIDHeader(t *testing.T) {
	c, ts := newServer(t, Options{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/pool", nil)
	require.NoError(t, err)
	req.Header.Set("x-genesis-id", "0x"+strings.Repeat("00", 32))
	assert.Equal(t, http.StatusForbidden, do(t, req).StatusCode)

	req.Header.Set("x-genesis-id", strings.ToUpper(c.GenesisID().String()[2:]))
	assert.Equal(t, http.StatusForbidden, do(t, req).StatusCode)

	req.Header.Set("x-genesis-id", c.GenesisID().String())
	assert.Equal(t, http.StatusOK, do(t, req).StatusCode)
}

func TestCORS(t *testing.T) {
	_, ts := newServer(t, Options{AllowedOrigins: "https://example.org"})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/token", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	res := do(t, req)
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://other.org")
	res = do(t, req)
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(slog.NewTextHandler(&buf, nil))

	var seen string
	handler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(r.Body)
		seen = body.String()
	}), logger)

	req := httptest.NewRequest(http.MethodPost, "/pool/stake", strings.NewReader(`{"amount":"1"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{"amount":"1"}`, seen)
	assert.Contains(t, buf.String(), "API Request")
	assert.Contains(t, buf.String(), "/pool/stake")
}
