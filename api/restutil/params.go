// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/tdrop"
)

// AddressVar parses the address path variable name.
func AddressVar(req *http.Request, name string) (tdrop.Address, error) {
	addr, err := tdrop.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return tdrop.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Uint64Var parses the unsigned integer path variable name.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Uint64Query parses the optional query parameter name. ok is false when it is absent.
func Uint64Query(req *http.Request, name string) (v uint64, ok bool, err error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, BadRequest(errors.WithMessage(err, name))
	}
	return v, true, nil
}
