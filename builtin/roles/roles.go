// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package roles implements the role registry gating privileged operations.
package roles

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var logger = log.WithContext("pkg", "roles")

// Role names a privilege tier.
type Role uint8

const (
	SuperAdmin Role = iota + 1
	Admin
	Operator
	Minter
	Airdropper
	LiquidityMiner
)

func (r Role) String() string {
	switch r {
	case SuperAdmin:
		return "superadmin"
	case Admin:
		return "admin"
	case Operator:
		return "operator"
	case Minter:
		return "minter"
	case Airdropper:
		return "airdropper"
	case LiquidityMiner:
		return "liquidityminer"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r >= SuperAdmin && r <= LiquidityMiner
}

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	for r := SuperAdmin; r <= LiquidityMiner; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, errors.WithMessagef(reverts.ErrInvalidArgument, "unknown role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errors.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// granter returns the role allowed to grant or revoke r.
func (r Role) granter() Role {
	if r == SuperAdmin || r == Admin {
		return SuperAdmin
	}
	return Admin
}

// Authorizer checks an account holds a role.
type Authorizer interface {
	RequireRole(account tdrop.Address, role Role) error
}

type memberKey struct {
	role    Role
	account tdrop.Address
}

func (k memberKey) Bytes() []byte {
	return append([]byte{byte(k.role)}, k.account.Bytes()...)
}

var slotMembers = tdrop.BytesToBytes32([]byte("members"))

// Roles is the role registry.
type Roles struct {
	sctx    *solidity.Context
	members *solidity.Mapping[memberKey, bool]
}

var _ Authorizer = (*Roles)(nil)

func New(sctx *solidity.Context) *Roles {
	return &Roles{
		sctx:    sctx,
		members: solidity.NewMapping[memberKey, bool](sctx, slotMembers),
	}
}

// HasRole reports whether account holds role.
func (r *Roles) HasRole(account tdrop.Address, role Role) (bool, error) {
	return r.members.Get(memberKey{role, account})
}

// RequireRole fails with Unauthorized if account lacks role.
func (r *Roles) RequireRole(account tdrop.Address, role Role) error {
	ok, err := r.HasRole(account, role)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithMessagef(reverts.ErrUnauthorized, "%v is not %v", account, role)
	}
	return nil
}

// Setup grants role without authorization. Used by genesis only.
func (r *Roles) Setup(role Role, account tdrop.Address) error {
	if !role.Valid() {
		return reverts.ErrInvalidArgument
	}
	return r.set(role, account, true)
}

// Grant grants role to account on behalf of caller.
func (r *Roles) Grant(caller tdrop.Address, role Role, account tdrop.Address) error {
	if !role.Valid() || account.IsZero() {
		return reverts.ErrInvalidArgument
	}
	if err := r.RequireRole(caller, role.granter()); err != nil {
		return err
	}
	if err := r.set(role, account, true); err != nil {
		return err
	}
	r.sctx.Emit("RoleGranted", "role", role, "account", account, "sender", caller)
	logger.Debug("role granted", "role", role, "account", account, "sender", caller)
	return nil
}

// Revoke revokes role from account on behalf of caller.
func (r *Roles) Revoke(caller tdrop.Address, role Role, account tdrop.Address) error {
	if !role.Valid() {
		return reverts.ErrInvalidArgument
	}
	if err := r.RequireRole(caller, role.granter()); err != nil {
		return err
	}
	if err := r.set(role, account, false); err != nil {
		return err
	}
	r.sctx.Emit("RoleRevoked", "role", role, "account", account, "sender", caller)
	logger.Debug("role revoked", "role", role, "account", account, "sender", caller)
	return nil
}

func (r *Roles) set(role Role, account tdrop.Address, granted bool) error {
	if !granted {
		r.members.Delete(memberKey{role, account})
		return nil
	}
	return r.members.Set(memberKey{role, account}, true)
}
