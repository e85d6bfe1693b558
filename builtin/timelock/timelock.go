// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timelock holds privileged configuration authority behind a mandatory delay.
package timelock

import (
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/builtin/reverts"
	"github.com/thetatoken/tdrop-governance/builtin/solidity"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

var logger = log.WithContext("pkg", "timelock")

var (
	slotAdmin  = tdrop.BytesToBytes32([]byte("admin"))
	slotParams = tdrop.BytesToBytes32([]byte("params"))
	slotQueued = tdrop.BytesToBytes32([]byte("queued"))
)

type Timelock struct {
	sctx     *solidity.Context
	ledger   Transferer
	executor Executor
	admin    *solidity.Raw[tdrop.Address]
	params   *solidity.Raw[*Params]
	queued   *solidity.Mapping[tdrop.Bytes32, bool]
}

func New(sctx *solidity.Context, ledger Transferer, executor Executor) *Timelock {
	return &Timelock{
		sctx:     sctx,
		ledger:   ledger,
		executor: executor,
		admin:    solidity.NewRaw[tdrop.Address](sctx, slotAdmin),
		params:   solidity.NewRaw[*Params](sctx, slotParams),
		queued:   solidity.NewMapping[tdrop.Bytes32, bool](sctx, slotQueued),
	}
}

// Address returns the timelock address.
func (t *Timelock) Address() tdrop.Address {
	return t.sctx.Address()
}

// Init sets admin and timing bounds. Used by genesis.
func (t *Timelock) Init(admin tdrop.Address, params *Params) error {
	if params.MinimumDelay > params.MaximumDelay ||
		params.Delay < params.MinimumDelay ||
		params.Delay > params.MaximumDelay {
		return errors.WithMessage(reverts.ErrInvalidArgument, "delay out of bounds")
	}
	if err := t.admin.Upsert(admin); err != nil {
		return err
	}
	return t.params.Upsert(params)
}

// Admin returns the only account allowed to queue, execute and cancel.
func (t *Timelock) Admin() (tdrop.Address, error) {
	return t.admin.Get()
}

// Params returns the timing bounds.
func (t *Timelock) Params() (*Params, error) {
	p, err := t.params.Get()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return DefaultParams(), nil
	}
	return p, nil
}

// IsQueued reports whether the action with key is queued.
func (t *Timelock) IsQueued(key tdrop.Bytes32) (bool, error) {
	return t.queued.Get(key)
}

func (t *Timelock) requireAdmin(caller tdrop.Address) error {
	admin, err := t.Admin()
	if err != nil {
		return err
	}
	if caller != admin {
		return errors.WithMessage(reverts.ErrUnauthorized, "caller is not the timelock admin")
	}
	return nil
}

// QueueAction schedules action. Its ETA must leave at least the current delay.
func (t *Timelock) QueueAction(caller tdrop.Address, action *Action) (tdrop.Bytes32, error) {
	if err := t.requireAdmin(caller); err != nil {
		return tdrop.Bytes32{}, err
	}
	params, err := t.Params()
	if err != nil {
		return tdrop.Bytes32{}, err
	}
	if action.ETA < t.sctx.BlockTime()+params.Delay {
		return tdrop.Bytes32{}, errors.WithMessagef(reverts.ErrInvalidArgument, "eta %d does not satisfy delay", action.ETA)
	}
	key := action.Key()
	queued, err := t.IsQueued(key)
	if err != nil {
		return tdrop.Bytes32{}, err
	}
	if queued {
		return tdrop.Bytes32{}, errors.WithMessagef(reverts.ErrAlreadyQueued, "action %v", key)
	}
	if err := t.queued.Set(key, true); err != nil {
		return tdrop.Bytes32{}, err
	}
	t.sctx.Emit("QueueTx", "key", key, "target", action.Target, "value", action.Value, "signature", action.Signature, "eta", action.ETA)
	logger.Debug("action queued", "key", key, "target", action.Target, "signature", action.Signature, "eta", action.ETA)
	return key, nil
}

// ExecuteAction performs a queued action inside [eta, eta+gracePeriod].
func (t *Timelock) ExecuteAction(caller tdrop.Address, action *Action) error {
	if err := t.requireAdmin(caller); err != nil {
		return err
	}
	key := action.Key()
	queued, err := t.IsQueued(key)
	if err != nil {
		return err
	}
	if !queued {
		return errors.WithMessagef(reverts.ErrNotQueued, "action %v", key)
	}
	params, err := t.Params()
	if err != nil {
		return err
	}
	now := t.sctx.BlockTime()
	if now < action.ETA {
		return errors.WithMessagef(reverts.ErrStaleAction, "action %v locked until %d", key, action.ETA)
	}
	if now > action.ETA+params.GracePeriod {
		return errors.WithMessagef(reverts.ErrStaleAction, "action %v expired at %d", key, action.ETA+params.GracePeriod)
	}

	t.queued.Delete(key)
	if action.Value != nil && !action.Value.IsZero() {
		if err := t.ledger.Transfer(t.Address(), action.Target, action.Value); err != nil {
			return errors.WithMessage(err, "transfer action value")
		}
	}
	if err := t.executor.Call(t.Address(), action.Target, action.Signature, action.Data); err != nil {
		return errors.WithMessagef(err, "execute %v %q", action.Target, action.Signature)
	}
	t.sctx.Emit("ExecuteTx", "key", key, "target", action.Target, "value", action.Value, "signature", action.Signature, "eta", action.ETA)
	logger.Debug("action executed", "key", key, "target", action.Target, "signature", action.Signature)
	return nil
}

// CancelAction drops a queued action. Absent actions are ignored.
func (t *Timelock) CancelAction(caller tdrop.Address, action *Action) error {
	if err := t.requireAdmin(caller); err != nil {
		return err
	}
	key := action.Key()
	queued, err := t.IsQueued(key)
	if err != nil || !queued {
		return err
	}
	t.queued.Delete(key)
	t.sctx.Emit("CancelTx", "key", key, "target", action.Target, "signature", action.Signature, "eta", action.ETA)
	return nil
}

// SetDelay changes the delay. Only the timelock itself may call it, through a queued action.
func (t *Timelock) SetDelay(caller tdrop.Address, delay uint64) error {
	if caller != t.Address() {
		return errors.WithMessage(reverts.ErrUnauthorized, "delay can only be set by the timelock")
	}
	params, err := t.Params()
	if err != nil {
		return err
	}
	if delay < params.MinimumDelay || delay > params.MaximumDelay {
		return errors.WithMessagef(reverts.ErrInvalidArgument, "delay %d out of [%d, %d]", delay, params.MinimumDelay, params.MaximumDelay)
	}
	params.Delay = delay
	if err := t.params.Upsert(params); err != nil {
		return err
	}
	t.sctx.Emit("NewDelay", "delay", delay)
	logger.Info("timelock delay changed", "delay", delay)
	return nil
}
