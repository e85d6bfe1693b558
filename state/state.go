// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/thetatoken/tdrop-governance/kv"
	"github.com/thetatoken/tdrop-governance/stackedmap"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

const storageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr tdrop.Address
	key  tdrop.Bytes32
}

func (k storageKey) dbKey() []byte {
	return storageBucket.Key(append(k.addr.Bytes(), k.key.Bytes()...))
}

// State manages contract storage.
type State struct {
	db kv.Getter
	sm *stackedmap.Map[storageKey, rlp.RawValue]
}

// New create state object on top of the given kv store.
func New(db kv.Getter) *State {
	s := &State{db: db}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(func(k storageKey) (rlp.RawValue, bool, error) {
		data, err := s.db.Get(k.dbKey())
		if err != nil {
			if s.db.IsNotFound(err) {
				return rlp.RawValue(nil), true, nil
			}
			return nil, false, err
		}
		return rlp.RawValue(data), true, nil
	})
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr tdrop.Address, key tdrop.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr tdrop.Address, key tdrop.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr tdrop.Address, key tdrop.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr tdrop.Address, key tdrop.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Changes returns the number of uncommitted slot writes.
func (s *State) Changes() (n int) {
	s.sm.Journal(func(storageKey, rlp.RawValue) bool {
		n++
		return true
	})
	return
}

// Commit plays back the journal into the given batch and writes it.
// The state keeps working on top of the committed data afterwards.
func (s *State) Commit(batch kv.Batch) error {
	latest := make(map[storageKey]rlp.RawValue)
	var order []storageKey
	s.sm.Journal(func(key storageKey, v rlp.RawValue) bool {
		if _, ok := latest[key]; !ok {
			order = append(order, key)
		}
		latest[key] = v
		return true
	})

	for _, key := range order {
		var err error
		if raw := latest[key]; len(raw) == 0 {
			err = batch.Delete(key.dbKey())
		} else {
			err = batch.Put(key.dbKey(), raw)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	s.reset()
	return nil
}
