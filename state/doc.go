// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the builtin components.
// It follows the flow as bellow:
//
//	          o
//	          |
//	[ revertable state ]
//	          |
//	  [ stacked map ] -> [ journal ] -> [ playback(commit) ] -> [ kv store ]
//	          |
//	   [ kv store reader ]
//
// Every storage slot is addressed by (contract address, 32 bytes key) and holds
// an rlp encoded value. Checkpoints taken by NewCheckpoint can be reverted,
// which is how a failed call leaves no trace.
package state
