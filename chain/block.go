// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/thetatoken/tdrop-governance/kv"
	"github.com/thetatoken/tdrop-governance/tdrop"
	"github.com/thetatoken/tdrop-governance/xenv"
)

var (
	blockBucket = kv.Bucket("b")
	chainBucket = kv.Bucket("c")

	headKey    = []byte("head")
	genesisKey = []byte("genesis")
)

// Block is a sealed block.
type Block struct {
	ID         tdrop.Bytes32 `json:"id"`
	ParentID   tdrop.Bytes32 `json:"parentID"`
	Number     uint32        `json:"number"`
	Timestamp  uint64        `json:"timestamp"`
	EventCount uint32        `json:"eventCount"`
}

// newBlock builds the block following parent. Its id commits to the parent, the position and the events.
func newBlock(parent *Block, ctx *xenv.BlockContext, events []*xenv.Event) (*Block, error) {
	encoded, err := rlp.EncodeToBytes(events)
	if err != nil {
		return nil, err
	}
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[:4], ctx.Number)
	binary.BigEndian.PutUint64(buf[4:], ctx.Time)

	return &Block{
		ID:         tdrop.Blake2b(parent.ID[:], buf[:], encoded),
		ParentID:   parent.ID,
		Number:     ctx.Number,
		Timestamp:  ctx.Time,
		EventCount: uint32(len(events)),
	}, nil
}

func numberKey(n uint32) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], n)
	return k[:]
}

func saveBlock(w kv.Putter, b *Block) error {
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		return err
	}
	if err := blockBucket.Put(w, numberKey(b.Number), data); err != nil {
		return err
	}
	return chainBucket.Put(w, headKey, numberKey(b.Number))
}

func loadBlock(r kv.Getter, n uint32) (*Block, error) {
	data, err := blockBucket.Get(r, numberKey(n))
	if err != nil {
		return nil, err
	}
	var b Block
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// loadBlocks reads at most limit consecutive blocks from n.
func loadBlocks(r kv.Getter, n uint32, limit int) ([]*Block, error) {
	blocks := make([]*Block, 0)
	var decodeErr error
	err := blockBucket.Iterate(r, numberKey(n), func(_, val []byte) bool {
		var b Block
		if decodeErr = rlp.DecodeBytes(val, &b); decodeErr != nil {
			return false
		}
		blocks = append(blocks, &b)
		return len(blocks) < limit
	})
	if err != nil {
		return nil, err
	}
	return blocks, decodeErr
}

func loadHead(r kv.Getter) (*Block, error) {
	data, err := chainBucket.Get(r, headKey)
	if err != nil {
		return nil, err
	}
	return loadBlock(r, binary.BigEndian.Uint32(data))
}
