// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health tracks whether the chain keeps producing blocks.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

type BlockIngestion struct {
	ID        *tdrop.Bytes32 `json:"id"`
	Number    uint32         `json:"number"`
	Timestamp *time.Time     `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
}

type Health struct {
	lock              sync.RWMutex
	timeBetweenBlocks time.Duration
	newHead           time.Time
	headID            *tdrop.Bytes32
	headNumber        uint32
}

// New creates a tracker expecting a block every timeBetweenBlocks. Zero disables the
// staleness check, for chains sealing on demand.
func New(timeBetweenBlocks time.Duration) *Health {
	return &Health{timeBetweenBlocks: timeBetweenBlocks}
}

func (h *Health) NewHead(id tdrop.Bytes32, number uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newHead = time.Now()
	h.headID = &id
	h.headNumber = number
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	newHead := h.newHead
	healthy := h.headID != nil
	if healthy && h.timeBetweenBlocks > 0 {
		// one missed block is tolerated
		healthy = time.Since(newHead) <= 2*h.timeBetweenBlocks
	}
	return &Status{
		Healthy: healthy,
		BlockIngestion: &BlockIngestion{
			ID:        h.headID,
			Number:    h.headNumber,
			Timestamp: &newHead,
		},
	}
}

// Watch records every head of c until ctx is done.
func (h *Health) Watch(ctx context.Context, c *chain.Chain) error {
	for {
		ticker := c.NewTicker()
		head := c.Head()
		h.NewHead(head.ID, head.Number)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker:
		}
	}
}
