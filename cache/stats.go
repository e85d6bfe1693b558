// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	"github.com/thetatoken/tdrop-governance/metrics"
)

var metricLookups = metrics.LazyLoadCounterVec("cache_lookup_count", []string{"cache", "result"})

// Stats counts lookups of a named cache and mirrors them to metrics.
type Stats struct {
	name      string
	hit, miss atomic.Int64
}

func (s *Stats) hitted() {
	s.hit.Add(1)
	metricLookups().AddWithLabel(1, map[string]string{"cache": s.name, "result": "hit"})
}

func (s *Stats) missed() {
	s.miss.Add(1)
	metricLookups().AddWithLabel(1, map[string]string{"cache": s.name, "result": "miss"})
}

// Counts returns the lookups served from the cache and those that loaded.
func (s *Stats) Counts() (hit, miss int64) {
	return s.hit.Load(), s.miss.Load()
}

// HitRate is hits over lookups, zero before any lookup.
func (s *Stats) HitRate() float64 {
	hit, miss := s.Counts()
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}
