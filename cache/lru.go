// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache memoises immutable lookups, such as voting weights at
// finalized heights.
package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// LRU is a bounded cache of values that never change once loaded.
type LRU struct {
	*lru.Cache
	stats Stats
}

// NewLRU creates a cache holding up to size entries, reported under name.
func NewLRU(name string, size int) (*LRU, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "cache %v", name)
	}
	return &LRU{Cache: c, stats: Stats{name: name}}, nil
}

// Loader produces the value of a missing key.
type Loader func(key any) (any, error)

// GetOrLoad returns the cached value of key, loading and caching it on a miss.
// Failed loads are not cached.
func (l *LRU) GetOrLoad(key any, load Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.stats.hitted()
		return v, nil
	}
	l.stats.missed()
	v, err := load(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

func (l *LRU) Stats() *Stats {
	return &l.stats
}
