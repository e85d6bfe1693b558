// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stackedmap provides a layered write buffer with nested
// checkpoints, used by state to make each operation all-or-nothing.
package stackedmap

// Source loads a key absent from every layer.
type Source[K comparable, V any] func(key K) (value V, exist bool, err error)

// Map overlays layers of writes on a Source. Writes land in the top layer;
// popping a layer discards them.
type Map[K comparable, V any] struct {
	src    Source[K, V]
	layers []*layer[K, V]
}

type layer[K comparable, V any] struct {
	vals    map[K]V
	journal []entry[K, V]
}

type entry[K comparable, V any] struct {
	key K
	val V
}

// New returns a map with one base layer over src.
func New[K comparable, V any](src Source[K, V]) *Map[K, V] {
	m := &Map[K, V]{src: src}
	m.Push()
	return m
}

func (m *Map[K, V]) Depth() int { return len(m.layers) }

// Push opens a layer and returns the depth to pass to PopTo to discard it.
func (m *Map[K, V]) Push() int {
	m.layers = append(m.layers, &layer[K, V]{vals: make(map[K]V)})
	return len(m.layers) - 1
}

// Pop discards the top layer.
func (m *Map[K, V]) Pop() {
	m.layers[len(m.layers)-1] = nil
	m.layers = m.layers[:len(m.layers)-1]
}

// PopTo discards layers until depth remain.
func (m *Map[K, V]) PopTo(depth int) {
	for len(m.layers) > depth {
		m.Pop()
	}
}

// Get returns the newest value of key, falling back to the source.
func (m *Map[K, V]) Get(key K) (V, bool, error) {
	for i := len(m.layers) - 1; i >= 0; i-- {
		if v, ok := m.layers[i].vals[key]; ok {
			return v, true, nil
		}
	}
	return m.src(key)
}

// Put writes key in the top layer. It panics when every layer was popped.
func (m *Map[K, V]) Put(key K, val V) {
	top := m.layers[len(m.layers)-1]
	top.vals[key] = val
	top.journal = append(top.journal, entry[K, V]{key, val})
}

// Journal replays the surviving writes in order until fn returns false.
func (m *Map[K, V]) Journal(fn func(key K, val V) bool) {
	for _, l := range m.layers {
		for _, e := range l.journal {
			if !fn(e.key, e.val) {
				return
			}
		}
	}
}
