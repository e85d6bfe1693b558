// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv declares the key-value store contracts the chain and state
// layers persist through.
package kv

import "bytes"

type (
	// Getter reads keys. A missing key yields an error recognised by IsNotFound.
	Getter interface {
		Get(key []byte) ([]byte, error)
		Has(key []byte) (bool, error)
		IsNotFound(err error) bool
		NewIterator(r Range) Iterator
	}

	// Putter writes and removes keys.
	Putter interface {
		Put(key, value []byte) error
		Delete(key []byte) error
	}

	// GetPutter is a store able to stage writes in a batch.
	GetPutter interface {
		Getter
		Putter
		NewBatch() Batch
	}

	// Store is a GetPutter owning an underlying resource.
	Store interface {
		GetPutter
		Close() error
	}

	// Batch collects writes applied atomically by Write.
	Batch interface {
		Putter
		Len() int
		Write() error
	}

	// Iterator walks keys in ascending order.
	Iterator interface {
		Next() bool
		Key() []byte
		Value() []byte
		Error() error
		Release()
	}
)

// Range selects keys in [From, To). A nil To is unbounded.
type Range struct {
	From []byte
	To   []byte
}

// Bucket namespaces keys by a fixed prefix.
type Bucket string

// Key returns key under the bucket prefix.
func (b Bucket) Key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	k = append(k, b...)
	return append(k, key...)
}

func (b Bucket) Get(src Getter, key []byte) ([]byte, error) { return src.Get(b.Key(key)) }

func (b Bucket) Put(dst Putter, key, val []byte) error { return dst.Put(b.Key(key), val) }

func (b Bucket) Delete(dst Putter, key []byte) error { return dst.Delete(b.Key(key)) }

// Range covers every key in the bucket.
func (b Bucket) Range() Range {
	from := []byte(b)
	to := bytes.Clone(from)
	for i := len(to) - 1; i >= 0; i-- {
		if to[i] < 0xff {
			to[i]++
			return Range{From: from, To: to[:i+1]}
		}
	}
	return Range{From: from}
}

// Iterate calls fn with each key (prefix stripped) and value of the bucket,
// starting at start, until fn returns false.
func (b Bucket) Iterate(src Getter, start []byte, fn func(key, val []byte) bool) error {
	r := b.Range()
	r.From = b.Key(start)
	it := src.NewIterator(r)
	defer it.Release()
	for it.Next() {
		if !fn(it.Key()[len(b):], it.Value()) {
			break
		}
	}
	return it.Error()
}
