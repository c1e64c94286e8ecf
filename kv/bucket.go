// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"
)

// Bucket is a key prefix partitioning a store. The pool keeps its state and
// its metadata in separate buckets of the same database.
type Bucket string

var keyPool = sync.Pool{
	New: func() any {
		return new([]byte)
	},
}

// withKey calls fn with key prefixed by the bucket. The prefixed key is only
// valid during fn.
func (b Bucket) withKey(key []byte, fn func(k []byte)) {
	buf := keyPool.Get().(*[]byte)
	*buf = append(append((*buf)[:0], b...), key...)
	fn(*buf)
	keyPool.Put(buf)
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) (val []byte, err error) {
	g.b.withKey(key, func(k []byte) { val, err = g.src.Get(k) })
	return
}

func (g *bucketGetter) Has(key []byte) (has bool, err error) {
	g.b.withKey(key, func(k []byte) { has, err = g.src.Has(k) })
	return
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) (err error) {
	p.b.withKey(key, func(k []byte) { err = p.src.Put(k, val) })
	return
}

func (p *bucketPutter) Delete(key []byte) (err error) {
	p.b.withKey(key, func(k []byte) { err = p.src.Delete(k) })
	return
}

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (b *bucketBulk) Len() int     { return b.bulk.Len() }
func (b *bucketBulk) Write() error { return b.bulk.Write() }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &bucketBulk{bucketPutter{s.bucketPutter.b, bulk}, bulk}
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}
