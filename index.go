// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"net/netip"

	"github.com/gaissmai/radix/internal/patricia"
)

// index keeps the IPv4 and IPv6 trees apart, no operation
// ever touches the tree of the other family.
type index[V any] struct {
	root4 *patricia.Trie[V]
	root6 *patricia.Trie[V]
}

func newIndex[V any]() index[V] {
	return index[V]{
		root4: patricia.New[V](32),
		root6: patricia.New[V](128),
	}
}

// trieByVersion, select the tree for the ip version.
func (x *index[V]) trieByVersion(is4 bool) *patricia.Trie[V] {
	if is4 {
		return x.root4
	}
	return x.root6
}

// selectTrie dispatches on the family of pfx.
func (x *index[V]) selectTrie(pfx netip.Prefix) *patricia.Trie[V] {
	return x.trieByVersion(pfx.Addr().Is4())
}

// tries, IPv4 first.
func (x *index[V]) tries() [2]*patricia.Trie[V] {
	return [2]*patricia.Trie[V]{x.root4, x.root6}
}

func (x *index[V]) total() int {
	return x.root4.Len() + x.root6.Len()
}

// reset destroys both trees, they are empty and reusable afterwards.
func (x *index[V]) reset() {
	x.root4.Destroy()
	x.root6.Destroy()
}

// release destroys and drops both trees.
func (x *index[V]) release() {
	x.reset()
	x.root4 = nil
	x.root6 = nil
}
