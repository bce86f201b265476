// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package patricia implements a path-compressed binary radix tree
// over the address bits of a single IP version.
//
// Nodes are either terminals, carrying a prefix and a value, or glue
// nodes that only mark a branching bit. A glue node has always
// exactly two children, so the tree never keeps dead structure
// around after deletions.
package patricia

import (
	"iter"
	"math/bits"
	"net/netip"
)

// maxTreeDepth, bit positions strictly increase on every path,
// so no path is longer than 128+1 nodes.
const maxTreeDepth = 129

// key is the address in network order, IPv4 in the first 4 bytes.
type key [16]byte

func keyOf(a netip.Addr) (k key) {
	if a.Is4() {
		a4 := a.As4()
		copy(k[:], a4[:])
		return k
	}
	return a.As16()
}

// bit reports whether the bit at position i, counted from the MSB, is set.
func (k *key) bit(i int) bool {
	return k[i>>3]&(0x80>>(i&7)) != 0
}

// firstDiff returns the position of the first differing bit of a and b,
// but not more than limit.
func firstDiff(a, b *key, limit int) int {
	for i := 0; i*8 < limit; i++ {
		if x := a[i] ^ b[i]; x != 0 {
			return min(i*8+bits.LeadingZeros8(x), limit)
		}
	}
	return limit
}

// Node is a tree node. Only terminal nodes are handed out by the Trie.
type Node[V any] struct {
	bit      int // test bit for glue nodes, prefix length for terminals
	key      key
	prefix   netip.Prefix
	terminal bool
	val      V

	left   *Node[V]
	right  *Node[V]
	parent *Node[V]
}

// Prefix returns the normalized prefix of a terminal node.
func (n *Node[V]) Prefix() netip.Prefix {
	return n.prefix
}

// Value returns the payload.
func (n *Node[V]) Value() V {
	return n.val
}

// SetValue overwrites the payload in place.
func (n *Node[V]) SetValue(val V) {
	n.val = val
}

// Trie is a patricia tree for one IP version.
// The zero value is not usable, see New.
type Trie[V any] struct {
	root    *Node[V]
	maxBits int
	size    int // terminals
	nodes   int // terminals and glue nodes
}

// New returns an empty Trie for addresses with maxBits bits, 32 or 128.
func New[V any](maxBits int) *Trie[V] {
	return &Trie[V]{maxBits: maxBits}
}

// Len returns the number of terminal nodes.
func (t *Trie[V]) Len() int {
	return t.size
}

// Nodes returns the number of all nodes, terminals and glue nodes.
func (t *Trie[V]) Nodes() int {
	return t.nodes
}

// MaxBits returns the address width of the tree.
func (t *Trie[V]) MaxBits() int {
	return t.maxBits
}

// testBit is k.bit(i) guarded against host routes, they have no further bits.
func (t *Trie[V]) testBit(k *key, i int) bool {
	return i < t.maxBits && k.bit(i)
}

// InsertOrFind returns the terminal node for pfx, created reports
// whether the node is new. An existing terminal is returned
// unchanged, the caller decides about the value.
func (t *Trie[V]) InsertOrFind(pfx netip.Prefix) (n *Node[V], created bool) {
	// always normalize the prefix
	pfx = pfx.Masked()

	k := keyOf(pfx.Addr())
	pfxLen := pfx.Bits()

	if t.root == nil {
		n = t.newTerminal(pfx, k)
		t.root = n
		return n, true
	}

	// descend to the closest terminal, glue nodes have two children
	// so the loop never stops on a glue node
	n = t.root
	for n.bit < pfxLen || !n.terminal {
		next := n.left
		if t.testBit(&k, n.bit) {
			next = n.right
		}
		if next == nil {
			break
		}
		n = next
	}

	closest := n.key
	differBit := firstDiff(&k, &closest, min(n.bit, pfxLen))

	// go up to the insertion point
	for n.parent != nil && n.parent.bit >= differBit {
		n = n.parent
	}

	// exact hit
	if differBit == pfxLen && n.bit == pfxLen {
		if n.terminal {
			return n, false
		}

		// glue node turns into a terminal
		n.terminal = true
		n.prefix = pfx
		n.key = k
		t.size++
		return n, true
	}

	nn := t.newTerminal(pfx, k)

	// nn becomes a child of n, the slot is free
	if n.bit == differBit {
		nn.parent = n
		if t.testBit(&k, n.bit) {
			n.right = nn
		} else {
			n.left = nn
		}
		return nn, true
	}

	// nn covers n and takes its place
	if pfxLen == differBit {
		if t.testBit(&closest, pfxLen) {
			nn.right = n
		} else {
			nn.left = n
		}
		t.replace(n, nn)
		n.parent = nn
		return nn, true
	}

	// nn and n become siblings below a new glue node
	glue := &Node[V]{bit: differBit}
	t.nodes++

	if t.testBit(&k, differBit) {
		glue.left, glue.right = n, nn
	} else {
		glue.left, glue.right = nn, n
	}
	t.replace(n, glue)
	n.parent = glue
	nn.parent = glue

	return nn, true
}

// SearchExact returns the terminal node for pfx or nil.
func (t *Trie[V]) SearchExact(pfx netip.Prefix) *Node[V] {
	pfx = pfx.Masked()

	k := keyOf(pfx.Addr())
	pfxLen := pfx.Bits()

	n := t.root
	for n != nil && n.bit < pfxLen {
		if k.bit(n.bit) {
			n = n.right
		} else {
			n = n.left
		}
	}

	if n == nil || !n.terminal || n.prefix != pfx {
		return nil
	}
	return n
}

// SearchBest returns the terminal with the longest prefix
// covering pfx, or nil.
func (t *Trie[V]) SearchBest(pfx netip.Prefix) *Node[V] {
	pfx = pfx.Masked()

	k := keyOf(pfx.Addr())
	pfxLen := pfx.Bits()

	// candidates on the descent path, shortest first
	stack := [maxTreeDepth]*Node[V]{}
	top := 0

	n := t.root
	for n != nil && n.bit < pfxLen {
		if n.terminal {
			stack[top] = n
			top++
		}
		if k.bit(n.bit) {
			n = n.right
		} else {
			n = n.left
		}
	}
	if n != nil && n.terminal {
		stack[top] = n
		top++
	}

	// unwind, longest first
	for top > 0 {
		top--
		n = stack[top]
		if n.prefix.Bits() <= pfxLen && n.prefix.Contains(pfx.Addr()) {
			return n
		}
	}
	return nil
}

// Remove deletes the terminal for pfx and reports whether it existed.
func (t *Trie[V]) Remove(pfx netip.Prefix) bool {
	n := t.SearchExact(pfx)
	if n == nil {
		return false
	}

	var zero V
	n.val = zero
	t.size--

	// two children, keep it as glue node
	if n.left != nil && n.right != nil {
		n.terminal = false
		n.prefix = netip.Prefix{}
		n.key = key{}
		return true
	}

	t.nodes--

	// one child, splice n out
	if n.left != nil || n.right != nil {
		child := n.left
		if child == nil {
			child = n.right
		}
		t.replace(n, child)
		n.parent, n.left, n.right = nil, nil, nil
		return true
	}

	// leaf, unlink it
	parent := n.parent
	n.parent = nil

	if parent == nil {
		t.root = nil
		return true
	}

	var sibling *Node[V]
	if parent.right == n {
		parent.right = nil
		sibling = parent.left
	} else {
		parent.left = nil
		sibling = parent.right
	}

	if parent.terminal {
		return true
	}

	// glue node with a single child left, purge it
	t.replace(parent, sibling)
	parent.parent, parent.left, parent.right = nil, nil, nil
	t.nodes--

	return true
}

// All returns an iterator over all terminal nodes in pre-order,
// left before right. For normalized prefixes this is the natural
// CIDR sort order.
//
// Modifying the tree during iteration does not crash but the result
// is undefined, the caller must guard against it.
func (t *Trie[V]) All() iter.Seq[*Node[V]] {
	return func(yield func(*Node[V]) bool) {
		var stack []*Node[V]

		n := t.root
		for n != nil {
			if n.terminal && !yield(n) {
				return
			}

			switch {
			case n.left != nil:
				if n.right != nil {
					stack = append(stack, n.right)
				}
				n = n.left
			case n.right != nil:
				n = n.right
			case len(stack) > 0:
				n = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			default:
				n = nil
			}
		}
	}
}

// Destroy drops all nodes, the tree is empty and ready for reuse.
func (t *Trie[V]) Destroy() {
	t.root = nil
	t.size = 0
	t.nodes = 0
}

func (t *Trie[V]) newTerminal(pfx netip.Prefix, k key) *Node[V] {
	t.size++
	t.nodes++
	return &Node[V]{
		bit:      pfx.Bits(),
		key:      k,
		prefix:   pfx,
		terminal: true,
	}
}

// replace puts nu at the position of old in the tree.
func (t *Trie[V]) replace(old, nu *Node[V]) {
	parent := old.parent
	nu.parent = parent

	switch {
	case parent == nil:
		t.root = nu
	case parent.right == old:
		parent.right = nu
	default:
		parent.left = nu
	}
}
