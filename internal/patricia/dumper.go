// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package patricia

import (
	"fmt"
	"io"
	"strings"
)

type nodeType byte

const (
	nullNode     nodeType = iota // empty tree
	terminalNode                 // prefix with value, maybe also a branch point
	glueNode                     // only children, no prefix
)

func (nt nodeType) String() string {
	switch nt {
	case nullNode:
		return "NULL"
	case terminalNode:
		return "TERM"
	case glueNode:
		return "GLUE"
	}
	return "unreachable"
}

func (n *Node[V]) hasType() nodeType {
	switch {
	case n == nil:
		return nullNode
	case n.terminal:
		return terminalNode
	default:
		return glueNode
	}
}

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// DumpString is just a wrapper for Dump.
func (t *Trie[V]) DumpString() string {
	w := new(strings.Builder)
	t.Dump(w)

	return w.String()
}

// Dump the tree structure and all the nodes to w.
//
//	### bits(32): size(3), nodes(4)
//	[GLUE] bit: 0
//	.[TERM] bit: 8 prefix: 10.0.0.0/8 value: a
//	..[TERM] bit: 24 prefix: 10.0.0.0/24 value: b
//	.[TERM] bit: 16 prefix: 192.168.0.0/16 value: c
func (t *Trie[V]) Dump(w io.Writer) {
	if t == nil {
		return
	}

	fmt.Fprintf(w, "### bits(%d): size(%d), nodes(%d)\n", t.maxBits, t.size, t.nodes)
	if t.root == nil {
		fmt.Fprintf(w, "[%s]\n", nullNode)
		return
	}
	t.root.dumpRec(w, 0)
}

// dumpRec, rec-descent the tree, left before right.
func (n *Node[V]) dumpRec(w io.Writer, depth int) {
	if n == nil {
		return
	}

	n.dump(w, depth)
	n.left.dumpRec(w, depth+1)
	n.right.dumpRec(w, depth+1)
}

// dump the node to w.
func (n *Node[V]) dump(w io.Writer, depth int) {
	indent := strings.Repeat(".", depth)

	if !n.terminal {
		fmt.Fprintf(w, "%s[%s] bit: %d\n", indent, n.hasType(), n.bit)
		return
	}
	fmt.Fprintf(w, "%s[%s] bit: %d prefix: %s value: %v\n", indent, n.hasType(), n.bit, n.prefix, n.val)
}
