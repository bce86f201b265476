// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"bytes"
	"fmt"
	"io"
	"net/netip"
	"strings"

	"github.com/gaissmai/radix/internal/patricia"
)

// kid, an entry with the entries it covers.
type kid[V any] struct {
	cidr netip.Prefix
	val  V
	kids []*kid[V]
}

// MarshalText implements the [encoding.TextMarshaler] interface,
// just a wrapper for [Store.Fprint].
func (s *Store[V]) MarshalText() ([]byte, error) {
	w := new(bytes.Buffer)
	if err := s.Fprint(w); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// String returns a hierarchical tree diagram of the ordered CIDRs
// as string, just a wrapper for [Store.Fprint].
// A closed store has an empty diagram.
func (s *Store[V]) String() string {
	w := new(strings.Builder)
	if err := s.Fprint(w); err != nil {
		return ""
	}

	return w.String()
}

// Fprint writes a hierarchical tree diagram of the ordered CIDRs
// with default formatted payload V to w.
//
// The order from top to bottom is in ascending order of the prefix address
// and the subtree structure is determined by the CIDRs coverage.
//
//	▼
//	├─ 10.0.0.0/8 (V)
//	│  ├─ 10.0.0.0/24 (V)
//	│  └─ 10.0.1.0/24 (V)
//	├─ 127.0.0.0/8 (V)
//	│  └─ 127.0.0.1/32 (V)
//	└─ 192.168.0.0/16 (V)
//	   └─ 192.168.1.0/24 (V)
//	▼
//	└─ ::/0 (V)
//	   ├─ ::1/128 (V)
//	   └─ 2001:db8::/32 (V)
func (s *Store[V]) Fprint(w io.Writer) error {
	if s.closed {
		return ErrClosed
	}

	for _, t := range s.idx.tries() {
		if err := fprint(w, t); err != nil {
			return err
		}
	}

	return nil
}

// fprint one family.
func fprint[V any](w io.Writer, t *patricia.Trie[V]) error {
	if t.Len() == 0 {
		return nil
	}

	if _, err := fmt.Fprint(w, "▼\n"); err != nil {
		return err
	}

	return fprintRec(w, coverageTree(t), "")
}

// coverageTree builds the CIDR hierarchy, the tree walk is
// in CIDR sort order, so a covering prefix comes always first.
func coverageTree[V any](t *patricia.Trie[V]) []*kid[V] {
	var top []*kid[V]

	// the chain of covering kids for the current prefix
	var stack []*kid[V]

	for n := range t.All() {
		k := &kid[V]{cidr: n.Prefix(), val: n.Value()}

		for len(stack) > 0 && !stack[len(stack)-1].cidr.Contains(k.cidr.Addr()) {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			top = append(top, k)
		} else {
			parent := stack[len(stack)-1]
			parent.kids = append(parent.kids, k)
		}

		stack = append(stack, k)
	}

	return top
}

// fprintRec, the output is a hierarchical CIDR tree starting with kids.
func fprintRec[V any](w io.Writer, kids []*kid[V], pad string) error {
	// symbols used in tree
	glyphe := "├─ "
	spacer := "│  "

	for i, k := range kids {
		// ... treat last kid special
		if i == len(kids)-1 {
			glyphe = "└─ "
			spacer = "   "
		}

		if _, err := fmt.Fprintf(w, "%s%s (%v)\n", pad+glyphe, k.cidr, k.val); err != nil {
			return err
		}

		if err := fprintRec(w, k.kids, pad+spacer); err != nil {
			return err
		}
	}

	return nil
}
