// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package golden is a simple and slow prefix table, implemented as
// a slice of prefixes and values, used as golden reference in tests.
package golden

import (
	"cmp"
	"fmt"
	"net/netip"
	"slices"
)

// Table, the reference implementation.
type Table[V any] []Item[V]

type Item[V any] struct {
	Pfx netip.Prefix
	Val V
}

func (g Item[V]) String() string {
	return fmt.Sprintf("(%s, %v)", g.Pfx, g.Val)
}

// Insert reports whether pfx was new, an existing value is replaced.
func (t *Table[V]) Insert(pfx netip.Prefix, val V) (created bool) {
	pfx = pfx.Masked()
	for i, item := range *t {
		if item.Pfx == pfx {
			(*t)[i].Val = val // de-dupe
			return false
		}
	}
	*t = append(*t, Item[V]{pfx, val})
	return true
}

func (t *Table[V]) Delete(pfx netip.Prefix) (exists bool) {
	pfx = pfx.Masked()
	for i, item := range *t {
		if item.Pfx == pfx {
			*t = slices.Delete(*t, i, i+1)
			return true
		}
	}
	return false
}

func (t Table[V]) SearchExact(pfx netip.Prefix) (val V, ok bool) {
	pfx = pfx.Masked()
	for _, item := range t {
		if item.Pfx == pfx {
			return item.Val, true
		}
	}
	return val, false
}

// SearchBest, longest prefix match for pfx, the stored prefix
// must not be longer than pfx and must contain it.
func (t Table[V]) SearchBest(pfx netip.Prefix) (lpm netip.Prefix, val V, ok bool) {
	pfx = pfx.Masked()
	bestLen := -1

	for _, item := range t {
		if item.Pfx.Addr().Is4() != pfx.Addr().Is4() {
			continue
		}
		if item.Pfx.Bits() <= pfx.Bits() && item.Pfx.Contains(pfx.Addr()) && item.Pfx.Bits() > bestLen {
			lpm = item.Pfx
			val = item.Val
			ok = true
			bestLen = item.Pfx.Bits()
		}
	}
	return lpm, val, ok
}

// AllSorted returns all prefixes, IPv4 before IPv6, each in CIDR sort order.
func (t Table[V]) AllSorted() []netip.Prefix {
	result := make([]netip.Prefix, 0, len(t))
	for _, item := range t {
		result = append(result, item.Pfx)
	}
	slices.SortFunc(result, CmpPrefix)
	return result
}

// CmpPrefix, compare func for prefix sort, IPv4 first,
// then by address and prefix length. All prefixes are normalized.
func CmpPrefix(a, b netip.Prefix) int {
	if a.Addr().Is4() != b.Addr().Is4() {
		if a.Addr().Is4() {
			return -1
		}
		return 1
	}

	if cmpAddr := a.Addr().Compare(b.Addr()); cmpAddr != 0 {
		return cmpAddr
	}

	return cmp.Compare(a.Bits(), b.Bits())
}
