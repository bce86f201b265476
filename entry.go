// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"fmt"
	"net/netip"
)

// Entry is a read-only view of a stored prefix and its value.
//
// The entry is a snapshot, later modifications of the store are not
// reflected. The value is the reference the caller stored, it is not
// copied.
type Entry[V any] struct {
	pfx netip.Prefix
	val V
}

// Value returns the stored value.
func (e Entry[V]) Value() V {
	return e.val
}

// CIDR returns the normalized prefix.
func (e Entry[V]) CIDR() netip.Prefix {
	return e.pfx
}

// Prefix returns the canonical "addr/len" text.
func (e Entry[V]) Prefix() string {
	return FormatPrefix(e.pfx)
}

// Network returns the canonical address text without the length.
func (e Entry[V]) Network() string {
	return FormatAddr(e.pfx)
}

// PrefixLen returns the prefix length.
func (e Entry[V]) PrefixLen() int {
	return e.pfx.Bits()
}

// Family returns IPv4 or IPv6, as number 4 or 6.
func (e Entry[V]) Family() Family {
	return FamilyOf(e.pfx)
}

func (e Entry[V]) String() string {
	return fmt.Sprintf("%s (%v)", e.pfx, e.val)
}
