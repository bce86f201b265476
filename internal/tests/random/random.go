// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package random generates prefixes and addresses for tests.
package random

import (
	"math/rand/v2"
	"net/netip"
)

// Prefix returns a random masked prefix, IPv4 or IPv6.
func Prefix(prng *rand.Rand) netip.Prefix {
	if prng.IntN(2) == 1 {
		return Prefix4(prng)
	}
	return Prefix6(prng)
}

func Prefix4(prng *rand.Rand) netip.Prefix {
	return netip.PrefixFrom(IP4(prng), prng.IntN(33)).Masked()
}

func Prefix6(prng *rand.Rand) netip.Prefix {
	return netip.PrefixFrom(IP6(prng), prng.IntN(129)).Masked()
}

// Unmasked returns a random prefix with host bits left as they are,
// the text form is not canonical.
func Unmasked(prng *rand.Rand) netip.Prefix {
	if prng.IntN(2) == 1 {
		return netip.PrefixFrom(IP4(prng), prng.IntN(33))
	}
	return netip.PrefixFrom(IP6(prng), prng.IntN(129))
}

// Clustered returns n distinct prefixes below a few random roots,
// so the tree gets deep and has many glue nodes.
func Clustered(prng *rand.Rand, n int) []netip.Prefix {
	roots := []netip.Prefix{
		netip.PrefixFrom(IP4(prng), 8).Masked(),
		netip.PrefixFrom(IP4(prng), 12).Masked(),
		netip.PrefixFrom(IP6(prng), 32).Masked(),
	}

	set := make(map[netip.Prefix]struct{}, n)
	pfxs := make([]netip.Prefix, 0, n)

	for len(pfxs) < n {
		root := roots[prng.IntN(len(roots))]
		bits := root.Bits() + prng.IntN(root.Addr().BitLen()-root.Bits()+1)

		// random host part below root
		ip := IP4(prng)
		if root.Addr().Is6() {
			ip = IP6(prng)
		}
		pfx := netip.PrefixFrom(merge(root, ip), bits).Masked()

		if _, ok := set[pfx]; !ok {
			set[pfx] = struct{}{}
			pfxs = append(pfxs, pfx)
		}
	}
	return pfxs
}

// merge takes the network bits from root and the rest from ip.
func merge(root netip.Prefix, ip netip.Addr) netip.Addr {
	a := root.Addr().AsSlice()
	b := ip.AsSlice()

	for i := range a {
		bits := root.Bits() - i*8
		switch {
		case bits >= 8:
			// keep root byte
		case bits <= 0:
			a[i] = b[i]
		default:
			mask := byte(0xff << (8 - bits))
			a[i] = a[i]&mask | b[i]&^mask
		}
	}

	addr, _ := netip.AddrFromSlice(a)
	return addr
}

func IP4(prng *rand.Rand) netip.Addr {
	var b [4]byte
	for i := range b {
		b[i] = byte(prng.UintN(256))
	}
	return netip.AddrFrom4(b)
}

func IP6(prng *rand.Rand) netip.Addr {
	var b [16]byte
	for i := range b {
		b[i] = byte(prng.UintN(256))
	}
	return netip.AddrFrom16(b)
}

func IP(prng *rand.Rand) netip.Addr {
	if prng.IntN(2) == 1 {
		return IP4(prng)
	}
	return IP6(prng)
}
