// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Family is the address family of a prefix, the numeric values
// are the IP versions.
type Family int

const (
	IPv4 Family = 4
	IPv6 Family = 6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	}
	return "Family(" + strconv.Itoa(int(f)) + ")"
}

// Bits returns the address width of the family.
func (f Family) Bits() int {
	if f == IPv4 {
		return 32
	}
	return 128
}

// FamilyOf returns the family of pfx. IPv4-mapped IPv6 addresses
// are IPv6.
func FamilyOf(pfx netip.Prefix) Family {
	if pfx.Addr().Is4() {
		return IPv4
	}
	return IPv6
}

// ParsePrefix parses s as IPv4 or IPv6 address with an optional
// "/len" suffix. Without suffix the prefix is a host route, /32 or /128.
// The returned prefix is always normalized, the host bits are masked.
//
//	ParsePrefix("10.1.2.3/8")  // 10.0.0.0/8
//	ParsePrefix("2001:db8::1") // 2001:db8::1/128
func ParsePrefix(s string) (netip.Prefix, error) {
	ip, suffix, hasSuffix, err := parseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}

	bits := ip.BitLen()
	if hasSuffix {
		if bits, err = parseBits(suffix, ip.BitLen()); err != nil {
			return netip.Prefix{}, errors.Wrapf(err, "%q", s)
		}
	}

	return prefixFrom(ip, bits, s)
}

// ParsePrefixLen parses s as IPv4 or IPv6 address, with the prefix length
// given separately. A "/len" suffix in s must still be well-formed but is
// overruled by bits, callers should not use both.
func ParsePrefixLen(s string, bits int) (netip.Prefix, error) {
	ip, suffix, hasSuffix, err := parseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	if hasSuffix {
		if _, err := parseBits(suffix, ip.BitLen()); err != nil {
			return netip.Prefix{}, errors.Wrapf(err, "%q", s)
		}
	}

	return prefixFrom(ip, bits, s)
}

// PrefixFrom checks and normalizes pfx.
func PrefixFrom(pfx netip.Prefix) (netip.Prefix, error) {
	ip := pfx.Addr()
	if !ip.Is4() && !ip.Is6() {
		return netip.Prefix{}, errors.Wrapf(ErrUnsupportedFamily, "%q", pfx)
	}
	if !pfx.IsValid() {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidPrefixLength, "%q", pfx)
	}

	return pfx.Masked(), nil
}

// FormatPrefix returns the canonical "addr/len" form.
func FormatPrefix(pfx netip.Prefix) string {
	return pfx.String()
}

// FormatAddr returns the canonical address without prefix length.
func FormatAddr(pfx netip.Prefix) string {
	return pfx.Addr().String()
}

// parseAddr splits s at the first '/' and parses the address part.
func parseAddr(s string) (ip netip.Addr, suffix string, hasSuffix bool, err error) {
	s = strings.TrimSpace(s)

	addr, suffix, hasSuffix := strings.Cut(s, "/")
	if addr == "" {
		return ip, "", false, errors.Wrapf(ErrInvalidAddress, "%q", s)
	}

	ip, err = netip.ParseAddr(addr)
	if err != nil {
		return ip, "", false, errors.Wrapf(ErrInvalidAddress, "%q", s)
	}

	// zones are not part of a routing prefix
	if ip.Zone() != "" {
		return netip.Addr{}, "", false, errors.Wrapf(ErrInvalidAddress, "%q, zoned address", s)
	}

	if !ip.Is4() && !ip.Is6() {
		return netip.Addr{}, "", false, errors.Wrapf(ErrUnsupportedFamily, "%q", s)
	}

	return ip, suffix, hasSuffix, nil
}

// parseBits parses a decimal prefix length in canonical form, like
// netip.ParsePrefix: digits only, no sign, no leading zeros.
func parseBits(suffix string, maxBits int) (int, error) {
	if suffix == "" || (len(suffix) > 1 && suffix[0] == '0') {
		return 0, ErrInvalidPrefixLength
	}
	for _, c := range []byte(suffix) {
		if c < '0' || c > '9' {
			return 0, ErrInvalidPrefixLength
		}
	}

	n, err := strconv.ParseUint(suffix, 10, 32)
	if err != nil || n > uint64(maxBits) {
		return 0, ErrInvalidPrefixLength
	}
	return int(n), nil
}

func prefixFrom(ip netip.Addr, bits int, input string) (netip.Prefix, error) {
	if bits < 0 || bits > ip.BitLen() {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidPrefixLength, "%q, length %d", input, bits)
	}

	return netip.PrefixFrom(ip, bits).Masked(), nil
}
