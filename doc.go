// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package radix provides a prefix-keyed store for IPv4 and IPv6
// CIDRs with arbitrary payload, answering longest-prefix-match and
// exact-match queries, e.g. for GeoIP or ASN tagging, routing policies
// and access control lists.
//
// Prefixes are stored in two path-compressed binary radix trees,
// one per address family. IPv4 and IPv6 never match each other,
// not even IPv4-mapped IPv6 addresses.
//
// Addresses are given as text, with the prefix length as "/len"
// suffix or as separate argument:
//
//	s := radix.New[string]()
//	s.AddLen("192.168.0.0", 24, "A")
//	s.Set("172.16.0.0/16", "Hello Radix!")
//	e, ok, err := s.SearchBest("172.16.0.1")
//	// e.Prefix() == "172.16.0.0/16", e.Value() == "Hello Radix!"
//
// A Store is not safe for concurrent use. Enumerations like Keys, Values,
// ToMap or EachPair detect modifications of the store during the walk,
// e.g. a Delete from within a visitor, and abort with
// ErrConcurrentModification instead of returning partial results.
package radix
