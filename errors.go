// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"github.com/pkg/errors"
)

// Errors returned by the Store and the prefix parser, possibly wrapped
// with some context. Use errors.Is to match them.
//
// A failed lookup is no error, the search methods just report ok == false.
var (
	// ErrInvalidAddress, the address part is not parsable.
	ErrInvalidAddress = errors.New("radix: invalid address format")

	// ErrInvalidPrefixLength, negative or longer than 32 (IPv4) or 128 (IPv6).
	ErrInvalidPrefixLength = errors.New("radix: invalid prefix length")

	// ErrUnsupportedFamily, the address is neither IPv4 nor IPv6.
	ErrUnsupportedFamily = errors.New("radix: unsupported address family")

	// ErrConcurrentModification, the store was modified during an enumeration.
	ErrConcurrentModification = errors.New("radix: store modified during iteration")

	// ErrClosed, the store was closed and its trees are released.
	ErrClosed = errors.New("radix: closed store")

	// ErrAllocation, the configured entry limit is reached.
	ErrAllocation = errors.New("radix: cannot allocate entry")
)
