// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"net/netip"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// operation names, used in logs and as metric label
const (
	opAdd         = "add"
	opDelete      = "delete"
	opSearchBest  = "search_best"
	opSearchExact = "search_exact"
	opClear       = "clear"
	opEnumerate   = "enumerate"
)

// Store is a prefix-keyed container for IPv4 and IPv6 prefixes with
// payload V. IPv4 and IPv6 prefixes are kept in separate trees and never
// match each other.
//
// A Store must be created with New. It is not safe for concurrent use,
// callers must serialize all access. Modifications during an enumeration,
// e.g. from within a visitor, are detected and reported as
// ErrConcurrentModification.
type Store[V any] struct {
	idx    index[V]
	guard  guard
	closed bool
	marker V
	opts   options
}

// New returns an empty Store.
func New[V any](opts ...Option) *Store[V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[V]{
		idx:  newIndex[V](),
		opts: o,
	}
}

// SetMarker sets the value stored by Mark and MarkLen, the default
// is the zero value of V.
func (s *Store[V]) SetMarker(val V) {
	s.marker = val
}

// Generation returns the modification counter. It grows with every new
// or deleted entry and is reset to zero by Clear.
func (s *Store[V]) Generation() uint64 {
	return s.guard.generation
}

// Add stores val for the prefix in addr, e.g. "10.0.0.0/8". Without
// "/len" suffix addr is a host route. If the prefix is already present,
// its value is replaced.
func (s *Store[V]) Add(addr string, val V) (Entry[V], error) {
	pfx, err := s.resolve(opAdd, addr, 0, false)
	if err != nil {
		return Entry[V]{}, err
	}
	return s.add(pfx, val)
}

// AddLen is like Add with the prefix length given separately.
func (s *Store[V]) AddLen(addr string, bits int, val V) (Entry[V], error) {
	pfx, err := s.resolve(opAdd, addr, bits, true)
	if err != nil {
		return Entry[V]{}, err
	}
	return s.add(pfx, val)
}

// AddPrefix is like Add for an already parsed prefix.
func (s *Store[V]) AddPrefix(pfx netip.Prefix, val V) (Entry[V], error) {
	pfx, err := s.resolvePrefix(opAdd, pfx)
	if err != nil {
		return Entry[V]{}, err
	}
	return s.add(pfx, val)
}

// Mark stores the marker value for addr, see SetMarker.
func (s *Store[V]) Mark(addr string) (Entry[V], error) {
	return s.Add(addr, s.marker)
}

// MarkLen stores the marker value for addr with prefix length bits.
func (s *Store[V]) MarkLen(addr string, bits int) (Entry[V], error) {
	return s.AddLen(addr, bits, s.marker)
}

// Set is the map-like form of Add.
func (s *Store[V]) Set(addr string, val V) error {
	_, err := s.Add(addr, val)
	return err
}

func (s *Store[V]) add(pfx netip.Prefix, val V) (Entry[V], error) {
	t := s.idx.selectTrie(pfx)

	if limit := s.opts.maxEntries; limit > 0 && s.idx.total() >= limit && t.SearchExact(pfx) == nil {
		s.opts.log.WithFields(logrus.Fields{"prefix": pfx, "limit": limit}).Debug("entry limit reached")
		return Entry[V]{}, s.failed(opAdd, errors.Wrapf(ErrAllocation, "%s, limit of %d entries", pfx, limit))
	}

	n, created := t.InsertOrFind(pfx)
	n.SetValue(val)

	if created {
		s.guard.bump()
		s.opts.metrics.setEntries(FamilyOf(pfx), t.Len())
	}
	s.opts.metrics.observe(opAdd, resultOK)

	return Entry[V]{pfx: n.Prefix(), val: val}, nil
}

// Delete removes the prefix in addr and reports whether it was present.
func (s *Store[V]) Delete(addr string) (bool, error) {
	pfx, err := s.resolve(opDelete, addr, 0, false)
	if err != nil {
		return false, err
	}
	return s.delete(pfx), nil
}

// DeleteLen is like Delete with the prefix length given separately.
func (s *Store[V]) DeleteLen(addr string, bits int) (bool, error) {
	pfx, err := s.resolve(opDelete, addr, bits, true)
	if err != nil {
		return false, err
	}
	return s.delete(pfx), nil
}

// DeletePrefix is like Delete for an already parsed prefix.
func (s *Store[V]) DeletePrefix(pfx netip.Prefix) (bool, error) {
	pfx, err := s.resolvePrefix(opDelete, pfx)
	if err != nil {
		return false, err
	}
	return s.delete(pfx), nil
}

func (s *Store[V]) delete(pfx netip.Prefix) bool {
	t := s.idx.selectTrie(pfx)

	if !t.Remove(pfx) {
		s.opts.metrics.observe(opDelete, resultMiss)
		return false
	}

	s.guard.bump()
	s.opts.metrics.setEntries(FamilyOf(pfx), t.Len())
	s.opts.metrics.observe(opDelete, resultOK)

	return true
}

// SearchBest returns the entry with the longest prefix covering addr.
// The stored prefix is never longer than the prefix in addr.
func (s *Store[V]) SearchBest(addr string) (Entry[V], bool, error) {
	pfx, err := s.resolve(opSearchBest, addr, 0, false)
	if err != nil {
		return Entry[V]{}, false, err
	}
	e, ok := s.searchBest(pfx)
	return e, ok, nil
}

// SearchBestLen is like SearchBest with the prefix length given separately.
func (s *Store[V]) SearchBestLen(addr string, bits int) (Entry[V], bool, error) {
	pfx, err := s.resolve(opSearchBest, addr, bits, true)
	if err != nil {
		return Entry[V]{}, false, err
	}
	e, ok := s.searchBest(pfx)
	return e, ok, nil
}

// SearchBestPrefix is like SearchBest for an already parsed prefix.
func (s *Store[V]) SearchBestPrefix(pfx netip.Prefix) (Entry[V], bool, error) {
	pfx, err := s.resolvePrefix(opSearchBest, pfx)
	if err != nil {
		return Entry[V]{}, false, err
	}
	e, ok := s.searchBest(pfx)
	return e, ok, nil
}

// Get is the map-like form of SearchBest.
func (s *Store[V]) Get(addr string) (Entry[V], bool, error) {
	return s.SearchBest(addr)
}

// GetLen is the map-like form of SearchBestLen.
func (s *Store[V]) GetLen(addr string, bits int) (Entry[V], bool, error) {
	return s.SearchBestLen(addr, bits)
}

func (s *Store[V]) searchBest(pfx netip.Prefix) (Entry[V], bool) {
	n := s.idx.selectTrie(pfx).SearchBest(pfx)
	if n == nil {
		s.opts.metrics.observe(opSearchBest, resultMiss)
		return Entry[V]{}, false
	}

	s.opts.metrics.observe(opSearchBest, resultOK)
	return Entry[V]{pfx: n.Prefix(), val: n.Value()}, true
}

// SearchExact returns the entry stored for exactly the prefix in addr.
func (s *Store[V]) SearchExact(addr string) (Entry[V], bool, error) {
	pfx, err := s.resolve(opSearchExact, addr, 0, false)
	if err != nil {
		return Entry[V]{}, false, err
	}
	e, ok := s.searchExact(pfx)
	return e, ok, nil
}

// SearchExactLen is like SearchExact with the prefix length given separately.
func (s *Store[V]) SearchExactLen(addr string, bits int) (Entry[V], bool, error) {
	pfx, err := s.resolve(opSearchExact, addr, bits, true)
	if err != nil {
		return Entry[V]{}, false, err
	}
	e, ok := s.searchExact(pfx)
	return e, ok, nil
}

// SearchExactPrefix is like SearchExact for an already parsed prefix.
func (s *Store[V]) SearchExactPrefix(pfx netip.Prefix) (Entry[V], bool, error) {
	pfx, err := s.resolvePrefix(opSearchExact, pfx)
	if err != nil {
		return Entry[V]{}, false, err
	}
	e, ok := s.searchExact(pfx)
	return e, ok, nil
}

func (s *Store[V]) searchExact(pfx netip.Prefix) (Entry[V], bool) {
	n := s.idx.selectTrie(pfx).SearchExact(pfx)
	if n == nil {
		s.opts.metrics.observe(opSearchExact, resultMiss)
		return Entry[V]{}, false
	}

	s.opts.metrics.observe(opSearchExact, resultOK)
	return Entry[V]{pfx: n.Prefix(), val: n.Value()}, true
}

// Clear deletes all entries and resets the generation.
func (s *Store[V]) Clear() error {
	if s.closed {
		return s.failed(opClear, ErrClosed)
	}

	s.idx.reset()
	s.guard.reset()

	s.opts.metrics.setEntries(IPv4, 0)
	s.opts.metrics.setEntries(IPv6, 0)
	s.opts.metrics.observe(opClear, resultOK)
	s.opts.log.Debug("store cleared")

	return nil
}

// Close releases both trees and all values. All further operations
// fail with ErrClosed. Closing a closed store is a no-op.
func (s *Store[V]) Close() error {
	if s.closed {
		return nil
	}

	s.idx.release()
	s.guard.reset()
	s.closed = true

	var zero V
	s.marker = zero

	s.opts.metrics.setEntries(IPv4, 0)
	s.opts.metrics.setEntries(IPv6, 0)
	s.opts.log.Debug("store closed")

	return nil
}

// resolve checks the store and parses addr, with the prefix length
// from the text or, if explicit, from bits.
func (s *Store[V]) resolve(op, addr string, bits int, explicit bool) (netip.Prefix, error) {
	if s.closed {
		return netip.Prefix{}, s.failed(op, ErrClosed)
	}

	var pfx netip.Prefix
	var err error

	if explicit {
		pfx, err = ParsePrefixLen(addr, bits)
	} else {
		pfx, err = ParsePrefix(addr)
	}
	if err != nil {
		return netip.Prefix{}, s.failed(op, err)
	}
	return pfx, nil
}

// resolvePrefix checks the store and normalizes pfx.
func (s *Store[V]) resolvePrefix(op string, pfx netip.Prefix) (netip.Prefix, error) {
	if s.closed {
		return netip.Prefix{}, s.failed(op, ErrClosed)
	}

	pfx, err := PrefixFrom(pfx)
	if err != nil {
		return netip.Prefix{}, s.failed(op, err)
	}
	return pfx, nil
}

// failed records a failed operation and returns err.
func (s *Store[V]) failed(op string, err error) error {
	s.opts.metrics.observe(op, resultError)
	return err
}
