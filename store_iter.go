// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"iter"
	"net/netip"

	"github.com/sirupsen/logrus"
)

// walk calls visit for all entries, IPv4 before IPv6, each family in
// CIDR sort order. The store must not be modified until walk returns,
// this is checked before every visit and after the last one.
func (s *Store[V]) walk(visit func(netip.Prefix, V) bool) error {
	if s.closed {
		return s.failed(opEnumerate, ErrClosed)
	}

	tok := s.guard.snapshot()

	for _, t := range s.idx.tries() {
		for n := range t.All() {
			if err := s.verify(tok); err != nil {
				return err
			}
			if !visit(n.Prefix(), n.Value()) {
				return nil
			}
		}
	}

	return s.verify(tok)
}

// verify the store is still open and unchanged since tok.
func (s *Store[V]) verify(tok token) error {
	if s.closed {
		return s.failed(opEnumerate, ErrClosed)
	}

	if err := s.guard.check(tok); err != nil {
		s.opts.metrics.abort()
		s.opts.log.WithFields(logrus.Fields{
			"generation": s.guard.generation,
			"snapshot":   tok.generation,
		}).Warn("enumeration aborted")
		return s.failed(opEnumerate, err)
	}
	return nil
}

// Len returns the number of entries in both families.
func (s *Store[V]) Len() (int, error) {
	n := 0
	err := s.walk(func(netip.Prefix, V) bool {
		n++
		return true
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Keys returns the canonical prefix texts of all entries.
func (s *Store[V]) Keys() ([]string, error) {
	var keys []string
	err := s.walk(func(pfx netip.Prefix, _ V) bool {
		keys = append(keys, FormatPrefix(pfx))
		return true
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Values returns the values of all entries, in the same order as Keys.
func (s *Store[V]) Values() ([]V, error) {
	var vals []V
	err := s.walk(func(_ netip.Prefix, val V) bool {
		vals = append(vals, val)
		return true
	})
	if err != nil {
		return nil, err
	}
	return vals, nil
}

// ToMap returns all entries as map from canonical prefix text to value.
func (s *Store[V]) ToMap() (map[string]V, error) {
	m := make(map[string]V)
	err := s.walk(func(pfx netip.Prefix, val V) bool {
		m[FormatPrefix(pfx)] = val
		return true
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EachPair calls fn for every entry until fn returns false.
// Modifying the store from within fn aborts the walk
// with ErrConcurrentModification.
func (s *Store[V]) EachPair(fn func(key string, val V) bool) error {
	return s.walk(func(pfx netip.Prefix, val V) bool {
		return fn(FormatPrefix(pfx), val)
	})
}

// EachKey is EachPair for keys only.
func (s *Store[V]) EachKey(fn func(key string) bool) error {
	return s.walk(func(pfx netip.Prefix, _ V) bool {
		return fn(FormatPrefix(pfx))
	})
}

// EachValue is EachPair for values only.
func (s *Store[V]) EachValue(fn func(val V) bool) error {
	return s.walk(func(_ netip.Prefix, val V) bool {
		return fn(val)
	})
}

// All may be used in a for/range loop to iterate through all entries.
// On a closed store or a concurrent modification the iteration ends
// with the error as last element.
//
//	for e, err := range store.All() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(e.Prefix(), e.Value())
//	}
func (s *Store[V]) All() iter.Seq2[Entry[V], error] {
	return func(yield func(Entry[V], error) bool) {
		err := s.walk(func(pfx netip.Prefix, val V) bool {
			return yield(Entry[V]{pfx: pfx, val: val}, nil)
		})
		if err != nil {
			yield(Entry[V]{}, err)
		}
	}
}

// LiveValues iterates over the values of all entries without the
// modification check, for a host that must trace the referenced values
// outside the normal call flow. The store must not be modified during
// the iteration. A closed store has no live values.
func (s *Store[V]) LiveValues() iter.Seq[V] {
	return func(yield func(V) bool) {
		if s.closed {
			return
		}
		for _, t := range s.idx.tries() {
			for n := range t.All() {
				if !yield(n.Value()) {
					return
				}
			}
		}
	}
}
