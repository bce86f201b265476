// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaissmai/radix/internal/golden"
	"github.com/gaissmai/radix/internal/tests/random"
)

var sortedKeys = []string{
	"10.0.0.0/8",
	"10.0.0.0/24",
	"10.0.1.0/24",
	"127.0.0.0/8",
	"127.0.0.1/32",
	"192.168.0.0/16",
	"192.168.1.0/24",
	"::/0",
	"::1/128",
	"2001:db8::/32",
}

// newFixture returns a store with sortedKeys in random insert order,
// the value is the position in sortedKeys. Log output is discarded
// unless opts bring their own logger.
func newFixture(t *testing.T, opts ...Option) *Store[int] {
	t.Helper()
	s := New[int](append([]Option{WithLogger(nullLogger())}, opts...)...)

	prng := rand.New(rand.NewPCG(42, 42))
	for _, i := range prng.Perm(len(sortedKeys)) {
		_, err := s.Add(sortedKeys[i], i)
		require.NoError(t, err)
	}
	return s
}

func nullLogger() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func TestEnumerateOrder(t *testing.T) {
	t.Parallel()
	s := newFixture(t)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, sortedKeys, keys)

	vals, err := s.Values()
	require.NoError(t, err)
	for i, v := range vals {
		assert.Equal(t, i, v)
	}

	m, err := s.ToMap()
	require.NoError(t, err)
	require.Len(t, m, len(sortedKeys))
	for i, k := range sortedKeys {
		assert.Equal(t, i, m[k])
	}

	var pairs []string
	require.NoError(t, s.EachPair(func(k string, v int) bool {
		assert.Equal(t, sortedKeys[v], k)
		pairs = append(pairs, k)
		return true
	}))
	assert.Equal(t, sortedKeys, pairs)

	var eachKeys []string
	require.NoError(t, s.EachKey(func(k string) bool {
		eachKeys = append(eachKeys, k)
		return true
	}))
	assert.Equal(t, sortedKeys, eachKeys)

	var eachVals []int
	require.NoError(t, s.EachValue(func(v int) bool {
		eachVals = append(eachVals, v)
		return true
	}))
	assert.Equal(t, vals, eachVals)

	var all []string
	for e, err := range s.All() {
		require.NoError(t, err)
		all = append(all, e.Prefix())
	}
	assert.Equal(t, sortedKeys, all)
}

func TestEnumerateEmpty(t *testing.T) {
	t.Parallel()
	s := New[int]()

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	m, err := s.ToMap()
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)

	require.NoError(t, s.EachPair(func(string, int) bool {
		t.Fatal("visitor called on empty store")
		return true
	}))

	for range s.All() {
		t.Fatal("All yields on empty store")
	}
}

func TestEnumerateEarlyStop(t *testing.T) {
	t.Parallel()
	s := newFixture(t)

	var seen []string
	err := s.EachKey(func(k string) bool {
		seen = append(seen, k)
		return len(seen) < 3
	})
	require.NoError(t, err, "stopping is no error")
	assert.Equal(t, sortedKeys[:3], seen)

	n := 0
	for range s.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestEnumerateGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Store[int]) error
		wantErr error
	}{
		{
			name: "add",
			mutate: func(s *Store[int]) error {
				_, err := s.Add("11.0.0.0/8", 99)
				return err
			},
			wantErr: ErrConcurrentModification,
		},
		{
			name: "add other family",
			mutate: func(s *Store[int]) error {
				_, err := s.Add("fe80::/10", 99)
				return err
			},
			wantErr: ErrConcurrentModification,
		},
		{
			name: "delete",
			mutate: func(s *Store[int]) error {
				_, err := s.Delete("192.168.1.0/24")
				return err
			},
			wantErr: ErrConcurrentModification,
		},
		{
			name: "delete visited",
			mutate: func(s *Store[int]) error {
				_, err := s.Delete("10.0.0.0/8")
				return err
			},
			wantErr: ErrConcurrentModification,
		},
		{
			name: "clear",
			mutate: func(s *Store[int]) error {
				return s.Clear()
			},
			wantErr: ErrConcurrentModification,
		},
		{
			name: "clear and add",
			mutate: func(s *Store[int]) error {
				if err := s.Clear(); err != nil {
					return err
				}
				_, err := s.Add("10.0.0.0/8", 0)
				return err
			},
			wantErr: ErrConcurrentModification,
		},
		{
			name: "close",
			mutate: func(s *Store[int]) error {
				return s.Close()
			},
			wantErr: ErrClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newFixture(t)

			calls := 0
			err := s.EachPair(func(string, int) bool {
				calls++
				if calls == 1 {
					require.NoError(t, tt.mutate(s))
				}
				return true
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, calls, "no visit after the modification")

			// same for range-over-func, the error is the last element
			s = newFixture(t)
			calls = 0
			var lastErr error
			for _, err := range s.All() {
				if err != nil {
					lastErr = err
					break
				}
				calls++
				if calls == 1 {
					require.NoError(t, tt.mutate(s))
				}
			}
			assert.ErrorIs(t, lastErr, tt.wantErr)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestEnumerateGuardLastVisit(t *testing.T) {
	t.Parallel()
	s := newFixture(t)

	// modification in the very last visit is still detected
	last := sortedKeys[len(sortedKeys)-1]
	err := s.EachKey(func(k string) bool {
		if k == last {
			_, _ = s.Add("fe80::/10", 0)
		}
		return true
	})
	assert.ErrorIs(t, err, ErrConcurrentModification)

	// ... even if it leaves the entry count unchanged
	s = newFixture(t)
	err = s.EachKey(func(k string) bool {
		if k == last {
			_, _ = s.Delete(last)
			_, _ = s.Add(last, 0)
		}
		return true
	})
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestEnumerateOverwriteAllowed(t *testing.T) {
	t.Parallel()
	s := newFixture(t)

	// replacing values is no structural change
	err := s.EachPair(func(k string, v int) bool {
		_, err := s.Add(k, v*10)
		require.NoError(t, err)
		return true
	})
	require.NoError(t, err)

	vals, err := s.Values()
	require.NoError(t, err)
	for i, v := range vals {
		assert.Equal(t, i*10, v)
	}

	// reads are allowed too
	err = s.EachKey(func(k string) bool {
		_, ok, err := s.SearchExact(k)
		require.NoError(t, err)
		require.True(t, ok)
		return true
	})
	require.NoError(t, err)
}

func TestEnumerateAbortLogged(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	s := newFixture(t, WithLogger(logrus.NewEntry(logger)))

	err := s.EachKey(func(string) bool {
		_, _ = s.Add("11.0.0.0/8", 0)
		return true
	})
	require.ErrorIs(t, err, ErrConcurrentModification)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "enumeration aborted", entry.Message)
	assert.Equal(t, uint64(len(sortedKeys)+1), entry.Data["generation"])
}

func TestLiveValues(t *testing.T) {
	t.Parallel()
	s := newFixture(t)

	var vals []int
	for v := range s.LiveValues() {
		vals = append(vals, v)
	}
	want, err := s.Values()
	require.NoError(t, err)
	assert.Equal(t, want, vals)

	require.NoError(t, s.Close())
	for range s.LiveValues() {
		t.Fatal("closed store has no live values")
	}
}

func TestKeysAgainstGolden(t *testing.T) {
	t.Parallel()
	prng := rand.New(rand.NewPCG(42, 42))

	s := New[int]()
	gold := new(golden.Table[int])

	for i, pfx := range random.Clustered(prng, workLoadN()) {
		_, err := s.AddPrefix(pfx, i)
		require.NoError(t, err)
		gold.Insert(pfx, i)
	}

	var want []string
	for _, pfx := range gold.AllSorted() {
		want = append(want, FormatPrefix(pfx))
	}

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, want, keys)
}
