// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics("test", reg)
	s := New[int](WithMetrics(m), WithLogger(nullLogger()))

	_, err := s.Add("10.0.0.0/8", 1)
	require.NoError(t, err)
	_, err = s.Add("10.0.0.0/8", 2)
	require.NoError(t, err)
	_, err = s.Add("::/0", 3)
	require.NoError(t, err)
	_, err = s.Add("10.0.0.0/99", 4)
	require.Error(t, err)

	// the overwrite is a successful add too
	assert.InDelta(t, 3, testutil.ToFloat64(m.ops.WithLabelValues(opAdd, resultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ops.WithLabelValues(opAdd, resultError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.entries.WithLabelValues("IPv4")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.entries.WithLabelValues("IPv6")), 0)

	_, _, _ = s.SearchBest("10.1.1.1")
	_, _, _ = s.SearchBest("11.1.1.1")
	_, _, _ = s.SearchExact("10.0.0.0/8")
	assert.InDelta(t, 1, testutil.ToFloat64(m.ops.WithLabelValues(opSearchBest, resultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ops.WithLabelValues(opSearchBest, resultMiss)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ops.WithLabelValues(opSearchExact, resultOK)), 0)

	_, err = s.Delete("::/0")
	require.NoError(t, err)
	assert.InDelta(t, 0, testutil.ToFloat64(m.entries.WithLabelValues("IPv6")), 0)

	err = s.EachKey(func(string) bool {
		_, _ = s.Add("12.0.0.0/8", 0)
		return true
	})
	require.ErrorIs(t, err, ErrConcurrentModification)
	assert.InDelta(t, 1, testutil.ToFloat64(m.aborts), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ops.WithLabelValues(opEnumerate, resultError)), 0)

	require.NoError(t, s.Clear())
	assert.InDelta(t, 0, testutil.ToFloat64(m.entries.WithLabelValues("IPv4")), 0)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestMetricsNil(t *testing.T) {
	t.Parallel()

	// without metrics all observations are no-ops
	var m *Metrics
	m.observe(opAdd, resultOK)
	m.setEntries(IPv4, 1)
	m.abort()

	// unregistered is fine too
	s := New[int](WithMetrics(NewMetrics("", nil)))
	_, err := s.Add("10.0.0.0/8", 1)
	require.NoError(t, err)
}
