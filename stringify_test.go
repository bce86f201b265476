// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringEmpty(t *testing.T) {
	t.Parallel()
	s := New[int]()
	assert.Equal(t, "", s.String())

	w := new(strings.Builder)
	require.NoError(t, s.Fprint(w))
	assert.Equal(t, "", w.String())
}

func TestStringFixture(t *testing.T) {
	t.Parallel()
	s := newFixture(t)

	want := `▼
├─ 10.0.0.0/8 (0)
│  ├─ 10.0.0.0/24 (1)
│  └─ 10.0.1.0/24 (2)
├─ 127.0.0.0/8 (3)
│  └─ 127.0.0.1/32 (4)
└─ 192.168.0.0/16 (5)
   └─ 192.168.1.0/24 (6)
▼
└─ ::/0 (7)
   ├─ ::1/128 (8)
   └─ 2001:db8::/32 (9)
`
	assert.Equal(t, want, s.String())

	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, want, string(text))
}

func TestStringOneFamily(t *testing.T) {
	t.Parallel()
	s := New[string]()
	require.NoError(t, s.Set("2001:db8::/32", "doc"))
	require.NoError(t, s.Set("2001:db8:1::/48", "sub"))
	require.NoError(t, s.Set("fe80::/10", "ll"))

	want := `▼
├─ 2001:db8::/32 (doc)
│  └─ 2001:db8:1::/48 (sub)
└─ fe80::/10 (ll)
`
	assert.Equal(t, want, s.String())
}

func TestStringClosed(t *testing.T) {
	t.Parallel()
	s := newFixture(t)
	require.NoError(t, s.Close())

	assert.Equal(t, "", s.String())

	_, err := s.MarshalText()
	assert.ErrorIs(t, err, ErrClosed)
}
