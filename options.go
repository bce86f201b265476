// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"github.com/sirupsen/logrus"
)

// Option configures a Store, see New.
type Option func(*options)

type options struct {
	log        *logrus.Entry
	maxEntries int
	metrics    *Metrics
}

func defaultOptions() options {
	return options{
		log: logrus.WithField("component", "radix"),
	}
}

// WithLogger sets the logger, the default is the logrus standard
// logger with field component=radix.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMaxEntries limits the number of entries over both families.
// Adding a new entry beyond the limit fails with ErrAllocation,
// overwriting an existing entry is still possible. Zero means no limit.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = max(n, 0)
	}
}

// WithMetrics enables operation counters, see NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
