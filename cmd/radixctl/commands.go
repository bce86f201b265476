// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gaissmai/radix"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// match is the result of one query.
type match struct {
	Query     string `json:"query"`
	Found     bool   `json:"found"`
	Prefix    string `json:"prefix,omitempty"`
	Network   string `json:"network,omitempty"`
	PrefixLen int    `json:"prefixlen,omitempty"`
	Family    int    `json:"family,omitempty"`
	Value     string `json:"value,omitempty"`
}

func newMatch(query string, e radix.Entry[string], ok bool) match {
	if !ok {
		return match{Query: query}
	}
	return match{
		Query:     query,
		Found:     true,
		Prefix:    e.Prefix(),
		Network:   e.Network(),
		PrefixLen: e.PrefixLen(),
		Family:    int(e.Family()),
		Value:     e.Value(),
	}
}

// stats of a loaded table.
type stats struct {
	IPv4       int    `json:"ipv4"`
	IPv6       int    `json:"ipv6"`
	Total      int    `json:"total"`
	Generation uint64 `json:"generation"`
}

func newLookupCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup ADDR...",
		Short: "Longest-prefix match for addresses or prefixes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd.OutOrStdout(), f, args, (*radix.Store[string]).SearchBest)
		},
	}
}

func newExactCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "exact PREFIX...",
		Short: "Exact match for prefixes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd.OutOrStdout(), f, args, (*radix.Store[string]).SearchExact)
		},
	}
}

func newDumpCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the table as CIDR tree or JSON map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadTable(f.table)
			if err != nil {
				return err
			}
			defer s.Close()

			if f.output == outputJSON {
				m, err := s.ToMap()
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), m)
			}
			return s.Fprint(cmd.OutOrStdout())
		},
	}
}

func newStatsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the number of entries per address family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadTable(f.table)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := tableStats(s)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if f.output == outputJSON {
				return writeJSON(w, st)
			}
			_, err = fmt.Fprintf(w, "IPv4: %d\nIPv6: %d\ntotal: %d\ngeneration: %d\n",
				st.IPv4, st.IPv6, st.Total, st.Generation)
			return err
		},
	}
}

type searchFunc func(*radix.Store[string], string) (radix.Entry[string], bool, error)

func query(w io.Writer, f *flags, args []string, search searchFunc) error {
	s, err := loadTable(f.table)
	if err != nil {
		return err
	}
	defer s.Close()

	matches := make([]match, 0, len(args))
	for _, arg := range args {
		e, ok, err := search(s, arg)
		if err != nil {
			return errors.Wrapf(err, "query %q", arg)
		}
		matches = append(matches, newMatch(arg, e, ok))
	}

	if f.output == outputJSON {
		return writeJSON(w, matches)
	}

	for _, m := range matches {
		if !m.Found {
			if _, err := fmt.Fprintf(w, "%s: not found\n", m.Query); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s\n", m.Query, m.Prefix, m.Value); err != nil {
			return err
		}
	}
	return nil
}

func tableStats(s *radix.Store[string]) (stats, error) {
	st := stats{Generation: s.Generation()}

	for e, err := range s.All() {
		if err != nil {
			return stats{}, err
		}
		if e.Family() == radix.IPv4 {
			st.IPv4++
		} else {
			st.IPv6++
		}
		st.Total++
	}
	return st, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := jsonAPI.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
