// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/gaissmai/radix"
)

// marker is the value for table rows without value.
const marker = "true"

// row is one entry of a YAML table.
//
//	- prefix: 10.0.0.0/8
//	  value: corp
//	- prefix: 2001:db8::
//	  length: 32
//	  value: doc
type row struct {
	Prefix string `yaml:"prefix"`
	Length *int   `yaml:"length,omitempty"`
	Value  string `yaml:"value,omitempty"`
}

// loadTable reads the table file in path into a new store.
func loadTable(path string) (*radix.Store[string], error) {
	if path == "" {
		return nil, errors.New("no table given, use --table or RADIXCTL_TABLE")
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open table")
	}
	defer fh.Close()

	s := radix.New[string]()
	s.SetMarker(marker)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = readYAML(s, fh)
	default:
		err = readText(s, fh)
	}
	if err != nil {
		_ = s.Close()
		return nil, errors.Wrapf(err, "table %s", path)
	}

	n, _ := s.Len()
	log.WithFields(log.Fields{"table": path, "entries": n}).Info("table loaded")

	return s, nil
}

func readYAML(s *radix.Store[string], r io.Reader) error {
	var rows []row
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil && err != io.EOF {
		return errors.Wrap(err, "decode yaml")
	}

	for i, rw := range rows {
		var err error
		switch {
		case rw.Length != nil && rw.Value == "":
			_, err = s.MarkLen(rw.Prefix, *rw.Length)
		case rw.Length != nil:
			_, err = s.AddLen(rw.Prefix, *rw.Length, rw.Value)
		case rw.Value == "":
			_, err = s.Mark(rw.Prefix)
		default:
			_, err = s.Add(rw.Prefix, rw.Value)
		}
		if err != nil {
			return errors.Wrapf(err, "row %d", i+1)
		}
	}
	return nil
}

// readText reads lines '<prefix> <value...>', empty lines
// and everything after '#' are ignored.
func readText(s *radix.Store[string], r io.Reader) error {
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var err error
		if len(fields) == 1 {
			_, err = s.Mark(fields[0])
		} else {
			_, err = s.Add(fields[0], strings.Join(fields[1:], " "))
		}
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNo)
		}
	}

	return errors.Wrap(scanner.Err(), "read text")
}
