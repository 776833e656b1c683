// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tsv reads the tab-separated files produced by Overpass and used
// as reference sources. Values are returned in Unicode NFC form so street
// names coming from different sources compare equal.
package tsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxLineSize = 1024 * 1024

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("missing header row")

// Reader reads rows addressed by the column names of the header row.
type Reader struct {
	sc      *bufio.Scanner
	columns []string
	index   map[string]int
	line    int
}

// NewReader consumes the header row of r.
func NewReader(r io.Reader) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("unable to read header: %w", err)
		}

		return nil, ErrNoHeader
	}

	columns := split(sc.Text())
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}

	return &Reader{sc: sc, columns: columns, index: index, line: 1}, nil
}

// Columns returns the header.
func (r *Reader) Columns() []string {
	return r.columns
}

// Has reports whether the header has the given column.
func (r *Reader) Has(column string) bool {
	_, ok := r.index[column]

	return ok
}

// Line returns the number of the last line read, the header being line 1.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next non-empty row or io.EOF.
func (r *Reader) Next() (Row, error) {
	for r.sc.Scan() {
		r.line++

		text := r.sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		return Row{fields: split(text), index: r.index}, nil
	}

	if err := r.sc.Err(); err != nil {
		return Row{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}

	return Row{}, io.EOF
}

// Row is one line of a Reader.
type Row struct {
	fields []string
	index  map[string]int
}

// Get returns the value of the named column, "" when missing.
func (r Row) Get(column string) string {
	i, ok := r.index[column]
	if !ok {
		return ""
	}

	return r.Field(i)
}

// Field returns the i-th value, "" when the row is shorter.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}

	return r.fields[i]
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return len(r.fields)
}

func split(line string) []string {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	for i, f := range fields {
		fields[i] = norm.NFC.String(f)
	}

	return fields
}
