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

package model

import (
	"fmt"
	"slices"
)

// Parity is the even/odd constraint of a Range.
type Parity uint8

// Parity values.
const (
	AnyParity Parity = iota
	Odd
	Even
)

func (p Parity) String() string {
	switch p {
	case Odd:
		return "odd"
	case Even:
		return "even"
	default:
		return "any"
	}
}

// Range is an inclusive interval of house numbers.
type Range struct {
	Start         uint64
	End           uint64
	Parity        Parity
	RefSettlement string // optional refsettlement override for numbers in the range
}

// NewRange creates a Range of [start, end]. When both bounds share parity
// the range only accepts numbers of that parity, otherwise any number in
// the interval is accepted. The start must not exceed the end.
func NewRange(start, end uint64, refsettlement string) Range {
	r := Range{Start: start, End: end, RefSettlement: refsettlement}

	if start%2 == end%2 {
		if start%2 == 1 {
			r.Parity = Odd
		} else {
			r.Parity = Even
		}
	}

	return r
}

// WithoutParity returns a copy of the range that accepts any number in its
// interval.
func (r Range) WithoutParity() Range {
	r.Parity = AnyParity

	return r
}

// Contains reports whether n is inside the range and matches its parity.
func (r Range) Contains(n uint64) bool {
	switch r.Parity {
	case Odd:
		if n%2 != 1 {
			return false
		}
	case Even:
		if n%2 != 0 {
			return false
		}
	}

	return r.Start <= n && n <= r.End
}

func (r Range) String() string {
	if r.RefSettlement == "" {
		return fmt.Sprintf("[%d, %d] %s", r.Start, r.End, r.Parity)
	}

	return fmt.Sprintf("[%d, %d] %s (%s)", r.Start, r.End, r.Parity, r.RefSettlement)
}

// Ranges is a union of Range values.
type Ranges struct {
	items []Range
}

// NewRanges creates Ranges from the given items, keeping their order.
func NewRanges(items ...Range) Ranges {
	return Ranges{items: slices.Clone(items)}
}

// DefaultRanges is the sanity filter used for streets without custom ranges.
func DefaultRanges() Ranges {
	return NewRanges(NewRange(1, 999, ""), NewRange(2, 998, ""))
}

// IsEmpty reports whether there are no ranges at all.
func (rs Ranges) IsEmpty() bool {
	return len(rs.items) == 0
}

// Contains reports whether any of the ranges contains n.
func (rs Ranges) Contains(n uint64) bool {
	return slices.ContainsFunc(rs.items, func(r Range) bool {
		return r.Contains(n)
	})
}

// RefSettlement returns the override of the first range containing n. The
// second result is false when that range carries no override or no range
// contains n.
func (rs Ranges) RefSettlement(n uint64) (string, bool) {
	for _, r := range rs.items {
		if r.Contains(n) {
			return r.RefSettlement, r.RefSettlement != ""
		}
	}

	return "", false
}

// Equal compares the two unions as sets, ignoring order and duplicates.
func (rs Ranges) Equal(o Ranges) bool {
	for _, r := range rs.items {
		if !slices.Contains(o.items, r) {
			return false
		}
	}

	for _, r := range o.items {
		if !slices.Contains(rs.items, r) {
			return false
		}
	}

	return true
}
