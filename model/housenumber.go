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
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// EstimatedSuffix marks a house number that is estimated rather than
// confirmed.
const EstimatedSuffix = "*"

// LetterSuffixStyle is the case used for letter suffixes such as 42/A.
type LetterSuffixStyle uint8

// Letter suffix styles.
const (
	Upper LetterSuffixStyle = iota
	Lower
)

func (s LetterSuffixStyle) String() string {
	if s == Lower {
		return "lower"
	}

	return "upper"
}

// ParseLetterSuffixStyle converts "upper" or "lower" to a LetterSuffixStyle.
func ParseLetterSuffixStyle(s string) (LetterSuffixStyle, error) {
	switch strings.ToLower(s) {
	case "", "upper":
		return Upper, nil
	case "lower":
		return Lower, nil
	default:
		return Upper, fmt.Errorf("unknown letter suffix style %q", s)
	}
}

var letterSuffix = regexp.MustCompile(`^([0-9]+)( |/)?([A-Za-z])$`)

// HouseNumber is a single normalized house number. Source is the raw text
// it was produced from and Comment an optional annotation.
type HouseNumber struct {
	Number  string
	Source  string
	Comment string
}

// NewHouseNumber creates a HouseNumber.
func NewHouseNumber(number, source, comment string) HouseNumber {
	return HouseNumber{Number: number, Source: source, Comment: comment}
}

// Equal compares number and source, the comment is ignored.
func (h HouseNumber) Equal(o HouseNumber) bool {
	return h.Number == o.Number && h.Source == o.Source
}

// IsEstimated reports whether the number carries the estimated suffix.
func (h HouseNumber) IsEstimated() bool {
	return strings.HasSuffix(h.Number, EstimatedSuffix)
}

// Key is used to match OSM and reference numbers.
func (h HouseNumber) Key() string {
	return strings.ToLower(strings.TrimSuffix(h.Number, EstimatedSuffix))
}

// Value returns the leading numeric part of the number.
func (h HouseNumber) Value() (uint64, bool) {
	n, _ := SplitHouseNumber(h.Number)
	if n < 0 {
		return 0, false
	}

	return uint64(n), true
}

// LetterSuffix returns the letter of a 42/A style number, or "".
func (h HouseNumber) LetterSuffix() string {
	number := strings.TrimSuffix(h.Number, EstimatedSuffix)
	if i := strings.IndexByte(number, '/'); i >= 0 {
		return number[i+1:]
	}

	return ""
}

// IsRange reports whether the number was expanded from an x-y interval.
func (h HouseNumber) IsRange() bool {
	return strings.Contains(h.Source, "-")
}

func (h HouseNumber) String() string {
	return h.Number
}

// SplitHouseNumber splits a house number into its leading integer and the
// remainder. The integer is -1 when there are no leading digits.
func SplitHouseNumber(s string) (int64, string) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return -1, s
	}

	return n, s[end:]
}

// CompareHouseNumbers orders house number strings numerically.
func CompareHouseNumbers(a, b string) int {
	an, ar := SplitHouseNumber(a)
	bn, br := SplitHouseNumber(b)

	if c := cmp.Compare(an, bn); c != 0 {
		return c
	}

	return cmp.Compare(ar, br)
}

// SortHouseNumbers sorts numerically, keeping the order of equal numbers.
func SortHouseNumbers(numbers []HouseNumber) {
	slices.SortStableFunc(numbers, func(a, b HouseNumber) int {
		return CompareHouseNumbers(a.Number, b.Number)
	})
}

// DedupHouseNumbers removes later duplicates by number and source.
func DedupHouseNumbers(numbers []HouseNumber) []HouseNumber {
	type id struct{ number, source string }

	seen := make(map[id]struct{}, len(numbers))
	ret := make([]HouseNumber, 0, len(numbers))
	for _, h := range numbers {
		k := id{h.Number, h.Source}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ret = append(ret, h)
	}

	return ret
}

// HasLetterSuffix reports whether raw looks like 42a, 42 a or 42/a once the
// given suffix is removed.
func HasLetterSuffix(raw, suffix string) bool {
	return letterSuffix.MatchString(strings.TrimSuffix(raw, suffix))
}

// NormalizeLetterSuffix turns 42a, 42 a or 42/a into 42/A (or 42/a), keeping
// the suffix. The second result is false if raw has no letter suffix.
func NormalizeLetterSuffix(raw, suffix string, style LetterSuffixStyle) (string, bool) {
	m := letterSuffix.FindStringSubmatch(strings.TrimSuffix(raw, suffix))
	if m == nil {
		return "", false
	}

	letter := strings.ToUpper(m[3])
	if style == Lower {
		letter = strings.ToLower(m[3])
	}

	return m[1] + "/" + letter + suffix, true
}
