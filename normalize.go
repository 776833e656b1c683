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

package addrcheck

import (
	"regexp"
	"strconv"
	"strings"

	"m4o.io/addrcheck/model"
)

const (
	// maxExpansion is the largest x-y interval that is expanded.
	maxExpansion = 50

	// maxHouseNumber is the largest end of an x-y interval that is expanded.
	maxHouseNumber = 1000
)

var letterNumber = regexp.MustCompile(`^([0-9]+)/([A-Za-z])$`)

// streetRules are the resolved settings normalization needs for one street.
type streetRules struct {
	evenOdd bool
	ranges  model.Ranges
	letters bool
	style   model.LetterSuffixStyle
	invalid map[string]struct{}
	valid   map[string]struct{}
}

func newStreetRules(cfg model.RelationConfig, street string) (streetRules, error) {
	ranges, err := cfg.GetStreetRanges(street)
	if err != nil {
		return streetRules{}, err
	}

	s := streetRules{
		evenOdd: cfg.GetStreetIsEvenOdd(street),
		ranges:  ranges,
		letters: cfg.ShouldCheckHousenumberLetters(),
		style:   cfg.GetLetterSuffixStyle(),
	}
	s.invalid = s.entrySet(cfg.GetStreetInvalid(street))
	s.valid = s.entrySet(cfg.GetStreetValid(street))

	return s, nil
}

// entrySet simplifies invalid/valid entries the way numbers are simplified,
// keeping the entry as written too.
func (s streetRules) entrySet(entries []string) map[string]struct{} {
	if len(entries) == 0 {
		return nil
	}

	set := make(map[string]struct{}, 2*len(entries))
	for _, e := range entries {
		e = strings.TrimSuffix(strings.TrimSpace(e), model.EstimatedSuffix)
		set[e] = struct{}{}

		if s.letters {
			if n, ok := model.NormalizeLetterSuffix(e, "", s.style); ok {
				set[n] = struct{}{}
				continue
			}
		}

		if n, ok := leadingNumber(e); ok {
			set[strconv.FormatUint(n, 10)] = struct{}{}
		}
	}

	return set
}

// normalize splits a raw house number field into house numbers. Every
// number keeps the whole field as its source.
func (s streetRules) normalize(raw string) []model.HouseNumber {
	value, comment, _ := strings.Cut(raw, "\t")
	source := strings.TrimSpace(value)

	var ret []model.HouseNumber
	for _, token := range strings.FieldsFunc(value, isSeparator) {
		if token = strings.TrimSpace(token); token != "" {
			ret = append(ret, s.normalizeToken(token, source, comment)...)
		}
	}

	return ret
}

func (s streetRules) normalizeToken(token, source, comment string) []model.HouseNumber {
	var suffix string
	if strings.HasSuffix(token, model.EstimatedSuffix) {
		suffix = model.EstimatedSuffix
	}

	parts := strings.Split(strings.TrimSuffix(token, suffix), "-")
	parsed := make([]uint64, 0, len(parts))
	for _, p := range parts {
		if n, ok := leadingNumber(p); ok {
			parsed = append(parsed, n)
		}
	}

	var numbers []uint64
	if len(parts) == 2 && len(parsed) == 2 {
		numbers = s.expand(parsed[0], parsed[1], parts[1])
	} else {
		numbers = s.filter(parsed...)
	}

	if s.letters && len(numbers) == 1 {
		if n, ok := model.NormalizeLetterSuffix(token, suffix, s.style); ok {
			if !s.keep(n) {
				return nil
			}

			return []model.HouseNumber{model.NewHouseNumber(n, n, comment)}
		}
	}

	ret := make([]model.HouseNumber, 0, len(numbers))
	for _, n := range numbers {
		number := strconv.FormatUint(n, 10) + suffix
		if s.keep(number) {
			ret = append(ret, model.NewHouseNumber(number, source, comment))
		}
	}

	return ret
}

// expand turns an x-y interval into numbers. Intervals which look like
// nonsense are not expanded, only their bounds are kept.
func (s streetRules) expand(start, end uint64, endText string) []uint64 {
	switch {
	case end < start:
		// 42-1: the "-1" is just noise
		return s.filter(start)
	case !isDigits(strings.TrimSpace(endText)):
		return s.filter(start)
	case start == 0:
		return s.filter(start, end)
	case s.evenOdd && start%2 != end%2:
		return s.filter(start, end)
	case end > maxHouseNumber || end-start > maxExpansion:
		return s.filter(start, end)
	}

	step := uint64(1)
	if s.evenOdd {
		step = 2
	}

	var ret []uint64
	for n := start; n <= end; n += step {
		if s.ranges.Contains(n) {
			ret = append(ret, n)
		}
	}

	return ret
}

// filter keeps numbers inside the street ranges or explicitly valid.
func (s streetRules) filter(numbers ...uint64) []uint64 {
	ret := make([]uint64, 0, len(numbers))
	for _, n := range numbers {
		if s.ranges.Contains(n) || s.isValid(strconv.FormatUint(n, 10)) {
			ret = append(ret, n)
		}
	}

	return ret
}

// keep drops invalid numbers unless they are also valid.
func (s streetRules) keep(number string) bool {
	key := strings.TrimSuffix(number, model.EstimatedSuffix)

	return s.isValid(key) || !s.isInvalid(key)
}

func (s streetRules) isValid(key string) bool {
	_, ok := s.valid[key]

	return ok
}

func (s streetRules) isInvalid(key string) bool {
	if _, ok := s.invalid[key]; ok {
		return true
	}

	// 37/B is also invalid when written as 37b
	if m := letterNumber.FindStringSubmatch(key); m != nil {
		_, ok := s.invalid[m[1]+strings.ToLower(m[2])]

		return ok
	}

	return false
}

func isSeparator(r rune) bool {
	return r == ';' || r == ','
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return s != ""
}

// leadingNumber parses the digits at the start of s.
func leadingNumber(s string) (uint64, bool) {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}
