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
	"cmp"
	"html"
	"slices"
	"strconv"
	"strings"

	"m4o.io/addrcheck/model"
)

// Table is a presentation table, the first row being the header.
type Table [][]string

// Count column headers of NumberedStreetsToTable.
const (
	MissingCountHeader    = "Missing count"
	AdditionalCountHeader = "Additional count"
)

// HouseNumberRange is one source range of a street, e.g. 2-10 or 7.
type HouseNumberRange struct {
	Number  string
	Comment string
}

func (h HouseNumberRange) isEstimated() bool {
	return strings.HasSuffix(h.Number, model.EstimatedSuffix)
}

// HouseNumberRanges collapses numbers to their distinct sources, sorted
// numerically.
func HouseNumberRanges(numbers []model.HouseNumber) []HouseNumberRange {
	seen := make(map[string]struct{}, len(numbers))

	var ret []HouseNumberRange
	for _, h := range numbers {
		if _, ok := seen[h.Source]; ok {
			continue
		}
		seen[h.Source] = struct{}{}
		ret = append(ret, HouseNumberRange{Number: h.Source, Comment: h.Comment})
	}

	slices.SortStableFunc(ret, func(a, b HouseNumberRange) int {
		return model.CompareHouseNumbers(a.Number, b.Number)
	})

	return ret
}

// NumberedStreetsToTable renders streets with their numbers, the streets
// with the most ranges first. countHeader labels the count column.
func (r *Relation) NumberedStreetsToTable(streets []StreetNumbers, countHeader string) Table {
	cfg := r.GetConfig()

	type row struct {
		street model.Street
		count  int
		cell   string
	}

	rows := make([]row, 0, len(streets))
	for _, sn := range streets {
		ranges := HouseNumberRanges(sn.Numbers)
		rows = append(rows, row{
			street: sn.Street,
			count:  len(ranges),
			cell:   formatRanges(ranges, cfg.GetStreetIsEvenOdd(sn.Street.OSMName)),
		})
	}

	slices.SortStableFunc(rows, func(a, b row) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}

		return cmp.Compare(a.street.OSMName, b.street.OSMName)
	})

	table := Table{{"Street name", countHeader, "House numbers"}}
	for _, rw := range rows {
		table = append(table, []string{rw.street.DisplayName(), strconv.Itoa(rw.count), rw.cell})
	}

	return table
}

// formatRanges lists odd numbers, then even ones after a line break, for
// even/odd streets and everything in one list otherwise.
func formatRanges(ranges []HouseNumberRange, evenOdd bool) string {
	if !evenOdd {
		return joinRanges(ranges)
	}

	var odd, even []HouseNumberRange
	for _, h := range ranges {
		if n, _ := model.SplitHouseNumber(h.Number); n%2 == 0 {
			even = append(even, h)
		} else {
			odd = append(odd, h)
		}
	}

	switch {
	case len(odd) == 0:
		return joinRanges(even)
	case len(even) == 0:
		return joinRanges(odd)
	default:
		return joinRanges(odd) + "<br />" + joinRanges(even)
	}
}

func joinRanges(ranges []HouseNumberRange) string {
	cells := make([]string, 0, len(ranges))
	for _, h := range ranges {
		cells = append(cells, formatRange(h))
	}

	return strings.Join(cells, ", ")
}

func formatRange(h HouseNumberRange) string {
	s := html.EscapeString(strings.TrimSuffix(h.Number, model.EstimatedSuffix))
	if h.isEstimated() {
		s = `<span style="color: blue;">` + s + `</span>`
	}
	if h.Comment != "" {
		s = `<abbr title="` + html.EscapeString(h.Comment) + `" tabindex="0">` + s + `</abbr>`
	}

	return s
}
