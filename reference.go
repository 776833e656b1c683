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
	"errors"
	"log/slog"
	"slices"
	"strings"

	"m4o.io/addrcheck/internal/refcache"
	"m4o.io/addrcheck/model"
)

var errNoCache = errors.New("relation has no reference cache")

// BuildRefHousenumbers returns the reference numbers of street as
// street<TAB>number<TAB>comment lines, sorted numerically. A number is only
// taken from the refsettlement it is expected in: the one of the first
// street range containing it, otherwise the one of the street.
func (r *Relation) BuildRefHousenumbers(reference refcache.HouseNumbers, street, suffix string) ([]string, error) {
	cfg := r.GetConfig()

	ranges, err := cfg.GetStreetRanges(street)
	if err != nil {
		return nil, &ConfigError{Relation: r.name, Key: "filters", Err: err}
	}

	settlement := cfg.GetRefSettlement()
	if f, ok := cfg.GetFilterStreet(street); ok && f.RefSettlement != "" {
		settlement = f.RefSettlement
	}

	refStreet := cfg.GetRefStreetFromOSMStreet(street)

	var numbers []refcache.Number
	for _, refsettlement := range cfg.GetStreetRefSettlement(street) {
		for _, n := range reference.Lookup(refsettlement, refStreet) {
			expected := settlement
			if v, ok := leadingNumber(n.Number); ok {
				if override, ok := ranges.RefSettlement(v); ok {
					expected = override
				}
			}

			if expected == refsettlement {
				numbers = append(numbers, n)
			}
		}
	}

	slices.SortStableFunc(numbers, func(a, b refcache.Number) int {
		return model.CompareHouseNumbers(a.Number, b.Number)
	})

	lines := make([]string, 0, len(numbers))
	for _, n := range numbers {
		lines = append(lines, street+"\t"+n.Number+suffix+"\t"+n.Comment)
	}

	return lines, nil
}

// WriteRefHousenumbers writes the reference house number list of the
// relation. Numbers from all but the first source are marked estimated.
func (r *Relation) WriteRefHousenumbers(paths []string) error {
	if r.cache == nil {
		return errNoCache
	}

	county := r.GetConfig().GetRefCounty()

	streets, err := r.GetOSMStreets(true)
	if err != nil {
		return err
	}

	var lines []string
	for i, path := range paths {
		suffix := ""
		if i > 0 {
			suffix = model.EstimatedSuffix
		}

		reference, err := r.cache.HouseNumbers(path, county)
		if err != nil {
			return err
		}
		if len(reference) == 0 {
			slog.Debug("refcounty not in reference", "relation", r.name, "refcounty", county, "path", path)
		}

		for _, street := range streets {
			l, err := r.BuildRefHousenumbers(reference, street.OSMName, suffix)
			if err != nil {
				return err
			}
			lines = append(lines, l...)
		}
	}

	slices.Sort(lines)

	return r.files.writeLines(r.files.RefHousenumbersPath(), slices.Compact(lines))
}

// WriteRefStreets writes the reference street list of the relation.
func (r *Relation) WriteRefStreets(path string) error {
	if r.cache == nil {
		return errNoCache
	}

	cfg := r.GetConfig()

	reference, err := r.cache.Streets(path)
	if err != nil {
		return err
	}

	streets := slices.Clone(reference.Lookup(cfg.GetRefCounty(), cfg.GetRefSettlement()))
	if len(streets) == 0 {
		slog.Debug("refsettlement not in reference", "relation", r.name,
			"refcounty", cfg.GetRefCounty(), "refsettlement", cfg.GetRefSettlement())
	}

	for i, s := range streets {
		streets[i] = strings.TrimSpace(s)
	}
	slices.Sort(streets)

	return r.files.writeLines(r.files.RefStreetsPath(), slices.Compact(streets))
}
