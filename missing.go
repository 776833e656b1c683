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
	"fmt"
	"math"
	"slices"
	"strings"

	"m4o.io/addrcheck/model"
)

// StreetNumbers is a street with some of its house numbers.
type StreetNumbers struct {
	Street  model.Street
	Numbers []model.HouseNumber
}

// MissingHousenumbers summarizes the house number coverage of a relation.
type MissingHousenumbers struct {
	TodoStreetCount int
	TodoCount       int
	DoneCount       int
	Percent         float64
	Table           Table
}

// MissingStreets summarizes the street coverage of a relation.
type MissingStreets struct {
	TodoCount int
	DoneCount int
	Percent   float64
	Streets   []string
}

// GetMissingHousenumbers compares reference and OSM house numbers street by
// street. ongoing has the numbers only the reference knows, streets with
// the most of them first. done has the numbers known to both.
func (r *Relation) GetMissingHousenumbers() (ongoing, done []StreetNumbers, err error) {
	cfg := r.GetConfig()

	streets, err := r.GetOSMStreets(true)
	if err != nil {
		return nil, nil, err
	}

	ref, err := r.getRefHousenumbers(cfg)
	if err != nil {
		return nil, nil, err
	}

	filters := cfg.GetStreetFilters()
	for _, street := range streets {
		if slices.Contains(filters, street.OSMName) {
			continue
		}

		osm, err := r.GetOSMHousenumbers(street.OSMName)
		if err != nil {
			return nil, nil, err
		}

		refNumbers := ref[street.OSMName]
		if only := onlyInFirst(refNumbers, osm); len(only) > 0 {
			ongoing = append(ongoing, StreetNumbers{Street: street, Numbers: only})
		}
		if both := inBoth(refNumbers, osm); len(both) > 0 {
			done = append(done, StreetNumbers{Street: street, Numbers: both})
		}
	}

	sortByCount(ongoing)

	return ongoing, done, nil
}

// GetAdditionalHousenumbers returns the OSM house numbers the reference does
// not know, streets with the most of them first. Numbers listed as valid are
// never reported.
func (r *Relation) GetAdditionalHousenumbers() ([]StreetNumbers, error) {
	cfg := r.GetConfig()

	streets, err := r.GetOSMStreets(true)
	if err != nil {
		return nil, err
	}

	ref, err := r.getRefHousenumbers(cfg)
	if err != nil {
		return nil, err
	}

	filters := cfg.GetOSMStreetFilters()

	var ret []StreetNumbers
	for _, street := range streets {
		if slices.Contains(filters, street.OSMName) {
			continue
		}

		osm, err := r.GetOSMHousenumbers(street.OSMName)
		if err != nil {
			return nil, err
		}

		rules, err := r.rules(cfg, street.OSMName)
		if err != nil {
			return nil, err
		}
		osm = slices.DeleteFunc(osm, func(h model.HouseNumber) bool {
			return rules.isValid(h.Key()) || rules.isValid(h.Number)
		})

		if only := onlyInFirst(osm, ref[street.OSMName]); len(only) > 0 {
			ret = append(ret, StreetNumbers{Street: street, Numbers: only})
		}
	}

	sortByCount(ret)

	return ret, nil
}

// GetMissingStreets returns the reference streets missing from OSM and the
// ones present in both, each sorted.
func (r *Relation) GetMissingStreets() (onlyInReference, inBoth []string, err error) {
	cfg := r.GetConfig()

	refStreets, err := r.GetRefStreets()
	if err != nil {
		return nil, nil, err
	}

	streets, err := r.GetOSMStreets(true)
	if err != nil {
		return nil, nil, err
	}

	osm := make(map[string]struct{}, len(streets))
	for _, s := range streets {
		osm[cfg.GetRefStreetFromOSMStreet(s.OSMName)] = struct{}{}
	}

	filters := cfg.GetStreetFilters()
	for _, name := range refStreets {
		if _, ok := osm[name]; ok {
			inBoth = append(inBoth, name)
		} else if !slices.Contains(filters, name) {
			onlyInReference = append(onlyInReference, name)
		}
	}

	return onlyInReference, inBoth, nil
}

// GetAdditionalStreets returns the OSM streets the reference does not know.
func (r *Relation) GetAdditionalStreets(sorted bool) ([]model.Street, error) {
	cfg := r.GetConfig()

	refStreets, err := r.GetRefStreets()
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(refStreets))
	for _, name := range refStreets {
		known[cfg.GetOSMStreetFromRefStreet(name)] = struct{}{}
	}

	streets, err := r.GetOSMStreets(sorted)
	if err != nil {
		return nil, err
	}

	filters := cfg.GetOSMStreetFilters()

	return slices.DeleteFunc(streets, func(s model.Street) bool {
		_, ok := known[s.OSMName]

		return ok || slices.Contains(filters, s.OSMName)
	}), nil
}

// WriteMissingHousenumbers computes the house number coverage and stores its
// percentage.
func (r *Relation) WriteMissingHousenumbers() (MissingHousenumbers, error) {
	ongoing, done, err := r.GetMissingHousenumbers()
	if err != nil {
		return MissingHousenumbers{}, err
	}

	var ret MissingHousenumbers
	for _, sn := range ongoing {
		ret.TodoCount += len(HouseNumberRanges(sn.Numbers))
	}
	for _, sn := range done {
		ret.DoneCount += len(HouseNumberRanges(sn.Numbers))
	}
	ret.TodoStreetCount = len(ongoing)
	ret.Percent = Percent(ret.DoneCount, ret.TodoCount)
	ret.Table = r.NumberedStreetsToTable(ongoing, MissingCountHeader)

	if err := r.writePercent(r.files.HousenumbersPercentPath(), ret.Percent); err != nil {
		return MissingHousenumbers{}, err
	}

	return ret, nil
}

// WriteMissingStreets computes the street coverage and stores its
// percentage.
func (r *Relation) WriteMissingStreets() (MissingStreets, error) {
	todo, done, err := r.GetMissingStreets()
	if err != nil {
		return MissingStreets{}, err
	}

	ret := MissingStreets{
		TodoCount: len(todo),
		DoneCount: len(done),
		Percent:   Percent(len(done), len(todo)),
		Streets:   todo,
	}

	if err := r.writePercent(r.files.StreetsPercentPath(), ret.Percent); err != nil {
		return MissingStreets{}, err
	}

	return ret, nil
}

func (r *Relation) writePercent(path string, percent float64) error {
	return r.files.writeFrom(path, strings.NewReader(fmt.Sprintf("%.2f", percent)))
}

// Percent is done/(done+todo) as a percentage rounded to two decimals, 100
// when there is nothing to do.
func Percent(done, todo int) float64 {
	total := done + todo
	if total == 0 {
		return 100
	}

	return math.Round(float64(done)*100/float64(total)*100) / 100
}

// onlyInFirst returns the numbers of first whose key is not in second.
func onlyInFirst(first, second []model.HouseNumber) []model.HouseNumber {
	keys := numberKeys(second)

	var ret []model.HouseNumber
	for _, h := range first {
		if _, ok := keys[h.Key()]; !ok {
			ret = append(ret, h)
		}
	}

	return ret
}

// inBoth returns the numbers of first whose key is also in second.
func inBoth(first, second []model.HouseNumber) []model.HouseNumber {
	keys := numberKeys(second)

	var ret []model.HouseNumber
	for _, h := range first {
		if _, ok := keys[h.Key()]; ok {
			ret = append(ret, h)
		}
	}

	return ret
}

func numberKeys(numbers []model.HouseNumber) map[string]struct{} {
	keys := make(map[string]struct{}, len(numbers))
	for _, h := range numbers {
		keys[h.Key()] = struct{}{}
	}

	return keys
}

func sortByCount(streets []StreetNumbers) {
	slices.SortStableFunc(streets, func(a, b StreetNumbers) int {
		return cmp.Compare(len(b.Numbers), len(a.Numbers))
	})
}
