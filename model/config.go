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
	"maps"
	"slices"
	"strconv"
)

// Values of the missing-streets key.
const (
	MissingStreetsYes  = "yes"
	MissingStreetsNo   = "no"
	MissingStreetsOnly = "only"
)

// InterpolationAll makes x-y intervals of a street expand to every number.
const InterpolationAll = "all"

// RangeDict is a numeric filter of a street as written in YAML.
type RangeDict struct {
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	RefSettlement string `yaml:"refsettlement,omitempty"`
}

// FilterDict holds the per-street settings of a relation.
type FilterDict struct {
	Ranges        []RangeDict `yaml:"ranges,omitempty"`
	Invalid       []string    `yaml:"invalid,omitempty"`
	Valid         []string    `yaml:"valid,omitempty"`
	Interpolation string      `yaml:"interpolation,omitempty"`
	RefSettlement string      `yaml:"refsettlement,omitempty"`
	ShowRefStreet *bool       `yaml:"show-refstreet,omitempty"`
}

// RelationDict is the configuration document of one relation. The same
// shape is used for relations.yaml entries and relation-NAME.yaml files.
type RelationDict struct {
	OSMRelation            *uint64               `yaml:"osmrelation,omitempty"`
	RefCounty              *string               `yaml:"refcounty,omitempty"`
	RefSettlement          *string               `yaml:"refsettlement,omitempty"`
	Inactive               *bool                 `yaml:"inactive,omitempty"`
	MissingStreets         *string               `yaml:"missing-streets,omitempty"`
	HousenumberLetters     *bool                 `yaml:"housenumber-letters,omitempty"`
	LetterSuffixStyle      *string               `yaml:"letter-suffix-style,omitempty"`
	AdditionalHousenumbers *bool                 `yaml:"additional-housenumbers,omitempty"`
	Alias                  []string              `yaml:"alias,omitempty"`
	Filters                map[string]FilterDict `yaml:"filters,omitempty"`
	RefStreets             map[string]string     `yaml:"refstreets,omitempty"`
	StreetFilters          []string              `yaml:"street-filters,omitempty"`
	OSMStreetFilters       []string              `yaml:"osm-street-filters,omitempty"`
}

// RelationConfig gives resolved access to a RelationDict.
type RelationConfig struct {
	dict RelationDict
}

// NewRelationConfig wraps an already layered dict.
func NewRelationConfig(dict RelationDict) RelationConfig {
	return RelationConfig{dict: dict}
}

// Dict returns the underlying document.
func (c RelationConfig) Dict() RelationDict {
	return c.dict
}

// IsActive is true unless the relation is marked inactive.
func (c RelationConfig) IsActive() bool {
	return c.dict.Inactive == nil || !*c.dict.Inactive
}

// SetActive sets the inactive flag.
func (c *RelationConfig) SetActive(active bool) {
	inactive := !active
	c.dict.Inactive = &inactive
}

// GetOSMRelation returns the OSM relation id.
func (c RelationConfig) GetOSMRelation() uint64 {
	if c.dict.OSMRelation == nil {
		return 0
	}

	return *c.dict.OSMRelation
}

// GetRefCounty returns the reference county code.
func (c RelationConfig) GetRefCounty() string {
	if c.dict.RefCounty == nil {
		return ""
	}

	return *c.dict.RefCounty
}

// GetRefSettlement returns the reference settlement code.
func (c RelationConfig) GetRefSettlement() string {
	if c.dict.RefSettlement == nil {
		return ""
	}

	return *c.dict.RefSettlement
}

// GetAlias returns the alternative names of the relation.
func (c RelationConfig) GetAlias() []string {
	return slices.Clone(c.dict.Alias)
}

// ShouldCheckMissingStreets returns "yes", "no" or "only".
func (c RelationConfig) ShouldCheckMissingStreets() string {
	if c.dict.MissingStreets == nil {
		return MissingStreetsYes
	}

	return *c.dict.MissingStreets
}

// ShouldCheckHousenumberLetters tells if 42/A style numbers are kept.
func (c RelationConfig) ShouldCheckHousenumberLetters() bool {
	return c.dict.HousenumberLetters != nil && *c.dict.HousenumberLetters
}

// SetHousenumberLetters turns letter suffix handling on or off.
func (c *RelationConfig) SetHousenumberLetters(letters bool) {
	c.dict.HousenumberLetters = &letters
}

// HasAdditionalHousenumbers tells if additional house numbers are reported.
func (c RelationConfig) HasAdditionalHousenumbers() bool {
	return c.dict.AdditionalHousenumbers != nil && *c.dict.AdditionalHousenumbers
}

// GetLetterSuffixStyle returns the configured style, Upper by default or
// when the value is unknown.
func (c RelationConfig) GetLetterSuffixStyle() LetterSuffixStyle {
	if c.dict.LetterSuffixStyle == nil {
		return Upper
	}

	style, err := ParseLetterSuffixStyle(*c.dict.LetterSuffixStyle)
	if err != nil {
		return Upper
	}

	return style
}

// SetLetterSuffixStyle sets the letter suffix style.
func (c *RelationConfig) SetLetterSuffixStyle(style LetterSuffixStyle) {
	s := style.String()
	c.dict.LetterSuffixStyle = &s
}

// GetFilters returns a copy of the per-street filters.
func (c RelationConfig) GetFilters() map[string]FilterDict {
	return maps.Clone(c.dict.Filters)
}

// SetFilters replaces the per-street filters.
func (c *RelationConfig) SetFilters(filters map[string]FilterDict) {
	c.dict.Filters = maps.Clone(filters)
}

// GetFilterStreet returns the filter of one street, if any.
func (c RelationConfig) GetFilterStreet(street string) (FilterDict, bool) {
	f, ok := c.dict.Filters[street]

	return f, ok
}

// GetStreetIsEvenOdd is false for streets with interpolation=all.
func (c RelationConfig) GetStreetIsEvenOdd(street string) bool {
	f, ok := c.GetFilterStreet(street)

	return !ok || f.Interpolation != InterpolationAll
}

// ShouldShowRefStreet tells if the reference name is worth showing next to
// the OSM name.
func (c RelationConfig) ShouldShowRefStreet(street string) bool {
	_, show := c.dict.RefStreets[street]

	if f, ok := c.GetFilterStreet(street); ok && f.ShowRefStreet != nil {
		show = *f.ShowRefStreet
	}

	return show
}

// GetRefStreets returns the OSM name to reference name mapping.
func (c RelationConfig) GetRefStreets() map[string]string {
	return maps.Clone(c.dict.RefStreets)
}

// GetRefStreetFromOSMStreet maps an OSM name to its reference name.
func (c RelationConfig) GetRefStreetFromOSMStreet(street string) string {
	if ref, ok := c.dict.RefStreets[street]; ok {
		return ref
	}

	return street
}

// GetOSMStreetFromRefStreet maps a reference name back to its OSM name.
func (c RelationConfig) GetOSMStreetFromRefStreet(street string) string {
	for osm, ref := range c.dict.RefStreets {
		if ref == street {
			return osm
		}
	}

	return street
}

// GetStreetFilters returns reference streets that are not expected in OSM.
func (c RelationConfig) GetStreetFilters() []string {
	return slices.Clone(c.dict.StreetFilters)
}

// GetOSMStreetFilters returns OSM streets that are not expected in the
// reference.
func (c RelationConfig) GetOSMStreetFilters() []string {
	return slices.Clone(c.dict.OSMStreetFilters)
}

// GetStreetRanges returns the numeric filter of a street, DefaultRanges when
// the street has none.
func (c RelationConfig) GetStreetRanges(street string) (Ranges, error) {
	f, ok := c.GetFilterStreet(street)
	if !ok || len(f.Ranges) == 0 {
		return DefaultRanges(), nil
	}

	items := make([]Range, 0, len(f.Ranges))
	for _, rd := range f.Ranges {
		r, err := rd.parse()
		if err != nil {
			return Ranges{}, fmt.Errorf("street %q: %w", street, err)
		}
		if f.Interpolation == InterpolationAll {
			r = r.WithoutParity()
		}
		items = append(items, r)
	}

	return NewRanges(items...), nil
}

// GetStreetRefSettlement returns every refsettlement a street may have
// numbers in, sorted.
func (c RelationConfig) GetStreetRefSettlement(street string) []string {
	ret := []string{c.GetRefSettlement()}

	if f, ok := c.GetFilterStreet(street); ok {
		if f.RefSettlement != "" {
			ret = []string{f.RefSettlement}
		}
		for _, r := range f.Ranges {
			if r.RefSettlement != "" {
				ret = append(ret, r.RefSettlement)
			}
		}
	}

	slices.Sort(ret)

	return slices.Compact(ret)
}

// GetStreetInvalid returns the invalid list of a street as written.
func (c RelationConfig) GetStreetInvalid(street string) []string {
	f, _ := c.GetFilterStreet(street)

	return slices.Clone(f.Invalid)
}

// GetStreetValid returns the valid list of a street as written.
func (c RelationConfig) GetStreetValid(street string) []string {
	f, _ := c.GetFilterStreet(street)

	return slices.Clone(f.Valid)
}

func (rd RangeDict) parse() (Range, error) {
	start, err := strconv.ParseUint(rd.Start, 10, 64)
	if err != nil {
		return Range{}, fmt.Errorf("bad range start %q: %w", rd.Start, err)
	}

	end, err := strconv.ParseUint(rd.End, 10, 64)
	if err != nil {
		return Range{}, fmt.Errorf("bad range end %q: %w", rd.End, err)
	}

	if start > end {
		return Range{}, fmt.Errorf("range start %d is after end %d", start, end)
	}

	return NewRange(start, end, rd.RefSettlement), nil
}
