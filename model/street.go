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
	"slices"
)

// OSMType is the type of the OSM object a street was read from.
type OSMType uint8

// OSM object types.
const (
	Way OSMType = iota
	Node
	Relation
)

func (t OSMType) String() string {
	switch t {
	case Node:
		return "node"
	case Relation:
		return "relation"
	default:
		return "way"
	}
}

// ParseOSMType converts an Overpass @type value. The empty string is a way.
func ParseOSMType(s string) (OSMType, error) {
	switch s {
	case "", "way":
		return Way, nil
	case "node":
		return Node, nil
	case "relation":
		return Relation, nil
	default:
		return Way, fmt.Errorf("unknown OSM type %q", s)
	}
}

// StreetSource tells whether a street came from a street record or was
// inferred from a house number record.
type StreetSource uint8

// Street sources.
const (
	FromStreet StreetSource = iota
	FromHouseNumber
)

// Street is a street name as known to OSM, with its reference name.
type Street struct {
	OSMName       string
	RefName       string
	ShowRefStreet bool
	OSMType       OSMType
	OSMID         uint64
	Source        StreetSource
}

// Equal compares OSM names only.
func (s Street) Equal(o Street) bool {
	return s.OSMName == o.OSMName
}

// Compare orders streets by OSM name.
func (s Street) Compare(o Street) int {
	return cmp.Compare(s.OSMName, o.OSMName)
}

// DisplayName is the OSM name, followed by the reference name when it
// differs and should be shown.
func (s Street) DisplayName() string {
	if s.ShowRefStreet && s.RefName != "" && s.RefName != s.OSMName {
		return s.OSMName + "<br />(" + s.RefName + ")"
	}

	return s.OSMName
}

func (s Street) String() string {
	return s.OSMName
}

// SortStreets sorts by OSM name, keeping the order of equal names.
func SortStreets(streets []Street) {
	slices.SortStableFunc(streets, Street.Compare)
}

// DedupStreets removes adjacent streets of the same OSM name, keeping the
// first one.
func DedupStreets(streets []Street) []Street {
	return slices.CompactFunc(streets, Street.Equal)
}
