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

package addrcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/model"
)

func TestHouseNumberRanges(t *testing.T) {
	numbers := []model.HouseNumber{
		model.NewHouseNumber("25", "25", ""),
		model.NewHouseNumber("2", "2-6", ""),
		model.NewHouseNumber("4", "2-6", ""),
		model.NewHouseNumber("6", "2-6", ""),
		model.NewHouseNumber("12", "12", "note"),
	}

	assert.Equal(t, []addrcheck.HouseNumberRange{
		{Number: "2-6"},
		{Number: "12", Comment: "note"},
		{Number: "25"},
	}, addrcheck.HouseNumberRanges(numbers))
}

func TestNumberedStreetsToTable(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "normalize")

	streets := []addrcheck.StreetNumbers{
		{
			Street:  model.Street{OSMName: "A utca"},
			Numbers: []model.HouseNumber{model.NewHouseNumber("2", "2-10", "")},
		},
		{
			Street: model.Street{OSMName: "B utca", RefName: "B köz", ShowRefStreet: true},
			Numbers: []model.HouseNumber{
				model.NewHouseNumber("1", "1", ""),
				model.NewHouseNumber("3", "3", ""),
			},
		},
		{
			Street: model.Street{OSMName: "All utca"},
			Numbers: []model.HouseNumber{
				model.NewHouseNumber("2", "2", ""),
				model.NewHouseNumber("3*", "3*", ""),
				model.NewHouseNumber("1", "1", "ask <them>"),
			},
		},
	}

	assert.Equal(t, addrcheck.Table{
		{"Street name", "Missing count", "House numbers"},
		{"All utca", "3", `<abbr title="ask &lt;them&gt;" tabindex="0">1</abbr>, 2, <span style="color: blue;">3</span>`},
		{"B utca<br />(B köz)", "2", "1, 3"},
		{"A utca", "1", "2-10"},
	}, r.NumberedStreetsToTable(streets, addrcheck.MissingCountHeader))

	table := r.NumberedStreetsToTable(streets[:1], addrcheck.AdditionalCountHeader)
	assert.Equal(t, []string{"Street name", "Additional count", "House numbers"}, table[0])
}
