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

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/addrcheck"
)

func TestGetOSMStreetsQuery(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	query, err := r.GetOSMStreetsQuery()
	require.NoError(t, err)
	assert.Contains(t, query, "rel(2713748)->.searchRelation;")
	assert.Contains(t, query, "area(3602713748)->.searchArea;")
	assert.Contains(t, query, "[timeout:425]")
	assert.NotContains(t, query, "@")

	require.NoError(t, afero.WriteFile(fsys, "data/streets-template.overpassql",
		[]byte("aaa @RELATION@ bbb @AREA@ ccc\n"), 0o644))

	query, err = r.GetOSMStreetsQuery()
	require.NoError(t, err)
	assert.Equal(t, "aaa 2713748 bbb 3602713748 ccc\n", query)
}

func TestGetOSMHousenumbersQuery(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "budafok")

	query, err := r.GetOSMHousenumbersQuery()
	require.NoError(t, err)
	assert.Contains(t, query, `nwr["addr:housenumber"](r.searchRelation);`)
	assert.Contains(t, query, "area(3600000042)->.searchArea;")
}

func TestMakeTurboQueryForStreets(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	want := `[out:json][timeout:425];
rel(2713748)->.searchRelation;
area(3602713748)->.searchArea;
(rel(2713748);
way["name"="A2"](r.searchRelation);
way["name"="A2"](area.searchArea);
);
out body;
>;
out skel qt;
{{style:
relation{width:3}
way{color:blue; width:4;}
}}`

	assert.Equal(t, want, addrcheck.MakeTurboQueryForStreets(r, []string{"A2"}))
}
