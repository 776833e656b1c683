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
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/model"
)

type streetNumbers struct {
	street  string
	numbers []string
}

func flatten(sns []addrcheck.StreetNumbers) []streetNumbers {
	var ret []streetNumbers
	for _, sn := range sns {
		ret = append(ret, streetNumbers{sn.Street.OSMName, numbersOf(sn.Numbers)})
	}

	return ret
}

func TestGetOSMStreets(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	streets, err := r.GetOSMStreets(true)
	require.NoError(t, err)

	var names []string
	for _, s := range streets {
		names = append(names, s.OSMName)
	}
	assert.Equal(t, []string{
		"Hamzsabégi tér",
		"Hamzsabégi út",
		"OSM Name 1",
		"Only In OSM utca",
		"Second Only In OSM utca",
		"Törökugrató utca",
		"Tűzkő utca",
	}, names)

	assert.Equal(t, model.FromHouseNumber, streets[0].Source)
	assert.Equal(t, model.Way, streets[0].OSMType)
	assert.Equal(t, model.FromStreet, streets[2].Source)
	assert.Equal(t, "Ref Name 1", streets[2].RefName)
	assert.Equal(t, uint64(3), streets[2].OSMID)

	streets, err = r.GetOSMStreets(false)
	require.NoError(t, err)
	assert.Equal(t, "Tűzkő utca", streets[0].OSMName)
	assert.Len(t, streets, 15)
}

func TestGetOSMStreetsFormatError(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	require.NoError(t, afero.WriteFile(fsys, r.Files().OSMStreetsPath(), []byte("<html>error</html>\n"), 0o644))

	_, err := r.GetOSMStreets(true)

	var ferr *addrcheck.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, r.Files().OSMStreetsPath(), ferr.Path)
}

func TestGetMissingHousenumbers(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	ongoing, done, err := r.GetMissingHousenumbers()
	require.NoError(t, err)

	assert.Equal(t, []streetNumbers{
		{"Törökugrató utca", []string{"7", "10"}},
		{"Tűzkő utca", []string{"1", "2"}},
		{"Hamzsabégi út", []string{"1"}},
	}, flatten(ongoing))
	assert.Equal(t, []streetNumbers{
		{"OSM Name 1", []string{"1", "2"}},
		{"Törökugrató utca", []string{"1", "2"}},
		{"Tűzkő utca", []string{"9", "10"}},
	}, flatten(done))
}

func TestGetMissingHousenumbersStreetFilter(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	dict := r.GetConfig().Dict()
	dict.StreetFilters = []string{"Tűzkő utca"}
	r.SetConfig(model.NewRelationConfig(dict))

	ongoing, _, err := r.GetMissingHousenumbers()
	require.NoError(t, err)
	for _, sn := range ongoing {
		assert.NotEqual(t, "Tűzkő utca", sn.Street.OSMName)
	}
}

func TestWriteMissingHousenumbers(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	got, err := r.WriteMissingHousenumbers()
	require.NoError(t, err)

	assert.Equal(t, 3, got.TodoStreetCount)
	assert.Equal(t, 5, got.TodoCount)
	assert.Equal(t, 6, got.DoneCount)
	assert.InDelta(t, 54.55, got.Percent, 0.001)
	assert.Equal(t, addrcheck.Table{
		{"Street name", "Missing count", "House numbers"},
		{"Törökugrató utca", "2", "7<br />10"},
		{"Tűzkő utca", "2", "1<br />2"},
		{"Hamzsabégi út", "1", "1"},
	}, got.Table)

	percent, err := afero.ReadFile(fsys, r.Files().HousenumbersPercentPath())
	require.NoError(t, err)
	assert.Equal(t, "54.55", string(percent))
}

func TestGetMissingStreets(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	only, both, err := r.GetMissingStreets()
	require.NoError(t, err)

	assert.Equal(t, []string{"Only In Ref utca"}, only)
	assert.Equal(t, []string{"Hamzsabégi út", "Ref Name 1", "Törökugrató utca", "Tűzkő utca"}, both)
}

func TestWriteMissingStreets(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	got, err := r.WriteMissingStreets()
	require.NoError(t, err)

	assert.Equal(t, 1, got.TodoCount)
	assert.Equal(t, 4, got.DoneCount)
	assert.InDelta(t, 80.0, got.Percent, 0.001)
	assert.Equal(t, []string{"Only In Ref utca"}, got.Streets)

	percent, err := afero.ReadFile(fsys, r.Files().StreetsPercentPath())
	require.NoError(t, err)
	assert.Equal(t, "80.00", string(percent))
}

func TestGetAdditionalStreets(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	streets, err := r.GetAdditionalStreets(true)
	require.NoError(t, err)

	var names []string
	for _, s := range streets {
		names = append(names, s.OSMName)
	}
	assert.Equal(t, []string{"Hamzsabégi tér", "Only In OSM utca"}, names)
}

func TestGetAdditionalHousenumbers(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	got, err := r.GetAdditionalHousenumbers()
	require.NoError(t, err)

	assert.Equal(t, []streetNumbers{
		{"Hamzsabégi tér", []string{"3"}},
		{"Only In OSM utca", []string{"1"}},
	}, flatten(got))
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 100.0, addrcheck.Percent(0, 0), 0.001)
	assert.InDelta(t, 54.55, addrcheck.Percent(6, 5), 0.001)
	assert.InDelta(t, 0.0, addrcheck.Percent(0, 3), 0.001)
}

func TestGetMissingHousenumbersLetters(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "normalize")

	cfg := r.GetConfig()
	cfg.SetHousenumberLetters(true)
	r.SetConfig(cfg)

	files := map[string]string{
		r.Files().OSMStreetsPath(): lines(
			"@id\tname\t@type",
			"1\tKossuth utca\tway",
		),
		r.Files().OSMHousenumbersPath(): lines(
			"@id\taddr:street\taddr:housenumber\t@type",
			"10\tKossuth utca\t7/B\tnode",
			"11\tKossuth utca\t42 A\tnode",
			"12\tKossuth utca\t52/b\tnode",
			"13\tKossuth utca\t43/B;43/C\tnode",
		),
		r.Files().RefHousenumbersPath(): lines(
			"Kossuth utca\t7/A\t",
			"Kossuth utca\t42/A\t",
			"Kossuth utca\t43/A\t",
			"Kossuth utca\t43/B\t",
			"Kossuth utca\t52/B*\t",
		),
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}

	ongoing, done, err := r.GetMissingHousenumbers()
	require.NoError(t, err)

	assert.Equal(t, []streetNumbers{
		{"Kossuth utca", []string{"7/A", "43/A"}},
	}, flatten(ongoing))
	assert.Equal(t, []streetNumbers{
		{"Kossuth utca", []string{"42/A", "43/B", "52/B*"}},
	}, flatten(done))
}

func TestGetOSMHousenumbersRewrittenExtract(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	numbers, err := r.GetOSMHousenumbers("Tűzkő utca")
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10"}, numbersOf(numbers))

	extract := lines(
		"@id\taddr:street\taddr:housenumber\t@type",
		"20\tTűzkő utca\t1\tnode",
	)
	require.NoError(t, r.Files().WriteOSMHousenumbers(strings.NewReader(extract)))

	numbers, err = r.GetOSMHousenumbers("Tűzkő utca")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, numbersOf(numbers))
}
