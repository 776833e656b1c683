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

	"m4o.io/addrcheck/internal/refcache"
)

func TestBuildRefHousenumbers(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	reference := refcache.HouseNumbers{
		"011": {
			"Törökugrató utca": {{Number: "10"}, {Number: "1"}, {Number: "2"}, {Number: "7"}},
			"Ref Name 1":       {{Number: "3", Comment: "x"}},
		},
		"013": {
			"Törökugrató utca": {{Number: "9"}, {Number: "7", Comment: "c"}},
		},
	}

	got, err := r.BuildRefHousenumbers(reference, "Törökugrató utca", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Törökugrató utca\t2\t",
		"Törökugrató utca\t7\tc",
		"Törökugrató utca\t9\t",
		"Törökugrató utca\t10\t",
	}, got)

	got, err = r.BuildRefHousenumbers(reference, "OSM Name 1", "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"OSM Name 1\t3*\tx"}, got)

	got, err = r.BuildRefHousenumbers(reference, "Nowhere utca", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteRefHousenumbers(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	require.NoError(t, r.WriteRefHousenumbers([]string{"refs/hazszamok.tsv", "refs/hazszamok-kieg.tsv"}))

	b, err := afero.ReadFile(fsys, r.Files().RefHousenumbersPath())
	require.NoError(t, err)
	assert.Equal(t, lines(
		"OSM Name 1\t3\t",
		"Törökugrató utca\t2\t",
		"Törökugrató utca\t7\t",
		"Tűzkő utca\t1\tcomment",
		"Tűzkő utca\t1*\tcomment",
		"Tűzkő utca\t5*\t",
	), string(b))

	// the reference caches were persisted next to the sources
	exists, err := afero.Exists(fsys, "refs/hazszamok.tsv-01.cache")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWriteRefStreets(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	require.NoError(t, r.WriteRefStreets("refs/utcak.tsv"))

	b, err := afero.ReadFile(fsys, r.Files().RefStreetsPath())
	require.NoError(t, err)
	assert.Equal(t, lines("Hamzsabégi út", "Tűzkő utca"), string(b))
}

func TestWriteRefStreetsUnknownSettlement(t *testing.T) {
	fsys, relations := newFixture(t)
	r := getRelation(t, relations, "inactiverel")

	require.NoError(t, r.WriteRefStreets("refs/utcak.tsv"))

	b, err := afero.ReadFile(fsys, r.Files().RefStreetsPath())
	require.NoError(t, err)
	assert.Empty(t, b)
}
