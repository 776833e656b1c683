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
	"github.com/stretchr/testify/require"

	"m4o.io/addrcheck"
)

var fixture = map[string]string{
	"data/relations.yaml": `
gazdagret:
  osmrelation: 2713748
  refcounty: "01"
  refsettlement: "011"
  missing-streets: "only"
budafok:
  osmrelation: 42
  refcounty: "01"
  refsettlement: "012"
  alias:
    - budafok-old
inactiverel:
  osmrelation: 43
  refcounty: "02"
  refsettlement: "011"
  inactive: true
`,
	"data/relation-gazdagret.yaml": `
missing-streets: "yes"
filters:
  Budaörsi út:
    ranges:
      - start: 137
        end: 165
  Törökugrató utca:
    ranges:
      - start: "1"
        end: "11"
        refsettlement: "013"
      - start: "2"
        end: "12"
  Hamzsabégi út:
    show-refstreet: true
refstreets:
  OSM Name 1: Ref Name 1
street-filters:
  - Only In Ref Nonsense utca
osm-street-filters:
  - Second Only In OSM utca
`,
	"data/relation-normalize.yaml": `
osmrelation: 42
filters:
  Invalid utca:
    invalid: ["7", "47"]
    valid: ["1000"]
  All utca:
    interpolation: all
    ranges:
      - start: 1
        end: 9
`,
	"data/refcounty-names.yaml": `
"01": Budapest
"02": Baranya
`,
	"data/refsettlement-names.yaml": `
"01":
  "011": Újbuda
  "012": Hegyvidék
`,
	"workdir/streets-gazdagret.csv": lines(
		"@id\tname\t@type",
		"1\tTűzkő utca\tway",
		"2\tTörökugrató utca\tway",
		"3\tOSM Name 1\tway",
		"4\tHamzsabégi út\tway",
		"5\tOnly In OSM utca\tway",
		"6\tSecond Only In OSM utca\tway",
	),
	"workdir/street-housenumbers-gazdagret.csv": lines(
		"@id\taddr:street\taddr:housenumber\t@type\taddr:place",
		"10\tTörökugrató utca\t1\tnode\t",
		"11\tTörökugrató utca\t2\tnode\t",
		"12\tTűzkő utca\t9\tnode\t",
		"13\tTűzkő utca\t10\tnode\t",
		"14\tOSM Name 1\t1\tnode\t",
		"15\tOSM Name 1\t2\tnode\t",
		"16\tOnly In OSM utca\t1\tnode\t",
		"17\tSecond Only In OSM utca\t1\tnode\t",
		"18\t\t3\tway\tHamzsabégi tér",
	),
	"workdir/street-housenumbers-reference-gazdagret.lst": lines(
		"Hamzsabégi út\t1\t",
		"OSM Name 1\t1\t",
		"OSM Name 1\t2\t",
		"Törökugrató utca\t1\t",
		"Törökugrató utca\t10\t",
		"Törökugrató utca\t2\t",
		"Törökugrató utca\t7\t",
		"Tűzkő utca\t1\t",
		"Tűzkő utca\t10\t",
		"Tűzkő utca\t2\t",
		"Tűzkő utca\t9\t",
	),
	"workdir/streets-reference-gazdagret.lst": lines(
		"Hamzsabégi út",
		"Only In Ref Nonsense utca",
		"Only In Ref utca",
		"Ref Name 1",
		"Törökugrató utca",
		"Tűzkő utca",
	),
	"refs/hazszamok.tsv": lines(
		"megye\ttelepules\tutca\thazszam\tmegjegyzes",
		"01\t011\tTörökugrató utca\t1\t",
		"01\t011\tTörökugrató utca\t2\t",
		"01\t011\tTűzkő utca\t1\tcomment",
		"01\t011\tRef Name 1\t3\t",
		"01\t013\tTörökugrató utca\t7\t",
		"02\t011\tTűzkő utca\t99\t",
	),
	"refs/hazszamok-kieg.tsv": lines(
		"megye\ttelepules\tutca\thazszam\tmegjegyzes",
		"01\t011\tTűzkő utca\t5\t",
		"01\t011\tTűzkő utca\t1\tcomment",
	),
	"refs/utcak.tsv": lines(
		"megye\ttelepules\tutca",
		"01\t011\tTűzkő utca",
		"01\t011\tHamzsabégi út",
		"01\t011\tTűzkő utca",
		"01\t012\tElsewhere utca",
	),
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func newFixtureFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for path, content := range fixture {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}

	return fsys
}

func newFixture(t *testing.T, opts ...addrcheck.RelationsOption) (afero.Fs, *addrcheck.Relations) {
	t.Helper()

	fsys := newFixtureFs(t)
	relations, err := addrcheck.NewRelations(fsys, opts...)
	require.NoError(t, err)

	return fsys, relations
}

func getRelation(t *testing.T, relations *addrcheck.Relations, name string) *addrcheck.Relation {
	t.Helper()

	r, err := relations.GetRelation(name)
	require.NoError(t, err)

	return r
}
