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
	"m4o.io/addrcheck/model"
)

func ptr[T any](v T) *T { return &v }

func TestRelationsNames(t *testing.T) {
	_, relations := newFixture(t)

	assert.Equal(t, []string{"gazdagret", "budafok", "inactiverel"}, relations.GetNames())

	active, err := relations.GetActiveNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"gazdagret", "budafok"}, active)

	require.NoError(t, relations.ActivateAll(true))
	active, err = relations.GetActiveNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"gazdagret", "budafok", "inactiverel"}, active)

	require.NoError(t, relations.ActivateAll(false))
	active, err = relations.GetActiveNames()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRelationsActivateAllThenLimit(t *testing.T) {
	_, relations := newFixture(t)

	require.NoError(t, relations.ActivateAll(true))
	require.NoError(t, relations.LimitToRefCounty("01"))

	active, err := relations.GetActiveNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"gazdagret", "budafok"}, active)

	require.NoError(t, relations.ActivateAll(true))
	require.NoError(t, relations.LimitToRefSettlement("011"))

	active, err = relations.GetActiveNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"gazdagret", "inactiverel"}, active)
}

func TestRelationsGetRelation(t *testing.T) {
	_, relations := newFixture(t)

	r := getRelation(t, relations, "gazdagret")
	assert.Same(t, r, getRelation(t, relations, "gazdagret"))
	assert.Equal(t, "gazdagret", r.Name())
	assert.Equal(t, uint64(2713748), r.GetConfig().GetOSMRelation())

	// not listed, but has its own file
	r = getRelation(t, relations, "normalize")
	assert.Equal(t, uint64(42), r.GetConfig().GetOSMRelation())

	_, err := relations.GetRelation("nosuchrelation")
	assert.ErrorIs(t, err, addrcheck.ErrRelationNotFound)
}

func TestRelationsLayering(t *testing.T) {
	_, relations := newFixture(t, addrcheck.WithRelationDefaults(model.RelationDict{
		MissingStreets:     ptr(model.MissingStreetsNo),
		HousenumberLetters: ptr(true),
	}))

	gazdagret := getRelation(t, relations, "gazdagret").GetConfig()
	assert.Equal(t, model.MissingStreetsYes, gazdagret.ShouldCheckMissingStreets())
	assert.True(t, gazdagret.ShouldCheckHousenumberLetters())
	assert.Equal(t, "011", gazdagret.GetRefSettlement())

	budafok := getRelation(t, relations, "budafok").GetConfig()
	assert.Equal(t, model.MissingStreetsNo, budafok.ShouldCheckMissingStreets())
}

func TestRelationsLimitToRefCounty(t *testing.T) {
	_, relations := newFixture(t)

	require.NoError(t, relations.LimitToRefCounty(""))
	active, err := relations.GetActiveNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"gazdagret", "budafok"}, active)

	require.NoError(t, relations.LimitToRefCounty("01"))
	require.NoError(t, relations.LimitToRefSettlement("011"))
	active, err = relations.GetActiveNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"gazdagret"}, active)

	// limits never re-activate
	require.NoError(t, relations.LimitToRefSettlement("012"))
	active, err = relations.GetActiveNames()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRelationsAliasesAndNames(t *testing.T) {
	_, relations := newFixture(t)

	aliases, err := relations.GetAliases()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"budafok-old": "budafok"}, aliases)

	assert.Equal(t, "Budapest", relations.RefCountyGetName("01"))
	assert.Equal(t, "", relations.RefCountyGetName("99"))
	assert.Equal(t, "Újbuda", relations.RefSettlementGetName("01", "011"))
	assert.Equal(t, "", relations.RefSettlementGetName("01", "099"))
	assert.Equal(t, []string{"011", "012"}, relations.RefCountyGetRefSettlementIDs("01"))
	assert.Empty(t, relations.RefCountyGetRefSettlementIDs("02"))
}

func TestRelationsBadYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "data/relations.yaml", []byte("gazdagret: [\n"), 0o644))

	_, err := addrcheck.NewRelations(fsys)

	var cerr *addrcheck.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestRelationsEmptyDataDir(t *testing.T) {
	relations, err := addrcheck.NewRelations(afero.NewMemMapFs())
	require.NoError(t, err)

	assert.Empty(t, relations.GetNames())
}

func TestRelationSetConfig(t *testing.T) {
	_, relations := newFixture(t)
	r := getRelation(t, relations, "gazdagret")

	numbers, err := r.GetOSMHousenumbers("Tűzkő utca")
	require.NoError(t, err)
	assert.Len(t, numbers, 2)

	cfg := r.GetConfig()
	cfg.SetFilters(map[string]model.FilterDict{"Tűzkő utca": {Invalid: []string{"9"}}})
	r.SetConfig(cfg)

	numbers, err = r.GetOSMHousenumbers("Tűzkő utca")
	require.NoError(t, err)
	require.Len(t, numbers, 1)
	assert.Equal(t, "10", numbers[0].Number)
}
