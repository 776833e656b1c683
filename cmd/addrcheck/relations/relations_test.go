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

package relations

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/addrcheck"
)

const relationsYAML = `
zugló:
  refcounty: "01"
  refsettlement: "016"
óbuda:
  refcounty: "01"
  refsettlement: "003"
budafok:
  refcounty: "01"
  refsettlement: "022"
pécs:
  refcounty: "02"
  refsettlement: "001"
  inactive: true
`

func newRelations(t *testing.T) *addrcheck.Relations {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "data/relations.yaml", []byte(relationsYAML), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "data/refcounty-names.yaml", []byte("\"01\": Budapest\n\"02\": Baranya\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "data/refsettlement-names.yaml",
		[]byte("\"01\":\n  \"003\": Óbuda\n  \"016\": Zugló\n"), 0o644))

	relations, err := addrcheck.NewRelations(fsys)
	require.NoError(t, err)

	return relations
}

func names(rows []row) []string {
	var ret []string
	for _, r := range rows {
		ret = append(ret, r.name)
	}

	return ret
}

func TestList(t *testing.T) {
	rows, err := list(newRelations(t), "", "", false)
	require.NoError(t, err)

	// ó sorts with o, not after z
	assert.Equal(t, []string{"budafok", "óbuda", "zugló"}, names(rows))
	assert.Equal(t, row{name: "óbuda", refcounty: "Budapest", refsettlement: "Óbuda"}, rows[1])
	assert.Equal(t, "", rows[0].refsettlement)
}

func TestListAll(t *testing.T) {
	rows, err := list(newRelations(t), "", "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"budafok", "óbuda", "pécs", "zugló"}, names(rows))
}

func TestListAllWithLimit(t *testing.T) {
	rows, err := list(newRelations(t), "01", "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"budafok", "óbuda", "zugló"}, names(rows))
}

func TestListLimits(t *testing.T) {
	rows, err := list(newRelations(t), "01", "016", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"zugló"}, names(rows))
}

func TestRender(t *testing.T) {
	buf := new(bytes.Buffer)
	saved := out
	defer func() { out = saved }()
	out = buf

	render([]row{{name: "zugló", refcounty: "Budapest", refsettlement: "Zugló"}})

	assert.Equal(t, "zugló\tBudapest\tZugló\n", buf.String())
}
