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
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const (
	// queryTimeout is the server side timeout of generated queries, in seconds.
	queryTimeout = 425

	// areaOffset turns a relation id into an Overpass area id.
	areaOffset = 3_600_000_000

	streetsTemplate      = "streets-template.overpassql"
	housenumbersTemplate = "street-housenumbers-template.overpassql"
)

var (
	//go:embed queries/streets.overpassql
	defaultStreetsTemplate string

	//go:embed queries/housenumbers.overpassql
	defaultHousenumbersTemplate string
)

// GetOSMStreetsQuery returns the Overpass query of the street extract.
func (r *Relation) GetOSMStreetsQuery() (string, error) {
	return r.renderQuery(streetsTemplate, defaultStreetsTemplate)
}

// GetOSMHousenumbersQuery returns the Overpass query of the house number
// extract.
func (r *Relation) GetOSMHousenumbersQuery() (string, error) {
	return r.renderQuery(housenumbersTemplate, defaultHousenumbersTemplate)
}

// renderQuery fills in a template from the data directory, or the built-in
// one when the data directory has none.
func (r *Relation) renderQuery(name, fallback string) (string, error) {
	template := fallback

	b, err := afero.ReadFile(r.fs, filepath.Join(r.dataDir, name))
	if err == nil {
		template = string(b)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("unable to read query template %s: %w", name, err)
	}

	return r.queryReplacer().Replace(template), nil
}

func (r *Relation) queryReplacer() *strings.Replacer {
	id := r.GetConfig().GetOSMRelation()

	return strings.NewReplacer(
		"@RELATION@", strconv.FormatUint(id, 10),
		"@AREA@", strconv.FormatUint(id+areaOffset, 10),
		"@TIMEOUT@", strconv.Itoa(queryTimeout),
	)
}

// MakeTurboQueryForStreets returns an overpass turbo query showing the given
// streets of the relation.
func MakeTurboQueryForStreets(r *Relation, streets []string) string {
	var b strings.Builder

	b.WriteString("[out:json][timeout:@TIMEOUT@];\n")
	b.WriteString("rel(@RELATION@)->.searchRelation;\n")
	b.WriteString("area(@AREA@)->.searchArea;\n")
	b.WriteString("(rel(@RELATION@);\n")
	for _, street := range streets {
		b.WriteString(`way["name"="` + street + `"](r.searchRelation);` + "\n")
		b.WriteString(`way["name"="` + street + `"](area.searchArea);` + "\n")
	}
	b.WriteString(");\nout body;\n>;\nout skel qt;\n")
	b.WriteString("{{style:\nrelation{width:3}\nway{color:blue; width:4;}\n}}")

	return r.queryReplacer().Replace(b.String())
}
