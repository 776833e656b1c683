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
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"m4o.io/addrcheck/model"
)

const (
	relationsFile      = "relations.yaml"
	refCountyNamesFile = "refcounty-names.yaml"
	refSettlementFile  = "refsettlement-names.yaml"
)

func relationFile(name string) string {
	return "relation-" + name + ".yaml"
}

// readYAML decodes the document at path into v. The first result is false
// when the file does not exist.
func readYAML(fsys afero.Fs, path string, v any) (bool, error) {
	b, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("unable to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, v); err != nil {
		return false, &ConfigError{Key: filepath.Base(path), Err: err}
	}

	return true, nil
}

// relationList is relations.yaml: the relation dicts and their document order.
type relationList struct {
	names []string
	dicts map[string]model.RelationDict
}

func readRelationList(fsys afero.Fs, dataDir string) (relationList, error) {
	path := filepath.Join(dataDir, relationsFile)

	var order yaml.MapSlice
	if _, err := readYAML(fsys, path, &order); err != nil {
		return relationList{}, err
	}

	dicts := make(map[string]model.RelationDict, len(order))
	if _, err := readYAML(fsys, path, &dicts); err != nil {
		return relationList{}, err
	}

	names := make([]string, 0, len(order))
	for _, item := range order {
		name, ok := item.Key.(string)
		if !ok {
			return relationList{}, &ConfigError{Key: relationsFile, Err: fmt.Errorf("relation name %v is not a string", item.Key)}
		}
		names = append(names, name)
	}

	return relationList{names: names, dicts: dicts}, nil
}

// layer merges dicts into one, later dicts overriding earlier ones key by key.
func layer(dicts ...model.RelationDict) (model.RelationDict, error) {
	var ret model.RelationDict
	for _, d := range dicts {
		if err := mergo.Merge(&ret, d, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return model.RelationDict{}, fmt.Errorf("unable to merge relation configuration: %w", err)
		}
	}

	return ret, nil
}
