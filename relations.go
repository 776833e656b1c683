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

// Package addrcheck compares the house numbers and streets mapped in
// OpenStreetMap with an authoritative reference, relation by relation.
//
// A relation is configured by relations.yaml and an optional
// relation-NAME.yaml in the data directory. Its OSM extracts, reference
// lists and coverage percentages live in the work directory.
package addrcheck

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"github.com/spf13/afero"

	"m4o.io/addrcheck/internal/refcache"
	"m4o.io/addrcheck/model"
)

// Relations is the registry of relations.
type Relations struct {
	fs   afero.Fs
	opts relationsOptions

	names              []string
	dicts              map[string]model.RelationDict
	refcountyNames     map[string]string
	refsettlementNames map[string]map[string]string

	mu        sync.Mutex
	relations map[string]*Relation
}

// NewRelations loads the registry documents from the data directory.
func NewRelations(fsys afero.Fs, opts ...RelationsOption) (*Relations, error) {
	o := defaultRelationsConfig
	for _, opt := range opts {
		opt(&o)
	}

	if o.cache == nil {
		c, err := refcache.New(fsys)
		if err != nil {
			return nil, err
		}
		o.cache = c
	}

	list, err := readRelationList(fsys, o.dataDir)
	if err != nil {
		return nil, err
	}

	r := &Relations{
		fs:        fsys,
		opts:      o,
		names:     list.names,
		dicts:     list.dicts,
		relations: make(map[string]*Relation),
	}

	if _, err := readYAML(fsys, filepath.Join(o.dataDir, refCountyNamesFile), &r.refcountyNames); err != nil {
		return nil, err
	}
	if _, err := readYAML(fsys, filepath.Join(o.dataDir, refSettlementFile), &r.refsettlementNames); err != nil {
		return nil, err
	}

	return r, nil
}

// GetRelation returns the relation called name, creating it on first use.
// Relations not listed in relations.yaml are available when they have
// their own relation-NAME.yaml.
func (r *Relations) GetRelation(name string) (*Relation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.getRelation(name)
}

func (r *Relations) getRelation(name string) (*Relation, error) {
	if rel, ok := r.relations[name]; ok {
		return rel, nil
	}

	entry, listed := r.dicts[name]

	var own model.RelationDict
	exists, err := readYAML(r.fs, filepath.Join(r.opts.dataDir, relationFile(name)), &own)
	if err != nil {
		return nil, err
	}
	if !listed && !exists {
		return nil, fmt.Errorf("%w: %s", ErrRelationNotFound, name)
	}

	dict, err := layer(r.opts.defaults, entry, own)
	if err != nil {
		return nil, &ConfigError{Relation: name, Key: relationFile(name), Err: err}
	}

	rel := newRelation(name, r.fs, r.opts, model.NewRelationConfig(dict))
	r.relations[name] = rel

	return rel, nil
}

// GetNames returns the relation names of relations.yaml in document order.
func (r *Relations) GetNames() []string {
	return slices.Clone(r.names)
}

// GetActiveNames returns the names of the active relations.
func (r *Relations) GetActiveNames() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ret []string
	for _, name := range r.names {
		rel, err := r.getRelation(name)
		if err != nil {
			return nil, err
		}

		if rel.GetConfig().IsActive() {
			ret = append(ret, name)
		}
	}

	return ret, nil
}

// ActivateAll sets the active flag of every listed relation. Later limits
// still apply on top of it.
func (r *Relations) ActivateAll(flag bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.names {
		rel, err := r.getRelation(name)
		if err != nil {
			return err
		}

		cfg := rel.GetConfig()
		cfg.SetActive(flag)
		rel.SetConfig(cfg)
	}

	return nil
}

// LimitToRefCounty deactivates the relations outside refcounty. An empty
// refcounty is a no-op.
func (r *Relations) LimitToRefCounty(refcounty string) error {
	if refcounty == "" {
		return nil
	}

	return r.deactivate(func(cfg model.RelationConfig) bool {
		return cfg.GetRefCounty() != refcounty
	})
}

// LimitToRefSettlement deactivates the relations outside refsettlement. An
// empty refsettlement is a no-op.
func (r *Relations) LimitToRefSettlement(refsettlement string) error {
	if refsettlement == "" {
		return nil
	}

	return r.deactivate(func(cfg model.RelationConfig) bool {
		return cfg.GetRefSettlement() != refsettlement
	})
}

func (r *Relations) deactivate(outside func(cfg model.RelationConfig) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.names {
		rel, err := r.getRelation(name)
		if err != nil {
			return err
		}

		cfg := rel.GetConfig()
		if outside(cfg) {
			cfg.SetActive(false)
			rel.SetConfig(cfg)
		}
	}

	return nil
}

// GetAliases maps every alias to its relation name.
func (r *Relations) GetAliases() (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ret := make(map[string]string)
	for _, name := range r.names {
		rel, err := r.getRelation(name)
		if err != nil {
			return nil, err
		}

		for _, alias := range rel.GetConfig().GetAlias() {
			ret[alias] = name
		}
	}

	return ret, nil
}

// RefCountyGetName returns the display name of a county code, "" if unknown.
func (r *Relations) RefCountyGetName(refcounty string) string {
	return r.refcountyNames[refcounty]
}

// RefCountyGetRefSettlementIDs returns the settlement codes of a county,
// sorted.
func (r *Relations) RefCountyGetRefSettlementIDs(refcounty string) []string {
	return slices.Sorted(maps.Keys(r.refsettlementNames[refcounty]))
}

// RefSettlementGetName returns the display name of a settlement, "" if
// unknown.
func (r *Relations) RefSettlementGetName(refcounty, refsettlement string) string {
	return r.refsettlementNames[refcounty][refsettlement]
}
