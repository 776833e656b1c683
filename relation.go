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
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"m4o.io/addrcheck/internal/refcache"
	"m4o.io/addrcheck/internal/tsv"
	"m4o.io/addrcheck/model"
)

// Columns of the Overpass extracts.
const (
	colID                = "@id"
	colType              = "@type"
	colName              = "name"
	colStreet            = "addr:street"
	colPlace             = "addr:place"
	colHousenumber       = "addr:housenumber"
	colConscriptionumber = "addr:conscriptionnumber"
)

// Relation is one administrative area with its configuration and files.
type Relation struct {
	name    string
	fs      afero.Fs
	dataDir string
	files   *RelationFiles
	cache   *refcache.Cache

	mu     sync.RWMutex
	config model.RelationConfig

	// OSM house numbers by street, built on first use
	housenumbers map[string][]model.HouseNumber
}

func newRelation(name string, fsys afero.Fs, o relationsOptions, config model.RelationConfig) *Relation {
	r := &Relation{
		name:    name,
		fs:      fsys,
		dataDir: o.dataDir,
		files:   newRelationFiles(fsys, o.workDir, name),
		cache:   o.cache,
		config:  config,
	}
	r.files.changed = r.fileChanged

	return r
}

// fileChanged drops the house numbers read from a rewritten extract.
func (r *Relation) fileChanged(path string) {
	if path != r.files.OSMHousenumbersPath() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.housenumbers = nil
}

// Name returns the relation name.
func (r *Relation) Name() string {
	return r.name
}

// Files returns the file locations of the relation.
func (r *Relation) Files() *RelationFiles {
	return r.files
}

// GetConfig returns a snapshot of the configuration.
func (r *Relation) GetConfig() model.RelationConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.config
}

// SetConfig replaces the configuration, dropping everything derived from the
// old one.
func (r *Relation) SetConfig(config model.RelationConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config = config
	r.housenumbers = nil
}

// Normalize normalizes a raw house number of street, using evenOdd and
// ranges instead of the configured ones.
func (r *Relation) Normalize(raw, street string, evenOdd bool, ranges model.Ranges) ([]model.HouseNumber, error) {
	rules, err := r.rules(r.GetConfig(), street)
	if err != nil {
		return nil, err
	}
	rules.evenOdd = evenOdd
	rules.ranges = ranges

	return rules.normalize(raw), nil
}

func (r *Relation) rules(cfg model.RelationConfig, street string) (streetRules, error) {
	rules, err := newStreetRules(cfg, street)
	if err != nil {
		return streetRules{}, &ConfigError{Relation: r.name, Key: "filters", Err: err}
	}

	return rules, nil
}

// GetOSMStreets returns the OSM streets of the relation: the named ways of
// the street extract followed by streets only known from addresses. When
// sorted is set the result is ordered by name without duplicates.
func (r *Relation) GetOSMStreets(sorted bool) ([]model.Street, error) {
	cfg := r.GetConfig()

	var streets []model.Street
	err := r.readTSV(r.files.OSMStreetsPath(), func(row tsv.Row) error {
		name := row.Get(colName)
		if name == "" {
			return nil
		}

		street, err := newStreet(cfg, name, row, model.FromStreet)
		if err != nil {
			return err
		}
		streets = append(streets, street)

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.readTSV(r.files.OSMHousenumbersPath(), func(row tsv.Row) error {
		name := addressStreet(row)
		if name == "" || (row.Get(colHousenumber) == "" && row.Get(colConscriptionumber) == "") {
			return nil
		}

		street, err := newStreet(cfg, name, row, model.FromHouseNumber)
		if err != nil {
			return err
		}
		streets = append(streets, street)

		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no house number extract", "relation", r.name)
	} else if err != nil {
		return nil, err
	}

	if sorted {
		model.SortStreets(streets)
		streets = model.DedupStreets(streets)
	}

	return streets, nil
}

// GetOSMHousenumbers returns the normalized OSM house numbers of street,
// sorted without duplicates.
func (r *Relation) GetOSMHousenumbers(street string) ([]model.HouseNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.housenumbers == nil {
		housenumbers, err := r.readOSMHousenumbers(r.config)
		if err != nil {
			return nil, err
		}
		r.housenumbers = housenumbers
	}

	return slices.Clone(r.housenumbers[street]), nil
}

func (r *Relation) readOSMHousenumbers(cfg model.RelationConfig) (map[string][]model.HouseNumber, error) {
	ret := make(map[string][]model.HouseNumber)
	rules := make(map[string]streetRules)

	err := r.readTSV(r.files.OSMHousenumbersPath(), func(row tsv.Row) error {
		street := addressStreet(row)
		raw := row.Get(colHousenumber)
		if street == "" || raw == "" {
			return nil
		}

		sr, ok := rules[street]
		if !ok {
			var err error
			if sr, err = r.rules(cfg, street); err != nil {
				return err
			}
			rules[street] = sr
		}

		ret[street] = append(ret[street], sr.normalize(raw)...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	for street, numbers := range ret {
		model.SortHouseNumbers(numbers)
		ret[street] = model.DedupHouseNumbers(numbers)
	}

	return ret, nil
}

// GetRefStreets returns the reference street names of the relation, sorted.
func (r *Relation) GetRefStreets() ([]string, error) {
	streets, err := r.files.readLines(r.files.RefStreetsPath())
	if err != nil {
		return nil, fmt.Errorf("unable to read reference streets of %s: %w", r.name, err)
	}

	slices.Sort(streets)

	return slices.Compact(streets), nil
}

// getRefHousenumbers reads the reference house number list, normalized by
// OSM street name.
func (r *Relation) getRefHousenumbers(cfg model.RelationConfig) (map[string][]model.HouseNumber, error) {
	lines, err := r.files.readLines(r.files.RefHousenumbersPath())
	if err != nil {
		return nil, fmt.Errorf("unable to read reference house numbers of %s: %w", r.name, err)
	}

	ret := make(map[string][]model.HouseNumber)
	rules := make(map[string]streetRules)
	for _, line := range lines {
		street, raw, ok := strings.Cut(line, "\t")
		if !ok {
			slog.Debug("skipping reference line", "relation", r.name, "line", line)
			continue
		}

		sr, ok := rules[street]
		if !ok {
			if sr, err = r.rules(cfg, street); err != nil {
				return nil, err
			}
			rules[street] = sr
		}

		ret[street] = append(ret[street], sr.normalize(raw)...)
	}

	for street, numbers := range ret {
		model.SortHouseNumbers(numbers)
		ret[street] = model.DedupHouseNumbers(numbers)
	}

	return ret, nil
}

// readTSV calls fn for each row of the extract at path. Extracts need at
// least two columns, anything else is an Overpass error page.
func (r *Relation) readTSV(path string, fn func(row tsv.Row) error) error {
	f, err := r.files.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rd, err := tsv.NewReader(f)
	if errors.Is(err, tsv.ErrNoHeader) {
		return &FormatError{Path: path, Msg: "empty extract"}
	} else if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}

	if len(rd.Columns()) < 2 {
		return &FormatError{Path: path, Msg: fmt.Sprintf("expected at least 2 columns, got %q", strings.Join(rd.Columns(), "\t"))}
	}

	for {
		row, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("unable to read %s: %w", path, err)
		}

		if err := fn(row); err != nil {
			return err
		}
	}
}

func newStreet(cfg model.RelationConfig, name string, row tsv.Row, source model.StreetSource) (model.Street, error) {
	typ, err := model.ParseOSMType(row.Get(colType))
	if err != nil {
		return model.Street{}, err
	}

	// a missing or odd id leaves the street without a link, nothing more
	id, _ := strconv.ParseUint(row.Get(colID), 10, 64)

	return model.Street{
		OSMName:       name,
		RefName:       cfg.GetRefStreetFromOSMStreet(name),
		ShowRefStreet: cfg.ShouldShowRefStreet(name),
		OSMType:       typ,
		OSMID:         id,
		Source:        source,
	}, nil
}

func addressStreet(row tsv.Row) string {
	if s := row.Get(colStreet); s != "" {
		return s
	}

	return row.Get(colPlace)
}
