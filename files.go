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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// RelationFiles locates the on-disk artifacts of one relation.
type RelationFiles struct {
	fs      afero.Fs
	workDir string
	name    string

	// called after a file was rewritten
	changed func(path string)
}

func newRelationFiles(fsys afero.Fs, workDir, name string) *RelationFiles {
	return &RelationFiles{fs: fsys, workDir: workDir, name: name}
}

// OSMStreetsPath is the OSM street extract.
func (f *RelationFiles) OSMStreetsPath() string {
	return filepath.Join(f.workDir, "streets-"+f.name+".csv")
}

// OSMHousenumbersPath is the OSM house number extract.
func (f *RelationFiles) OSMHousenumbersPath() string {
	return filepath.Join(f.workDir, "street-housenumbers-"+f.name+".csv")
}

// RefHousenumbersPath is the reference house number list.
func (f *RelationFiles) RefHousenumbersPath() string {
	return filepath.Join(f.workDir, "street-housenumbers-reference-"+f.name+".lst")
}

// RefStreetsPath is the reference street list.
func (f *RelationFiles) RefStreetsPath() string {
	return filepath.Join(f.workDir, "streets-reference-"+f.name+".lst")
}

// HousenumbersPercentPath holds the house number coverage.
func (f *RelationFiles) HousenumbersPercentPath() string {
	return filepath.Join(f.workDir, f.name+".percent")
}

// StreetsPercentPath holds the street coverage.
func (f *RelationFiles) StreetsPercentPath() string {
	return filepath.Join(f.workDir, f.name+"-streets.percent")
}

// WriteOSMStreets stores an OSM street query result.
func (f *RelationFiles) WriteOSMStreets(r io.Reader) error {
	return f.writeFrom(f.OSMStreetsPath(), r)
}

// WriteOSMHousenumbers stores an OSM house number query result.
func (f *RelationFiles) WriteOSMHousenumbers(r io.Reader) error {
	return f.writeFrom(f.OSMHousenumbersPath(), r)
}

func (f *RelationFiles) open(path string) (afero.File, error) {
	return f.fs.Open(path)
}

func (f *RelationFiles) writeFrom(path string, r io.Reader) error {
	if err := f.fs.MkdirAll(f.workDir, 0o755); err != nil {
		return fmt.Errorf("unable to create %s: %w", f.workDir, err)
	}

	if err := afero.WriteReader(f.fs, path, r); err != nil {
		return err
	}
	if f.changed != nil {
		f.changed(path)
	}

	return nil
}

func (f *RelationFiles) writeLines(path string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	return f.writeFrom(path, strings.NewReader(b.String()))
}

func (f *RelationFiles) readLines(path string) ([]string, error) {
	b, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, l := range strings.Split(string(b), "\n") {
		if l = strings.TrimRight(l, "\r"); l != "" {
			ret = append(ret, l)
		}
	}

	return ret, nil
}
