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
	"m4o.io/addrcheck/internal/refcache"
	"m4o.io/addrcheck/model"
)

const (
	// DefaultDataDir is where relation documents are read from.
	DefaultDataDir = "data"

	// DefaultWorkDir is where OSM extracts and outputs are kept.
	DefaultWorkDir = "workdir"
)

// relationsOptions provides optional configuration parameters for Relations construction.
type relationsOptions struct {
	dataDir  string
	workDir  string
	defaults model.RelationDict
	cache    *refcache.Cache
}

// RelationsOption configures how we set up the registry.
type RelationsOption func(*relationsOptions)

// WithDataDir sets the directory holding relations.yaml and friends.
func WithDataDir(dir string) RelationsOption {
	return func(o *relationsOptions) {
		o.dataDir = dir
	}
}

// WithWorkDir sets the directory holding OSM extracts and outputs.
func WithWorkDir(dir string) RelationsOption {
	return func(o *relationsOptions) {
		o.workDir = dir
	}
}

// WithRelationDefaults sets the lowest configuration layer, overridden by
// relations.yaml and the relation's own file.
func WithRelationDefaults(defaults model.RelationDict) RelationsOption {
	return func(o *relationsOptions) {
		o.defaults = defaults
	}
}

// WithReferenceCache shares a reference cache between registries.
func WithReferenceCache(c *refcache.Cache) RelationsOption {
	return func(o *relationsOptions) {
		o.cache = c
	}
}

// defaultRelationsConfig provides a default configuration for registries.
var defaultRelationsConfig = relationsOptions{
	dataDir: DefaultDataDir,
	workDir: DefaultWorkDir,
}
