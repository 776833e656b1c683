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
)

// ErrRelationNotFound is returned for a relation that is neither listed nor
// has its own configuration file.
var ErrRelationNotFound = errors.New("relation not found")

// FormatError reports malformed raw OSM data.
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// ConfigError reports a malformed configuration document or value.
type ConfigError struct {
	Relation string
	Key      string
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Relation == "" {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}

	return fmt.Sprintf("relation %q: %s: %v", e.Relation, e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
