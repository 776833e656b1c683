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

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/internal/overpass"
	"m4o.io/addrcheck/internal/refcache"
	"m4o.io/addrcheck/internal/refcache/packers"
)

// EnvPrefix is the prefix of environment variables overriding the config.
const EnvPrefix = "ADDRCHECK_"

// Config is the application configuration.
type Config struct {
	Paths     PathsConfig     `koanf:"paths"`
	Reference ReferenceConfig `koanf:"reference"`
	Cache     CacheConfig     `koanf:"cache"`
	Overpass  OverpassConfig  `koanf:"overpass"`
	Log       LogConfig       `koanf:"log"`
	Workers   int             `koanf:"workers"`
}

// PathsConfig locates the data and work directories.
type PathsConfig struct {
	WorkDir string `koanf:"workdir"`
	DataDir string `koanf:"datadir"`
}

// ReferenceConfig lists the reference sources. The first house number
// source is authoritative, the others only give estimated numbers.
type ReferenceConfig struct {
	Housenumbers []string `koanf:"housenumbers"`
	Streets      string   `koanf:"streets"`
}

// CacheConfig configures the reference cache.
type CacheConfig struct {
	Compression string `koanf:"compression"`
	Size        int    `koanf:"size"`
}

// OverpassConfig configures the Overpass client.
type OverpassConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Retries int           `koanf:"retries"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			WorkDir: addrcheck.DefaultWorkDir,
			DataDir: addrcheck.DefaultDataDir,
		},
		Reference: ReferenceConfig{
			Housenumbers: []string{"refdir/hazszamok.tsv"},
			Streets:      "refdir/utcak.tsv",
		},
		Cache: CacheConfig{
			Compression: packers.DefaultCompression.String(),
			Size:        refcache.DefaultSize,
		},
		Overpass: OverpassConfig{
			URL:     overpass.DefaultURL,
			Timeout: 10 * time.Minute,
			Retries: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
		Workers: 4,
	}
}

type loadOptions struct {
	path    string
	environ func() []string
	flags   map[string]any
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithConfigFile reads a YAML config file on top of the defaults.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(environ func() []string) LoadOption {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// WithOverrides sets keys last, e.g. from explicitly set flags.
func WithOverrides(values map[string]any) LoadOption {
	return func(o *loadOptions) {
		o.flags = values
	}
}

// LoadConfig layers defaults, the config file, the environment and the
// overrides, in that order.
func LoadConfig(fsys afero.Fs, opts ...LoadOption) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("unable to load defaults: %w", err)
	}

	if o.path != "" {
		if err := loadFile(k, fsys, o.path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
		EnvironFunc:   o.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("unable to load environment: %w", err)
	}

	for key, value := range o.flags {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("unable to set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if _, err := packers.ParseCompression(cfg.Cache.Compression); err != nil {
		return nil, fmt.Errorf("cache.compression: %w", err)
	}

	return &cfg, nil
}

// loadFile merges the keys present in the file, leaving the others alone.
func loadFile(k *koanf.Koanf, fsys afero.Fs, path string) error {
	b, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config file %s does not exist", path)
	} else if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("unable to parse %s: %w", path, err)
	}

	for key, value := range flatten("", data) {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("unable to set %s from %s: %w", key, path, err)
		}
	}

	return nil
}

func flatten(prefix string, m map[string]any) map[string]any {
	ret := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		if nested, ok := v.(map[string]any); ok {
			for fk, fv := range flatten(key, nested) {
				ret[fk] = fv
			}
		} else {
			ret[key] = v
		}
	}

	return ret
}

// transformEnvKey maps ADDRCHECK_OVERPASS_URL to overpass.url.
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key, value
	}

	return section + "." + rest, value
}
