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

// Package cli holds the root command and what its subcommands share:
// configuration, logging, the file system and progress output.
package cli

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/internal/overpass"
	"m4o.io/addrcheck/internal/refcache"
	"m4o.io/addrcheck/internal/refcache/packers"
)

var (
	// FS is the file system commands read and write.
	FS afero.Fs = afero.NewOsFs()

	config = DefaultConfig()

	compression packers.Compression
)

// flagKeys maps root flags to the config keys they override.
var flagKeys = map[string]string{
	"workdir":     "paths.workdir",
	"datadir":     "paths.datadir",
	"compression": "cache.compression",
	"log-level":   "log.level",
	"log-json":    "log.json",
}

// RootCmd is the addrcheck command.
var RootCmd = &cobra.Command{
	Use:   "addrcheck",
	Short: "Compare OSM house numbers and streets with a reference",
	Long: "Compare the house numbers and streets mapped in OpenStreetMap with an\n" +
		"authoritative reference, relation by relation.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()

		overrides := make(map[string]any)
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				overrides[key] = f.Value.String()
			}
		}

		path, err := flags.GetString("config")
		if err != nil {
			log.Fatal(err)
		}

		cfg, err := LoadConfig(FS, WithConfigFile(path), WithOverrides(overrides))
		if err != nil {
			log.Fatal(err)
		}

		SetupLogger(cfg.Log, os.Stderr)
		config = *cfg
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.String("workdir", addrcheck.DefaultWorkDir, "directory of OSM extracts and outputs")
	flags.String("datadir", addrcheck.DefaultDataDir, "directory of relation configuration")
	flags.Var(NewCompressionValue(packers.DefaultCompression, &compression), "compression",
		"reference cache compression (raw, zlib, lzma, lz4, zstd)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "log in JSON")
}

// CurrentConfig returns the loaded configuration.
func CurrentConfig() *Config {
	c := config

	return &c
}

// NewRelations creates the relation registry of the loaded configuration.
// With progress set, reading a reference source shows a progress bar.
func NewRelations(progress bool) (*addrcheck.Relations, error) {
	c, err := packers.ParseCompression(config.Cache.Compression)
	if err != nil {
		return nil, err
	}

	opts := []refcache.Option{
		refcache.WithCompression(c),
		refcache.WithSize(config.Cache.Size),
	}
	if progress {
		opts = append(opts, refcache.WithSourceWrapper(WrapInputFile))
	}

	cache, err := refcache.New(FS, opts...)
	if err != nil {
		return nil, err
	}

	return addrcheck.NewRelations(FS,
		addrcheck.WithDataDir(config.Paths.DataDir),
		addrcheck.WithWorkDir(config.Paths.WorkDir),
		addrcheck.WithReferenceCache(cache))
}

// NewOverpassClient creates an Overpass client of the loaded configuration.
func NewOverpassClient() *overpass.Client {
	return overpass.NewClient(
		overpass.WithURL(config.Overpass.URL),
		overpass.WithTimeout(config.Overpass.Timeout),
		overpass.WithRetries(config.Overpass.Retries))
}

// SetConfig replaces the loaded configuration.
func SetConfig(c Config) {
	config = c
}

// GetRelation looks up a relation by name or alias.
func GetRelation(relations *addrcheck.Relations, name string) (*addrcheck.Relation, error) {
	r, err := relations.GetRelation(name)
	if !errors.Is(err, addrcheck.ErrRelationNotFound) {
		return r, err
	}

	aliases, aerr := relations.GetAliases()
	if aerr != nil {
		return nil, aerr
	}
	if canonical, ok := aliases[name]; ok {
		return relations.GetRelation(canonical)
	}

	return nil, err
}
