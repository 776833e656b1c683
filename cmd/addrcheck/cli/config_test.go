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
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/addrcheck/internal/refcache/packers"
)

func noEnv() []string { return nil }

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(afero.NewMemMapFs(), WithEnviron(noEnv))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfigLayers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "addrcheck.yaml", []byte(`
paths:
  workdir: /var/lib/addrcheck
reference:
  housenumbers:
    - ref/a.tsv
    - ref/b.tsv
overpass:
  timeout: 90s
  retries: 5
log:
  level: debug
`), 0o644))

	environ := func() []string {
		return []string{
			"ADDRCHECK_OVERPASS_URL=http://localhost:12345/api/interpreter",
			"ADDRCHECK_OVERPASS_RETRIES=7",
			"ADDRCHECK_CACHE_COMPRESSION=lz4",
			"HOME=/root",
		}
	}

	cfg, err := LoadConfig(fsys,
		WithConfigFile("addrcheck.yaml"),
		WithEnviron(environ),
		WithOverrides(map[string]any{"log.level": "warn", "log.json": "true"}))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/addrcheck", cfg.Paths.WorkDir)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, []string{"ref/a.tsv", "ref/b.tsv"}, cfg.Reference.Housenumbers)
	assert.Equal(t, 90*time.Second, cfg.Overpass.Timeout)
	assert.Equal(t, 7, cfg.Overpass.Retries)
	assert.Equal(t, "http://localhost:12345/api/interpreter", cfg.Overpass.URL)
	assert.Equal(t, packers.LZ4.String(), cfg.Cache.Compression)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadConfigEnvList(t *testing.T) {
	environ := func() []string {
		return []string{"ADDRCHECK_REFERENCE_HOUSENUMBERS=a.tsv,b.tsv"}
	}

	cfg, err := LoadConfig(afero.NewMemMapFs(), WithEnviron(environ))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.tsv", "b.tsv"}, cfg.Reference.Housenumbers)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(afero.NewMemMapFs(), WithConfigFile("missing.yaml"), WithEnviron(noEnv))
	assert.Error(t, err)

	_, err = LoadConfig(afero.NewMemMapFs(), WithEnviron(noEnv),
		WithOverrides(map[string]any{"cache.compression": "brotli"}))
	assert.ErrorIs(t, err, packers.ErrUnknownCompression)
}

func TestTransformEnvKey(t *testing.T) {
	key, value := transformEnvKey("ADDRCHECK_PATHS_WORKDIR", "/tmp")
	assert.Equal(t, "paths.workdir", key)
	assert.Equal(t, "/tmp", value)

	key, _ = transformEnvKey("ADDRCHECK_WORKERS", "8")
	assert.Equal(t, "workers", key)
}

func TestCompressionValue(t *testing.T) {
	var c packers.Compression
	v := NewCompressionValue(packers.ZSTD, &c)

	assert.Equal(t, "zstd", v.String())
	require.NoError(t, v.Set("lzma"))
	assert.Equal(t, packers.LZMA, c)
	assert.Equal(t, "compression", v.Type())
	assert.Error(t, v.Set("brotli"))
}
