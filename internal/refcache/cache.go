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

// Package refcache builds and caches the reference house number and street
// sources. Parsed sources are stored next to the source as compressed
// protobuf blobs and kept in memory in an LRU.
package refcache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"google.golang.org/protobuf/types/known/structpb"

	"m4o.io/addrcheck/internal/refcache/packers"
)

// DefaultSize is the default number of decoded caches kept in memory.
const DefaultSize = 16

// SourceWrapper can wrap a source file while it is parsed, e.g. to report
// progress.
type SourceWrapper func(f afero.File) (io.ReadCloser, error)

// cacheOptions provides optional configuration parameters for Cache construction.
type cacheOptions struct {
	compression packers.Compression
	size        int
	wrapper     SourceWrapper
}

// Option configures a Cache.
type Option func(*cacheOptions)

// WithCompression sets the compression of the on-disk caches.
func WithCompression(c packers.Compression) Option {
	return func(o *cacheOptions) {
		o.compression = c
	}
}

// WithSize sets how many decoded caches are kept in memory.
func WithSize(n int) Option {
	return func(o *cacheOptions) {
		o.size = n
	}
}

// WithSourceWrapper wraps source files while they are parsed.
func WithSourceWrapper(w SourceWrapper) Option {
	return func(o *cacheOptions) {
		o.wrapper = w
	}
}

var defaultCacheOptions = cacheOptions{
	compression: packers.DefaultCompression,
	size:        DefaultSize,
}

// Cache loads reference sources through an on-disk and an in-memory cache.
// It is safe for concurrent use.
type Cache struct {
	fs          afero.Fs
	compression packers.Compression
	wrapper     SourceWrapper
	mem         *lru.Cache[string, any]
}

// New creates a Cache reading and writing through fsys.
func New(fsys afero.Fs, opts ...Option) (*Cache, error) {
	o := defaultCacheOptions
	for _, opt := range opts {
		opt(&o)
	}

	mem, err := lru.New[string, any](max(o.size, 1))
	if err != nil {
		return nil, fmt.Errorf("unable to create memory cache: %w", err)
	}

	return &Cache{fs: fsys, compression: o.compression, wrapper: o.wrapper, mem: mem}, nil
}

// HouseNumbers returns the reference house numbers of refcounty in the
// source at path.
func (c *Cache) HouseNumbers(path, refcounty string) (HouseNumbers, error) {
	key := path + "-" + refcounty + ".cache"

	v, err := c.load(path, key,
		func(r io.Reader) (any, *structpb.Struct, error) {
			h, err := ParseHouseNumbers(r, refcounty)
			if err != nil {
				return nil, nil, err
			}
			s, err := h.toStruct()

			return h, s, err
		},
		func(s *structpb.Struct) (any, error) {
			return houseNumbersFromStruct(s)
		})
	if err != nil {
		return nil, err
	}

	return v.(HouseNumbers), nil
}

// Streets returns the reference streets in the source at path.
func (c *Cache) Streets(path string) (Streets, error) {
	key := path + ".cache"

	v, err := c.load(path, key,
		func(r io.Reader) (any, *structpb.Struct, error) {
			s, err := ParseStreets(r)
			if err != nil {
				return nil, nil, err
			}
			st, err := s.toStruct()

			return s, st, err
		},
		func(s *structpb.Struct) (any, error) {
			return streetsFromStruct(s)
		})
	if err != nil {
		return nil, err
	}

	return v.(Streets), nil
}

type parseFunc func(r io.Reader) (any, *structpb.Struct, error)

type decodeFunc func(s *structpb.Struct) (any, error)

func (c *Cache) load(path, key string, parse parseFunc, decode decodeFunc) (any, error) {
	if v, ok := c.mem.Get(key); ok {
		return v, nil
	}

	fresh, err := c.isFresh(path, key)
	if err != nil {
		return nil, err
	}

	if fresh {
		v, err := c.readCache(key, decode)
		if err == nil {
			slog.Debug("reference cache hit", "cache", key)
			c.mem.Add(key, v)

			return v, nil
		}
		slog.Warn("unable to read reference cache, rebuilding", "cache", key, "error", err)
	}

	slog.Debug("building reference cache", "source", path, "cache", key)

	v, msg, err := c.parseSource(path, parse)
	if err != nil {
		return nil, err
	}

	blob, err := pack(msg, c.compression)
	if err != nil {
		return nil, fmt.Errorf("unable to pack %s: %w", key, err)
	}

	if err := afero.WriteFile(c.fs, key, blob, 0o644); err != nil {
		return nil, fmt.Errorf("unable to write %s: %w", key, err)
	}

	c.mem.Add(key, v)

	return v, nil
}

func (c *Cache) isFresh(path, key string) (bool, error) {
	cacheInfo, err := c.fs.Stat(key)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("unable to stat %s: %w", key, err)
	}

	sourceInfo, err := c.fs.Stat(path)
	if err != nil {
		return false, fmt.Errorf("unable to stat %s: %w", path, err)
	}

	return !cacheInfo.ModTime().Before(sourceInfo.ModTime()), nil
}

func (c *Cache) readCache(key string, decode decodeFunc) (any, error) {
	blob, err := afero.ReadFile(c.fs, key)
	if err != nil {
		return nil, err
	}

	msg, err := unpack(blob)
	if err != nil {
		return nil, err
	}

	return decode(msg)
}

func (c *Cache) parseSource(path string, parse parseFunc) (any, *structpb.Struct, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open %s: %w", path, err)
	}

	var in io.ReadCloser = f
	if c.wrapper != nil {
		if in, err = c.wrapper(f); err != nil {
			f.Close()

			return nil, nil, err
		}
	}
	defer in.Close()

	v, msg, err := parse(in)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	return v, msg, nil
}
