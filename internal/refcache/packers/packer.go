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

// Package packers compresses and decompresses reference cache blobs.
package packers

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownCompression is returned for an unsupported compression.
var ErrUnknownCompression = errors.New("unknown compression type")

// Compression is the algorithm used to pack a blob.
type Compression uint8

// Supported compressions. The values are the protobuf field numbers of the
// blob data.
const (
	RAW  Compression = 1
	ZLIB Compression = 3
	LZMA Compression = 4
	LZ4  Compression = 6
	ZSTD Compression = 7
)

// DefaultCompression is used when nothing else is configured.
const DefaultCompression = ZSTD

func (c Compression) String() string {
	switch c {
	case RAW:
		return "raw"
	case ZLIB:
		return "zlib"
	case LZMA:
		return "lzma"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression converts a name such as "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	for _, c := range []Compression{RAW, ZLIB, LZMA, LZ4, ZSTD} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

// Packer compresses what is written to it.
type Packer interface {
	// WriteCloser is used to write the contents to be packed. Be sure to
	// call the Close method to ensure that all the contents are packed.
	io.WriteCloser

	// Bytes returns the packed contents after Close.
	Bytes() []byte
}

type base struct {
	w io.WriteCloser
}

func newBasePacker(w io.WriteCloser) *base {
	return &base{w: w}
}

func (b *base) Write(p []byte) (int, error) {
	return b.w.Write(p)
}

func (b *base) Close() error {
	return b.w.Close()
}

// New returns a Packer for the given compression.
func New(c Compression) (Packer, error) {
	switch c {
	case RAW:
		return NewRawPacker(), nil
	case ZLIB:
		return NewZlibPacker(), nil
	case LZMA:
		return NewLzmaPacker()
	case LZ4:
		return NewLz4Packer(), nil
	case ZSTD:
		return NewZstdPacker()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompression, c)
	}
}

// Pack compresses data in one go.
func Pack(c Compression, data []byte) ([]byte, error) {
	p, err := New(c)
	if err != nil {
		return nil, err
	}

	if _, err = p.Write(data); err != nil {
		return nil, fmt.Errorf("could not compress data: %w", err)
	}

	if err = p.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	return p.Bytes(), nil
}
