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

package packers

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz/lzma"
)

// Unpack uncompresses data packed with c. rawSize is the expected size of
// the result.
func Unpack(c Compression, data []byte, rawSize int) ([]byte, error) {
	var factory func(b []byte) (io.Reader, error)

	switch c {
	case RAW:
		if len(data) != rawSize {
			return nil, fmt.Errorf("raw data size %d but expected %d", len(data), rawSize)
		}

		return data, nil
	case ZLIB:
		factory = func(b []byte) (io.Reader, error) {
			return zlib.NewReader(bytes.NewReader(b))
		}
	case LZMA:
		factory = func(b []byte) (io.Reader, error) {
			return lzma.NewReader(bytes.NewReader(b))
		}
	case LZ4:
		factory = func(b []byte) (io.Reader, error) {
			return lz4.NewReader(bytes.NewReader(b)), nil
		}
	case ZSTD:
		factory = func(b []byte) (io.Reader, error) {
			d, err := zstd.NewReader(bytes.NewReader(b))
			if err != nil {
				return nil, err
			}

			return d.IOReadCloser(), nil
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompression, c)
	}

	rdr, err := factory(data)
	if err != nil {
		return nil, fmt.Errorf("unpacker factory error: %w", err)
	}

	if closer, ok := rdr.(io.Closer); ok {
		defer closer.Close()
	}

	buf := bytes.NewBuffer(make([]byte, 0, rawSize+bytes.MinRead))
	if n, err := buf.ReadFrom(rdr); err != nil {
		return nil, fmt.Errorf("unpacker read error: %w", err)
	} else if n != int64(rawSize) {
		return nil, fmt.Errorf("raw data size %d but expected %d", n, rawSize)
	}

	return buf.Bytes(), nil
}
