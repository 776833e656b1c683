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

package refcache

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"m4o.io/addrcheck/internal/refcache/packers"
)

// Blob field numbers, the data field number is the compression.
const rawSizeField protowire.Number = 2

var errEmptyBlob = errors.New("blob has no data")

// pack marshals msg and wraps it in a blob compressed with c.
func pack(msg *structpb.Struct, c packers.Compression) ([]byte, error) {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("could not marshal message: %w", err)
	}

	data, err := packers.Pack(c, b)
	if err != nil {
		return nil, err
	}

	var blob []byte
	blob = protowire.AppendTag(blob, rawSizeField, protowire.VarintType)
	blob = protowire.AppendVarint(blob, uint64(len(b)))
	blob = protowire.AppendTag(blob, protowire.Number(c), protowire.BytesType)
	blob = protowire.AppendBytes(blob, data)

	return blob, nil
}

// unpack reverses pack.
func unpack(blob []byte) (*structpb.Struct, error) {
	var (
		rawSize     uint64
		data        []byte
		compression packers.Compression
	)

	for len(blob) > 0 {
		num, typ, n := protowire.ConsumeTag(blob)
		if n < 0 {
			return nil, fmt.Errorf("bad blob tag: %w", protowire.ParseError(n))
		}
		blob = blob[n:]

		switch {
		case num == rawSizeField && typ == protowire.VarintType:
			rawSize, n = protowire.ConsumeVarint(blob)
		case typ == protowire.BytesType:
			data, n = protowire.ConsumeBytes(blob)
			compression = packers.Compression(num)
		default:
			n = protowire.ConsumeFieldValue(num, typ, blob)
		}

		if n < 0 {
			return nil, fmt.Errorf("bad blob field %d: %w", num, protowire.ParseError(n))
		}
		blob = blob[n:]
	}

	if compression == 0 {
		return nil, errEmptyBlob
	}

	b, err := packers.Unpack(compression, data, int(rawSize))
	if err != nil {
		return nil, err
	}

	msg := &structpb.Struct{}
	if err := proto.Unmarshal(b, msg); err != nil {
		return nil, fmt.Errorf("could not unmarshal message: %w", err)
	}

	return msg, nil
}
