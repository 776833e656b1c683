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
	"io"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"m4o.io/addrcheck/internal/tsv"
)

// Number is a reference house number with its comment.
type Number struct {
	Number  string
	Comment string
}

// HouseNumbers holds the reference house numbers of one county, keyed by
// refsettlement and then by street.
type HouseNumbers map[string]map[string][]Number

// Lookup returns the numbers of a street in a settlement.
func (h HouseNumbers) Lookup(refsettlement, street string) []Number {
	return h[refsettlement][street]
}

// Streets holds reference street names keyed by refcounty and then by
// refsettlement, in source order.
type Streets map[string]map[string][]string

// Lookup returns the streets of a settlement.
func (s Streets) Lookup(refcounty, refsettlement string) []string {
	return s[refcounty][refsettlement]
}

// ParseHouseNumbers reads a reference source of
// "refcounty refsettlement street number [comment]" rows, keeping the rows
// of refcounty.
func ParseHouseNumbers(r io.Reader, refcounty string) (HouseNumbers, error) {
	rdr, err := tsv.NewReader(r)
	if err != nil {
		if errors.Is(err, tsv.ErrNoHeader) {
			return HouseNumbers{}, nil
		}

		return nil, err
	}

	ret := HouseNumbers{}
	for {
		row, err := rdr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if row.Len() < 4 {
			slog.Debug("skipping short reference row", "line", rdr.Line())
			continue
		}

		if row.Field(0) != refcounty {
			continue
		}

		settlement, street := row.Field(1), row.Field(2)
		if ret[settlement] == nil {
			ret[settlement] = map[string][]Number{}
		}
		ret[settlement][street] = append(ret[settlement][street], Number{
			Number:  strings.TrimSpace(row.Field(3)),
			Comment: strings.TrimSpace(row.Field(4)),
		})
	}

	return ret, nil
}

// ParseStreets reads a reference source of "refcounty refsettlement street"
// rows.
func ParseStreets(r io.Reader) (Streets, error) {
	rdr, err := tsv.NewReader(r)
	if err != nil {
		if errors.Is(err, tsv.ErrNoHeader) {
			return Streets{}, nil
		}

		return nil, err
	}

	ret := Streets{}
	for {
		row, err := rdr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if row.Len() < 3 {
			slog.Debug("skipping short reference row", "line", rdr.Line())
			continue
		}

		county, settlement := row.Field(0), row.Field(1)
		if ret[county] == nil {
			ret[county] = map[string][]string{}
		}
		ret[county][settlement] = append(ret[county][settlement], row.Field(2))
	}

	return ret, nil
}

func (h HouseNumbers) toStruct() (*structpb.Struct, error) {
	m := make(map[string]any, len(h))
	for settlement, streets := range h {
		sm := make(map[string]any, len(streets))
		for street, numbers := range streets {
			l := make([]any, len(numbers))
			for i, n := range numbers {
				l[i] = n.Number + "\t" + n.Comment
			}
			sm[street] = l
		}
		m[settlement] = sm
	}

	return structpb.NewStruct(m)
}

func houseNumbersFromStruct(s *structpb.Struct) (HouseNumbers, error) {
	ret := HouseNumbers{}
	for settlement, sv := range s.GetFields() {
		streets := sv.GetStructValue()
		if streets == nil {
			return nil, fmt.Errorf("settlement %q is not a struct", settlement)
		}

		ret[settlement] = map[string][]Number{}
		for street, lv := range streets.GetFields() {
			for _, v := range lv.GetListValue().GetValues() {
				number, comment, _ := strings.Cut(v.GetStringValue(), "\t")
				ret[settlement][street] = append(ret[settlement][street], Number{Number: number, Comment: comment})
			}
		}
	}

	return ret, nil
}

func (s Streets) toStruct() (*structpb.Struct, error) {
	m := make(map[string]any, len(s))
	for county, settlements := range s {
		cm := make(map[string]any, len(settlements))
		for settlement, streets := range settlements {
			l := make([]any, len(streets))
			for i, street := range streets {
				l[i] = street
			}
			cm[settlement] = l
		}
		m[county] = cm
	}

	return structpb.NewStruct(m)
}

func streetsFromStruct(st *structpb.Struct) (Streets, error) {
	ret := Streets{}
	for county, cv := range st.GetFields() {
		settlements := cv.GetStructValue()
		if settlements == nil {
			return nil, fmt.Errorf("county %q is not a struct", county)
		}

		ret[county] = map[string][]string{}
		for settlement, lv := range settlements.GetFields() {
			values := lv.GetListValue().GetValues()
			streets := make([]string, 0, len(values))
			for _, v := range values {
				streets = append(streets, v.GetStringValue())
			}
			ret[county][settlement] = streets
		}
	}

	return ret, nil
}
