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

// Package additional reports what OSM has and the reference lacks.
package additional

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/cmd/addrcheck/cli"
	"m4o.io/addrcheck/model"
)

var out io.Writer = os.Stdout

const osmURL = "https://www.openstreetmap.org/"

var errNotEnabled = errors.New("additional house numbers are not enabled, set additional-housenumbers")

func init() {
	cli.RootCmd.AddCommand(streetsCmd, housenumbersCmd)
}

var streetsCmd = &cobra.Command{
	Use:   "additional-streets NAME",
	Short: "List the OSM streets of a relation unknown to the reference",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		streets, err := relation(args[0]).GetAdditionalStreets(true)
		if err != nil {
			log.Fatal(err)
		}

		renderStreets(streets)
	},
}

var housenumbersCmd = &cobra.Command{
	Use:   "additional-housenumbers NAME",
	Short: "List the OSM house numbers of a relation unknown to the reference",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		table, err := additionalHousenumbers(relation(args[0]))
		if err != nil {
			log.Fatal(err)
		}

		renderHousenumbers(table)
	},
}

func additionalHousenumbers(r *addrcheck.Relation) (addrcheck.Table, error) {
	if !r.GetConfig().HasAdditionalHousenumbers() {
		return nil, fmt.Errorf("%s: %w", r.Name(), errNotEnabled)
	}

	streets, err := r.GetAdditionalHousenumbers()
	if err != nil {
		return nil, err
	}

	return r.NumberedStreetsToTable(streets, addrcheck.AdditionalCountHeader), nil
}

func relation(name string) *addrcheck.Relation {
	relations, err := cli.NewRelations(false)
	if err != nil {
		log.Fatal(err)
	}

	r, err := cli.GetRelation(relations, name)
	if err != nil {
		log.Fatal(err)
	}

	return r
}

func renderStreets(streets []model.Street) {
	for _, s := range streets {
		fmt.Fprintf(out, "%s\t%s%s/%d\n", s.DisplayName(), osmURL, s.OSMType, s.OSMID)
	}

	fmt.Fprintf(out, "Additional streets: %s\n", humanize.Comma(int64(len(streets))))
}

func renderHousenumbers(table addrcheck.Table) {
	for _, row := range table {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}

	fmt.Fprintf(out, "Streets with additional house numbers: %s\n", humanize.Comma(int64(max(len(table)-1, 0))))
}
