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

// Package missing reports what the reference knows and OSM lacks.
package missing

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/cmd/addrcheck/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(housenumbersCmd, streetsCmd)
}

var housenumbersCmd = &cobra.Command{
	Use:   "missing-housenumbers NAME",
	Short: "List the house numbers of a relation missing from OSM",
	Long: "List the house numbers of a relation missing from OSM, street by street,\n" +
		"and store the house number coverage.",
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		relation := relation(args[0])

		result, err := relation.WriteMissingHousenumbers()
		if err != nil {
			log.Fatal(err)
		}

		renderHousenumbers(result)
	},
}

var streetsCmd = &cobra.Command{
	Use:   "missing-streets NAME",
	Short: "List the streets of a relation missing from OSM",
	Long:  "List the streets of a relation missing from OSM and store the street coverage.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		relation := relation(args[0])

		result, err := relation.WriteMissingStreets()
		if err != nil {
			log.Fatal(err)
		}

		renderStreets(result)
	},
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

func renderHousenumbers(r addrcheck.MissingHousenumbers) {
	for _, row := range r.Table {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}

	fmt.Fprintf(out, "Streets with missing house numbers: %s\n", humanize.Comma(int64(r.TodoStreetCount)))
	fmt.Fprintf(out, "Missing house numbers: %s\n", humanize.Comma(int64(r.TodoCount)))
	fmt.Fprintf(out, "Existing house numbers: %s\n", humanize.Comma(int64(r.DoneCount)))
	fmt.Fprintf(out, "Coverage: %.2f%%\n", r.Percent)
}

func renderStreets(r addrcheck.MissingStreets) {
	for _, s := range r.Streets {
		fmt.Fprintln(out, s)
	}

	fmt.Fprintf(out, "Missing streets: %s\n", humanize.Comma(int64(r.TodoCount)))
	fmt.Fprintf(out, "Existing streets: %s\n", humanize.Comma(int64(r.DoneCount)))
	fmt.Fprintf(out, "Coverage: %.2f%%\n", r.Percent)
}
