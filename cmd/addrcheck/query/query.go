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

// Package query prints the Overpass queries of a relation.
package query

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/cmd/addrcheck/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(queryCmd)

	flags := queryCmd.Flags()
	flags.BoolP("housenumbers", "n", false, "print the house number query instead of the street query")
	flags.BoolP("turbo", "t", false, "print an overpass turbo query showing the given streets")
}

var queryCmd = &cobra.Command{
	Use:   "query NAME [STREET...]",
	Short: "Print the Overpass queries of a relation",
	Long: "Print the Overpass queries of a relation. With --turbo, print an overpass\n" +
		"turbo query showing the given streets, the additional streets by default.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		housenumbers, err := flags.GetBool("housenumbers")
		if err != nil {
			log.Fatal(err)
		}
		turbo, err := flags.GetBool("turbo")
		if err != nil {
			log.Fatal(err)
		}

		relations, err := cli.NewRelations(false)
		if err != nil {
			log.Fatal(err)
		}

		r, err := cli.GetRelation(relations, args[0])
		if err != nil {
			log.Fatal(err)
		}

		q, err := runQuery(r, housenumbers, turbo, args[1:])
		if err != nil {
			log.Fatal(err)
		}

		fmt.Fprintln(out, q)
	},
}

func runQuery(r *addrcheck.Relation, housenumbers, turbo bool, streets []string) (string, error) {
	switch {
	case turbo:
		if len(streets) == 0 {
			additional, err := r.GetAdditionalStreets(true)
			if err != nil {
				return "", err
			}
			for _, s := range additional {
				streets = append(streets, s.OSMName)
			}
		}

		return addrcheck.MakeTurboQueryForStreets(r, streets), nil
	case housenumbers:
		return r.GetOSMHousenumbersQuery()
	default:
		return r.GetOSMStreetsQuery()
	}
}
