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

// Package fetch downloads the OSM extracts of a relation.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/cmd/addrcheck/cli"
)

var out io.Writer = os.Stdout

// querier runs an Overpass query.
type querier interface {
	Query(ctx context.Context, query string) ([]byte, error)
}

func init() {
	cli.RootCmd.AddCommand(fetchCmd)

	flags := fetchCmd.Flags()
	flags.BoolP("streets", "s", false, "fetch the street extract")
	flags.BoolP("housenumbers", "n", false, "fetch the house number extract")
}

var fetchCmd = &cobra.Command{
	Use:   "fetch NAME",
	Short: "Download the OSM extracts of a relation from Overpass",
	Long: "Download the OSM extracts of a relation from Overpass. Without --streets\n" +
		"or --housenumbers both extracts are downloaded.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		streets, err := flags.GetBool("streets")
		if err != nil {
			log.Fatal(err)
		}
		housenumbers, err := flags.GetBool("housenumbers")
		if err != nil {
			log.Fatal(err)
		}
		if !streets && !housenumbers {
			streets, housenumbers = true, true
		}

		relations, err := cli.NewRelations(false)
		if err != nil {
			log.Fatal(err)
		}

		r, err := cli.GetRelation(relations, args[0])
		if err != nil {
			log.Fatal(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := runFetch(ctx, cli.NewOverpassClient(), r, streets, housenumbers); err != nil {
			log.Fatal(err)
		}
	},
}

func runFetch(ctx context.Context, client querier, r *addrcheck.Relation, streets, housenumbers bool) error {
	if streets {
		if err := fetch(ctx, client, r.GetOSMStreetsQuery, r.Files().WriteOSMStreets, r.Files().OSMStreetsPath()); err != nil {
			return err
		}
	}

	if housenumbers {
		if err := fetch(ctx, client, r.GetOSMHousenumbersQuery, r.Files().WriteOSMHousenumbers, r.Files().OSMHousenumbersPath()); err != nil {
			return err
		}
	}

	return nil
}

func fetch(ctx context.Context, client querier, query func() (string, error), write func(io.Reader) error, path string) error {
	q, err := query()
	if err != nil {
		return err
	}

	body, err := client.Query(ctx, q)
	if err != nil {
		return fmt.Errorf("unable to fetch %s: %w", path, err)
	}

	if err := write(bytes.NewReader(body)); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}

	fmt.Fprintf(out, "%s: %s\n", path, humanize.Bytes(uint64(len(body))))

	return nil
}
