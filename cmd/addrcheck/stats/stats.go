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

// Package stats summarizes the coverage of every active relation.
package stats

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/destel/rill"
	"github.com/spf13/cobra"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/cmd/addrcheck/cli"
	"m4o.io/addrcheck/model"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntP("workers", "w", 0, "number of relations reconciled concurrently (default from config)")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the coverage of the active relations",
	Long: "Reconcile every active relation, store its coverage files and print\n" +
		"the house number and street coverage. Relations that fail are logged and skipped.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		workers, err := cmd.Flags().GetInt("workers")
		if err != nil {
			log.Fatal(err)
		}
		if workers <= 0 {
			workers = cli.CurrentConfig().Workers
		}

		relations, err := cli.NewRelations(false)
		if err != nil {
			log.Fatal(err)
		}

		rows, err := collect(relations, workers)
		if err != nil {
			log.Fatal(err)
		}

		render(rows)
	},
}

// coverage of one relation, nil where the check is turned off.
type coverage struct {
	name         string
	housenumbers *float64
	streets      *float64
}

func collect(relations *addrcheck.Relations, workers int) ([]coverage, error) {
	names, err := relations.GetActiveNames()
	if err != nil {
		return nil, err
	}

	// the registry creates relations lazily, keep that single threaded
	active := make([]*addrcheck.Relation, 0, len(names))
	for _, name := range names {
		r, err := relations.GetRelation(name)
		if err != nil {
			return nil, err
		}
		active = append(active, r)
	}

	reconciled := rill.OrderedMap(rill.FromSlice(active, nil), max(workers, 1), reconcile)

	var rows []coverage
	for t := range reconciled {
		if t.Error != nil {
			slog.Error("unable to reconcile relation", "error", t.Error)
			continue
		}
		rows = append(rows, t.Value)
	}

	return rows, nil
}

func reconcile(r *addrcheck.Relation) (coverage, error) {
	c := coverage{name: r.Name()}
	check := r.GetConfig().ShouldCheckMissingStreets()

	if check != model.MissingStreetsOnly {
		result, err := r.WriteMissingHousenumbers()
		if err != nil {
			return c, fmt.Errorf("%s: %w", r.Name(), err)
		}
		c.housenumbers = &result.Percent
	}

	if check != model.MissingStreetsNo {
		result, err := r.WriteMissingStreets()
		if err != nil {
			return c, fmt.Errorf("%s: %w", r.Name(), err)
		}
		c.streets = &result.Percent
	}

	slog.Debug("reconciled relation", "relation", r.Name())

	return c, nil
}

func render(rows []coverage) {
	for _, c := range rows {
		fmt.Fprintf(out, "%s\t%s\t%s\n", c.name, percent(c.housenumbers), percent(c.streets))
	}
}

func percent(p *float64) string {
	if p == nil {
		return "-"
	}

	return fmt.Sprintf("%.2f%%", *p)
}
