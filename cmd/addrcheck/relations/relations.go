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

// Package relations lists the active relations.
package relations

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/cmd/addrcheck/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(relationsCmd)

	flags := relationsCmd.Flags()
	flags.String("refcounty", "", "only relations of this county code")
	flags.String("refsettlement", "", "only relations of this settlement code")
	flags.BoolP("all", "a", false, "include inactive relations")
}

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "List the active relations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()

		refcounty, err := flags.GetString("refcounty")
		if err != nil {
			log.Fatal(err)
		}
		refsettlement, err := flags.GetString("refsettlement")
		if err != nil {
			log.Fatal(err)
		}
		all, err := flags.GetBool("all")
		if err != nil {
			log.Fatal(err)
		}

		relations, err := cli.NewRelations(false)
		if err != nil {
			log.Fatal(err)
		}

		rows, err := list(relations, refcounty, refsettlement, all)
		if err != nil {
			log.Fatal(err)
		}

		render(rows)
	},
}

type row struct {
	name          string
	refcounty     string
	refsettlement string
}

func list(relations *addrcheck.Relations, refcounty, refsettlement string, all bool) ([]row, error) {
	if all {
		if err := relations.ActivateAll(true); err != nil {
			return nil, err
		}
	}
	if err := relations.LimitToRefCounty(refcounty); err != nil {
		return nil, err
	}
	if err := relations.LimitToRefSettlement(refsettlement); err != nil {
		return nil, err
	}

	names, err := relations.GetActiveNames()
	if err != nil {
		return nil, err
	}

	collate.New(language.Hungarian).SortStrings(names)

	rows := make([]row, 0, len(names))
	for _, name := range names {
		r, err := relations.GetRelation(name)
		if err != nil {
			return nil, err
		}

		cfg := r.GetConfig()
		rows = append(rows, row{
			name:          name,
			refcounty:     relations.RefCountyGetName(cfg.GetRefCounty()),
			refsettlement: relations.RefSettlementGetName(cfg.GetRefCounty(), cfg.GetRefSettlement()),
		})
	}

	return rows, nil
}

func render(rows []row) {
	for _, r := range rows {
		fmt.Fprintf(out, "%s\t%s\t%s\n", r.name, r.refcounty, r.refsettlement)
	}
}
