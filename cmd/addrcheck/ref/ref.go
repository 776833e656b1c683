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

// Package ref writes the reference lists of a relation.
package ref

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"m4o.io/addrcheck"
	"m4o.io/addrcheck/cmd/addrcheck/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(refCmd)

	flags := refCmd.Flags()
	flags.BoolP("progress", "p", false, "show progress while reading reference sources")
	flags.StringSlice("housenumbers", nil, "reference house number sources, overriding the configuration")
	flags.String("streets", "", "reference street source, overriding the configuration")
}

var refCmd = &cobra.Command{
	Use:   "ref NAME",
	Short: "Write the reference house numbers and streets of a relation",
	Long: "Write the reference house numbers and streets of a relation. Reference\n" +
		"sources are cached next to themselves, compressed.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		progress, err := flags.GetBool("progress")
		if err != nil {
			log.Fatal(err)
		}

		cfg := cli.CurrentConfig()
		housenumbers, streets := cfg.Reference.Housenumbers, cfg.Reference.Streets
		if flags.Changed("housenumbers") {
			if housenumbers, err = flags.GetStringSlice("housenumbers"); err != nil {
				log.Fatal(err)
			}
		}
		if flags.Changed("streets") {
			if streets, err = flags.GetString("streets"); err != nil {
				log.Fatal(err)
			}
		}

		relations, err := cli.NewRelations(progress)
		if err != nil {
			log.Fatal(err)
		}

		r, err := cli.GetRelation(relations, args[0])
		if err != nil {
			log.Fatal(err)
		}

		if err := runRef(r, housenumbers, streets); err != nil {
			log.Fatal(err)
		}

		render(cli.FS, r.Files().RefHousenumbersPath(), r.Files().RefStreetsPath())
	},
}

func runRef(r *addrcheck.Relation, housenumbers []string, streets string) error {
	if err := r.WriteRefHousenumbers(housenumbers); err != nil {
		return fmt.Errorf("unable to write reference house numbers: %w", err)
	}

	if err := r.WriteRefStreets(streets); err != nil {
		return fmt.Errorf("unable to write reference streets: %w", err)
	}

	return nil
}

func render(fsys afero.Fs, paths ...string) {
	for _, path := range paths {
		fi, err := fsys.Stat(path)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(out, "%s: %s\n", path, humanize.Bytes(uint64(fi.Size())))
	}
}
