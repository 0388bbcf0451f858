// Command routegraph-ctrl controls the routegraph service.
package main

import (
	"log"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"github.com/routegraph/routegraph/core/gqlclient"
	"github.com/routegraph/routegraph/core/version"
)

var (
	gqlserver string
	cmdout    bool
	client    *gqlclient.Client
)

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "Control routegraph service.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "gqlserver",
			Value:       "http://127.0.0.1:3030/",
			Usage:       "GraphQL `endpoint` of routegraph service",
			Destination: &gqlserver,
		},
		&cli.BoolFlag{
			Name:        "cmdout",
			Value:       false,
			Usage:       "print command line instead of executing",
			Destination: &cmdout,
		},
	},
	Before: func(c *cli.Context) (e error) {
		if cmdout {
			return nil
		}
		client, e = gqlclient.New(gqlclient.Config{HTTPUri: gqlserver})
		return e
	},
}

func main() {
	sort.Sort(cli.CommandsByName(app.Commands))
	e := app.Run(os.Args)
	if e != nil {
		log.Fatal(e)
	}
}

func init() {
	defineCommand(&cli.Command{
		Name:  "show-version",
		Usage: "Show daemon version",
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				query version {
					version {
						version
						commit
						date
						dirty
					}
				}
			`, nil, "version")
		},
	})
}
