package main

import (
	"github.com/urfave/cli/v2"
)

func init() {
	jsonArgCommand{
		Category:   "activate",
		Name:       "activate",
		Usage:      "Activate the routegraph dataplane",
		SchemaName: "dataplane",
		Action: func(c *cli.Context, arg map[string]interface{}) error {
			return clientDoPrint(c.Context, `
				mutation activate($arg: JSON!) {
					activate(dataplane: $arg)
				}
			`, map[string]interface{}{
				"arg": arg,
			}, "activate")
		},
	}.define()

	restart := false
	defineCommand(&cli.Command{
		Category: "activate",
		Name:     "shutdown",
		Usage:    "Shutdown routegraph service",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "restart",
				Usage:       "restart after shutdown",
				Destination: &restart,
			},
		},
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				mutation shutdown($restart: Boolean) {
					shutdown(restart: $restart)
				}
			`, map[string]interface{}{
				"restart": restart,
			}, "shutdown")
		},
	})
}
