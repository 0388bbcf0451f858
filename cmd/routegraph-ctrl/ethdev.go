package main

import (
	"github.com/urfave/cli/v2"
)

func init() {
	defineCommand(&cli.Command{
		Category: "ethdev",
		Name:     "list-ports",
		Usage:    "List configured Ethernet ports",
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				query listPorts {
					ports {
						id
						name
						rxQueues
						txQueues
						mtu
						macAddr
					}
				}
			`, nil, "ports")
		},
	})

	var createFlags struct {
		Name     string
		Netif    string
		RxQueues int
		TxQueues int
		MTU      int
	}
	defineCommand(&cli.Command{
		Category: "ethdev",
		Name:     "create-port",
		Usage:    "Create an Ethernet port",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "port `NAME`",
				Destination: &createFlags.Name,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "netif",
				Usage:       "kernel network `interface` backing the port",
				Destination: &createFlags.Netif,
			},
			&cli.IntFlag{
				Name:        "rx-queues",
				Usage:       "number of rx-queues",
				Destination: &createFlags.RxQueues,
				Value:       1,
			},
			&cli.IntFlag{
				Name:        "tx-queues",
				Usage:       "number of tx-queues",
				Destination: &createFlags.TxQueues,
				Value:       1,
			},
			&cli.IntFlag{
				Name:        "mtu",
				Usage:       "interface MTU",
				Destination: &createFlags.MTU,
				Value:       1500,
			},
		},
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				mutation createPort($name: String!, $netif: String, $rxQueues: Int, $txQueues: Int, $mtu: Int) {
					createPort(name: $name, netif: $netif, rxQueues: $rxQueues, txQueues: $txQueues, mtu: $mtu) {
						id
						name
						rxQueues
						txQueues
						mtu
						macAddr
					}
				}
			`, map[string]interface{}{
				"name":     createFlags.Name,
				"netif":    createFlags.Netif,
				"rxQueues": createFlags.RxQueues,
				"txQueues": createFlags.TxQueues,
				"mtu":      createFlags.MTU,
			}, "createPort")
		},
	})
}
