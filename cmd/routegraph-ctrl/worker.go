package main

import (
	"github.com/urfave/cli/v2"
)

func init() {
	defineCommand(&cli.Command{
		Category: "worker",
		Name:     "list-workers",
		Usage:    "List dataplane workers",
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				query listWorkers {
					workers {
						cpu
						tid
						started
						rxQueues { port queue enabled }
						txQueues { port queue enabled }
					}
				}
			`, nil, "workers")
		},
	})

	var assignFlags struct {
		Port  int
		Queue int
		CPU   int
	}
	defineCommand(&cli.Command{
		Category: "worker",
		Name:     "assign-rxq",
		Usage:    "Pin an rx-queue to a CPU",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "port",
				Usage:       "port `ID`",
				Destination: &assignFlags.Port,
				Required:    true,
			},
			&cli.IntFlag{
				Name:        "queue",
				Usage:       "rx-queue `INDEX`",
				Destination: &assignFlags.Queue,
				Required:    true,
			},
			&cli.IntFlag{
				Name:        "cpu",
				Usage:       "logical `CPU`",
				Destination: &assignFlags.CPU,
				Required:    true,
			},
		},
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				mutation assignRxQueue($port: Int!, $queue: Int!, $cpu: Int!) {
					assignRxQueue(port: $port, queue: $queue, cpu: $cpu) {
						cpu
						rxQueues { port queue enabled }
						txQueues { port queue enabled }
					}
				}
			`, map[string]interface{}{
				"port":  assignFlags.Port,
				"queue": assignFlags.Queue,
				"cpu":   assignFlags.CPU,
			}, "assignRxQueue")
		},
	})

	defineCommand(&cli.Command{
		Category: "worker",
		Name:     "show-worker-stats",
		Usage:    "Show statistics of every worker",
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				query workerStats {
					workers {
						cpu
						stats
					}
				}
			`, nil, "workers")
		},
	})

	var resetCPU int
	defineCommand(&cli.Command{
		Category: "worker",
		Name:     "reset-worker-stats",
		Usage:    "Reset statistics of a worker",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "cpu",
				Usage:       "logical `CPU`",
				Destination: &resetCPU,
				Required:    true,
			},
		},
		Action: func(c *cli.Context) error {
			return clientDoPrint(c.Context, `
				mutation resetWorkerStats($cpu: Int!) {
					resetWorkerStats(cpu: $cpu)
				}
			`, map[string]interface{}{
				"cpu": resetCPU,
			}, "resetWorkerStats")
		},
	})
}
