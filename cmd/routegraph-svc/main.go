// Command routegraph-svc runs the routegraph dataplane service.
// It starts inert; the activate mutation brings up ports and workers.
package main

import (
	"bytes"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/urfave/cli/v2"
	"github.com/routegraph/routegraph/core/gqlclient"
	"github.com/routegraph/routegraph/core/gqlserver"
	"github.com/routegraph/routegraph/core/logging"
	"github.com/routegraph/routegraph/core/version"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var logger = logging.New("main")

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "Provide routegraph dataplane service.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "gqlserver",
			Usage: "GraphQL HTTP server base URI",
			Value: "http://127.0.0.1:3030/",
		},
	},
	Action: func(c *cli.Context) (e error) {
		listen, e := gqlclient.MakeListenAddress(c.String("gqlserver"))
		if e != nil {
			return cli.Exit(e, 1)
		}

		go func() {
			c := make(chan os.Signal, 1)
			signal.Notify(c, unix.SIGINT, unix.SIGTERM)
			sig := <-c
			logger.Info("shutdown requested by signal", zap.Stringer("signal", sig))
			delayedShutdown(func() { os.Exit(0) })
		}()

		go systemdNotify()

		gqlserver.Prepare()
		logger.Info("GraphQL HTTP server starting", zap.String("listen", listen))
		return cli.Exit(http.ListenAndServe(listen, nil), 1)
	},
}

func main() {
	var uname unix.Utsname
	unix.Uname(&uname)
	logger.Info("routegraph service starting",
		zap.Any("version", version.V),
		zap.Int("uid", os.Getuid()),
		zap.ByteString("linux", bytes.TrimRight(uname.Release[:], string([]byte{0}))),
	)

	app.Run(os.Args)
}

func systemdNotify() {
	daemon.SdNotify(false, daemon.SdNotifyReady)

	d, e := daemon.SdWatchdogEnabled(false)
	if d == 0 || e != nil {
		logger.Debug("systemd watchdog not configured", zap.Error(e))
		return
	}

	d /= 2
	logger.Debug("systemd watchdog enabled", zap.Duration("duration", d))
	for range time.Tick(d) {
		daemon.SdNotify(false, daemon.SdNotifyWatchdog)
	}
}
