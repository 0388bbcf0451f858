package main

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/graphql-go/graphql"
	"github.com/routegraph/routegraph/core/gqlserver"
	"github.com/routegraph/routegraph/core/jsonhelper"
	"github.com/routegraph/routegraph/eal"
	"github.com/routegraph/routegraph/ethport"
	"github.com/routegraph/routegraph/graph/nullgraph"
	"github.com/routegraph/routegraph/worker"
	"go.uber.org/zap"
)

// ActivateArgs describes the activation request.
type ActivateArgs struct {
	Eal        eal.Config       `json:"eal"`
	Ports      []ethport.Config `json:"ports,omitempty"`
	MaxSleepUs int              `json:"maxSleepUs,omitempty"`
}

// Activate brings up the dataplane: lcores, ports, and the queue assigner.
func (a ActivateArgs) Activate() error {
	if e := eal.Init(a.Eal); e != nil {
		return e
	}

	for _, cfg := range a.Ports {
		if _, e := ethport.New(cfg); e != nil {
			return e
		}
	}

	worker.GqlAssigner = worker.NewAssigner(ethport.Provider{}, eal.Provider{},
		nullgraph.NewBuilder(), time.Duration(a.MaxSleepUs)*time.Microsecond)
	return nil
}

func init() {
	var isActivated atomic.Bool

	gqlserver.AddMutation(&graphql.Field{
		Name: "activate",
		Description: "Activate the dataplane. " +
			"This must be a JSON object with lcore and port configuration.",
		Args: graphql.FieldConfigArgument{
			"dataplane": &graphql.ArgumentConfig{
				Description: "Dataplane activation parameters.",
				Type:        gqlserver.JSON,
			},
		},
		Type: gqlserver.NonNullBoolean,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			arg, ok := p.Args["dataplane"]
			if !ok {
				return nil, errors.New("dataplane argument should be specified")
			}

			defaults := map[string]any{
				"maxSleepUs": 100,
			}
			var args ActivateArgs
			if e := jsonhelper.MergeDefaults(defaults, arg, &args, jsonhelper.DisallowUnknownFields); e != nil {
				return nil, e
			}

			if !isActivated.CompareAndSwap(false, true) {
				return nil, errors.New("routegraph-svc is already activated")
			}

			logger.Info("activate start")
			if e := args.Activate(); e != nil {
				delayedShutdown(func() { logger.Fatal("activate error", zap.Error(e)) })
				return nil, e
			}
			logger.Info("activate success")
			return true, nil
		},
	})
}

func init() {
	gqlserver.AddMutation(&graphql.Field{
		Name:        "shutdown",
		Description: "Shutdown routegraph service.",
		Args: graphql.FieldConfigArgument{
			"restart": &graphql.ArgumentConfig{
				Description: "Whether to restart the service.",
				Type:        graphql.Boolean,
			},
		},
		Type: gqlserver.NonNullBoolean,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			restart, ok := p.Args["restart"].(bool)
			if !ok {
				restart = false
			}
			exitCode := 0
			if restart {
				exitCode = 75
			}

			logger.Info("shutdown requested by GraphQL", zap.Bool("restart", restart))
			daemon.SdNotify(false, daemon.SdNotifyStopping)
			delayedShutdown(func() { os.Exit(exitCode) })
			return true, nil
		},
	})
}

func init() {
	worker.OnWorkerCreated(func(w *worker.Worker) {
		logger.Info("worker up", zap.Int("cpu", w.CPU()))
	})
	worker.OnWorkerDestroyed(func(cpu int) {
		logger.Info("worker down", zap.Int("cpu", cpu))
	})
	worker.OnRxQueueAssigned(func(w *worker.Worker, q ethport.Queue) {
		logger.Info("rx-queue pinned", zap.Stringer("queue", q), zap.Int("cpu", w.CPU()))
	})
}

var shutdownOnce sync.Once

func delayedShutdown(then func()) {
	// Shutdown is slightly delayed to allow enough time to send back the GraphQL result.
	// It's possible to receive shutdown command from both GraphQL and os.Signal at the same time,
	// so that the cleanup step must be protected by sync.Once.

	go func() {
		shutdownOnce.Do(func() {
			if a := worker.GqlAssigner; a != nil {
				a.Close()
			}
			for _, port := range ethport.List() {
				port.Close()
			}
		})
		time.Sleep(100 * time.Millisecond)
		then()
		panic("delayedShutdown then() must not return")
	}()
}
