package worker

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/routegraph/routegraph/core/gqlserver"
)

// GqlAssigner is the Assigner accessible via GraphQL.
// It is assigned during service activation.
var GqlAssigner *Assigner

// GraphQL types.
var (
	GqlQueueMapType *graphql.Object
	GqlWorkerType   *graphql.Object
)

func init() {
	GqlQueueMapType = graphql.NewObject(graphql.ObjectConfig{
		Name: "WorkerQueueMap",
		Fields: graphql.Fields{
			"port": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(QueueMap).Port), nil
				},
			},
			"queue": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(QueueMap).Queue.Queue), nil
				},
			},
			"enabled": &graphql.Field{
				Type: gqlserver.NonNullBoolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(QueueMap).Enabled, nil
				},
			},
		},
	})

	GqlWorkerType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Worker",
		Fields: graphql.Fields{
			"cpu": &graphql.Field{
				Description: "Logical CPU the worker is pinned to.",
				Type:        gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Worker).CPU(), nil
				},
			},
			"tid": &graphql.Field{
				Description: "OS thread ID of the dataplane thread.",
				Type:        graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return gqlserver.Optional(p.Source.(*Worker).Tid()), nil
				},
			},
			"started": &graphql.Field{
				Description: "Whether the dataplane loop has entered steady state.",
				Type:        gqlserver.NonNullBoolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Worker).IsStarted(), nil
				},
			},
			"rxQueues": &graphql.Field{
				Description: "Rx-queues polled by this worker.",
				Type:        gqlserver.NewListNonNullBoth(GqlQueueMapType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Worker).RxQueues(), nil
				},
			},
			"txQueues": &graphql.Field{
				Description: "Tx-queue slots owned exclusively by this worker.",
				Type:        gqlserver.NewListNonNullBoth(GqlQueueMapType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Worker).TxQueues(), nil
				},
			},
			"stats": &graphql.Field{
				Description: "Most recently published statistics snapshot.",
				Type:        gqlserver.JSON,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					s := p.Source.(*Worker).Stats()
					if s == nil {
						return nil, nil
					}
					return s, nil
				},
			},
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "workers",
		Description: "Live dataplane workers.",
		Type:        gqlserver.NewListNonNullBoth(GqlWorkerType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			a, e := gqlAssigner()
			if e != nil {
				return nil, e
			}
			return a.Workers(), nil
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "assignRxQueue",
		Description: "Pin an rx-queue to a CPU, creating or destroying workers as needed.",
		Args: graphql.FieldConfigArgument{
			"port":  &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
			"queue": &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
			"cpu":   &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
		},
		Type: graphql.NewNonNull(GqlWorkerType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			a, e := gqlAssigner()
			if e != nil {
				return nil, e
			}
			port := uint16(p.Args["port"].(int))
			queue := uint16(p.Args["queue"].(int))
			cpu := p.Args["cpu"].(int)
			if e := a.AssignRxQueue(port, queue, cpu); e != nil {
				return nil, e
			}
			return a.WorkerByCPU(cpu), nil
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "resetWorkerStats",
		Description: "Request counters of a worker to be zeroed at its next publish cycle.",
		Args: graphql.FieldConfigArgument{
			"cpu": &graphql.ArgumentConfig{Type: gqlserver.NonNullInt},
		},
		Type: gqlserver.NonNullBoolean,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			a, e := gqlAssigner()
			if e != nil {
				return nil, e
			}
			w := a.WorkerByCPU(p.Args["cpu"].(int))
			if w == nil {
				return nil, errors.New("no worker on this cpu")
			}
			w.ResetStats()
			return true, nil
		},
	})
}

func gqlAssigner() (*Assigner, error) {
	if GqlAssigner == nil {
		return nil, errors.New("dataplane not activated")
	}
	return GqlAssigner, nil
}
