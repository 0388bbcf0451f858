package ethport

import (
	"github.com/graphql-go/graphql"
	"github.com/routegraph/routegraph/core/gqlserver"
)

// GqlPortType is the Port GraphQL type.
var GqlPortType *graphql.Object

func init() {
	GqlPortType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Port",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return int(p.Source.(*Port).ID()), nil
				},
			},
			"name": &graphql.Field{
				Type: gqlserver.NonNullString,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Port).Name(), nil
				},
			},
			"rxQueues": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Port).RxQueues(), nil
				},
			},
			"txQueues": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Port).TxQueues(), nil
				},
			},
			"mtu": &graphql.Field{
				Type: gqlserver.NonNullInt,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*Port).MTU(), nil
				},
			},
			"macAddr": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					mac := p.Source.(*Port).MacAddr()
					if mac == nil {
						return nil, nil
					}
					return mac.String(), nil
				},
			},
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "ports",
		Description: "Configured Ethernet ports.",
		Type:        gqlserver.NewListNonNullBoth(GqlPortType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return List(), nil
		},
	})

	gqlserver.AddMutation(&graphql.Field{
		Name:        "createPort",
		Description: "Create an administrative port record.",
		Args: graphql.FieldConfigArgument{
			"name":     &graphql.ArgumentConfig{Type: gqlserver.NonNullString},
			"netif":    &graphql.ArgumentConfig{Type: graphql.String},
			"rxQueues": &graphql.ArgumentConfig{Type: graphql.Int},
			"txQueues": &graphql.ArgumentConfig{Type: graphql.Int},
			"mtu":      &graphql.ArgumentConfig{Type: graphql.Int},
		},
		Type: graphql.NewNonNull(GqlPortType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			var cfg Config
			if e := gqlserver.DecodeJSON(p.Args, &cfg); e != nil {
				return nil, e
			}
			return New(cfg)
		},
	})
}
