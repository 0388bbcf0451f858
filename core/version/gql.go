package version

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/routegraph/routegraph/core/gqlserver"
)

// GqlVersionType is the Version GraphQL type.
var GqlVersionType *graphql.Object

func init() {
	GqlVersionType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Version",
		Fields: graphql.Fields{
			"version": &graphql.Field{
				Type: gqlserver.NonNullString,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(Version).Version, nil
				},
			},
			"commit": &graphql.Field{
				Type: gqlserver.NonNullString,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(Version).Commit, nil
				},
			},
			"date": &graphql.Field{
				Type: gqlserver.NonNullString,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(Version).Date.Format(time.RFC3339), nil
				},
			},
			"dirty": &graphql.Field{
				Type: gqlserver.NonNullBoolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(Version).Dirty, nil
				},
			},
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "version",
		Description: "routegraph version information.",
		Type:        graphql.NewNonNull(GqlVersionType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return V, nil
		},
	})
}
