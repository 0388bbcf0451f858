package gqlserver

import (
	"encoding/json"
	"fmt"
	"reflect"

	tools_scalars "github.com/bhoriuchi/graphql-go-tools/scalars"
	"github.com/graphql-go/graphql"
)

// Scalar types.
var (
	JSON           = tools_scalars.ScalarJSON
	NonNullID      = graphql.NewNonNull(graphql.ID)
	NonNullBoolean = graphql.NewNonNull(graphql.Boolean)
	NonNullInt     = graphql.NewNonNull(graphql.Int)
	NonNullString  = graphql.NewNonNull(graphql.String)
)

// NewListNonNullBoth constructs [T!]! type.
func NewListNonNullBoth(ofType graphql.Type) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ofType)))
}

// DecodeJSON decodes JSON argument into pointer.
func DecodeJSON(arg, ptr any) error {
	j, e := json.Marshal(arg)
	if e != nil {
		return fmt.Errorf("json.Marshal %w", e)
	}
	if e := json.Unmarshal(j, ptr); e != nil {
		return fmt.Errorf("json.Unmarshal %w", e)
	}
	return nil
}

// Optional turns invalid value to nil.
//
//	Optional(value) considers the value invalid if it is zero.
//	Optional(value, valid) considers the value invalid if valid is false.
func Optional(value any, optionalValid ...bool) any {
	ok := true
	switch len(optionalValid) {
	case 0:
		ok = !reflect.ValueOf(value).IsZero()
	case 1:
		ok = optionalValid[0]
	default:
		panic("Optional: bad arguments")
	}

	if ok {
		return value
	}
	return nil
}
