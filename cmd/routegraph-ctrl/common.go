package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"reflect"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"
	"github.com/xeipuuv/gojsonschema"
)

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

// schemaPath locates a JSON schema file installed alongside the executable.
func schemaPath(name string) (*url.URL, error) {
	exe, e := os.Executable()
	if e != nil {
		return nil, e
	}
	return &url.URL{
		Scheme: "file",
		Path:   path.Join(path.Dir(exe), "../share/routegraph", name+".schema.json"),
	}, nil
}

func checkSchema(input gojsonschema.JSONLoader, schemaName string) error {
	schemaFile, e := schemaPath(schemaName)
	if e != nil {
		return e
	}

	result, e := gojsonschema.Validate(gojsonschema.NewReferenceLoader(schemaFile.String()), input)
	if e != nil {
		return fmt.Errorf("JSON schema validator: %w", e)
	}
	if result.Valid() {
		return nil
	}

	lines := []string{"JSON document failed schema validation:"}
	for _, desc := range result.Errors() {
		lines = append(lines, "- "+desc.String())
	}
	lines = append(lines, "Schema "+schemaFile.String())
	return errors.New(strings.Join(lines, "\n"))
}

// jsonArgCommand is a CLI command that reads a JSON object from stdin
// and validates it against an installed schema.
type jsonArgCommand struct {
	Category   string
	Name       string
	Usage      string
	SchemaName string
	Flags      []cli.Flag
	Action     func(c *cli.Context, arg map[string]interface{}) error
}

func (opts jsonArgCommand) define() {
	var skipSchema bool
	defineCommand(&cli.Command{
		Category: opts.Category,
		Name:     opts.Name,
		Usage:    opts.Usage + " (pass parameters via stdin)",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "skip-schema",
				Usage:       "do not check JSON schema",
				Destination: &skipSchema,
			},
		}, opts.Flags...),
		Action: func(c *cli.Context) error {
			loader, stdin := gojsonschema.NewReaderLoader(os.Stdin)

			hint := time.AfterFunc(2*time.Second, func() {
				fmt.Fprintln(os.Stderr, "Hint: pass parameters via stdin")
			})
			arg := map[string]interface{}{}
			e := json.NewDecoder(stdin).Decode(&arg)
			hint.Stop()
			if e != nil {
				return e
			}

			if !skipSchema {
				if e := checkSchema(loader, opts.SchemaName); e != nil {
					return e
				}
			}
			return opts.Action(c, arg)
		},
	})
}

// printCommandLine emits an equivalent gq|jq shell pipeline instead of
// executing the query, for use with the -cmdout flag.
func printCommandLine(query string, vars map[string]interface{}, key string) error {
	gqArgs := []string{gqlserver, "-q", query}
	if vars != nil {
		j, e := json.MarshalIndent(vars, "", "  ")
		if e != nil {
			return e
		}
		gqArgs = append(gqArgs, "--variablesJSON", string(j))
	}

	sel := ".data"
	if key != "" {
		sel += "." + key
	}
	fmt.Println("gq", shellquote.Join(gqArgs...), "|", "jq", shellquote.Join("-c", sel))
	return nil
}

func clientDoPrint(ctx context.Context, query string, vars map[string]interface{}, key string) error {
	if cmdout {
		return printCommandLine(query, vars, key)
	}

	var value interface{}
	if e := client.Do(ctx, query, vars, key, &value); e != nil {
		return e
	}

	if val := reflect.ValueOf(value); val.Kind() == reflect.Slice {
		for i, last := 0, val.Len(); i < last; i++ {
			j, _ := json.Marshal(val.Index(i).Interface())
			fmt.Println(string(j))
		}
		return nil
	}
	j, _ := json.Marshal(value)
	fmt.Println(string(j))
	return nil
}
