// Package gqlclient provides a GraphQL client.
package gqlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/machinebox/graphql"
)

func parseResultData(j json.RawMessage, key string, ptr any) error {
	if key == "" {
		return json.Unmarshal([]byte(j), ptr)
	}

	m := make(map[string]json.RawMessage)
	if e := json.Unmarshal([]byte(j), &m); e != nil {
		return e
	}
	return json.Unmarshal([]byte(m[key]), ptr)
}

// Config contains Client configuration.
type Config struct {
	// HTTPUri is HTTP URI for query and mutation operations.
	HTTPUri string

	HTTPClient *http.Client
}

// ApplyDefaults applies defaults.
func (cfg *Config) ApplyDefaults() error {
	u, e := url.Parse(cfg.HTTPUri)
	if e != nil {
		return fmt.Errorf("HTTPUri: %w", e)
	}
	cfg.HTTPUri = u.String()

	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return nil
}

// MakeListenAddress converts a server base URI to a TCP listen address.
func MakeListenAddress(uri string) (listen string, e error) {
	u, e := url.Parse(uri)
	if e != nil {
		return "", fmt.Errorf("uri: %w", e)
	}
	host, port := u.Hostname(), u.Port()
	if port == "" {
		port = "3030"
	}
	return host + ":" + port, nil
}

// Client is a GraphQL client.
type Client struct {
	cfg        Config
	wg         sync.WaitGroup
	httpClient *graphql.Client
}

// Close blocks until all pending operations have concluded.
func (c *Client) Close() error {
	c.wg.Wait()
	return nil
}

// Do executes a query or mutation on the GraphQL server.
//
//	ctx: a Context for canceling the operation.
//	query: a GraphQL document.
//	vars: query variables.
//	key: if non-empty, unmarshal result.data[key] instead of result.data.
//	res: pointer to result struct.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any, key string, res any) error {
	c.wg.Add(1)
	defer c.wg.Done()

	request := graphql.NewRequest(query)
	for key, value := range vars {
		request.Var(key, value)
	}

	var response json.RawMessage
	if e := c.httpClient.Run(ctx, request, &response); e != nil {
		return e
	}
	return parseResultData(response, key, res)
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if e := cfg.ApplyDefaults(); e != nil {
		return nil, e
	}

	return &Client{
		cfg:        cfg,
		httpClient: graphql.NewClient(cfg.HTTPUri, graphql.WithHTTPClient(cfg.HTTPClient)),
	}, nil
}
