// Package search is a minimal key-authenticated client for the hybrid
// (keyword + vector) document search endpoint of the search index.
package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/katakuxiko/askexperts/internal/config"
	"github.com/katakuxiko/askexperts/internal/model"
)

const (
	moduleName    = "askexperts/search"
	moduleVersion = "v0.1.0"
	apiVersion    = "2023-11-01"
	apiKeyHeader  = "api-key"
)

// VectorizedQuery asks for the k nearest neighbors of Vector on Fields.
type VectorizedQuery struct {
	Kind              string    `json:"kind"`
	Vector            []float32 `json:"vector"`
	KNearestNeighbors int       `json:"k"`
	Fields            string    `json:"fields"`
}

// NewVectorizedQuery returns a "vector" kind query.
func NewVectorizedQuery(vector []float32, k int, fields string) VectorizedQuery {
	return VectorizedQuery{Kind: "vector", Vector: vector, KNearestNeighbors: k, Fields: fields}
}

// Request is the body of a docs/search call.
type Request struct {
	Search        string            `json:"search"`
	VectorQueries []VectorizedQuery `json:"vectorQueries,omitempty"`
	Select        string            `json:"select,omitempty"`
	Top           int               `json:"top,omitempty"`
}

type response struct {
	Value []model.SearchResult `json:"value"`
}

type Client struct {
	endpoint string
	pl       runtime.Pipeline
}

// NewClient builds a client for one index. Retries are disabled: a failed
// call is returned to the caller immediately.
func NewClient(cfg config.SearchConfig) *Client {
	cred := azcore.NewKeyCredential(cfg.APIKey)
	keyPolicy := runtime.NewKeyCredentialPolicy(cred, apiKeyHeader, &runtime.KeyCredentialPolicyOptions{
		InsecureAllowCredentialWithHTTP: strings.HasPrefix(cfg.Endpoint, "http://"),
	})

	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{keyPolicy},
	}, &policy.ClientOptions{
		Retry: policy.RetryOptions{MaxRetries: -1},
	})

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/") + "/indexes/" + url.PathEscape(cfg.IndexName) + "/docs/search",
		pl:       pl,
	}
}

// Search runs one query and returns the hits in service rank order.
func (c *Client) Search(ctx context.Context, r Request) ([]model.SearchResult, error) {
	req, err := runtime.NewRequest(ctx, http.MethodPost, c.endpoint)
	if err != nil {
		return nil, err
	}
	q := req.Raw().URL.Query()
	q.Set("api-version", apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	if err := runtime.MarshalAsJSON(req, r); err != nil {
		return nil, err
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var out response
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}
