package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/aadgraph/internal/http"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
)

// Collect implements graph.Collector.Collect.
func (c *Client) Collect(ctx context.Context, resourcePath, objectType string) ([]graph.Object, error) {
	objects := make([]graph.Object, 0)
	req := &http.Request{Method: "GET", Path: c.resourcePath(resourcePath)}

	for page := 1; ; page++ {
		raw, err := c.execute(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("collecting %s (page %d): %w", resourcePath, page, err)
		}

		var result graph.Page

		if raw != nil {
			err = json.Unmarshal(raw, &result)
			if err != nil {
				return nil, fmt.Errorf("parsing %s (page %d): %w", resourcePath, page, err)
			}
		}

		objects = appendMatching(objects, result.Value, objectType)

		if !result.HasNext() {
			c.debug("Collected objects", map[string]interface{}{
				"path":  resourcePath,
				"type":  objectType,
				"pages": page,
				"count": len(objects),
			})

			return objects, nil
		}

		req = c.continuation(result.NextLink)
	}
}

// continuation builds the request for a next link. Absolute links are
// followed as given; relative ones are resolved like any resource path.
func (c *Client) continuation(nextLink string) *http.Request {
	link, err := url.Parse(nextLink)
	if err == nil && link.IsAbs() {
		return &http.Request{Method: "GET", URL: nextLink}
	}

	return &http.Request{Method: "GET", Path: c.resourcePath(nextLink)}
}

func appendMatching(objects, page []graph.Object, objectType string) []graph.Object {
	for _, object := range page {
		if objectType == "" || object.ObjectType() == objectType {
			objects = append(objects, object)
		}
	}

	return objects
}
