package remote

import (
	"context"
	"net/http"
)

// ListModels returns the model catalog of the remote instance.
func (c *Client) ListModels(ctx context.Context) ([]Payload, error) {
	var out listPage
	if err := c.do(ctx, "list models", http.MethodGet, "/api/v1/models", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
