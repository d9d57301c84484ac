package remote

import (
	"context"
	"net/http"
)

// ListDatasets returns one page of remote datasets.
func (c *Client) ListDatasets(ctx context.Context, page, pageSize int) ([]Payload, int, error) {
	var out listPage
	if err := c.do(ctx, "list datasets", http.MethodGet, "/api/v1/datasets", pageQuery(page, pageSize), nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

// CreateDataset creates a remote dataset and returns its payload.
func (c *Client) CreateDataset(ctx context.Context, fields map[string]any) (Payload, error) {
	var out Payload
	if err := c.do(ctx, "create dataset", http.MethodPost, "/api/v1/datasets", nil, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDataset applies a partial update to a remote dataset.
func (c *Client) UpdateDataset(ctx context.Context, datasetID string, fields map[string]any) error {
	return c.do(ctx, "update dataset", http.MethodPut, "/api/v1/datasets/"+datasetID, nil, fields, nil)
}

// DeleteDatasets removes the given remote datasets.
func (c *Client) DeleteDatasets(ctx context.Context, ids []string) error {
	body := map[string]any{"ids": ids}
	return c.do(ctx, "delete datasets", http.MethodDelete, "/api/v1/datasets", nil, body, nil)
}
