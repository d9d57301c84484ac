package remote

import (
	"context"
	"net/http"
)

// ListAgents returns one page of remote agents.
func (c *Client) ListAgents(ctx context.Context, page, pageSize int) ([]Payload, int, error) {
	var out listPage
	if err := c.do(ctx, "list agents", http.MethodGet, "/api/v1/agents", pageQuery(page, pageSize), nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

// CreateAgent creates a remote agent and returns its payload. Used for
// local agents that have never been created remotely.
func (c *Client) CreateAgent(ctx context.Context, fields map[string]any) (Payload, error) {
	var out Payload
	if err := c.do(ctx, "create agent", http.MethodPost, "/api/v1/agents", nil, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAgent applies a partial update to a remote agent.
func (c *Client) UpdateAgent(ctx context.Context, agentID string, fields map[string]any) error {
	return c.do(ctx, "update agent", http.MethodPut, "/api/v1/agents/"+agentID, nil, fields, nil)
}

// DeleteAgents removes remote agents.
func (c *Client) DeleteAgents(ctx context.Context, ids []string) error {
	body := map[string]any{"ids": ids}
	return c.do(ctx, "delete agents", http.MethodDelete, "/api/v1/agents", nil, body, nil)
}
