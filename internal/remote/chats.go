package remote

import (
	"context"
	"net/http"
)

// ListAssistants returns one page of remote chat assistants.
func (c *Client) ListAssistants(ctx context.Context, page, pageSize int) ([]Payload, int, error) {
	var out listPage
	if err := c.do(ctx, "list assistants", http.MethodGet, "/api/v1/chats", pageQuery(page, pageSize), nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

// CreateAssistant creates a remote chat assistant.
func (c *Client) CreateAssistant(ctx context.Context, fields map[string]any) (Payload, error) {
	var out Payload
	if err := c.do(ctx, "create assistant", http.MethodPost, "/api/v1/chats", nil, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAssistant applies a partial update to a remote chat assistant.
func (c *Client) UpdateAssistant(ctx context.Context, assistantID string, fields map[string]any) error {
	return c.do(ctx, "update assistant", http.MethodPut, "/api/v1/chats/"+assistantID, nil, fields, nil)
}

// DeleteAssistants removes remote chat assistants.
func (c *Client) DeleteAssistants(ctx context.Context, ids []string) error {
	body := map[string]any{"ids": ids}
	return c.do(ctx, "delete assistants", http.MethodDelete, "/api/v1/chats", nil, body, nil)
}

// ConverseReply is the answer to one assistant question.
type ConverseReply struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// Converse sends one question to a remote assistant. An empty sessionID
// starts a new remote conversation; the reply carries the session to reuse.
func (c *Client) Converse(ctx context.Context, assistantID, sessionID, question string) (*ConverseReply, error) {
	body := map[string]any{
		"question": question,
		"stream":   false,
	}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	var out ConverseReply
	if err := c.do(ctx, "converse", http.MethodPost, "/api/v1/chats/"+assistantID+"/completions", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
