package remote

import (
	"context"
	"fmt"
	"net/http"
)

// UploadDocument uploads one file into a dataset and returns the created
// document payload.
func (c *Client) UploadDocument(ctx context.Context, datasetID, filename string, content []byte) (Payload, error) {
	path := fmt.Sprintf("/api/v1/datasets/%s/documents", datasetID)
	var out []Payload
	if err := c.upload(ctx, "upload document", path, filename, content, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &MalformedResponseError{Op: "upload document", Err: fmt.Errorf("empty document list in response")}
	}
	return out[0], nil
}

// ListDocuments returns one page of documents in a dataset.
func (c *Client) ListDocuments(ctx context.Context, datasetID string, page, pageSize int) ([]Payload, int, error) {
	path := fmt.Sprintf("/api/v1/datasets/%s/documents", datasetID)
	var out listPage
	if err := c.do(ctx, "list documents", http.MethodGet, path, pageQuery(page, pageSize), nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

// GetDocument fetches the current remote state of one document, including
// parse status, progress and chunk count.
func (c *Client) GetDocument(ctx context.Context, datasetID, documentID string) (Payload, error) {
	path := fmt.Sprintf("/api/v1/datasets/%s/documents/%s", datasetID, documentID)
	var out Payload
	if err := c.do(ctx, "get document", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDocuments removes documents from a dataset.
func (c *Client) DeleteDocuments(ctx context.Context, datasetID string, ids []string) error {
	path := fmt.Sprintf("/api/v1/datasets/%s/documents", datasetID)
	body := map[string]any{"ids": ids}
	return c.do(ctx, "delete documents", http.MethodDelete, path, nil, body, nil)
}

// ParseDocuments asks the remote service to start chunking the documents.
func (c *Client) ParseDocuments(ctx context.Context, datasetID string, ids []string) error {
	path := fmt.Sprintf("/api/v1/datasets/%s/chunks", datasetID)
	body := map[string]any{"document_ids": ids}
	return c.do(ctx, "parse documents", http.MethodPost, path, nil, body, nil)
}

// StopParseDocuments asks the remote service to stop chunking the documents.
// It does not abort a request already in flight.
func (c *Client) StopParseDocuments(ctx context.Context, datasetID string, ids []string) error {
	path := fmt.Sprintf("/api/v1/datasets/%s/chunks", datasetID)
	body := map[string]any{"document_ids": ids}
	return c.do(ctx, "stop parse", http.MethodDelete, path, nil, body, nil)
}
