package remote

import (
	"context"
	"fmt"
	"net/http"
)

// DefaultChunkPageSize is large enough that typical documents fit in one
// listing page.
const DefaultChunkPageSize = 1024

// ListChunks returns one page of chunks for a document along with the
// remote-reported total.
func (c *Client) ListChunks(ctx context.Context, datasetID, documentID string, page, pageSize int) ([]Payload, int, error) {
	if pageSize <= 0 {
		pageSize = DefaultChunkPageSize
	}
	path := fmt.Sprintf("/api/v1/datasets/%s/documents/%s/chunks", datasetID, documentID)
	var out listPage
	if err := c.do(ctx, "list chunks", http.MethodGet, path, pageQuery(page, pageSize), nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}
