package mapper

import (
	"fmt"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

// ApplyChunk copies chunk payload fields onto a local chunk. The remote id
// is mandatory for chunks since reconciliation keys on it.
func ApplyChunk(p remote.Payload, c *model.Chunk) Outcome {
	var o Outcome
	if _, v, ok := lookup(p, "id"); ok {
		if s, isStr := v.(string); isStr && s != "" {
			c.RemoteID = s
			o.applied("RemoteID")
		} else {
			o.skip("id", fmt.Sprintf("expected non-empty string, got %T", v))
		}
	}
	setString(p, &o, &c.Content, "Content", "content")
	setInt(p, &o, &c.Size, "Size", "size", "content_size")
	setInt(p, &o, &c.Position, "Position", "position", "position_int")
	return o
}
