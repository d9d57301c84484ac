package mapper

import (
	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

// ApplyCollection copies dataset payload fields onto a local collection.
func ApplyCollection(p remote.Payload, c *model.Collection) Outcome {
	var o Outcome
	setRemoteID(p, &o, &c.RemoteID)
	setString(p, &o, &c.Name, "Name", "name")
	setString(p, &o, &c.Description, "Description", "description")
	setString(p, &o, &c.ChunkMethod, "ChunkMethod", "chunk_method", "parser_method", "chunkMethod")
	setInt(p, &o, &c.ChunkSize, "ChunkSize", "chunk_size", "chunkSize")
	setString(p, &o, &c.Language, "Language", "language")
	setString(p, &o, &c.EmbeddingModel, "EmbeddingModel", "embedding_model", "embeddingModel")
	setFloat(p, &o, &c.SimilarityThreshold, "SimilarityThreshold", "similarity_threshold", "similarityThreshold")
	setString(p, &o, &c.Status, "Status", "status")
	return o
}
