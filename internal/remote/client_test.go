package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", 2*time.Second)
}

func TestListDatasetsDecodesEnvelope(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/datasets", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "30", r.URL.Query().Get("page_size"))

		json.NewEncoder(w).Encode(map[string]any{
			"code":    0,
			"message": "",
			"data": map[string]any{
				"items": []map[string]any{{"id": "ds-1", "name": "Handbook"}},
				"total": 11,
			},
		})
	})

	items, total, err := client.ListDatasets(context.Background(), 2, 30)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, items, 1)
	assert.Equal(t, "ds-1", items[0].ID())
}

func TestNonZeroCodeIsBusinessError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code":    102,
			"message": "dataset name already exists",
		})
	})

	_, err := client.CreateDataset(context.Background(), map[string]any{"name": "dup"})
	var bizErr *BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, 102, bizErr.Code)
	assert.Contains(t, bizErr.Message, "already exists")
}

func TestMissingCodeIsBusinessError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": "who knows"})
	})

	_, _, err := client.ListDatasets(context.Background(), 1, 10)
	var bizErr *BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, -1, bizErr.Code)
}

func TestMalformedBodyIsMalformedResponseError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	})

	_, _, err := client.ListDatasets(context.Background(), 1, 10)
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestUnreachableHostIsNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "key", 500*time.Millisecond)

	_, _, err := client.ListDatasets(context.Background(), 1, 10)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestUploadDocumentReturnsFirstPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/datasets/ds-1/documents", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()
		assert.Equal(t, "report.pdf", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": []map[string]any{{"id": "doc-1", "name": "report.pdf"}},
		})
	})

	payload, err := client.UploadDocument(context.Background(), "ds-1", "report.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "doc-1", payload.ID())
}

func TestUploadDocumentEmptyListIsMalformed(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": []any{}})
	})

	_, err := client.UploadDocument(context.Background(), "ds-1", "report.pdf", []byte("x"))
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestParseAndStopShareTheChunksPath(t *testing.T) {
	var methods []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/datasets/ds-1/chunks", r.URL.Path)
		methods = append(methods, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"doc-1"}, body["document_ids"])

		json.NewEncoder(w).Encode(map[string]any{"code": 0})
	})
	ctx := context.Background()

	require.NoError(t, client.ParseDocuments(ctx, "ds-1", []string{"doc-1"}))
	require.NoError(t, client.StopParseDocuments(ctx, "ds-1", []string{"doc-1"}))
	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, methods)
}

func TestConverseCarriesSessionOnlyWhenPresent(t *testing.T) {
	var bodies []map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chats/asst-1/completions", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"answer": "42", "session_id": "sess-9"},
		})
	})
	ctx := context.Background()

	reply, err := client.Converse(ctx, "asst-1", "", "meaning of life?")
	require.NoError(t, err)
	assert.Equal(t, "42", reply.Answer)
	assert.Equal(t, "sess-9", reply.SessionID)

	_, err = client.Converse(ctx, "asst-1", "sess-9", "again?")
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	_, hasSession := bodies[0]["session_id"]
	assert.False(t, hasSession, "first turn starts a fresh remote session")
	assert.Equal(t, "sess-9", bodies[1]["session_id"])
}

func TestPayloadStringResolvesFirstKey(t *testing.T) {
	p := Payload{"chunkMethod": "naive", "count": float64(3)}

	v, ok := p.String("chunk_method", "chunkMethod")
	assert.True(t, ok)
	assert.Equal(t, "naive", v)

	_, ok = p.String("count")
	assert.False(t, ok, "non-string values do not match")
	assert.Empty(t, p.ID())
}
