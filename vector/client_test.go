package vector_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ansuman-shukla/hippocampus-backend/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSendsNamespaceAndDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/upsert", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))

		var body struct {
			Namespace string            `json:"namespace"`
			Documents []vector.Document `json:"documents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user-1", body.Namespace)
		require.Len(t, body.Documents, 1)
		assert.Equal(t, "doc-1", body.Documents[0].ID)
		assert.Equal(t, "some text", body.Documents[0].Text)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := vector.NewClient(srv.URL, "test-key")
	err := client.Upsert(context.Background(), "user-1", vector.Document{ID: "doc-1", Text: "some text"})
	assert.NoError(t, err)
}

func TestQueryParsesMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/query", r.URL.Path)

		var body struct {
			Namespace string `json:"namespace"`
			Text      string `json:"text"`
			TopK      int    `json:"top_k"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user-1", body.Namespace)
		assert.Equal(t, "dairy", body.Text)
		assert.Equal(t, 5, body.TopK)

		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "a", "score": 0.91, "text": "milk"},
				{"id": "b", "score": 0.64, "text": "eggs"},
			},
		})
	}))
	defer srv.Close()

	matches, err := vector.NewClient(srv.URL, "test-key").Query(context.Background(), "user-1", "dairy", 5)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.InDelta(t, 0.91, matches[0].Score, 1e-9)
}

func TestDeleteSendsIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/delete", r.URL.Path)

		var body struct {
			Namespace string   `json:"namespace"`
			IDs       []string `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user-1", body.Namespace)
		assert.Equal(t, []string{"doc-1", "doc-2"}, body.IDs)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := vector.NewClient(srv.URL, "test-key").Delete(context.Background(), "user-1", []string{"doc-1", "doc-2"})
	assert.NoError(t, err)
}

func TestRejectedRequestIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := vector.NewClient(srv.URL, "test-key").Upsert(context.Background(), "user-1", vector.Document{ID: "d", Text: "t"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, vector.ErrUnavailable)
}

func TestUnreachableServiceIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := vector.NewClient(srv.URL, "test-key").Upsert(context.Background(), "user-1", vector.Document{ID: "d", Text: "t"})
	assert.ErrorIs(t, err, vector.ErrUnavailable)
}
