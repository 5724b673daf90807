package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansuman-shukla/hippocampus-backend/vector"
)

func sessionCookie(t *testing.T, override jwt.MapClaims) *http.Cookie {
	t.Helper()
	return &http.Cookie{Name: "access_token", Value: signToken(t, "https://idp.example.com", override)}
}

func TestDocumentRoutesRequireAuth(t *testing.T) {
	b := newTestBackend()

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/memories"},
		{http.MethodGet, "/memories"},
		{http.MethodDelete, "/memories/5f0000000000000000000001"},
		{http.MethodPost, "/notes"},
		{http.MethodGet, "/notes"},
		{http.MethodGet, "/notes/search?q=x"},
		{http.MethodDelete, "/notes/5f0000000000000000000001"},
	} {
		rec := doJSON(b.router, route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestSaveAndListMemories(t *testing.T) {
	b := newTestBackend()
	cookie := sessionCookie(t, nil)

	rec := doJSON(b.router, http.MethodPost, "/memories", `{"title":"trip","note":"pack the charger"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(b.router, http.MethodGet, "/memories", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count    int `json:"count"`
		Memories []struct {
			ID     string `json:"id"`
			UserID string `json:"user_id"`
			Title  string `json:"title"`
		} `json:"memories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "trip", body.Memories[0].Title)
	assert.Equal(t, testSubject, body.Memories[0].UserID)
}

func TestSaveMemoryValidatesInput(t *testing.T) {
	b := newTestBackend()

	rec := doJSON(b.router, http.MethodPost, "/memories", `{"title":"only a title"}`, sessionCookie(t, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMemoryNotOwnedIs404(t *testing.T) {
	b := newTestBackend()
	owner := sessionCookie(t, nil)
	other := sessionCookie(t, jwt.MapClaims{"sub": "someone-else"})

	rec := doJSON(b.router, http.MethodPost, "/memories", `{"title":"t","note":"n"}`, owner)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	rec = doJSON(b.router, http.MethodDelete, "/memories/"+saved.ID, "", other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(b.router, http.MethodDelete, "/memories/"+saved.ID, "", owner)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteMemoryInvalidIDIs400(t *testing.T) {
	b := newTestBackend()

	rec := doJSON(b.router, http.MethodDelete, "/memories/not-an-id", "", sessionCookie(t, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveNoteIndexesUnderCallerNamespace(t *testing.T) {
	b := newTestBackend()

	rec := doJSON(b.router, http.MethodPost, "/notes", `{"title":"ideas","body":"vector databases are neat"}`, sessionCookie(t, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, b.vec.upserts[testSubject], 1)
	assert.Contains(t, b.vec.upserts[testSubject][0].Text, "vector databases are neat")
}

func TestSearchNotes(t *testing.T) {
	b := newTestBackend()
	b.vec.matches = []vector.Match{{ID: "n1", Score: 0.88, Text: "vector databases are neat"}}

	rec := doJSON(b.router, http.MethodGet, "/notes/search?q=databases", "", sessionCookie(t, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int `json:"count"`
		Matches []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "n1", body.Matches[0].ID)
}

func TestSearchRequiresQuery(t *testing.T) {
	b := newTestBackend()

	rec := doJSON(b.router, http.MethodGet, "/notes/search", "", sessionCookie(t, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteNoteRemovesVectorEntry(t *testing.T) {
	b := newTestBackend()
	cookie := sessionCookie(t, nil)

	rec := doJSON(b.router, http.MethodPost, "/notes", `{"title":"t","body":"b"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved struct {
		ID       string `json:"id"`
		VectorID string `json:"vector_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	rec = doJSON(b.router, http.MethodDelete, "/notes/"+saved.ID, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{saved.VectorID}, b.vec.deletes[testSubject])
}
