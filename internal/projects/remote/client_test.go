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

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects-get", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"projects": []domain.Project{
				{ID: "a", Title: "A", CreatedAt: time.Now().UTC()},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "cred")
	list, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestFetchAllEmptyProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	list, err := New(srv.URL, "").FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Len(t, list, 0)
}

func TestPushAddSendsCredentialAndBody(t *testing.T) {
	var gotAuth string
	var gotBody domain.Project
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects-add", r.URL.Path)
		gotAuth = r.Header.Get("X-Admin-Auth")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	err := c.PushAdd(context.Background(), domain.Project{ID: "p1", Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, "secret", gotAuth)
	assert.Equal(t, "p1", gotBody.ID)
}

func TestPushUpdateEncodesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "p 1", r.URL.Query().Get("id"))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	err := New(srv.URL, "").PushUpdate(context.Background(), domain.Project{ID: "p 1"})
	require.NoError(t, err)
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Not authorized"})
	}))
	defer srv.Close()

	err := New(srv.URL, "bad").PushDelete(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not authorized")
}

func TestSuccessFalseWithoutErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Storage failure"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Storage failure")
}
