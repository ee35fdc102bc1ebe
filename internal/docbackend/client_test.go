package docbackend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tutor-cerdas-console/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "unparsable body falls back to HTTP status",
			status:  500,
			body:    "",
			wantMsg: "HTTP 500",
		},
		{
			name:    "error field wins",
			status:  400,
			body:    `{"error":"bad file"}`,
			wantMsg: "bad file",
		},
		{
			name:    "message field when no error field",
			status:  422,
			body:    `{"message":"title too long"}`,
			wantMsg: "title too long",
		},
		{
			name:    "error field beats message field",
			status:  400,
			body:    `{"error":"bad file","message":"ignored"}`,
			wantMsg: "bad file",
		},
		{
			name:    "raw text when body is not JSON",
			status:  404,
			body:    "route not found",
			wantMsg: "route not found",
		},
		{
			name:    "decodable body without known fields falls back to status",
			status:  503,
			body:    `{"detail":"nope"}`,
			wantMsg: "HTTP 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL)
			_, err := client.ListDocuments(context.Background(), "")
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestListDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"d1","title":"Algebra","storage_path":"docs/algebra.pdf","status":"embedded","pages":12,"size":2048},
			{"id":"d2","file_path":"docs/legacy.pdf","status":"uploaded"}
		]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	docs, err := client.ListDocuments(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "Algebra", docs[0].Title)
	assert.Equal(t, entity.DocumentStatusEmbedded, docs[0].Status)
	require.NotNil(t, docs[0].Pages)
	assert.Equal(t, 12, *docs[0].Pages)

	// Legacy field name for the storage path is tolerated.
	assert.Equal(t, "docs/legacy.pdf", docs[1].StoragePath)
	assert.Nil(t, docs[1].Pages)
}

func TestUpload(t *testing.T) {
	t.Run("sends multipart file and title", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/documents/upload", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "Calculus", r.FormValue("title"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "calc.pdf", header.Filename)

			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		client := New(srv.URL)
		err := client.Upload(context.Background(), "", "Calculus", "calc.pdf", strings.NewReader("%PDF-1.4"))
		assert.NoError(t, err)
	})

	t.Run("title defaults to filename", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "calc.pdf", r.FormValue("title"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		client := New(srv.URL)
		err := client.Upload(context.Background(), "", "", "calc.pdf", strings.NewReader("%PDF-1.4"))
		assert.NoError(t, err)
	})

	t.Run("ok=false on 2xx is still a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"error":"virus scan failed"}`))
		}))
		defer srv.Close()

		client := New(srv.URL)
		err := client.Upload(context.Background(), "", "t", "f.pdf", strings.NewReader("x"))
		require.Error(t, err)
		assert.Equal(t, "virus scan failed", err.Error())
	})
}

func TestRebuild(t *testing.T) {
	t.Run("returns counts", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/documents/rebuild/d1", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			_, _ = w.Write([]byte(`{"ok":true,"pages":3,"chunks":42}`))
		}))
		defer srv.Close()

		client := New(srv.URL)
		res, err := client.Rebuild(context.Background(), "", "d1")
		require.NoError(t, err)
		require.NotNil(t, res.Pages)
		assert.Equal(t, 3, *res.Pages)
		require.NotNil(t, res.Chunks)
		assert.Equal(t, 42, *res.Chunks)
	})

	t.Run("tolerates n_chunks spelling", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true,"n_chunks":7}`))
		}))
		defer srv.Close()

		client := New(srv.URL)
		res, err := client.Rebuild(context.Background(), "", "d1")
		require.NoError(t, err)
		assert.Nil(t, res.Pages)
		require.NotNil(t, res.Chunks)
		assert.Equal(t, 7, *res.Chunks)
	})

	t.Run("tolerates missing counts", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		client := New(srv.URL)
		res, err := client.Rebuild(context.Background(), "", "d1")
		require.NoError(t, err)
		assert.Nil(t, res.Pages)
		assert.Nil(t, res.Chunks)
	})
}

func TestChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/d9/chunks", r.URL.Path)
		assert.Equal(t, "200", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"items":[{"id":"c1","chunk_index":0,"content":"first"},{"id":"c2","chunk_index":1,"content":"second"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	chunks, err := client.Chunks(context.Background(), "", "d9", 500)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, "second", chunks[1].Content)
}

func TestUnconfiguredBaseURL(t *testing.T) {
	client := New("")
	_, err := client.ListDocuments(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
