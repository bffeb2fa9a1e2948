package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(serverURL string) *Client {
	c := NewClient("test-token", "example", "scintillation-data", time.Second, testLogger())
	c.baseURL = serverURL
	return c
}

func decodePut(t *testing.T, r *http.Request) putRequest {
	t.Helper()
	var body putRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestClientUploadFile(t *testing.T) {
	t.Run("creates a new file when the remote is absent", func(t *testing.T) {
		var put putRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/example/scintillation-data/contents/data.csv", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				put = decodePut(t, r)
				w.WriteHeader(http.StatusCreated)
			default:
				t.Errorf("unexpected method %s", r.Method)
			}
		}))
		defer srv.Close()
		client := newTestClient(srv.URL)

		err := client.UploadFile(context.Background(), "data.csv", []byte("hello"), "first upload")

		require.NoError(t, err)
		assert.Equal(t, "first upload", put.Message)
		assert.Empty(t, put.SHA, "creates must not carry a sha")
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), put.Content)
		assert.Equal(t, "s4c data processor", put.Committer.Name)
	})

	t.Run("updates carry the existing blob sha", func(t *testing.T) {
		var put putRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				json.NewEncoder(w).Encode(contentResponse{SHA: "abc123"})
			case http.MethodPut:
				put = decodePut(t, r)
				w.WriteHeader(http.StatusOK)
			}
		}))
		defer srv.Close()
		client := newTestClient(srv.URL)

		err := client.UploadFile(context.Background(), "data.csv", []byte("updated"), "refresh")

		require.NoError(t, err)
		assert.Equal(t, "abc123", put.SHA)
	})

	t.Run("API errors surface status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"message":"Invalid request"}`))
			}
		}))
		defer srv.Close()
		client := newTestClient(srv.URL)

		err := client.UploadFile(context.Background(), "data.csv", []byte("x"), "bad")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 422")
		assert.Contains(t, err.Error(), "Invalid request")
	})

	t.Run("SHA lookup failure aborts the upload", func(t *testing.T) {
		puts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusInternalServerError)
			case http.MethodPut:
				puts++
			}
		}))
		defer srv.Close()
		client := newTestClient(srv.URL)

		err := client.UploadFile(context.Background(), "data.csv", []byte("x"), "msg")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "check remote file")
		assert.Zero(t, puts)
	})
}
