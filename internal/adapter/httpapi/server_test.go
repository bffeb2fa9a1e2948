package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/observability"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/store"
)

const (
	latCSV = ",G01,G02\n2024-04-26 15:00:00,13.7,14.2\n2024-04-26 15:00:15,13.8,14.3\n"
	lonCSV = ",G01,G02\n2024-04-26 15:00:00,100.5,100.9\n2024-04-26 15:00:15,100.6,101.0\n"
	s4cCSV = ",G01,G02\n2024-04-26 15:00:00,0.1,0.2\n2024-04-26 15:00:15,0.3,0.45\n"
)

type staticReadiness struct {
	err error
}

func (s staticReadiness) CheckReadiness(context.Context) error { return s.err }

func newTestServer(t *testing.T, ready ReadinessChecker) (*Server, *store.Memory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := pipeline.NewAnalyzer(logger, observability.NewMetricsForTesting())
	results := store.NewMemory()
	return NewServer(":0", analyzer, results, ready, logger), results
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func postAnalyze(t *testing.T, srv *Server, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/analyze/", body)
	req.Header.Set("Content-Type", contentType)
	return doRequest(srv, req)
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz is always healthy", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("nil readiness checker means always ready", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reflects the checker", func(t *testing.T) {
		srv, _ := newTestServer(t, staticReadiness{err: errors.New("no cycle yet")})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no cycle yet")
	})

	t.Run("metrics endpoint serves prometheus text", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
}

func TestQueryEndpointsBeforeAnalysis(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	paths := []string{
		"/data/combined",
		"/data/transformed",
		"/data/transformed-response",
		"/stats/satellite",
		"/stats/temporal",
		"/analysis/summary",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(srv, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "No data found")
		})
	}
}

func TestHandleAnalyze(t *testing.T) {
	t.Run("runs the pipeline and stores the result", func(t *testing.T) {
		srv, results := newTestServer(t, nil)

		rec := postAnalyze(t, srv, map[string]string{
			"lat_file": latCSV,
			"lon_file": lonCSV,
			"s4c_file": s4cCSV,
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp analyzeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.AnalysisComplete)
		assert.Equal(t, 4, resp.Envelope.Metadata.TotalRecords)
		assert.Equal(t, "100.00%", resp.Envelope.DataCoverage)

		stored, err := results.Latest(context.Background())
		require.NoError(t, err)
		assert.Len(t, stored.Normalized, 4)
	})

	t.Run("missing form file is a bad request", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		rec := postAnalyze(t, srv, map[string]string{
			"lat_file": latCSV,
			"lon_file": lonCSV,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "s4c_file")
	})

	t.Run("malformed matrix is unprocessable", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		rec := postAnalyze(t, srv, map[string]string{
			"lat_file": ",G01\nnot a timestamp,13.7\n",
			"lon_file": lonCSV,
			"s4c_file": s4cCSV,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "load matrices")
	})
}

func TestQueryEndpointsAfterAnalysis(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := postAnalyze(t, srv, map[string]string{
		"lat_file": latCSV,
		"lon_file": lonCSV,
		"s4c_file": s4cCSV,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("transformed records", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/data/transformed", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var records []domain.NormalizedRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		require.Len(t, records, 4)
		assert.Equal(t, "G01", records[0].Satellite)
		assert.Equal(t, "2024-04-26 15:00:00", records[0].Time)
	})

	t.Run("satellite stats", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/stats/satellite", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var stats []domain.SatelliteStat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		require.Len(t, stats, 2)
		assert.Equal(t, "G01", stats[0].Satellite)
		assert.Equal(t, 2, stats[0].Count)
	})

	t.Run("summary", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/analysis/summary", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var summary domain.ProcessingSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, "completed", summary.Status)
		assert.Equal(t, 4, summary.DataOverview.TotalRecords)
	})
}
