package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/store"
)

// analyzeResponse mirrors the upload endpoint's historical response shape.
type analyzeResponse struct {
	Message          string          `json:"message"`
	AnalysisComplete bool            `json:"analysis_complete"`
	Envelope         domain.Envelope `json:"transformed_data_result"`
}

// handleAnalyze accepts the three matrix CSVs as multipart form files
// (lat_file, lon_file, s4c_file), runs the pipeline, and stores the result
// for the query endpoints.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse multipart form: %v", err))
		return
	}

	lat, err := formFile(r, "lat_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer lat.Close()

	lon, err := formFile(r, "lon_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer lon.Close()

	s4c, err := formFile(r, "s4c_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer s4c.Close()

	batch, err := domain.LoadBatch(lat, lon, s4c)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("load matrices: %v", err))
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), batch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("analyze batch: %v", err))
		return
	}

	if err := s.results.Save(r.Context(), res); err != nil {
		s.logger.Error("save analysis result", "error", err)
		writeError(w, http.StatusInternalServerError, "store analysis result")
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Message:          "Files processed successfully. Results are now available via GET endpoints.",
		AnalysisComplete: true,
		Envelope:         res.Envelope,
	})
}

// resultHandler serves one projection of the latest stored result.
func (s *Server) resultHandler(project func(res *pipeline.Result) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.results.Latest(r.Context())
		if errors.Is(err, store.ErrNoResult) {
			writeError(w, http.StatusNotFound, "No data found. Please run the analysis first by POSTing to /analyze/.")
			return
		}
		if err != nil {
			s.logger.Error("load analysis result", "error", err)
			writeError(w, http.StatusInternalServerError, "load analysis result")
			return
		}
		writeJSON(w, http.StatusOK, project(res))
	}
}

func formFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing form file %q", field)
	}
	return f, nil
}
