package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cleansight/cleansight/internal/storage"
	enginerrors "github.com/cleansight/cleansight/pkg/errors"
	"github.com/cleansight/cleansight/pkg/models"
)

type datasetRequest struct {
	Dataset *models.Dataset `json:"dataset"`
}

type cleanRequest struct {
	Dataset    *models.Dataset            `json:"dataset"`
	Operations []models.ApprovedOperation `json:"operations"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req datasetRequest
	if !s.decode(w, r, &req) {
		return
	}

	report, err := s.engine.Analyze(r.Context(), req.Dataset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	analysesTotal.Inc()

	if s.store != nil {
		if err := s.store.SaveReport(r.Context(), report); err != nil {
			s.logger.WithError(err).Warn("Failed to persist analysis report")
		}
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req datasetRequest
	if !s.decode(w, r, &req) {
		return
	}

	profiles, err := s.engine.Profile(r.Context(), req.Dataset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req datasetRequest
	if !s.decode(w, r, &req) {
		return
	}

	score, err := s.engine.Score(r.Context(), req.Dataset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	var req cleanRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.engine.Clean(r.Context(), req.Dataset, req.Operations)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cleaningOperationsTotal.Add(float64(result.Summary.Operations))

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorBody{Code: "NO_STORE", Message: "report storage is not configured"},
		})
		return
	}

	id := mux.Vars(r)["id"]
	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// decode reads a bounded JSON body into dst. Returns false after writing an
// error response.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: errorBody{Code: "BAD_JSON", Message: "request body is not valid JSON"},
		})
		return false
	}
	return true
}

// writeError maps engine error categories onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"

	var engineErr *enginerrors.EngineError
	switch {
	case errors.Is(err, storage.ErrReportNotFound):
		status, code = http.StatusNotFound, "REPORT_NOT_FOUND"
	case errors.As(err, &engineErr):
		code = engineErr.Code
		switch engineErr.Type {
		case enginerrors.ErrorTypeInput:
			status = http.StatusBadRequest
		case enginerrors.ErrorTypeOperation:
			status = http.StatusUnprocessableEntity
		case enginerrors.ErrorTypeBudget:
			status = http.StatusRequestTimeout
		}
	}

	s.writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}
