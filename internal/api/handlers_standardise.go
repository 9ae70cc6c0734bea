package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ethnicityfacts/adapters/tabular"
	"ethnicityfacts/app"
	apperrors "ethnicityfacts/internal/errors"
)

type standardiseResponse struct {
	*app.StandardiseResult
	Rows [][]string `json:"rows"`
}

func (s *Server) handleListLookups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"lookups": s.standardise.Lookups()})
}

// handleStandardise accepts a multipart upload in the "file" field and
// returns the standardised dataset, or a JSON summary when asked for one.
func (s *Server) handleStandardise(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, apperrors.InvalidInput("expected a multipart upload: "+err.Error()))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.InvalidInput("missing file field"))
		return
	}
	defer file.Close()

	q := r.URL.Query()
	req := app.StandardiseRequest{
		Lookup:          q.Get("lookup"),
		Filename:        header.Filename,
		EthnicityColumn: q.Get("ethnicity_column"),
		TypeColumn:      q.Get("ethnicity_type_column"),
		Body:            file,
	}
	if f := q.Get("format"); f != "" {
		format, err := tabular.ParseFormat(f)
		if err != nil {
			writeError(w, err)
			return
		}
		req.OutputFormat = format
	}

	result, err := s.standardise.Standardise(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, http.StatusOK, standardiseResponse{StandardiseResult: result, Rows: result.Rows})
		return
	}

	h := w.Header()
	h.Set("Content-Type", result.OutputFormat.ContentType())
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, app.OutputName(header.Filename, result.OutputFormat)))
	h.Set("X-Standardise-Id", result.ID.String())
	h.Set("X-Standardise-Lookup", result.Lookup)
	h.Set("X-Standardise-Source-Hash", result.SourceHash.String())
	h.Set("X-Standardise-Applied", strconv.FormatBool(result.Report.Applied))
	h.Set("X-Standardise-Processed", strconv.Itoa(result.Report.Processed))
	h.Set("X-Standardise-Matched", strconv.Itoa(result.Report.Matched))
	h.Set("X-Standardise-Fallback-Matched", strconv.Itoa(result.Report.FallbackMatched))
	h.Set("X-Standardise-Unmatched", strconv.Itoa(result.Report.Unmatched))
	h.Set("X-Standardise-Skipped", strconv.Itoa(result.Report.Skipped))
	if result.OutputKey != "" {
		h.Set("X-Standardise-Output-Key", result.OutputKey)
	}
	w.WriteHeader(http.StatusOK)

	if err := tabular.WriteRows(w, result.Rows, result.OutputFormat); err != nil {
		s.logger.Error("failed to write standardised dataset: %v", err)
	}
}

// handleDownloadStored serves a kept source or output. S3 backed deployments
// redirect to a presigned link instead of proxying the bytes.
func (s *Server) handleDownloadStored(w http.ResponseWriter, r *http.Request) {
	file, err := s.standardise.OpenStored(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, err)
		return
	}
	if file.URL != "" {
		http.Redirect(w, r, file.URL, http.StatusFound)
		return
	}
	defer file.Body.Close()

	h := w.Header()
	h.Set("Content-Type", file.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.Key))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, file.Body); err != nil {
		s.logger.Error("failed to send %s: %v", file.Key, err)
	}
}

func (s *Server) handleDeleteStored(w http.ResponseWriter, r *http.Request) {
	if err := s.standardise.DeleteStored(r.Context(), chi.URLParam(r, "*")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
