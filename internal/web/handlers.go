package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/export"
	"github.com/JonMunkholm/sheetclean/internal/ingest"
	"github.com/JonMunkholm/sheetclean/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// upload is a parsed clean request.
type upload struct {
	FileName  string
	Threshold float64
	Table     *core.Table
}

// openUpload parses a multipart form bounded by the upload size limit and
// opens its "file" part. The caller closes the file.
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, fmt.Errorf("file too large: %w", err)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil, errors.New("no file provided")
		}
		return nil, nil, fmt.Errorf("parse form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("no file provided: %w", err)
	}
	return file, header, nil
}

// readUpload parses the multipart form of a clean request and reads the
// file into a raw table.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	file, header, err := s.openUpload(w, r)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	threshold, err := s.parseThreshold(r.FormValue("threshold"))
	if err != nil {
		return nil, err
	}

	tbl, err := ingest.Read(header.Filename, file, ingest.Options{Sheet: strings.TrimSpace(r.FormValue("sheet"))})
	if err != nil {
		return nil, err
	}
	return &upload{FileName: header.Filename, Threshold: threshold, Table: tbl}, nil
}

// parseThreshold returns the configured default for an empty value. The
// range is checked by the cleaning engine.
func (s *Server) parseThreshold(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return s.service.DefaultThreshold(), nil
	}
	th, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidThreshold, v)
	}
	return th, nil
}

func (s *Server) cleanUpload(w http.ResponseWriter, r *http.Request) (*core.Job, error) {
	up, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	return s.service.Clean(r.Context(), up.FileName, up.Table, up.Threshold)
}

// jobResponse is the API view of a job.
type jobResponse struct {
	core.JobSummary
	Artifacts map[string]string `json:"artifacts"`
}

func newJobResponse(job *core.Job) jobResponse {
	links := make(map[string]string, len(export.Artifacts))
	for _, a := range export.Artifacts {
		links[a] = downloadPath(job.ID, a)
	}
	return jobResponse{JobSummary: job.Summary(), Artifacts: links}
}

func downloadPath(jobID, artifact string) string {
	return "/api/jobs/" + jobID + "/download/" + artifact
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, r, http.StatusOK, templates.Index(templates.IndexParams{
		Threshold:   s.service.DefaultThreshold(),
		Extensions:  ingest.Extensions,
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	}))
}

// handleCleanForm cleans an uploaded file and redirects to its result page.
func (s *Server) handleCleanForm(w http.ResponseWriter, r *http.Request) {
	job, err := s.cleanUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}

// handleCleanAPI cleans an uploaded file and returns the job summary.
func (s *Server) handleCleanAPI(w http.ResponseWriter, r *http.Request) {
	job, err := s.cleanUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, newJobResponse(job))
}

// handleJobPage renders previews and download links for a job.
func (s *Server) handleJobPage(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.Job(chi.URLParam(r, "jobID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	n := s.cfg.Cleaning.PreviewRows
	res := job.Result
	renderHTML(w, r, http.StatusOK, templates.JobPage(templates.JobParams{
		Summary:     job.Summary(),
		Artifacts:   export.Artifacts,
		LoadEnabled: s.service.LoadEnabled(),
		Comparison:  res.Comparison.Head(n),
		LoadReady:   res.LoadReady.Head(n),
		Quarantine:  res.Quarantine.Head(n),
	}))
}

// handleGetJob returns a job summary.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.Job(chi.URLParam(r, "jobID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, newJobResponse(job))
}

// handleQuarantineRecords returns one record per failed cell.
func (s *Server) handleQuarantineRecords(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.Job(chi.URLParam(r, "jobID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	records := job.Result.Records
	if records == nil {
		records = []core.QuarantineRecord{}
	}
	writeJSON(w, map[string]any{"records": records})
}

// handleDownload streams one artifact of a job.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job, err := s.service.Job(chi.URLParam(r, "jobID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	artifact := chi.URLParam(r, "artifact")
	if !isArtifact(artifact) {
		s.respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownArtifact, artifact))
		return
	}

	w.Header().Set("Content-Type", export.ContentType(artifact))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(job.FileName, artifact)))
	if err := export.Write(w, artifact, job.Result); err != nil {
		// Headers are already sent.
		s.logger(r).Error("download failed", "artifact", artifact, "error", err)
	}
}

func isArtifact(name string) bool {
	for _, a := range export.Artifacts {
		if a == name {
			return true
		}
	}
	return false
}

// downloadName prefixes the artifact with the upload's base name.
func downloadName(fileName, artifact string) string {
	base := fileName
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	base = core.SanitizeColumnName(base)
	return base + "-" + artifact
}

// handleLoadForm loads a job into the database from the result page.
func (s *Server) handleLoadForm(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	res, err := s.service.LoadJob(r.Context(), jobID, r.FormValue("table"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	renderHTML(w, r, http.StatusOK, templates.LoadDone(jobID, *res))
}

type loadRequest struct {
	Table string `json:"table"`
}

// handleLoadAPI loads a job into the database.
func (s *Server) handleLoadAPI(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.service.LoadJob(r.Context(), chi.URLParam(r, "jobID"), req.Table)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res)
}

type sanitizedLabel struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// handleSanitize previews sanitized names for one or more label parameters.
func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	labels := r.URL.Query()["label"]
	out := make([]sanitizedLabel, len(labels))
	for i, l := range labels {
		out[i] = sanitizedLabel{Label: l, Name: core.SanitizeColumnName(l)}
	}
	writeJSON(w, map[string]any{"names": out})
}

type sheetsResponse struct {
	FileName string   `json:"file_name"`
	Sheets   []string `json:"sheets"`
}

// handleSheets lists the sheets of an uploaded workbook so a client can
// choose one before cleaning.
func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.openUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	sheets, err := ingest.Sheets(header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if sheets == nil {
		sheets = []string{}
	}
	writeJSON(w, sheetsResponse{FileName: header.Filename, Sheets: sheets})
}

type statusResponse struct {
	Jobs             int                   `json:"jobs"`
	Limiter          core.JobLimiterStatus `json:"limiter"`
	LoadEnabled      bool                  `json:"load_enabled"`
	DefaultThreshold float64               `json:"default_threshold"`
}

// handleStatus reports job and slot counts.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statusResponse{
		Jobs:             s.service.JobCount(),
		Limiter:          s.service.LimiterStatus(),
		LoadEnabled:      s.service.LoadEnabled(),
		DefaultThreshold: s.service.DefaultThreshold(),
	})
}

// handleHealth reports liveness and, when configured, database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.Ping(ctx); err != nil {
		s.logger(r).Warn("health check failed", "error", err)
		writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
