package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tipenter/tipenter/internal/batch"
	"github.com/tipenter/tipenter/internal/export"
)

// maxFormSize caps multipart uploads at 50MB to handle high-resolution
// phone photos.
const maxFormSize = int64(50 << 20)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	setCORSHeaders(w)
	writeJSON(w, code, map[string]string{"error": message})
}

// processResponse is the POST /api/batches payload: the completed batch plus
// intake and timing detail for the client's progress display.
type processResponse struct {
	BatchID             string                    `json:"batch_id"`
	CreatedAt           string                    `json:"created_at"`
	Simulated           bool                      `json:"simulated"`
	Results             []batch.RecognitionResult `json:"results"`
	Rejected            int                       `json:"rejected"`
	EstimatedDurationMS int64                     `json:"estimated_duration_ms"`
}

// handleProcessBatch accepts a multipart upload and runs the full pipeline.
func (s *Server) handleProcessBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "Upload is too large. Maximum size is 50MB."
		}
		writeJSONError(w, http.StatusBadRequest, errorMsg)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No files were selected. Please choose at least one receipt to process.")
		return
	}

	acc := batch.NewAccumulator()
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			slog.Warn("Skipping unopenable file", "filename", header.Filename, "error", err)
			continue
		}
		acc.Add(header.Filename, header.Header.Get("Content-Type"), f)
		f.Close()
	}
	if acc.Count() == 0 {
		writeJSONError(w, http.StatusBadRequest, "No supported files in upload. Accepted: JPEG, PNG, GIF, HEIC, HEIF, PDF.")
		return
	}

	opts := batch.ProcessOptions{
		Simulate: r.FormValue("simulate") == "true",
		Session:  s.sessionFor(r),
	}
	estimate := s.processor.Estimate(acc.Count())

	result, err := s.processor.Process(r.Context(), acc.Files(), opts)
	if err != nil {
		if errors.Is(err, batch.ErrBatchInFlight) {
			writeJSONError(w, http.StatusConflict, "A batch is already being processed. Try again when it completes.")
			return
		}
		slog.Error("Error processing batch", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Error processing batch")
		return
	}

	writeJSON(w, http.StatusCreated, processResponse{
		BatchID:             result.ID,
		CreatedAt:           result.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Simulated:           result.Simulated,
		Results:             result.Results,
		Rejected:            acc.Rejected(),
		EstimatedDurationMS: estimate.Milliseconds(),
	})
}

// sessionFor builds the uploader session from the authenticated user, when
// auth is configured. No auth configured means no session: bulk persistence
// still runs, the direct sink is skipped.
func (s *Server) sessionFor(r *http.Request) *batch.Session {
	user, ok := s.authenticate(r)
	if !ok || user == "" {
		return nil
	}
	return &batch.Session{
		UserID:  user,
		VenueID: r.FormValue("venue_id"),
	}
}

// handleListBatches returns the batch history, newest first.
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.store.ListBatches()
	if err != nil {
		slog.Error("Error listing batches", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Strip payloads from the listing; they are large and served per file.
	summaries := make([]map[string]any, 0, len(batches))
	for _, b := range batches {
		summaries = append(summaries, map[string]any{
			"id":         b.ID,
			"created_at": b.CreatedAt,
			"simulated":  b.Simulated,
			"file_count": len(b.Files),
			"results":    b.Results,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleGetBatch returns a single batch
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleGetBatchFile serves the stored image for one file of a batch.
func (s *Server) handleGetBatchFile(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}
	index, ok := indexFromPath(w, r, len(b.Files))
	if !ok {
		return
	}

	file := b.Files[index]
	data, err := file.Bytes()
	if err != nil {
		slog.Error("Error decoding stored file", "batch_id", b.ID, "filename", file.Name, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Write(data)
}

// handleExportBatch maps a batch's results to POS import rows.
func (s *Server) handleExportBatch(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}

	system := r.URL.Query().Get("system")
	rows, err := export.Export(b.Results, system)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"system": system,
		"rows":   rows,
	})
}

// handlePrintBatchFile formats one result as a print job and sends it to
// the configured printer.
func (s *Server) handlePrintBatchFile(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}
	index, ok := indexFromPath(w, r, len(b.Results))
	if !ok {
		return
	}

	job := export.FormatJob(b.Results[index])
	outcome, err := s.printer.Print(r.Context(), job)
	if err != nil {
		slog.Error("Error printing receipt", "batch_id", b.ID, "index", index, "error", err)
		outcome = export.PrintOutcome{Success: false, Message: err.Error()}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"job":     job,
		"outcome": outcome,
	})
}

func (s *Server) batchFromPath(w http.ResponseWriter, r *http.Request) (*batch.Batch, bool) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Batch ID required", http.StatusBadRequest)
		return nil, false
	}
	b, err := s.store.GetBatch(id)
	if err != nil {
		corsError(w, "Batch not found", http.StatusNotFound)
		return nil, false
	}
	return b, true
}

func indexFromPath(w http.ResponseWriter, r *http.Request, length int) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 || index >= length {
		corsError(w, "File index out of range", http.StatusNotFound)
		return 0, false
	}
	return index, true
}
