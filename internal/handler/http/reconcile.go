package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
)

// uploadFields maps multipart field names to artifact kinds. "file" leaves
// the kind to the extension.
var uploadFields = []struct {
	field string
	kind  punch.ArtifactKind
}{
	{"clock", punch.KindFlatFile},
	{"report", punch.KindTableReport},
	{"timesheet", punch.KindTimesheet},
	{"file", ""},
}

type ReconcileHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reconcileHandlerImpl struct {
	reconcileService ledger.ReconcileService
	reportService    ledger.ReportService
	maxUploadBytes   int64
}

func NewReconcileHandler(reconcileService ledger.ReconcileService, reportService ledger.ReportService, maxUploadMB int64) ReconcileHandler {
	return &reconcileHandlerImpl{
		reconcileService: reconcileService,
		reportService:    reportService,
		maxUploadBytes:   maxUploadMB << 20,
	}
}

// Create implements ReconcileHandler.
func (h *reconcileHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req ledger.ReconcileRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(w, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	// Optional JSON data from 'data' field
	if dataJSON := r.FormValue("data"); dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	for _, f := range uploadFields {
		for _, fh := range r.MultipartForm.File[f.field] {
			artifact, err := readArtifact(fh, f.kind)
			if err != nil {
				slog.Error("Failed to read uploaded file", "field", f.field, "filename", fh.Filename, "error", err)
				response.BadRequest(w, "Invalid file upload", nil)
				return
			}
			req.Artifacts = append(req.Artifacts, artifact)
		}
	}

	result, err := h.reconcileService.Reconcile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		h.writeWorkbook(w, result)
		return
	}

	response.Created(w, "Reconciliation completed", result.ToResponse())
}

func (h *reconcileHandlerImpl) writeWorkbook(w http.ResponseWriter, l ledger.Ledger) {
	data, err := h.reportService.LedgerWorkbook(l)
	if err != nil {
		slog.Error("Failed to render ledger workbook", "run_id", l.RunID, "error", err)
		response.InternalServerError(w, "Failed to render ledger workbook")
		return
	}

	response.File(w, http.StatusCreated, xlsxContentType, "ledger-"+l.RunID+".xlsx", data)
}

func readArtifact(fh *multipart.FileHeader, kind punch.ArtifactKind) (punch.Artifact, error) {
	file, err := fh.Open()
	if err != nil {
		return punch.Artifact{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return punch.Artifact{}, err
	}

	return punch.Artifact{Name: fh.Filename, Kind: kind, Data: data}, nil
}
