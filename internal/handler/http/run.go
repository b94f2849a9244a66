package http

import (
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/archive"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type RunHandler interface {
	ListArtifacts(w http.ResponseWriter, r *http.Request)
	DownloadArtifact(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type runHandlerImpl struct {
	fileService file.FileService
}

func NewRunHandler(fileService file.FileService) RunHandler {
	return &runHandlerImpl{fileService: fileService}
}

// ListArtifacts implements RunHandler.
func (h *runHandlerImpl) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	objects, err := h.fileService.ListRun(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := archive.ListArtifactResponse{
		RunID:      runID,
		TotalCount: int64(len(objects)),
		Artifacts:  make([]archive.ArtifactResponse, 0, len(objects)),
	}
	for _, o := range objects {
		resp.Artifacts = append(resp.Artifacts, archive.ArtifactResponse{
			Name:       path.Base(o.Path),
			Size:       o.Size,
			ModifiedAt: o.ModTime,
		})
	}

	response.SuccessWithMeta(w, resp, &response.Meta{TotalItems: resp.TotalCount})
}

// DownloadArtifact implements RunHandler.
func (h *runHandlerImpl) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	name := chi.URLParam(r, "name")

	rc, err := h.fileService.OpenArtifact(r.Context(), runID, name)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		slog.Error("Failed to read archived artifact", "run_id", runID, "name", name, "error", err)
		response.InternalServerError(w, "Failed to read archived artifact")
		return
	}

	response.File(w, http.StatusOK, file.ContentType(name), name, data)
}

// Delete implements RunHandler.
func (h *runHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	deleted, err := h.fileService.DeleteRun(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Archived run deleted", "run_id", runID, "files", deleted)
	response.Success(w, archive.DeleteRunResponse{RunID: runID, Deleted: deleted})
}
