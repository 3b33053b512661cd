package invoice

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmoreas/benefits-portal/internal/auth"
	"github.com/rmoreas/benefits-portal/internal/transport"
	"github.com/rmoreas/benefits-portal/pkg/logger"

	"github.com/go-chi/chi"
)

// maxMultipartMemory bounds how much of the form is buffered in memory;
// larger parts spill to temp files.
const maxMultipartMemory = 32 << 20

type ServiceAPI interface {
	AttachAll(ctx context.Context, requestID, userID int64, viewerPermissions []string, files []File) (*UploadReport, error)
	ListByRequest(ctx context.Context, requestID, viewerID int64, viewerPermissions []string) ([]*Invoice, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// UploadInvoices accepts a multipart form with one or more "files" parts and
// attaches them to the request.
func (h *Handler) UploadInvoices(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UploadInvoices: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("UploadInvoices: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Error("UploadInvoices: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	formFiles := r.MultipartForm.File["files"]
	if len(formFiles) == 0 {
		h.WriteError(w, http.StatusBadRequest, "no files provided")
		return
	}

	files := make([]File, 0, len(formFiles))
	for _, fh := range formFiles {
		f, err := fh.Open()
		if err != nil {
			h.Logger.Error("UploadInvoices: failed to open form file", "error", err, "file_name", fh.Filename)
			h.WriteError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		content, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
		f.Close()
		if err != nil {
			h.Logger.Error("UploadInvoices: failed to read form file", "error", err, "file_name", fh.Filename)
			h.WriteError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		files = append(files, File{
			Name:     fh.Filename,
			Size:     fh.Size,
			MimeType: fh.Header.Get("Content-Type"),
			Content:  content,
		})
	}

	report, err := h.Service.AttachAll(r.Context(), requestID, user.ID, user.Permissions, files)
	if err != nil {
		h.Logger.Error("UploadInvoices: service error", "error", err, "request_id", requestID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UploadInvoices: batch processed",
		"request_id", requestID,
		"user_id", user.ID,
		"uploaded", len(report.Uploaded),
		"failed", len(report.Failed))

	h.WriteJSON(w, http.StatusCreated, report)
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListInvoices: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("ListInvoices: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	invoices, err := h.Service.ListByRequest(r.Context(), requestID, user.ID, user.Permissions)
	if err != nil {
		h.Logger.Error("ListInvoices: service error", "error", err, "request_id", requestID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"invoices": invoices,
	})
}
