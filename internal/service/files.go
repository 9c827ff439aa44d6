package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/kanzlei/internal/filestore"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/pkg/api"
)

// Multipart fields carrying uploaded files.
const (
	FileFormField       = "file"
	WorkOrderFilesField = "documents"
)

// Upload limits besides the request body limit.
const (
	MaxWorkOrderFiles = 20
	maxFieldBytes     = 64 << 10
)

// PresignTTL is how long presigned download URLs stay valid.
const PresignTTL = 5 * time.Minute

// Accepted uploads: PDF and Word files, recognised by extension or by a
// declared content type.
var (
	allowedExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

	allowedContentTypes = map[string]bool{
		"application/pdf":         true,
		"application/msword":      true,
		"application/x-msword":    true,
		"application/vnd.ms-word": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	}
)

// FileHandler serves the multipart upload and download endpoints.
type FileHandler struct {
	store    storage.Store
	files    filestore.Store
	orders   *WorkOrderService
	maxBytes int64
}

// NewFileHandler creates a FileHandler. Request bodies above maxBytes are rejected.
func NewFileHandler(store storage.Store, files filestore.Store, maxBytes int64) *FileHandler {
	return &FileHandler{
		store:    store,
		files:    files,
		orders:   NewWorkOrderService(store, files),
		maxBytes: maxBytes,
	}
}

// Register mounts the file endpoints on mux, each wrapped with wrap.
func (h *FileHandler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"POST /api/documents/upload":                       h.uploadDocument,
		"GET /api/documents/{id}/file":                     h.downloadDocument,
		"POST /api/templates/{id}/file":                    h.uploadTemplateFile,
		"GET /api/templates/{id}/file":                     h.downloadTemplateFile,
		"POST /api/work-orders/with-documents":             h.createWorkOrderWithDocuments,
		"POST /api/work-orders/{id}/documents":             h.uploadWorkOrderDocument,
		"GET /api/work-orders/{id}/documents/{docId}/file": h.downloadWorkOrderDocument,
	}
	for pattern, fn := range routes {
		mux.Handle(pattern, wrap(fn))
	}
}

// storedFile is an uploaded file that has been written to the file store.
type storedFile struct {
	name string
	key  string
}

// upload is a multipart request whose files are already in the file store.
type upload struct {
	fields map[string]string
	files  []storedFile
}

// form returns the first value of a text field, or "".
func (u *upload) form(name string) string {
	return u.fields[name]
}

func (u *upload) keys() []string {
	keys := make([]string, len(u.files))
	for i, f := range u.files {
		keys[i] = f.key
	}
	return keys
}

// receive reads a multipart body part by part. Files in field are streamed
// into the store under prefix as they arrive; files in other fields are
// skipped. On error nothing is left in the store. Otherwise the caller
// removes the objects again if the records cannot be saved.
func (h *FileHandler) receive(w http.ResponseWriter, r *http.Request, prefix, field string, maxFiles int) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, badUpload(err)
	}

	up := &upload{fields: make(map[string]string)}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return up, nil
		}
		if err != nil {
			h.discard(r.Context(), up.keys()...)
			return nil, badUpload(err)
		}
		err = h.receivePart(r.Context(), up, part, prefix, field, maxFiles)
		part.Close()
		if err != nil {
			h.discard(r.Context(), up.keys()...)
			return nil, err
		}
	}
}

func (h *FileHandler) receivePart(ctx context.Context, up *upload, part *multipart.Part, prefix, field string, maxFiles int) error {
	name := part.FormName()
	if part.FileName() == "" {
		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
		if err != nil {
			return badUpload(err)
		}
		if len(value) > maxFieldBytes {
			return fmt.Errorf("%w: field %q is too long", errBadUpload, name)
		}
		if _, seen := up.fields[name]; !seen {
			up.fields[name] = string(value)
		}
		return nil
	}
	if name != field {
		return nil
	}
	if len(up.files) == maxFiles {
		return fmt.Errorf("%w: at most %d files per request", errBadUpload, maxFiles)
	}

	fileName := filestore.BaseName(part.FileName())
	if fileName == "" {
		return fmt.Errorf("%w: missing file name", errBadUpload)
	}
	contentType := part.Header.Get("Content-Type")
	if !allowedFile(fileName, contentType) {
		return fmt.Errorf("%w: %s: only PDF and Word files are accepted", errBadUpload, fileName)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeOf(fileName)
	}

	key := filestore.NewKey(prefix, fileName)
	body := &partReader{r: part}
	if err := h.files.Put(ctx, key, body, contentType); err != nil {
		if body.err != nil {
			return badUpload(body.err)
		}
		return err
	}
	up.files = append(up.files, storedFile{name: fileName, key: key})
	return nil
}

// receiveFile is receive for endpoints taking exactly one file in FileFormField.
func (h *FileHandler) receiveFile(w http.ResponseWriter, r *http.Request, prefix string) (*upload, storedFile, error) {
	up, err := h.receive(w, r, prefix, FileFormField, 1)
	if err != nil {
		return nil, storedFile{}, err
	}
	if len(up.files) == 0 {
		return nil, storedFile{}, badUpload(http.ErrMissingFile)
	}
	return up, up.files[0], nil
}

// partReader remembers read errors so a broken request body can be told
// apart from a failing file store.
type partReader struct {
	r   io.Reader
	err error
}

func (p *partReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		p.err = err
	}
	return n, err
}

func allowedFile(name, contentType string) bool {
	if allowedExtensions[strings.ToLower(path.Ext(name))] {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && allowedContentTypes[strings.ToLower(mediaType)]
}

// discard removes objects no record points to. Failures are only logged.
func (h *FileHandler) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := h.files.Delete(context.WithoutCancel(ctx), key); err != nil {
			slog.Warn("Failed to remove orphaned upload", "key", key, "error", err)
		}
	}
}

// uploadDocument creates a document from an uploaded file.
// Form fields name, description, status, mandant, deadline and template are optional.
func (h *FileHandler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	up, file, err := h.receiveFile(w, r, "documents")
	if err != nil {
		writeHTTPError(w, "UploadDocument", err)
		return
	}
	doc, err := newUploadedDocument(r.Context(), up, file)
	if err != nil {
		h.discard(r.Context(), file.key)
		writeHTTPError(w, "UploadDocument", err)
		return
	}
	if err := h.store.CreateDocument(r.Context(), doc); err != nil {
		h.discard(r.Context(), file.key)
		writeHTTPError(w, "UploadDocument", err)
		return
	}

	slog.Info("Document uploaded", "document_id", doc.ID, "file", doc.FileName)
	writeJSON(w, http.StatusCreated, map[string]any{"document": doc})
}

func (h *FileHandler) uploadWorkOrderDocument(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if _, err := h.store.GetWorkOrder(r.Context(), orderID); err != nil {
		writeHTTPError(w, "UploadWorkOrderDocument", err)
		return
	}
	up, file, err := h.receiveFile(w, r, "work-orders/"+orderID)
	if err != nil {
		writeHTTPError(w, "UploadWorkOrderDocument", err)
		return
	}
	doc, err := newUploadedDocument(r.Context(), up, file)
	if err != nil {
		h.discard(r.Context(), file.key)
		writeHTTPError(w, "UploadWorkOrderDocument", err)
		return
	}
	doc.WorkOrderID = orderID
	if err := h.store.CreateDocument(r.Context(), doc); err != nil {
		h.discard(r.Context(), file.key)
		writeHTTPError(w, "UploadWorkOrderDocument", err)
		return
	}

	slog.Info("Work order document uploaded", "work_order_id", orderID, "document_id", doc.ID, "file", doc.FileName)
	writeJSON(w, http.StatusCreated, map[string]any{"document": doc})
}

func newUploadedDocument(ctx context.Context, up *upload, file storedFile) (*models.Document, error) {
	doc := &models.Document{
		Name:        strings.TrimSpace(up.form("name")),
		Description: up.form("description"),
		Status:      models.ParseDocumentStatus(up.form("status")),
		Owner:       actorName(ctx),
		ClientID:    up.form("mandant"),
		TemplateID:  up.form("template"),
		FileName:    file.name,
		FileKey:     file.key,
	}
	if doc.Name == "" {
		doc.Name = file.name
	}
	if raw := strings.TrimSpace(up.form("deadline")); raw != "" {
		deadline, ok := query.ParseTime(raw)
		if !ok {
			return nil, fmt.Errorf("%w: invalid deadline %q", errBadUpload, raw)
		}
		doc.Deadline = &deadline
	}
	return doc, nil
}

// createWorkOrderWithDocuments opens a work order and attaches every file of
// the documents field in one request. Form fields title (or name) and clientId
// are required; description, priority, advisorId, templateId and dueDate are optional.
func (h *FileHandler) createWorkOrderWithDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := uuid.New().String()
	up, err := h.receive(w, r, "work-orders/"+orderID, WorkOrderFilesField, MaxWorkOrderFiles)
	if err != nil {
		writeHTTPError(w, "CreateWorkOrderWithDocuments", err)
		return
	}
	order, docs, err := h.openWorkOrder(ctx, orderID, up)
	if err != nil {
		h.discard(ctx, up.keys()...)
		writeHTTPError(w, "CreateWorkOrderWithDocuments", err)
		return
	}

	slog.Info("Work order created with documents", "work_order_id", order.ID, "client_id", order.ClientID, "documents", len(docs))
	writeJSON(w, http.StatusCreated, map[string]any{"workOrder": order, "documents": docs})
}

// openWorkOrder stores the work order described by up's fields and one
// document per uploaded file. On error no record is left behind.
func (h *FileHandler) openWorkOrder(ctx context.Context, orderID string, up *upload) (*models.WorkOrder, []*models.Document, error) {
	msg := &api.CreateWorkOrderRequest{
		Title:       cmp.Or(up.form("title"), up.form("name")),
		Description: up.form("description"),
		ClientID:    up.form("clientId"),
		AdvisorID:   strings.TrimSpace(up.form("advisorId")),
		TemplateID:  strings.TrimSpace(up.form("templateId")),
		Priority:    models.Priority(strings.TrimSpace(up.form("priority"))),
	}
	if raw := strings.TrimSpace(up.form("dueDate")); raw != "" {
		due, ok := query.ParseTime(raw)
		if !ok {
			return nil, nil, fmt.Errorf("%w: invalid due date %q", errBadUpload, raw)
		}
		msg.DueDate = &due
	}

	order, err := h.orders.newWorkOrder(ctx, msg)
	if err != nil {
		return nil, nil, err
	}
	order.ID = orderID
	if err := h.store.CreateWorkOrder(ctx, order); err != nil {
		return nil, nil, err
	}

	docs := make([]*models.Document, 0, len(up.files))
	for _, file := range up.files {
		doc := &models.Document{
			Name:        file.name,
			Status:      models.StatusNotStarted,
			Owner:       actorName(ctx),
			ClientID:    order.ClientID,
			WorkOrderID: order.ID,
			FileName:    file.name,
			FileKey:     file.key,
		}
		if err := h.store.CreateDocument(ctx, doc); err != nil {
			h.removeWorkOrder(ctx, order.ID, docs)
			return nil, nil, err
		}
		docs = append(docs, doc)
	}
	return order, docs, nil
}

// removeWorkOrder deletes a half-created work order and its document records.
func (h *FileHandler) removeWorkOrder(ctx context.Context, orderID string, docs []*models.Document) {
	ctx = context.WithoutCancel(ctx)
	for _, doc := range docs {
		if err := h.store.DeleteDocument(ctx, doc.ID); err != nil {
			slog.Warn("Failed to remove document", "document_id", doc.ID, "error", err)
		}
	}
	if err := h.store.DeleteWorkOrder(ctx, orderID); err != nil {
		slog.Warn("Failed to remove work order", "work_order_id", orderID, "error", err)
	}
}

// uploadTemplateFile attaches a file to a template, replacing any previous one.
func (h *FileHandler) uploadTemplateFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tmpl, err := h.store.GetTemplate(ctx, r.PathValue("id"))
	if err != nil {
		writeHTTPError(w, "UploadTemplateFile", err)
		return
	}
	_, file, err := h.receiveFile(w, r, "templates")
	if err != nil {
		writeHTTPError(w, "UploadTemplateFile", err)
		return
	}

	previous := tmpl.FileKey
	tmpl.FileName = file.name
	tmpl.FileKey = file.key
	tmpl.History = append(tmpl.History, models.TemplateHistoryEntry{
		Date:   now(),
		User:   actorName(ctx),
		Change: models.ChangeFileUploaded,
	})
	if err := h.store.UpdateTemplate(ctx, tmpl); err != nil {
		h.discard(ctx, file.key)
		writeHTTPError(w, "UploadTemplateFile", err)
		return
	}
	if previous != "" {
		h.discard(ctx, previous)
	}

	slog.Info("Template file uploaded", "template_id", tmpl.ID, "file", tmpl.FileName)
	writeJSON(w, http.StatusOK, map[string]any{"template": tmpl})
}

func (h *FileHandler) downloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeHTTPError(w, "DownloadDocument", err)
		return
	}
	h.serveFile(w, r, doc.FileKey, doc.FileName)
}

func (h *FileHandler) downloadWorkOrderDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetDocument(r.Context(), r.PathValue("docId"))
	if err != nil {
		writeHTTPError(w, "DownloadWorkOrderDocument", err)
		return
	}
	if doc.WorkOrderID != r.PathValue("id") {
		writeHTTPError(w, "DownloadWorkOrderDocument", fmt.Errorf("document %s: %w", doc.ID, storage.ErrNotFound))
		return
	}
	h.serveFile(w, r, doc.FileKey, doc.FileName)
}

func (h *FileHandler) downloadTemplateFile(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.store.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeHTTPError(w, "DownloadTemplateFile", err)
		return
	}
	h.serveFile(w, r, tmpl.FileKey, tmpl.FileName)
}

// serveFile streams the object under key, or redirects to a presigned URL
// when the store supports it.
func (h *FileHandler) serveFile(w http.ResponseWriter, r *http.Request, key, name string) {
	if key == "" {
		writeHTTPError(w, "Download", fmt.Errorf("no file attached: %w", filestore.ErrNotFound))
		return
	}
	if p, ok := h.files.(filestore.Presigner); ok {
		url, err := p.PresignGet(r.Context(), key, PresignTTL)
		if err != nil {
			writeHTTPError(w, "Download", err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	rc, err := h.files.Open(r.Context(), key)
	if err != nil {
		writeHTTPError(w, "Download", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentTypeOf(name))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Download interrupted", "key", key, "error", err)
	}
}

func contentTypeOf(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var errBadUpload = errors.New("invalid upload")

// badUpload marks err, a failure reading the request body, as the client's fault.
func badUpload(err error) error {
	return fmt.Errorf("%w: %w", errBadUpload, err)
}

// writeHTTPError maps err to a status code and writes it as a JSON error body.
func writeHTTPError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	var maxErr *http.MaxBytesError
	var connectErr *connect.Error
	switch {
	case errors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &connectErr):
		status = httpStatus(connectErr.Code())
		err = errors.New(connectErr.Message())
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, filestore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadUpload):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err)
	} else {
		slog.Warn(op+" failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// httpStatus is the HTTP status of a service error code.
func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeFailedPrecondition:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeAlreadyExists:
		return http.StatusConflict
	case connect.CodePermissionDenied:
		return http.StatusForbidden
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
