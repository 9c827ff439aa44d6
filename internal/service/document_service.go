package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/filestore"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/pkg/api"
)

// DocumentService implements the Connect DocumentService.
type DocumentService struct {
	store storage.Store
	files filestore.Store
}

var _ api.DocumentServiceHandler = (*DocumentService)(nil)

// NewDocumentService creates a new DocumentService with the given storage backends.
func NewDocumentService(store storage.Store, files filestore.Store) *DocumentService {
	return &DocumentService{store: store, files: files}
}

// ListDocuments returns one page of documents after search, filters and sort.
func (s *DocumentService) ListDocuments(ctx context.Context, req *connect.Request[api.ListRequest]) (*connect.Response[api.ListDocumentsResponse], error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, failed("ListDocuments", err)
	}

	result := query.Run(docs, query.Documents, *req.Msg)
	slog.Debug("ListDocuments", "total", result.Total, "page", result.Page)
	return connect.NewResponse(&result), nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentService) GetDocument(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.DocumentResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	doc, err := s.store.GetDocument(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("GetDocument", err, "document_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.DocumentResponse{Document: doc}), nil
}

// CreateDocument stores a new document without a file.
// The owner defaults to the caller; files are attached through the upload endpoint.
func (s *DocumentService) CreateDocument(ctx context.Context, req *connect.Request[api.DocumentRequest]) (*connect.Response[api.DocumentResponse], error) {
	in := req.Msg.Document
	if in == nil || strings.TrimSpace(in.Name) == "" {
		return nil, invalidArgument("document name is required")
	}

	doc := &models.Document{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      models.ParseDocumentStatus(string(in.Status)),
		Owner:       strings.TrimSpace(in.Owner),
		ClientID:    in.ClientID,
		Deadline:    in.Deadline,
		TemplateID:  in.TemplateID,
		WorkOrderID: in.WorkOrderID,
	}
	if doc.Owner == "" {
		doc.Owner = actorName(ctx)
	}

	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, failed("CreateDocument", err)
	}

	slog.Info("Document created", "document_id", doc.ID, "name", doc.Name)
	return connect.NewResponse(&api.DocumentResponse{Document: doc}), nil
}

// UpdateDocument replaces the editable fields of a document. File fields are kept.
func (s *DocumentService) UpdateDocument(ctx context.Context, req *connect.Request[api.DocumentRequest]) (*connect.Response[api.DocumentResponse], error) {
	in := req.Msg.Document
	if in == nil {
		return nil, invalidArgument("document is required")
	}
	if err := requireID(in.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidArgument("document name is required")
	}

	doc, err := s.store.GetDocument(ctx, in.ID)
	if err != nil {
		return nil, failed("UpdateDocument", err, "document_id", in.ID)
	}

	doc.Name = strings.TrimSpace(in.Name)
	doc.Description = in.Description
	doc.Status = models.ParseDocumentStatus(string(in.Status))
	doc.Owner = strings.TrimSpace(in.Owner)
	doc.ClientID = in.ClientID
	doc.Deadline = in.Deadline
	doc.TemplateID = in.TemplateID
	doc.WorkOrderID = in.WorkOrderID

	if err := s.store.UpdateDocument(ctx, doc); err != nil {
		return nil, failed("UpdateDocument", err, "document_id", in.ID)
	}

	slog.Info("Document updated", "document_id", doc.ID, "status", doc.Status)
	return connect.NewResponse(&api.DocumentResponse{Document: doc}), nil
}

// DeleteDocument removes a document and its file.
func (s *DocumentService) DeleteDocument(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	doc, err := s.store.GetDocument(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("DeleteDocument", err, "document_id", req.Msg.ID)
	}
	if err := deleteDocument(ctx, s.store, s.files, doc); err != nil {
		return nil, failed("DeleteDocument", err, "document_id", req.Msg.ID)
	}

	slog.Info("Document deleted", "document_id", doc.ID)
	return connect.NewResponse(&api.Empty{}), nil
}

// deleteDocument removes the record first, then its file. A file that cannot be
// removed is logged and left behind.
func deleteDocument(ctx context.Context, store storage.DocumentStore, files filestore.Store, doc *models.Document) error {
	if err := store.DeleteDocument(ctx, doc.ID); err != nil {
		return err
	}
	if doc.FileKey != "" {
		if err := files.Delete(ctx, doc.FileKey); err != nil {
			slog.Warn("Failed to delete document file", "document_id", doc.ID, "key", doc.FileKey, "error", err)
		}
	}
	return nil
}
