package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// DocumentServiceName is the fully-qualified name of the DocumentService.
const DocumentServiceName = "kanzlei.v1.DocumentService"

// DocumentService procedures.
const (
	DocumentServiceListDocumentsProcedure  = "/kanzlei.v1.DocumentService/ListDocuments"
	DocumentServiceGetDocumentProcedure    = "/kanzlei.v1.DocumentService/GetDocument"
	DocumentServiceCreateDocumentProcedure = "/kanzlei.v1.DocumentService/CreateDocument"
	DocumentServiceUpdateDocumentProcedure = "/kanzlei.v1.DocumentService/UpdateDocument"
	DocumentServiceDeleteDocumentProcedure = "/kanzlei.v1.DocumentService/DeleteDocument"
)

// DocumentServiceHandler is implemented by the server.
type DocumentServiceHandler interface {
	ListDocuments(context.Context, *connect.Request[ListRequest]) (*connect.Response[ListDocumentsResponse], error)
	GetDocument(context.Context, *connect.Request[IDRequest]) (*connect.Response[DocumentResponse], error)
	CreateDocument(context.Context, *connect.Request[DocumentRequest]) (*connect.Response[DocumentResponse], error)
	UpdateDocument(context.Context, *connect.Request[DocumentRequest]) (*connect.Response[DocumentResponse], error)
	DeleteDocument(context.Context, *connect.Request[IDRequest]) (*connect.Response[Empty], error)
}

// NewDocumentServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewDocumentServiceHandler(svc DocumentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return serviceHandler(DocumentServiceName, map[string]*connect.Handler{
		DocumentServiceListDocumentsProcedure:  unaryHandler(DocumentServiceListDocumentsProcedure, svc.ListDocuments, opts),
		DocumentServiceGetDocumentProcedure:    unaryHandler(DocumentServiceGetDocumentProcedure, svc.GetDocument, opts),
		DocumentServiceCreateDocumentProcedure: unaryHandler(DocumentServiceCreateDocumentProcedure, svc.CreateDocument, opts),
		DocumentServiceUpdateDocumentProcedure: unaryHandler(DocumentServiceUpdateDocumentProcedure, svc.UpdateDocument, opts),
		DocumentServiceDeleteDocumentProcedure: unaryHandler(DocumentServiceDeleteDocumentProcedure, svc.DeleteDocument, opts),
	})
}

// DocumentServiceClient is a client for the DocumentService.
type DocumentServiceClient struct {
	listDocuments  *connect.Client[ListRequest, ListDocumentsResponse]
	getDocument    *connect.Client[IDRequest, DocumentResponse]
	createDocument *connect.Client[DocumentRequest, DocumentResponse]
	updateDocument *connect.Client[DocumentRequest, DocumentResponse]
	deleteDocument *connect.Client[IDRequest, Empty]
}

// NewDocumentServiceClient constructs a client for the DocumentService at baseURL.
func NewDocumentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DocumentServiceClient {
	return &DocumentServiceClient{
		listDocuments:  unaryClient[ListRequest, ListDocumentsResponse](httpClient, baseURL, DocumentServiceListDocumentsProcedure, opts),
		getDocument:    unaryClient[IDRequest, DocumentResponse](httpClient, baseURL, DocumentServiceGetDocumentProcedure, opts),
		createDocument: unaryClient[DocumentRequest, DocumentResponse](httpClient, baseURL, DocumentServiceCreateDocumentProcedure, opts),
		updateDocument: unaryClient[DocumentRequest, DocumentResponse](httpClient, baseURL, DocumentServiceUpdateDocumentProcedure, opts),
		deleteDocument: unaryClient[IDRequest, Empty](httpClient, baseURL, DocumentServiceDeleteDocumentProcedure, opts),
	}
}

// ListDocuments calls kanzlei.v1.DocumentService.ListDocuments.
func (c *DocumentServiceClient) ListDocuments(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListDocumentsResponse], error) {
	return c.listDocuments.CallUnary(ctx, req)
}

// GetDocument calls kanzlei.v1.DocumentService.GetDocument.
func (c *DocumentServiceClient) GetDocument(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[DocumentResponse], error) {
	return c.getDocument.CallUnary(ctx, req)
}

// CreateDocument calls kanzlei.v1.DocumentService.CreateDocument.
func (c *DocumentServiceClient) CreateDocument(ctx context.Context, req *connect.Request[DocumentRequest]) (*connect.Response[DocumentResponse], error) {
	return c.createDocument.CallUnary(ctx, req)
}

// UpdateDocument calls kanzlei.v1.DocumentService.UpdateDocument.
func (c *DocumentServiceClient) UpdateDocument(ctx context.Context, req *connect.Request[DocumentRequest]) (*connect.Response[DocumentResponse], error) {
	return c.updateDocument.CallUnary(ctx, req)
}

// DeleteDocument calls kanzlei.v1.DocumentService.DeleteDocument.
func (c *DocumentServiceClient) DeleteDocument(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	return c.deleteDocument.CallUnary(ctx, req)
}
