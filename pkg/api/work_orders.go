package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// WorkOrderServiceName is the fully-qualified name of the WorkOrderService.
const WorkOrderServiceName = "kanzlei.v1.WorkOrderService"

// WorkOrderService procedures.
const (
	WorkOrderServiceListWorkOrdersProcedure          = "/kanzlei.v1.WorkOrderService/ListWorkOrders"
	WorkOrderServiceGetWorkOrderProcedure            = "/kanzlei.v1.WorkOrderService/GetWorkOrder"
	WorkOrderServiceCreateWorkOrderProcedure         = "/kanzlei.v1.WorkOrderService/CreateWorkOrder"
	WorkOrderServiceUpdateWorkOrderProcedure         = "/kanzlei.v1.WorkOrderService/UpdateWorkOrder"
	WorkOrderServiceDeleteWorkOrderProcedure         = "/kanzlei.v1.WorkOrderService/DeleteWorkOrder"
	WorkOrderServiceListWorkOrderDocumentsProcedure  = "/kanzlei.v1.WorkOrderService/ListWorkOrderDocuments"
	WorkOrderServiceDeleteWorkOrderDocumentProcedure = "/kanzlei.v1.WorkOrderService/DeleteWorkOrderDocument"
)

// WorkOrderServiceHandler is implemented by the server.
type WorkOrderServiceHandler interface {
	ListWorkOrders(context.Context, *connect.Request[ListRequest]) (*connect.Response[ListWorkOrdersResponse], error)
	GetWorkOrder(context.Context, *connect.Request[IDRequest]) (*connect.Response[WorkOrderResponse], error)
	CreateWorkOrder(context.Context, *connect.Request[CreateWorkOrderRequest]) (*connect.Response[WorkOrderResponse], error)
	UpdateWorkOrder(context.Context, *connect.Request[UpdateWorkOrderRequest]) (*connect.Response[WorkOrderResponse], error)
	DeleteWorkOrder(context.Context, *connect.Request[IDRequest]) (*connect.Response[Empty], error)
	ListWorkOrderDocuments(context.Context, *connect.Request[IDRequest]) (*connect.Response[DocumentsResponse], error)
	DeleteWorkOrderDocument(context.Context, *connect.Request[WorkOrderDocumentRequest]) (*connect.Response[Empty], error)
}

// NewWorkOrderServiceHandler builds an HTTP handler from the service implementation.
func NewWorkOrderServiceHandler(svc WorkOrderServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return serviceHandler(WorkOrderServiceName, map[string]*connect.Handler{
		WorkOrderServiceListWorkOrdersProcedure:          unaryHandler(WorkOrderServiceListWorkOrdersProcedure, svc.ListWorkOrders, opts),
		WorkOrderServiceGetWorkOrderProcedure:            unaryHandler(WorkOrderServiceGetWorkOrderProcedure, svc.GetWorkOrder, opts),
		WorkOrderServiceCreateWorkOrderProcedure:         unaryHandler(WorkOrderServiceCreateWorkOrderProcedure, svc.CreateWorkOrder, opts),
		WorkOrderServiceUpdateWorkOrderProcedure:         unaryHandler(WorkOrderServiceUpdateWorkOrderProcedure, svc.UpdateWorkOrder, opts),
		WorkOrderServiceDeleteWorkOrderProcedure:         unaryHandler(WorkOrderServiceDeleteWorkOrderProcedure, svc.DeleteWorkOrder, opts),
		WorkOrderServiceListWorkOrderDocumentsProcedure:  unaryHandler(WorkOrderServiceListWorkOrderDocumentsProcedure, svc.ListWorkOrderDocuments, opts),
		WorkOrderServiceDeleteWorkOrderDocumentProcedure: unaryHandler(WorkOrderServiceDeleteWorkOrderDocumentProcedure, svc.DeleteWorkOrderDocument, opts),
	})
}

// WorkOrderServiceClient is a client for the WorkOrderService.
type WorkOrderServiceClient struct {
	listWorkOrders          *connect.Client[ListRequest, ListWorkOrdersResponse]
	getWorkOrder            *connect.Client[IDRequest, WorkOrderResponse]
	createWorkOrder         *connect.Client[CreateWorkOrderRequest, WorkOrderResponse]
	updateWorkOrder         *connect.Client[UpdateWorkOrderRequest, WorkOrderResponse]
	deleteWorkOrder         *connect.Client[IDRequest, Empty]
	listWorkOrderDocuments  *connect.Client[IDRequest, DocumentsResponse]
	deleteWorkOrderDocument *connect.Client[WorkOrderDocumentRequest, Empty]
}

// NewWorkOrderServiceClient constructs a client for the WorkOrderService at baseURL.
func NewWorkOrderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *WorkOrderServiceClient {
	return &WorkOrderServiceClient{
		listWorkOrders:          unaryClient[ListRequest, ListWorkOrdersResponse](httpClient, baseURL, WorkOrderServiceListWorkOrdersProcedure, opts),
		getWorkOrder:            unaryClient[IDRequest, WorkOrderResponse](httpClient, baseURL, WorkOrderServiceGetWorkOrderProcedure, opts),
		createWorkOrder:         unaryClient[CreateWorkOrderRequest, WorkOrderResponse](httpClient, baseURL, WorkOrderServiceCreateWorkOrderProcedure, opts),
		updateWorkOrder:         unaryClient[UpdateWorkOrderRequest, WorkOrderResponse](httpClient, baseURL, WorkOrderServiceUpdateWorkOrderProcedure, opts),
		deleteWorkOrder:         unaryClient[IDRequest, Empty](httpClient, baseURL, WorkOrderServiceDeleteWorkOrderProcedure, opts),
		listWorkOrderDocuments:  unaryClient[IDRequest, DocumentsResponse](httpClient, baseURL, WorkOrderServiceListWorkOrderDocumentsProcedure, opts),
		deleteWorkOrderDocument: unaryClient[WorkOrderDocumentRequest, Empty](httpClient, baseURL, WorkOrderServiceDeleteWorkOrderDocumentProcedure, opts),
	}
}

// ListWorkOrders calls kanzlei.v1.WorkOrderService.ListWorkOrders.
func (c *WorkOrderServiceClient) ListWorkOrders(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListWorkOrdersResponse], error) {
	return c.listWorkOrders.CallUnary(ctx, req)
}

// GetWorkOrder calls kanzlei.v1.WorkOrderService.GetWorkOrder.
func (c *WorkOrderServiceClient) GetWorkOrder(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[WorkOrderResponse], error) {
	return c.getWorkOrder.CallUnary(ctx, req)
}

// CreateWorkOrder calls kanzlei.v1.WorkOrderService.CreateWorkOrder.
func (c *WorkOrderServiceClient) CreateWorkOrder(ctx context.Context, req *connect.Request[CreateWorkOrderRequest]) (*connect.Response[WorkOrderResponse], error) {
	return c.createWorkOrder.CallUnary(ctx, req)
}

// UpdateWorkOrder calls kanzlei.v1.WorkOrderService.UpdateWorkOrder.
func (c *WorkOrderServiceClient) UpdateWorkOrder(ctx context.Context, req *connect.Request[UpdateWorkOrderRequest]) (*connect.Response[WorkOrderResponse], error) {
	return c.updateWorkOrder.CallUnary(ctx, req)
}

// DeleteWorkOrder calls kanzlei.v1.WorkOrderService.DeleteWorkOrder.
func (c *WorkOrderServiceClient) DeleteWorkOrder(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	return c.deleteWorkOrder.CallUnary(ctx, req)
}

// ListWorkOrderDocuments calls kanzlei.v1.WorkOrderService.ListWorkOrderDocuments.
func (c *WorkOrderServiceClient) ListWorkOrderDocuments(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[DocumentsResponse], error) {
	return c.listWorkOrderDocuments.CallUnary(ctx, req)
}

// DeleteWorkOrderDocument calls kanzlei.v1.WorkOrderService.DeleteWorkOrderDocument.
func (c *WorkOrderServiceClient) DeleteWorkOrderDocument(ctx context.Context, req *connect.Request[WorkOrderDocumentRequest]) (*connect.Response[Empty], error) {
	return c.deleteWorkOrderDocument.CallUnary(ctx, req)
}
