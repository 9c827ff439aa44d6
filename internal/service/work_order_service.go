package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/filestore"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/pkg/api"
)

var errNoAdvisor = errors.New("no advisor available")

// WorkOrderService implements the Connect WorkOrderService.
type WorkOrderService struct {
	store storage.Store
	files filestore.Store
}

var _ api.WorkOrderServiceHandler = (*WorkOrderService)(nil)

// NewWorkOrderService creates a new WorkOrderService with the given storage backends.
func NewWorkOrderService(store storage.Store, files filestore.Store) *WorkOrderService {
	return &WorkOrderService{store: store, files: files}
}

func (s *WorkOrderService) ListWorkOrders(ctx context.Context, req *connect.Request[api.ListRequest]) (*connect.Response[api.ListWorkOrdersResponse], error) {
	orders, err := s.store.ListWorkOrders(ctx)
	if err != nil {
		return nil, failed("ListWorkOrders", err)
	}
	result := query.Run(orders, query.WorkOrders, *req.Msg)
	return connect.NewResponse(&result), nil
}

func (s *WorkOrderService) GetWorkOrder(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.WorkOrderResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	order, err := s.store.GetWorkOrder(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("GetWorkOrder", err, "work_order_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.WorkOrderResponse{WorkOrder: order}), nil
}

// CreateWorkOrder opens a work order for a client.
// Without an explicit advisor the first registered advisor is assigned.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, req *connect.Request[api.CreateWorkOrderRequest]) (*connect.Response[api.WorkOrderResponse], error) {
	order, err := s.newWorkOrder(ctx, req.Msg)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateWorkOrder(ctx, order); err != nil {
		return nil, failed("CreateWorkOrder", err)
	}

	slog.Info("Work order created", "work_order_id", order.ID, "client_id", order.ClientID, "advisor_id", order.AdvisorID)
	return connect.NewResponse(&api.WorkOrderResponse{WorkOrder: order}), nil
}

// newWorkOrder validates msg and returns the open work order it describes, not yet stored.
func (s *WorkOrderService) newWorkOrder(ctx context.Context, msg *api.CreateWorkOrderRequest) (*models.WorkOrder, error) {
	title := strings.TrimSpace(msg.Title)
	if title == "" {
		return nil, invalidArgument("work order title is required")
	}
	if strings.TrimSpace(msg.ClientID) == "" {
		return nil, invalidArgument("client is required")
	}

	priority := msg.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalidArgument("unknown priority: " + string(priority))
	}

	order := &models.WorkOrder{
		Title:       title,
		Description: msg.Description,
		Status:      models.WorkOrderOpen,
		Priority:    priority,
		DueDate:     msg.DueDate,
		ClientID:    msg.ClientID,
		AdvisorID:   msg.AdvisorID,
		TemplateID:  msg.TemplateID,
	}
	if err := s.checkReferences(ctx, order); err != nil {
		return nil, err
	}
	if order.AdvisorID == "" {
		advisorID, err := s.defaultAdvisor(ctx)
		if err != nil {
			return nil, err
		}
		order.AdvisorID = advisorID
	}
	return order, nil
}

// UpdateWorkOrder applies the fields that are set.
func (s *WorkOrderService) UpdateWorkOrder(ctx context.Context, req *connect.Request[api.UpdateWorkOrderRequest]) (*connect.Response[api.WorkOrderResponse], error) {
	msg := req.Msg
	if err := requireID(msg.ID); err != nil {
		return nil, err
	}
	order, err := s.store.GetWorkOrder(ctx, msg.ID)
	if err != nil {
		return nil, failed("UpdateWorkOrder", err, "work_order_id", msg.ID)
	}

	if msg.Title != nil {
		title := strings.TrimSpace(*msg.Title)
		if title == "" {
			return nil, invalidArgument("work order title is required")
		}
		order.Title = title
	}
	if msg.Description != nil {
		order.Description = *msg.Description
	}
	if msg.Status != nil {
		if !msg.Status.Valid() {
			return nil, invalidArgument("unknown status: " + string(*msg.Status))
		}
		order.Status = *msg.Status
	}
	if msg.Priority != nil {
		if !msg.Priority.Valid() {
			return nil, invalidArgument("unknown priority: " + string(*msg.Priority))
		}
		order.Priority = *msg.Priority
	}
	switch {
	case msg.ClearDueDate:
		order.DueDate = nil
	case msg.DueDate != nil:
		order.DueDate = msg.DueDate
	}
	if msg.ClientID != nil {
		if strings.TrimSpace(*msg.ClientID) == "" {
			return nil, invalidArgument("client is required")
		}
		order.ClientID = *msg.ClientID
	}
	if msg.AdvisorID != nil {
		if strings.TrimSpace(*msg.AdvisorID) == "" {
			return nil, invalidArgument("advisor is required")
		}
		order.AdvisorID = *msg.AdvisorID
	}
	if msg.TemplateID != nil {
		order.TemplateID = *msg.TemplateID
	}
	if err := s.checkReferences(ctx, order); err != nil {
		return nil, err
	}

	if err := s.store.UpdateWorkOrder(ctx, order); err != nil {
		return nil, failed("UpdateWorkOrder", err, "work_order_id", order.ID)
	}

	slog.Info("Work order updated", "work_order_id", order.ID, "status", order.Status)
	return connect.NewResponse(&api.WorkOrderResponse{WorkOrder: order}), nil
}

// checkReferences verifies that the client, advisor and template of order exist.
// Empty advisor and template IDs are not checked.
func (s *WorkOrderService) checkReferences(ctx context.Context, order *models.WorkOrder) error {
	if _, err := s.store.GetClient(ctx, order.ClientID); err != nil {
		return referenceError("client", order.ClientID, err)
	}
	if order.AdvisorID != "" {
		user, err := s.store.GetUserByID(ctx, order.AdvisorID)
		if err != nil {
			return referenceError("advisor", order.AdvisorID, err)
		}
		if user.Role != models.RoleAdvisor {
			return invalidArgument(fmt.Sprintf("user %s is not an advisor", user.ID))
		}
	}
	if order.TemplateID != "" {
		if _, err := s.store.GetTemplate(ctx, order.TemplateID); err != nil {
			return referenceError("template", order.TemplateID, err)
		}
	}
	return nil
}

// referenceError reports a missing referenced record as an invalid argument.
func referenceError(kind, id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s not found: %s", kind, id))
	}
	return failed("Get"+strings.ToUpper(kind[:1])+kind[1:], err, kind+"_id", id)
}

func (s *WorkOrderService) defaultAdvisor(ctx context.Context) (string, error) {
	advisors, err := s.store.ListUsersByRole(ctx, models.RoleAdvisor)
	if err != nil {
		return "", failed("ListAdvisors", err)
	}
	if len(advisors) == 0 {
		return "", connect.NewError(connect.CodeFailedPrecondition, errNoAdvisor)
	}
	return advisors[0].ID, nil
}

// DeleteWorkOrder removes a work order. Its documents are kept and detached.
func (s *WorkOrderService) DeleteWorkOrder(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteWorkOrder(ctx, req.Msg.ID); err != nil {
		return nil, failed("DeleteWorkOrder", err, "work_order_id", req.Msg.ID)
	}
	slog.Info("Work order deleted", "work_order_id", req.Msg.ID)
	return connect.NewResponse(&api.Empty{}), nil
}

// ListWorkOrderDocuments returns the documents attached to a work order, oldest first.
func (s *WorkOrderService) ListWorkOrderDocuments(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.DocumentsResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetWorkOrder(ctx, req.Msg.ID); err != nil {
		return nil, failed("ListWorkOrderDocuments", err, "work_order_id", req.Msg.ID)
	}
	docs, err := s.store.ListDocumentsByWorkOrder(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("ListWorkOrderDocuments", err, "work_order_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.DocumentsResponse{Documents: docs}), nil
}

// DeleteWorkOrderDocument removes a document attached to the work order, with its file.
func (s *WorkOrderService) DeleteWorkOrderDocument(ctx context.Context, req *connect.Request[api.WorkOrderDocumentRequest]) (*connect.Response[api.Empty], error) {
	if err := requireID(req.Msg.WorkOrderID); err != nil {
		return nil, err
	}
	if err := requireID(req.Msg.DocumentID); err != nil {
		return nil, err
	}
	doc, err := s.store.GetDocument(ctx, req.Msg.DocumentID)
	if err != nil {
		return nil, failed("DeleteWorkOrderDocument", err, "document_id", req.Msg.DocumentID)
	}
	if doc.WorkOrderID != req.Msg.WorkOrderID {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("document %s is not attached to work order %s", doc.ID, req.Msg.WorkOrderID))
	}
	if err := deleteDocument(ctx, s.store, s.files, doc); err != nil {
		return nil, failed("DeleteWorkOrderDocument", err, "document_id", doc.ID)
	}

	slog.Info("Work order document deleted", "work_order_id", req.Msg.WorkOrderID, "document_id", doc.ID)
	return connect.NewResponse(&api.Empty{}), nil
}
