package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/pkg/api"
)

// ClientService implements the Connect ClientService.
type ClientService struct {
	store storage.Store
}

var _ api.ClientServiceHandler = (*ClientService)(nil)

// NewClientService creates a new ClientService with the given storage backend.
func NewClientService(store storage.Store) *ClientService {
	return &ClientService{store: store}
}

// ListClients returns one page of clients after search, filters and sort.
func (s *ClientService) ListClients(ctx context.Context, req *connect.Request[api.ListRequest]) (*connect.Response[api.ListClientsResponse], error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, failed("ListClients", err)
	}
	result := query.Run(clients, query.Clients, *req.Msg)
	return connect.NewResponse(&result), nil
}

// GetClient retrieves a client by ID.
func (s *ClientService) GetClient(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.ClientResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	client, err := s.store.GetClient(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("GetClient", err, "client_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.ClientResponse{Client: client}), nil
}

// CreateClient validates and stores a new client.
func (s *ClientService) CreateClient(ctx context.Context, req *connect.Request[api.ClientRequest]) (*connect.Response[api.ClientResponse], error) {
	client := req.Msg.Client
	if client == nil {
		return nil, invalidArgument("client is required")
	}
	client.ID = ""
	client.CreatedAt = time.Time{}
	if err := s.prepare(ctx, client); err != nil {
		return nil, err
	}

	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, failed("CreateClient", err)
	}

	slog.Info("Client created", "client_id", client.ID, "type", client.Type, "name", client.DisplayName())
	return connect.NewResponse(&api.ClientResponse{Client: client}), nil
}

// UpdateClient replaces a client. The creation time is kept.
func (s *ClientService) UpdateClient(ctx context.Context, req *connect.Request[api.ClientRequest]) (*connect.Response[api.ClientResponse], error) {
	client := req.Msg.Client
	if client == nil {
		return nil, invalidArgument("client is required")
	}
	if err := requireID(client.ID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetClient(ctx, client.ID)
	if err != nil {
		return nil, failed("UpdateClient", err, "client_id", client.ID)
	}
	if err := s.prepare(ctx, client); err != nil {
		return nil, err
	}
	client.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateClient(ctx, client); err != nil {
		return nil, failed("UpdateClient", err, "client_id", client.ID)
	}

	slog.Info("Client updated", "client_id", client.ID)
	return connect.NewResponse(&api.ClientResponse{Client: client}), nil
}

// prepare validates the client and resolves its advisor's name.
func (s *ClientService) prepare(ctx context.Context, client *models.Client) error {
	if err := client.Validate(); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	client.AdvisorName = ""
	if client.AdvisorID == "" {
		return nil
	}
	advisor, err := s.store.GetUserByID(ctx, client.AdvisorID)
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("advisor not found: %s", client.AdvisorID))
	}
	if err != nil {
		return failed("GetAdvisor", err, "advisor_id", client.AdvisorID)
	}
	client.AdvisorName = advisor.Name
	return nil
}

// DeleteClient removes a client.
func (s *ClientService) DeleteClient(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteClient(ctx, req.Msg.ID); err != nil {
		return nil, failed("DeleteClient", err, "client_id", req.Msg.ID)
	}
	slog.Info("Client deleted", "client_id", req.Msg.ID)
	return connect.NewResponse(&api.Empty{}), nil
}

// ListLegalForms returns the legal forms and participant roles business clients may use.
func (s *ClientService) ListLegalForms(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.LegalFormsResponse], error) {
	return connect.NewResponse(&api.LegalFormsResponse{
		LegalForms:       models.LegalForms,
		ParticipantRoles: models.ParticipantRoles,
	}), nil
}

// ListAdvisors returns every user with the advisor role.
func (s *ClientService) ListAdvisors(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.AdvisorsResponse], error) {
	users, err := s.store.ListUsersByRole(ctx, models.RoleAdvisor)
	if err != nil {
		return nil, failed("ListAdvisors", err)
	}
	advisors := make([]models.Advisor, 0, len(users))
	for _, u := range users {
		advisors = append(advisors, models.Advisor{ID: u.ID, Name: u.Name})
	}
	return connect.NewResponse(&api.AdvisorsResponse{Advisors: advisors}), nil
}
