package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// ClientServiceName is the fully-qualified name of the ClientService.
const ClientServiceName = "kanzlei.v1.ClientService"

// ClientService procedures.
const (
	ClientServiceListClientsProcedure    = "/kanzlei.v1.ClientService/ListClients"
	ClientServiceGetClientProcedure      = "/kanzlei.v1.ClientService/GetClient"
	ClientServiceCreateClientProcedure   = "/kanzlei.v1.ClientService/CreateClient"
	ClientServiceUpdateClientProcedure   = "/kanzlei.v1.ClientService/UpdateClient"
	ClientServiceDeleteClientProcedure   = "/kanzlei.v1.ClientService/DeleteClient"
	ClientServiceListLegalFormsProcedure = "/kanzlei.v1.ClientService/ListLegalForms"
	ClientServiceListAdvisorsProcedure   = "/kanzlei.v1.ClientService/ListAdvisors"
)

// ClientServiceHandler is implemented by the server.
type ClientServiceHandler interface {
	ListClients(context.Context, *connect.Request[ListRequest]) (*connect.Response[ListClientsResponse], error)
	GetClient(context.Context, *connect.Request[IDRequest]) (*connect.Response[ClientResponse], error)
	CreateClient(context.Context, *connect.Request[ClientRequest]) (*connect.Response[ClientResponse], error)
	UpdateClient(context.Context, *connect.Request[ClientRequest]) (*connect.Response[ClientResponse], error)
	DeleteClient(context.Context, *connect.Request[IDRequest]) (*connect.Response[Empty], error)
	ListLegalForms(context.Context, *connect.Request[Empty]) (*connect.Response[LegalFormsResponse], error)
	ListAdvisors(context.Context, *connect.Request[Empty]) (*connect.Response[AdvisorsResponse], error)
}

// NewClientServiceHandler builds an HTTP handler from the service implementation.
func NewClientServiceHandler(svc ClientServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return serviceHandler(ClientServiceName, map[string]*connect.Handler{
		ClientServiceListClientsProcedure:    unaryHandler(ClientServiceListClientsProcedure, svc.ListClients, opts),
		ClientServiceGetClientProcedure:      unaryHandler(ClientServiceGetClientProcedure, svc.GetClient, opts),
		ClientServiceCreateClientProcedure:   unaryHandler(ClientServiceCreateClientProcedure, svc.CreateClient, opts),
		ClientServiceUpdateClientProcedure:   unaryHandler(ClientServiceUpdateClientProcedure, svc.UpdateClient, opts),
		ClientServiceDeleteClientProcedure:   unaryHandler(ClientServiceDeleteClientProcedure, svc.DeleteClient, opts),
		ClientServiceListLegalFormsProcedure: unaryHandler(ClientServiceListLegalFormsProcedure, svc.ListLegalForms, opts),
		ClientServiceListAdvisorsProcedure:   unaryHandler(ClientServiceListAdvisorsProcedure, svc.ListAdvisors, opts),
	})
}

// ClientServiceClient is a client for the ClientService.
type ClientServiceClient struct {
	listClients    *connect.Client[ListRequest, ListClientsResponse]
	getClient      *connect.Client[IDRequest, ClientResponse]
	createClient   *connect.Client[ClientRequest, ClientResponse]
	updateClient   *connect.Client[ClientRequest, ClientResponse]
	deleteClient   *connect.Client[IDRequest, Empty]
	listLegalForms *connect.Client[Empty, LegalFormsResponse]
	listAdvisors   *connect.Client[Empty, AdvisorsResponse]
}

// NewClientServiceClient constructs a client for the ClientService at baseURL.
func NewClientServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ClientServiceClient {
	return &ClientServiceClient{
		listClients:    unaryClient[ListRequest, ListClientsResponse](httpClient, baseURL, ClientServiceListClientsProcedure, opts),
		getClient:      unaryClient[IDRequest, ClientResponse](httpClient, baseURL, ClientServiceGetClientProcedure, opts),
		createClient:   unaryClient[ClientRequest, ClientResponse](httpClient, baseURL, ClientServiceCreateClientProcedure, opts),
		updateClient:   unaryClient[ClientRequest, ClientResponse](httpClient, baseURL, ClientServiceUpdateClientProcedure, opts),
		deleteClient:   unaryClient[IDRequest, Empty](httpClient, baseURL, ClientServiceDeleteClientProcedure, opts),
		listLegalForms: unaryClient[Empty, LegalFormsResponse](httpClient, baseURL, ClientServiceListLegalFormsProcedure, opts),
		listAdvisors:   unaryClient[Empty, AdvisorsResponse](httpClient, baseURL, ClientServiceListAdvisorsProcedure, opts),
	}
}

// ListClients calls kanzlei.v1.ClientService.ListClients.
func (c *ClientServiceClient) ListClients(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListClientsResponse], error) {
	return c.listClients.CallUnary(ctx, req)
}

// GetClient calls kanzlei.v1.ClientService.GetClient.
func (c *ClientServiceClient) GetClient(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[ClientResponse], error) {
	return c.getClient.CallUnary(ctx, req)
}

// CreateClient calls kanzlei.v1.ClientService.CreateClient.
func (c *ClientServiceClient) CreateClient(ctx context.Context, req *connect.Request[ClientRequest]) (*connect.Response[ClientResponse], error) {
	return c.createClient.CallUnary(ctx, req)
}

// UpdateClient calls kanzlei.v1.ClientService.UpdateClient.
func (c *ClientServiceClient) UpdateClient(ctx context.Context, req *connect.Request[ClientRequest]) (*connect.Response[ClientResponse], error) {
	return c.updateClient.CallUnary(ctx, req)
}

// DeleteClient calls kanzlei.v1.ClientService.DeleteClient.
func (c *ClientServiceClient) DeleteClient(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	return c.deleteClient.CallUnary(ctx, req)
}

// ListLegalForms calls kanzlei.v1.ClientService.ListLegalForms.
func (c *ClientServiceClient) ListLegalForms(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[LegalFormsResponse], error) {
	return c.listLegalForms.CallUnary(ctx, req)
}

// ListAdvisors calls kanzlei.v1.ClientService.ListAdvisors.
func (c *ClientServiceClient) ListAdvisors(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[AdvisorsResponse], error) {
	return c.listAdvisors.CallUnary(ctx, req)
}
