package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// TemplateServiceName is the fully-qualified name of the TemplateService.
const TemplateServiceName = "kanzlei.v1.TemplateService"

// TemplateService procedures.
const (
	TemplateServiceListTemplatesProcedure     = "/kanzlei.v1.TemplateService/ListTemplates"
	TemplateServiceGetTemplateProcedure       = "/kanzlei.v1.TemplateService/GetTemplate"
	TemplateServiceCreateTemplateProcedure    = "/kanzlei.v1.TemplateService/CreateTemplate"
	TemplateServiceUpdateTemplateProcedure    = "/kanzlei.v1.TemplateService/UpdateTemplate"
	TemplateServiceDeleteTemplateProcedure    = "/kanzlei.v1.TemplateService/DeleteTemplate"
	TemplateServiceListTemplateTypesProcedure = "/kanzlei.v1.TemplateService/ListTemplateTypes"
	TemplateServiceListCreatorsProcedure      = "/kanzlei.v1.TemplateService/ListCreators"
)

// TemplateServiceHandler is implemented by the server.
type TemplateServiceHandler interface {
	ListTemplates(context.Context, *connect.Request[ListRequest]) (*connect.Response[ListTemplatesResponse], error)
	GetTemplate(context.Context, *connect.Request[IDRequest]) (*connect.Response[TemplateResponse], error)
	CreateTemplate(context.Context, *connect.Request[CreateTemplateRequest]) (*connect.Response[TemplateResponse], error)
	UpdateTemplate(context.Context, *connect.Request[UpdateTemplateRequest]) (*connect.Response[TemplateResponse], error)
	DeleteTemplate(context.Context, *connect.Request[IDRequest]) (*connect.Response[Empty], error)
	ListTemplateTypes(context.Context, *connect.Request[Empty]) (*connect.Response[TemplateTypesResponse], error)
	ListCreators(context.Context, *connect.Request[Empty]) (*connect.Response[CreatorsResponse], error)
}

// NewTemplateServiceHandler builds an HTTP handler from the service implementation.
func NewTemplateServiceHandler(svc TemplateServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return serviceHandler(TemplateServiceName, map[string]*connect.Handler{
		TemplateServiceListTemplatesProcedure:     unaryHandler(TemplateServiceListTemplatesProcedure, svc.ListTemplates, opts),
		TemplateServiceGetTemplateProcedure:       unaryHandler(TemplateServiceGetTemplateProcedure, svc.GetTemplate, opts),
		TemplateServiceCreateTemplateProcedure:    unaryHandler(TemplateServiceCreateTemplateProcedure, svc.CreateTemplate, opts),
		TemplateServiceUpdateTemplateProcedure:    unaryHandler(TemplateServiceUpdateTemplateProcedure, svc.UpdateTemplate, opts),
		TemplateServiceDeleteTemplateProcedure:    unaryHandler(TemplateServiceDeleteTemplateProcedure, svc.DeleteTemplate, opts),
		TemplateServiceListTemplateTypesProcedure: unaryHandler(TemplateServiceListTemplateTypesProcedure, svc.ListTemplateTypes, opts),
		TemplateServiceListCreatorsProcedure:      unaryHandler(TemplateServiceListCreatorsProcedure, svc.ListCreators, opts),
	})
}

// TemplateServiceClient is a client for the TemplateService.
type TemplateServiceClient struct {
	listTemplates     *connect.Client[ListRequest, ListTemplatesResponse]
	getTemplate       *connect.Client[IDRequest, TemplateResponse]
	createTemplate    *connect.Client[CreateTemplateRequest, TemplateResponse]
	updateTemplate    *connect.Client[UpdateTemplateRequest, TemplateResponse]
	deleteTemplate    *connect.Client[IDRequest, Empty]
	listTemplateTypes *connect.Client[Empty, TemplateTypesResponse]
	listCreators      *connect.Client[Empty, CreatorsResponse]
}

// NewTemplateServiceClient constructs a client for the TemplateService at baseURL.
func NewTemplateServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TemplateServiceClient {
	return &TemplateServiceClient{
		listTemplates:     unaryClient[ListRequest, ListTemplatesResponse](httpClient, baseURL, TemplateServiceListTemplatesProcedure, opts),
		getTemplate:       unaryClient[IDRequest, TemplateResponse](httpClient, baseURL, TemplateServiceGetTemplateProcedure, opts),
		createTemplate:    unaryClient[CreateTemplateRequest, TemplateResponse](httpClient, baseURL, TemplateServiceCreateTemplateProcedure, opts),
		updateTemplate:    unaryClient[UpdateTemplateRequest, TemplateResponse](httpClient, baseURL, TemplateServiceUpdateTemplateProcedure, opts),
		deleteTemplate:    unaryClient[IDRequest, Empty](httpClient, baseURL, TemplateServiceDeleteTemplateProcedure, opts),
		listTemplateTypes: unaryClient[Empty, TemplateTypesResponse](httpClient, baseURL, TemplateServiceListTemplateTypesProcedure, opts),
		listCreators:      unaryClient[Empty, CreatorsResponse](httpClient, baseURL, TemplateServiceListCreatorsProcedure, opts),
	}
}

// ListTemplates calls kanzlei.v1.TemplateService.ListTemplates.
func (c *TemplateServiceClient) ListTemplates(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListTemplatesResponse], error) {
	return c.listTemplates.CallUnary(ctx, req)
}

// GetTemplate calls kanzlei.v1.TemplateService.GetTemplate.
func (c *TemplateServiceClient) GetTemplate(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[TemplateResponse], error) {
	return c.getTemplate.CallUnary(ctx, req)
}

// CreateTemplate calls kanzlei.v1.TemplateService.CreateTemplate.
func (c *TemplateServiceClient) CreateTemplate(ctx context.Context, req *connect.Request[CreateTemplateRequest]) (*connect.Response[TemplateResponse], error) {
	return c.createTemplate.CallUnary(ctx, req)
}

// UpdateTemplate calls kanzlei.v1.TemplateService.UpdateTemplate.
func (c *TemplateServiceClient) UpdateTemplate(ctx context.Context, req *connect.Request[UpdateTemplateRequest]) (*connect.Response[TemplateResponse], error) {
	return c.updateTemplate.CallUnary(ctx, req)
}

// DeleteTemplate calls kanzlei.v1.TemplateService.DeleteTemplate.
func (c *TemplateServiceClient) DeleteTemplate(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	return c.deleteTemplate.CallUnary(ctx, req)
}

// ListTemplateTypes calls kanzlei.v1.TemplateService.ListTemplateTypes.
func (c *TemplateServiceClient) ListTemplateTypes(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[TemplateTypesResponse], error) {
	return c.listTemplateTypes.CallUnary(ctx, req)
}

// ListCreators calls kanzlei.v1.TemplateService.ListCreators.
func (c *TemplateServiceClient) ListCreators(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[CreatorsResponse], error) {
	return c.listCreators.CallUnary(ctx, req)
}
