package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// PrefsServiceName is the fully-qualified name of the PrefsService.
const PrefsServiceName = "kanzlei.v1.PrefsService"

// PrefsService procedures.
const (
	PrefsServiceGetTablePrefsProcedure    = "/kanzlei.v1.PrefsService/GetTablePrefs"
	PrefsServiceUpdateTablePrefsProcedure = "/kanzlei.v1.PrefsService/UpdateTablePrefs"
	PrefsServiceResetTablePrefsProcedure  = "/kanzlei.v1.PrefsService/ResetTablePrefs"
)

// PrefsServiceHandler is implemented by the server.
type PrefsServiceHandler interface {
	GetTablePrefs(context.Context, *connect.Request[TablePrefsRequest]) (*connect.Response[TablePrefsResponse], error)
	UpdateTablePrefs(context.Context, *connect.Request[UpdateTablePrefsRequest]) (*connect.Response[TablePrefsResponse], error)
	ResetTablePrefs(context.Context, *connect.Request[TablePrefsRequest]) (*connect.Response[TablePrefsResponse], error)
}

// NewPrefsServiceHandler builds an HTTP handler from the service implementation.
func NewPrefsServiceHandler(svc PrefsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return serviceHandler(PrefsServiceName, map[string]*connect.Handler{
		PrefsServiceGetTablePrefsProcedure:    unaryHandler(PrefsServiceGetTablePrefsProcedure, svc.GetTablePrefs, opts),
		PrefsServiceUpdateTablePrefsProcedure: unaryHandler(PrefsServiceUpdateTablePrefsProcedure, svc.UpdateTablePrefs, opts),
		PrefsServiceResetTablePrefsProcedure:  unaryHandler(PrefsServiceResetTablePrefsProcedure, svc.ResetTablePrefs, opts),
	})
}

// PrefsServiceClient is a client for the PrefsService.
type PrefsServiceClient struct {
	getTablePrefs    *connect.Client[TablePrefsRequest, TablePrefsResponse]
	updateTablePrefs *connect.Client[UpdateTablePrefsRequest, TablePrefsResponse]
	resetTablePrefs  *connect.Client[TablePrefsRequest, TablePrefsResponse]
}

// NewPrefsServiceClient constructs a client for the PrefsService at baseURL.
func NewPrefsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PrefsServiceClient {
	return &PrefsServiceClient{
		getTablePrefs:    unaryClient[TablePrefsRequest, TablePrefsResponse](httpClient, baseURL, PrefsServiceGetTablePrefsProcedure, opts),
		updateTablePrefs: unaryClient[UpdateTablePrefsRequest, TablePrefsResponse](httpClient, baseURL, PrefsServiceUpdateTablePrefsProcedure, opts),
		resetTablePrefs:  unaryClient[TablePrefsRequest, TablePrefsResponse](httpClient, baseURL, PrefsServiceResetTablePrefsProcedure, opts),
	}
}

// GetTablePrefs calls kanzlei.v1.PrefsService.GetTablePrefs.
func (c *PrefsServiceClient) GetTablePrefs(ctx context.Context, req *connect.Request[TablePrefsRequest]) (*connect.Response[TablePrefsResponse], error) {
	return c.getTablePrefs.CallUnary(ctx, req)
}

// UpdateTablePrefs calls kanzlei.v1.PrefsService.UpdateTablePrefs.
func (c *PrefsServiceClient) UpdateTablePrefs(ctx context.Context, req *connect.Request[UpdateTablePrefsRequest]) (*connect.Response[TablePrefsResponse], error) {
	return c.updateTablePrefs.CallUnary(ctx, req)
}

// ResetTablePrefs calls kanzlei.v1.PrefsService.ResetTablePrefs.
func (c *PrefsServiceClient) ResetTablePrefs(ctx context.Context, req *connect.Request[TablePrefsRequest]) (*connect.Response[TablePrefsResponse], error) {
	return c.resetTablePrefs.CallUnary(ctx, req)
}
