package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "kanzlei.v1.UserService"

// UserService procedures.
const (
	UserServiceRegisterProcedure       = "/kanzlei.v1.UserService/Register"
	UserServiceLoginProcedure          = "/kanzlei.v1.UserService/Login"
	UserServiceGetCurrentUserProcedure = "/kanzlei.v1.UserService/GetCurrentUser"
	UserServiceListUsersProcedure      = "/kanzlei.v1.UserService/ListUsers"
	UserServiceGetSettingsProcedure    = "/kanzlei.v1.UserService/GetSettings"
	UserServiceUpdateSettingsProcedure = "/kanzlei.v1.UserService/UpdateSettings"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = map[string]bool{
	UserServiceRegisterProcedure: true,
	UserServiceLoginProcedure:    true,
}

// UserServiceHandler is implemented by the server.
type UserServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
	GetCurrentUser(context.Context, *connect.Request[Empty]) (*connect.Response[UserResponse], error)
	ListUsers(context.Context, *connect.Request[Empty]) (*connect.Response[UsersResponse], error)
	GetSettings(context.Context, *connect.Request[Empty]) (*connect.Response[UserResponse], error)
	UpdateSettings(context.Context, *connect.Request[UpdateSettingsRequest]) (*connect.Response[UserResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return serviceHandler(UserServiceName, map[string]*connect.Handler{
		UserServiceRegisterProcedure:       unaryHandler(UserServiceRegisterProcedure, svc.Register, opts),
		UserServiceLoginProcedure:          unaryHandler(UserServiceLoginProcedure, svc.Login, opts),
		UserServiceGetCurrentUserProcedure: unaryHandler(UserServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts),
		UserServiceListUsersProcedure:      unaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts),
		UserServiceGetSettingsProcedure:    unaryHandler(UserServiceGetSettingsProcedure, svc.GetSettings, opts),
		UserServiceUpdateSettingsProcedure: unaryHandler(UserServiceUpdateSettingsProcedure, svc.UpdateSettings, opts),
	})
}

// UserServiceClient is a client for the UserService.
type UserServiceClient struct {
	register       *connect.Client[RegisterRequest, AuthResponse]
	login          *connect.Client[LoginRequest, AuthResponse]
	getCurrentUser *connect.Client[Empty, UserResponse]
	listUsers      *connect.Client[Empty, UsersResponse]
	getSettings    *connect.Client[Empty, UserResponse]
	updateSettings *connect.Client[UpdateSettingsRequest, UserResponse]
}

// NewUserServiceClient constructs a client for the UserService at baseURL.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *UserServiceClient {
	return &UserServiceClient{
		register:       unaryClient[RegisterRequest, AuthResponse](httpClient, baseURL, UserServiceRegisterProcedure, opts),
		login:          unaryClient[LoginRequest, AuthResponse](httpClient, baseURL, UserServiceLoginProcedure, opts),
		getCurrentUser: unaryClient[Empty, UserResponse](httpClient, baseURL, UserServiceGetCurrentUserProcedure, opts),
		listUsers:      unaryClient[Empty, UsersResponse](httpClient, baseURL, UserServiceListUsersProcedure, opts),
		getSettings:    unaryClient[Empty, UserResponse](httpClient, baseURL, UserServiceGetSettingsProcedure, opts),
		updateSettings: unaryClient[UpdateSettingsRequest, UserResponse](httpClient, baseURL, UserServiceUpdateSettingsProcedure, opts),
	}
}

// Register calls kanzlei.v1.UserService.Register.
func (c *UserServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

// Login calls kanzlei.v1.UserService.Login.
func (c *UserServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// GetCurrentUser calls kanzlei.v1.UserService.GetCurrentUser.
func (c *UserServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[UserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// ListUsers calls kanzlei.v1.UserService.ListUsers.
func (c *UserServiceClient) ListUsers(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[UsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// GetSettings calls kanzlei.v1.UserService.GetSettings.
func (c *UserServiceClient) GetSettings(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[UserResponse], error) {
	return c.getSettings.CallUnary(ctx, req)
}

// UpdateSettings calls kanzlei.v1.UserService.UpdateSettings.
func (c *UserServiceClient) UpdateSettings(ctx context.Context, req *connect.Request[UpdateSettingsRequest]) (*connect.Response[UserResponse], error) {
	return c.updateSettings.CallUnary(ctx, req)
}
