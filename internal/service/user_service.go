package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/auth"
	"github.com/mmynk/kanzlei/internal/middleware"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/pkg/api"
)

// UserService implements the Connect UserService: accounts, sessions and settings.
type UserService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.UserStore
}

var _ api.UserServiceHandler = (*UserService)(nil)

// NewUserService creates a new user service.
func NewUserService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.UserStore) *UserService {
	return &UserService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account with the plain user role.
func (s *UserService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	slog.Info("Register request", "email", req.Msg.Email)

	if strings.TrimSpace(req.Msg.Name) == "" {
		return nil, invalidArgument("name is required")
	}

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Email:    req.Msg.Email,
		Name:     req.Msg.Name,
		Password: req.Msg.Password,
	})
	if err != nil {
		slog.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, registrationError(err)
	}

	resp, err := s.session(user)
	if err != nil {
		return nil, err
	}
	slog.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return resp, nil
}

// Login authenticates a user and returns a JWT token.
func (s *UserService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	slog.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	resp, err := s.session(user)
	if err != nil {
		return nil, err
	}
	slog.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return resp, nil
}

// registrationError maps authenticator errors to Connect codes.
func registrationError(err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrInvalidRole):
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func (s *UserService) session(user *models.User) (*connect.Response[api.AuthResponse], error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.AuthResponse{User: user, Token: token}), nil
}

// currentUser loads the caller's account. The token may outlive the account.
func (s *UserService) currentUser(ctx context.Context, op string) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	if err != nil {
		return nil, failed(op, err, "user_id", userID)
	}
	return user, nil
}

// GetCurrentUser returns the authenticated user's account.
func (s *UserService) GetCurrentUser(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.UserResponse], error) {
	user, err := s.currentUser(ctx, "GetCurrentUser")
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.UserResponse{User: user}), nil
}

// ListUsers returns every account, ordered by name.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.UsersResponse], error) {
	if middleware.GetUserID(ctx) == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, failed("ListUsers", err)
	}
	return connect.NewResponse(&api.UsersResponse{Users: users}), nil
}

// GetSettings returns the caller's settings, which live on the account.
func (s *UserService) GetSettings(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.UserResponse], error) {
	user, err := s.currentUser(ctx, "GetSettings")
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.UserResponse{User: user}), nil
}

// UpdateSettings changes the caller's name, language or role.
// Only admins may change their role.
func (s *UserService) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UserResponse], error) {
	user, err := s.currentUser(ctx, "UpdateSettings")
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.Name != nil {
		name := strings.TrimSpace(*msg.Name)
		if name == "" {
			return nil, invalidArgument("name is required")
		}
		user.Name = name
	}
	if msg.Language != nil {
		if !models.ValidLanguage(*msg.Language) {
			return nil, invalidArgument("unsupported language: " + *msg.Language)
		}
		user.Language = *msg.Language
	}
	if msg.Role != nil && *msg.Role != user.Role {
		if user.Role != models.RoleAdmin {
			return nil, connect.NewError(connect.CodePermissionDenied, errors.New("only admins may change roles"))
		}
		if !models.ValidRole(*msg.Role) {
			return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidRole)
		}
		user.Role = *msg.Role
	}
	user.UpdatedAt = now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, failed("UpdateSettings", err, "user_id", user.ID)
	}

	slog.Info("Settings updated", "user_id", user.ID, "language", user.Language, "role", user.Role)
	return connect.NewResponse(&api.UserResponse{User: user}), nil
}
