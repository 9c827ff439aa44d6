package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/auth"
	"github.com/mmynk/kanzlei/internal/filestore"
	"github.com/mmynk/kanzlei/internal/middleware"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/storage/sqlite"
	"github.com/mmynk/kanzlei/pkg/api"
)

const testPassword = "geheim123"

// testEnv is a running server with every service mounted, and clients
// authenticated as user.
type testEnv struct {
	store     *sqlite.SQLiteStore
	files     *filestore.Local
	uploadDir string
	jwt       *auth.JWTManager
	server    *httptest.Server
	user      *models.User
	token     string

	docs       *api.DocumentServiceClient
	clients    *api.ClientServiceClient
	templates  *api.TemplateServiceClient
	workOrders *api.WorkOrderServiceClient
	users      *api.UserServiceClient
	prefs      *api.PrefsServiceClient
}

// newTestEnv starts a server and registers the calling user with role.
func newTestEnv(t *testing.T, role string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	uploadDir := filepath.Join(dir, "uploads")
	files, err := filestore.NewLocal(uploadDir)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	user, err := authenticator.Register(context.Background(), auth.Registration{
		Email:    "anna@kanzlei.de",
		Name:     "Anna Schmidt",
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	opts := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	mux := http.NewServeMux()
	mux.Handle(api.NewDocumentServiceHandler(NewDocumentService(store, files), opts))
	mux.Handle(api.NewClientServiceHandler(NewClientService(store), opts))
	mux.Handle(api.NewTemplateServiceHandler(NewTemplateService(store, files), opts))
	mux.Handle(api.NewWorkOrderServiceHandler(NewWorkOrderService(store, files), opts))
	mux.Handle(api.NewUserServiceHandler(NewUserService(authenticator, jwtManager, store), opts))
	mux.Handle(api.NewPrefsServiceHandler(NewPrefsService(store), opts))
	NewFileHandler(store, files, 1<<20).Register(mux, middleware.RequireAuthHTTP(jwtManager))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env := &testEnv{
		store:     store,
		files:     files,
		uploadDir: uploadDir,
		jwt:       jwtManager,
		server:    server,
		user:      user,
		token:     token,
	}
	clientOpts := connect.WithInterceptors(withToken(token))
	env.docs = api.NewDocumentServiceClient(server.Client(), server.URL, clientOpts)
	env.clients = api.NewClientServiceClient(server.Client(), server.URL, clientOpts)
	env.templates = api.NewTemplateServiceClient(server.Client(), server.URL, clientOpts)
	env.workOrders = api.NewWorkOrderServiceClient(server.Client(), server.URL, clientOpts)
	env.users = api.NewUserServiceClient(server.Client(), server.URL, clientOpts)
	env.prefs = api.NewPrefsServiceClient(server.Client(), server.URL, clientOpts)
	return env
}

func withToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

func (e *testEnv) createClient(t *testing.T, firstName, lastName string) *models.Client {
	t.Helper()
	resp, err := e.clients.CreateClient(context.Background(), connect.NewRequest(&api.ClientRequest{
		Client: &models.Client{
			Type:    models.ClientTypeNaturalPerson,
			Address: models.Address{City: "München"},
			Person:  &models.NaturalPerson{FirstName: firstName, LastName: lastName},
		},
	}))
	require.NoError(t, err)
	return resp.Msg.Client
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "unexpected error: %v", err)
}
