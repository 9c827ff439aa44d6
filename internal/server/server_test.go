package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/auth"
	"github.com/mmynk/kanzlei/internal/config"
	"github.com/mmynk/kanzlei/internal/filestore"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/pkg/api"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	static := filepath.Join(dir, "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(static, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>kanzlei</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "kanzlei.db")
	cfg.StaticPath = static
	cfg.Files.UploadDir = filepath.Join(dir, "uploads")
	cfg.JWTSecret = "test-secret"
	return cfg
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestStaticFiles(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "kanzlei")

	code, body = get(t, ts.URL+"/assets/app.js")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "console.log(1)", body)

	code, body = get(t, ts.URL+"/documents/123")
	assert.Equal(t, http.StatusOK, code, "client-side routes fall back to index.html")
	assert.Contains(t, body, "kanzlei")

	code, _ = get(t, ts.URL+"/api/unknown")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
}

func TestEndToEnd(t *testing.T) {
	_, ts := newTestServer(t)
	ctx := context.Background()

	users := api.NewUserServiceClient(ts.Client(), ts.URL)
	reg, err := users.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    "anna@kanzlei.de",
		Name:     "Anna Schmidt",
		Password: "geheim123",
	}))
	require.NoError(t, err)

	anonymous := api.NewDocumentServiceClient(ts.Client(), ts.URL)
	_, err = anonymous.ListDocuments(ctx, connect.NewRequest(&api.ListRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	docs := api.NewDocumentServiceClient(ts.Client(), ts.URL, connect.WithInterceptors(bearer(reg.Msg.Token)))
	created, err := docs.CreateDocument(ctx, connect.NewRequest(&api.DocumentRequest{
		Document: &models.Document{Name: "Jahresabschluss"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Anna Schmidt", created.Msg.Document.Owner)

	list, err := docs.ListDocuments(ctx, connect.NewRequest(&api.ListRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 1, list.Msg.Total)

	code, _ := get(t, ts.URL+"/api/documents/"+created.Msg.Document.ID+"/file")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `kanzlei_rpc_requests_total{code="ok",procedure="/kanzlei.v1.DocumentService/CreateDocument"} 1`)
	assert.Contains(t, body, `kanzlei_rpc_requests_total{code="unauthenticated",procedure="/kanzlei.v1.DocumentService/ListDocuments"} 1`)
	assert.Contains(t, body, `kanzlei_file_requests_total{code="401",method="get"} 1`)
}

func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

func TestNewFileStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewFileStore(ctx, config.FilesConfig{Store: "local", UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &filestore.Local{}, store)

	store, err = NewFileStore(ctx, config.FilesConfig{Store: "S3", S3: config.S3Config{
		Bucket:    "kanzlei",
		Region:    "eu-central-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	}})
	require.NoError(t, err)
	assert.Implements(t, (*filestore.Presigner)(nil), store)

	_, err = NewFileStore(ctx, config.FilesConfig{Store: "s3"})
	assert.Error(t, err, "bucket is required")

	_, err = NewFileStore(ctx, config.FilesConfig{Store: "ftp"})
	assert.Error(t, err)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.ListenAddr = listener.Addr().String()
	require.NoError(t, listener.Close())

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.ListenAddr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not stop")
	}
}

func TestTokensFromOtherSecretsAreRejected(t *testing.T) {
	_, ts := newTestServer(t)

	other := auth.NewJWTManager("other-secret", time.Hour)
	token, err := other.Generate(models.NewUser("mallory@example.com", "Mallory", ""))
	require.NoError(t, err)

	docs := api.NewDocumentServiceClient(ts.Client(), ts.URL, connect.WithInterceptors(bearer(token)))
	_, err = docs.ListDocuments(context.Background(), connect.NewRequest(&api.ListRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}
