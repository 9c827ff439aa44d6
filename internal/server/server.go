// Package server wires storage, services and middleware into the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/kanzlei/internal/auth"
	"github.com/mmynk/kanzlei/internal/config"
	"github.com/mmynk/kanzlei/internal/filestore"
	"github.com/mmynk/kanzlei/internal/middleware"
	"github.com/mmynk/kanzlei/internal/service"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/internal/storage/sqlite"
	"github.com/mmynk/kanzlei/pkg/api"
)

// ShutdownTimeout bounds how long in-flight requests may take after a stop signal.
const ShutdownTimeout = 10 * time.Second

// Server is the assembled application.
type Server struct {
	cfg      *config.Config
	store    storage.Store
	files    filestore.Store
	jwt      *auth.JWTManager
	registry *prometheus.Registry
	handler  http.Handler
}

// New opens the database and file store configured in cfg and builds the handler tree.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)

	files, err := NewFileStore(ctx, cfg.Files)
	if err != nil {
		store.Close()
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		files:    files,
		jwt:      auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		registry: prometheus.NewRegistry(),
	}
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.handler = s.routes()
	return s, nil
}

// NewFileStore returns the upload store selected by cfg.Store.
func NewFileStore(ctx context.Context, cfg config.FilesConfig) (filestore.Store, error) {
	switch strings.ToLower(cfg.Store) {
	case config.FileStoreS3:
		store, err := filestore.NewS3(ctx, filestore.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 file store: %w", err)
		}
		slog.Info("File store initialized", "backend", "s3", "bucket", cfg.S3.Bucket)
		return store, nil
	case config.FileStoreLocal, "":
		store, err := filestore.NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local file store: %w", err)
		}
		slog.Info("File store initialized", "backend", "local", "path", cfg.UploadDir)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown file store %q", cfg.Store)
	}
}

func (s *Server) routes() http.Handler {
	metrics := middleware.NewMetrics(s.registry)
	authenticator := auth.NewPasswordAuthenticator(s.store)

	// Auth runs before logging so the logged user ID is known.
	protected := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(s.jwt),
		middleware.LoggingInterceptor(),
	)
	public := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.OptionalAuth(s.jwt),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewDocumentServiceHandler(service.NewDocumentService(s.store, s.files), protected))
	mux.Handle(api.NewClientServiceHandler(service.NewClientService(s.store), protected))
	mux.Handle(api.NewTemplateServiceHandler(service.NewTemplateService(s.store, s.files), protected))
	mux.Handle(api.NewWorkOrderServiceHandler(service.NewWorkOrderService(s.store, s.files), protected))
	mux.Handle(api.NewPrefsServiceHandler(service.NewPrefsService(s.store), protected))
	// Register and Login are public; the other user RPCs check the caller themselves.
	mux.Handle(api.NewUserServiceHandler(service.NewUserService(authenticator, s.jwt, s.store), public))

	requireAuth := middleware.RequireAuthHTTP(s.jwt)
	service.NewFileHandler(s.store, s.files, s.cfg.MaxUploadBytes()).Register(mux, func(h http.Handler) http.Handler {
		return metrics.InstrumentHTTP(requireAuth(h))
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/", spaHandler(s.cfg.StaticPath))

	// h2c serves HTTP/2 without TLS for Connect clients.
	return h2c.NewHandler(middleware.RequestLogger(middleware.CORS(mux)), &http2.Server{})
}

// spaHandler serves the front-end build. Unknown paths get index.html so the
// client-side router can resolve them; RPC and API paths never do.
func spaHandler(staticPath string) http.Handler {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		staticDir = staticPath
	}
	slog.Info("Serving static files", "path", staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/kanzlei.v1.") || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))

		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if s.cfg.Insecure() {
		slog.Warn("Using the development JWT secret; set JWT_SECRET in production")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the database.
func (s *Server) Close() error {
	return s.store.Close()
}
