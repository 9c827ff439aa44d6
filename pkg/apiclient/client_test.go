package apiclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/config"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/internal/server"
	"github.com/mmynk/kanzlei/pkg/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "kanzlei.db")
	cfg.StaticPath = dir
	cfg.Files.UploadDir = filepath.Join(dir, "uploads")
	cfg.JWTSecret = "test-secret"

	s, err := server.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// loggedIn registers a user and returns a client holding its session.
func loggedIn(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(ts.URL+"/", WithHTTPClient(ts.Client()))
	_, err := c.Users.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    "anna@kanzlei.de",
		Name:     "Anna Schmidt",
		Password: "geheim123",
	}))
	require.NoError(t, err)
	assert.Empty(t, c.Token(), "register does not log the client in")

	user, err := c.Login(ctx, "anna@kanzlei.de", "geheim123")
	require.NoError(t, err)
	assert.Equal(t, "Anna Schmidt", user.Name)
	require.NotEmpty(t, c.Token())
	return c
}

func TestClientCollection(t *testing.T) {
	ts := newTestServer(t)
	c := loggedIn(t, ts)
	ctx := context.Background()
	clients := c.ClientList()

	created, err := clients.Create(ctx, &models.Client{
		Type:    models.ClientTypeNaturalPerson,
		Address: models.Address{City: "München"},
		Person:  &models.NaturalPerson{FirstName: "Max", LastName: "Weber"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	state := clients.State()
	assert.Equal(t, created, state.Current)
	assert.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Total)

	require.NoError(t, clients.Fetch(ctx, query.Params{}))
	state = clients.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	require.Len(t, state.Items, 1)
	assert.Equal(t, created.ID, state.Items[0].ID)
	assert.Equal(t, 1, state.Page)

	changed := *created
	changed.Address.City = "Augsburg"
	updated, err := clients.Update(ctx, &changed)
	require.NoError(t, err)
	assert.Equal(t, "Augsburg", updated.Address.City)
	assert.Equal(t, "Augsburg", clients.State().Items[0].Address.City)

	require.NoError(t, clients.FetchOne(ctx, created.ID))
	assert.Equal(t, "Augsburg", clients.State().Current.Address.City)

	require.NoError(t, clients.Delete(ctx, created.ID))
	state = clients.State()
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
	assert.Nil(t, state.Current)
}

func TestCollectionErrors(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	anonymous := New(ts.URL, WithHTTPClient(ts.Client()))

	t.Run("loading", func(t *testing.T) {
		clients := anonymous.ClientList()
		err := clients.Fetch(ctx, query.Params{})
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		assert.Equal(t, "Error loading clients", clients.State().Error)

		clients.ClearError()
		assert.Empty(t, clients.State().Error)
	})

	t.Run("creating", func(t *testing.T) {
		templates := anonymous.TemplateList()
		_, err := templates.Create(ctx, &models.Template{Title: "Mandatsvertrag", Type: models.TemplateTypeDocuments})
		require.Error(t, err)
		assert.Equal(t, "Error creating template", templates.State().Error)
	})

	t.Run("single record", func(t *testing.T) {
		c := loggedIn(t, ts)
		orders := c.WorkOrderList()
		err := orders.FetchOne(ctx, "missing")
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
		assert.Equal(t, "Error loading work order", orders.State().Error)

		docs := c.DocumentList()
		err = docs.Delete(ctx, "missing")
		require.Error(t, err)
		assert.Equal(t, "Error deleting document", docs.State().Error)
		assert.False(t, docs.State().Loading)
	})
}

func TestUploadAndDownload(t *testing.T) {
	ts := newTestServer(t)
	c := loggedIn(t, ts)
	ctx := context.Background()

	doc, err := c.UploadDocument(ctx, "bilanz.pdf", strings.NewReader("%PDF-1.4 bilanz"), map[string]string{
		"name":   "Bilanz 2025",
		"status": string(models.StatusDraft),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bilanz 2025", doc.Name)
	assert.Equal(t, "bilanz.pdf", doc.FileName)

	var buf bytes.Buffer
	require.NoError(t, c.DownloadDocument(ctx, doc.ID, &buf))
	assert.Equal(t, "%PDF-1.4 bilanz", buf.String())

	tmpl, err := c.TemplateList().Create(ctx, &models.Template{Title: "Briefkopf", Type: models.TemplateTypeLayouts})
	require.NoError(t, err)
	tmpl, err = c.UploadTemplateFile(ctx, tmpl.ID, "briefkopf.docx", strings.NewReader("layout"))
	require.NoError(t, err)
	assert.Equal(t, "briefkopf.docx", tmpl.FileName)
	require.Len(t, tmpl.History, 2)
	assert.Equal(t, models.ChangeFileUploaded, tmpl.History[1].Change)

	buf.Reset()
	require.NoError(t, c.DownloadTemplateFile(ctx, tmpl.ID, &buf))
	assert.Equal(t, "layout", buf.String())

	err = c.DownloadDocument(ctx, "missing", &buf)
	var httpErr *Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	_, err = c.UploadWorkOrderDocument(ctx, "missing", "a.pdf", strings.NewReader("a"))
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	_, err = c.UploadDocument(ctx, "setup.exe", strings.NewReader("MZ"), nil)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)

	client, err := c.ClientList().Create(ctx, &models.Client{
		Type:   models.ClientTypeNaturalPerson,
		Person: &models.NaturalPerson{FirstName: "Erika", LastName: "Mustermann"},
	})
	require.NoError(t, err)
	_, _, err = c.CreateWorkOrderWithDocuments(ctx, &api.CreateWorkOrderRequest{Title: "Jahresabschluss", ClientID: client.ID},
		File{Name: "bilanz.pdf", Content: strings.NewReader("bilanz")})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "no advisor available", httpErr.Message)

	c.SetToken("")
	err = c.DownloadDocument(ctx, doc.ID, &buf)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(slow.Close)
	t.Cleanup(func() { close(release) })

	c := New(slow.URL, WithHTTPClient(slow.Client()), WithTimeout(50*time.Millisecond))
	ctx := context.Background()

	start := time.Now()
	_, err := c.Documents.ListDocuments(ctx, connect.NewRequest(&api.ListRequest{}))
	assert.Equal(t, connect.CodeDeadlineExceeded, connect.CodeOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)

	err = c.DownloadDocument(ctx, "any", &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "unexpected error: %v", err)
}

func TestDefaultTimeout(t *testing.T) {
	c := New("http://localhost")
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, 30*time.Second, DefaultTimeout)
}
