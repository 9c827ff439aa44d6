// Package apiclient is the Go client of the kanzlei API: typed RPC clients,
// file uploads and downloads, and list state for user interfaces.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/pkg/api"
)

// DefaultTimeout bounds every call. There are no retries.
const DefaultTimeout = 30 * time.Second

// Client talks to one kanzlei server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	mu    sync.RWMutex
	token string

	Documents  *api.DocumentServiceClient
	Clients    *api.ClientServiceClient
	Templates  *api.TemplateServiceClient
	WorkOrders *api.WorkOrderServiceClient
	Users      *api.UserServiceClient
	Prefs      *api.PrefsServiceClient
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout replaces DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithToken sets the session token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	rpcOpts := connect.WithInterceptors(c.timeoutInterceptor(), c.authInterceptor())
	c.Documents = api.NewDocumentServiceClient(c.httpClient, c.baseURL, rpcOpts)
	c.Clients = api.NewClientServiceClient(c.httpClient, c.baseURL, rpcOpts)
	c.Templates = api.NewTemplateServiceClient(c.httpClient, c.baseURL, rpcOpts)
	c.WorkOrders = api.NewWorkOrderServiceClient(c.httpClient, c.baseURL, rpcOpts)
	c.Users = api.NewUserServiceClient(c.httpClient, c.baseURL, rpcOpts)
	c.Prefs = api.NewPrefsServiceClient(c.httpClient, c.baseURL, rpcOpts)
	return c
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the session token. An empty token logs out.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := c.Users.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Msg.Token)
	return resp.Msg.User, nil
}

func (c *Client) timeoutInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return next(ctx, req)
		}
	}
}

func (c *Client) authInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := c.Token(); token != "" {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// Error is a failed file request.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// UploadDocument uploads a file as a new document. fields may carry name,
// description, status, mandant, deadline and template.
func (c *Client) UploadDocument(ctx context.Context, fileName string, content io.Reader, fields map[string]string) (*models.Document, error) {
	var out struct {
		Document *models.Document `json:"document"`
	}
	if err := c.upload(ctx, "/api/documents/upload", fields, "file", []File{{fileName, content}}, &out); err != nil {
		return nil, err
	}
	return out.Document, nil
}

// UploadWorkOrderDocument uploads a file into a work order.
func (c *Client) UploadWorkOrderDocument(ctx context.Context, workOrderID, fileName string, content io.Reader) (*models.Document, error) {
	var out struct {
		Document *models.Document `json:"document"`
	}
	if err := c.upload(ctx, "/api/work-orders/"+workOrderID+"/documents", nil, "file", []File{{fileName, content}}, &out); err != nil {
		return nil, err
	}
	return out.Document, nil
}

// UploadTemplateFile attaches a file to a template, replacing the previous one.
func (c *Client) UploadTemplateFile(ctx context.Context, templateID, fileName string, content io.Reader) (*models.Template, error) {
	var out struct {
		Template *models.Template `json:"template"`
	}
	if err := c.upload(ctx, "/api/templates/"+templateID+"/file", nil, "file", []File{{fileName, content}}, &out); err != nil {
		return nil, err
	}
	return out.Template, nil
}

// File is one file of an upload.
type File struct {
	Name    string
	Content io.Reader
}

// CreateWorkOrderWithDocuments opens a work order and attaches files in one
// request. The server assigns the first advisor when req.AdvisorID is empty.
func (c *Client) CreateWorkOrderWithDocuments(ctx context.Context, req *api.CreateWorkOrderRequest, files ...File) (*models.WorkOrder, []*models.Document, error) {
	fields := map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"clientId":    req.ClientID,
		"advisorId":   req.AdvisorID,
		"templateId":  req.TemplateID,
		"priority":    string(req.Priority),
	}
	if req.DueDate != nil {
		fields["dueDate"] = req.DueDate.Format(time.RFC3339)
	}
	var out struct {
		WorkOrder *models.WorkOrder  `json:"workOrder"`
		Documents []*models.Document `json:"documents"`
	}
	if err := c.upload(ctx, "/api/work-orders/with-documents", fields, "documents", files, &out); err != nil {
		return nil, nil, err
	}
	return out.WorkOrder, out.Documents, nil
}

// DownloadDocument writes the file of a document to w.
func (c *Client) DownloadDocument(ctx context.Context, documentID string, w io.Writer) error {
	return c.download(ctx, "/api/documents/"+documentID+"/file", w)
}

// DownloadWorkOrderDocument writes the file of a work order document to w.
func (c *Client) DownloadWorkOrderDocument(ctx context.Context, workOrderID, documentID string, w io.Writer) error {
	return c.download(ctx, "/api/work-orders/"+workOrderID+"/documents/"+documentID+"/file", w)
}

// DownloadTemplateFile writes the file of a template to w.
func (c *Client) DownloadTemplateFile(ctx context.Context, templateID string, w io.Writer) error {
	return c.download(ctx, "/api/templates/"+templateID+"/file", w)
}

// upload streams a multipart body so large files are not held in memory.
func (c *Client) upload(ctx context.Context, path string, fields map[string]string, field string, files []File, out any) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, field, files))
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		pr.Close()
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		pr.Close()
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upload response: %w", err)
	}
	return nil
}

// writeMultipart writes the non-empty text fields, then the files.
func writeMultipart(mw *multipart.Writer, fields map[string]string, field string, files []File) error {
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(field, f.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return err
		}
	}
	return mw.Close()
}

func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read download: %w", err)
	}
	return nil
}

// do sends req with the session token and turns non-2xx responses into *Error.
// Redirects to presigned URLs are followed by the HTTP client.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
}
