package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/pkg/api"
)

// State is a snapshot of a Collection as a list view renders it.
// Error holds a generic message such as "Error loading clients";
// the underlying error is logged, not shown.
type State[T any] struct {
	Items    []T
	Current  T
	Total    int
	Page     int
	PageSize int
	Loading  bool
	Error    string
}

// Ops are the remote calls behind a Collection.
type Ops[T any] struct {
	List   func(ctx context.Context, params query.Params) (*query.Result[T], error)
	Get    func(ctx context.Context, id string) (T, error)
	Create func(ctx context.Context, item T) (T, error)
	Update func(ctx context.Context, item T) (T, error)
	Delete func(ctx context.Context, id string) error
	ID     func(T) string
}

// Collection keeps the list state of one entity kind. It is safe for concurrent use.
type Collection[T any] struct {
	singular string
	plural   string
	ops      Ops[T]

	mu    sync.Mutex
	state State[T]
}

// NewCollection creates an empty collection. The names are used in error messages.
func NewCollection[T any](singular, plural string, ops Ops[T]) *Collection[T] {
	return &Collection[T]{singular: singular, plural: plural, ops: ops}
}

// State returns a copy of the current state.
func (c *Collection[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	return s
}

// ClearError dismisses the current error message.
func (c *Collection[T]) ClearError() {
	c.mu.Lock()
	c.state.Error = ""
	c.mu.Unlock()
}

// Fetch loads one page of the list.
func (c *Collection[T]) Fetch(ctx context.Context, params query.Params) error {
	return c.track("loading", c.plural, func() (func(*State[T]), error) {
		res, err := c.ops.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return func(s *State[T]) {
			s.Items = res.Items
			s.Total = res.Total
			s.Page = res.Page
			s.PageSize = res.PageSize
		}, nil
	})
}

// FetchOne loads a single record into Current.
func (c *Collection[T]) FetchOne(ctx context.Context, id string) error {
	return c.track("loading", c.singular, func() (func(*State[T]), error) {
		item, err := c.ops.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return func(s *State[T]) { s.Current = item }, nil
	})
}

// Create saves a new record and puts it at the front of the list.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var created T
	err := c.track("creating", c.singular, func() (func(*State[T]), error) {
		var err error
		created, err = c.ops.Create(ctx, item)
		if err != nil {
			return nil, err
		}
		return func(s *State[T]) {
			s.Items = append([]T{created}, s.Items...)
			s.Total++
			s.Current = created
		}, nil
	})
	return created, err
}

// Update saves a changed record and replaces it in the list.
func (c *Collection[T]) Update(ctx context.Context, item T) (T, error) {
	var updated T
	err := c.track("updating", c.singular, func() (func(*State[T]), error) {
		var err error
		updated, err = c.ops.Update(ctx, item)
		if err != nil {
			return nil, err
		}
		id := c.ops.ID(updated)
		return func(s *State[T]) {
			if i := slices.IndexFunc(s.Items, func(v T) bool { return c.ops.ID(v) == id }); i >= 0 {
				s.Items[i] = updated
			}
			if c.ops.ID(s.Current) == id {
				s.Current = updated
			}
		}, nil
	})
	return updated, err
}

// Delete removes a record.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.track("deleting", c.singular, func() (func(*State[T]), error) {
		if err := c.ops.Delete(ctx, id); err != nil {
			return nil, err
		}
		return func(s *State[T]) {
			n := len(s.Items)
			s.Items = slices.DeleteFunc(s.Items, func(v T) bool { return c.ops.ID(v) == id })
			s.Total -= n - len(s.Items)
			if c.ops.ID(s.Current) == id {
				var zero T
				s.Current = zero
			}
		}, nil
	})
}

// track runs fn with Loading set. On success the returned mutation is applied;
// on failure Error is set to "Error <action> <noun>".
func (c *Collection[T]) track(action, noun string, fn func() (func(*State[T]), error)) error {
	c.mu.Lock()
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	apply, err := fn()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	if err != nil {
		c.state.Error = fmt.Sprintf("Error %s %s", action, noun)
		slog.Error(c.state.Error, "error", err)
		return err
	}
	apply(&c.state)
	return nil
}

// ClientList returns a collection of clients backed by c.
func (c *Client) ClientList() *Collection[*models.Client] {
	return NewCollection("client", "clients", Ops[*models.Client]{
		List: func(ctx context.Context, p query.Params) (*query.Result[*models.Client], error) {
			resp, err := c.Clients.ListClients(ctx, connect.NewRequest(&p))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		},
		Get: func(ctx context.Context, id string) (*models.Client, error) {
			resp, err := c.Clients.GetClient(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Client, nil
		},
		Create: func(ctx context.Context, v *models.Client) (*models.Client, error) {
			resp, err := c.Clients.CreateClient(ctx, connect.NewRequest(&api.ClientRequest{Client: v}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Client, nil
		},
		Update: func(ctx context.Context, v *models.Client) (*models.Client, error) {
			resp, err := c.Clients.UpdateClient(ctx, connect.NewRequest(&api.ClientRequest{Client: v}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Client, nil
		},
		Delete: func(ctx context.Context, id string) error {
			_, err := c.Clients.DeleteClient(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			return err
		},
		ID: func(v *models.Client) string { return idOf(v, func(v *models.Client) string { return v.ID }) },
	})
}

// DocumentList returns a collection of documents backed by c.
func (c *Client) DocumentList() *Collection[*models.Document] {
	return NewCollection("document", "documents", Ops[*models.Document]{
		List: func(ctx context.Context, p query.Params) (*query.Result[*models.Document], error) {
			resp, err := c.Documents.ListDocuments(ctx, connect.NewRequest(&p))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		},
		Get: func(ctx context.Context, id string) (*models.Document, error) {
			resp, err := c.Documents.GetDocument(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Document, nil
		},
		Create: func(ctx context.Context, v *models.Document) (*models.Document, error) {
			resp, err := c.Documents.CreateDocument(ctx, connect.NewRequest(&api.DocumentRequest{Document: v}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Document, nil
		},
		Update: func(ctx context.Context, v *models.Document) (*models.Document, error) {
			resp, err := c.Documents.UpdateDocument(ctx, connect.NewRequest(&api.DocumentRequest{Document: v}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Document, nil
		},
		Delete: func(ctx context.Context, id string) error {
			_, err := c.Documents.DeleteDocument(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			return err
		},
		ID: func(v *models.Document) string { return idOf(v, func(v *models.Document) string { return v.ID }) },
	})
}

// TemplateList returns a collection of templates backed by c.
// Updates send title, note and type; history is kept by the server.
func (c *Client) TemplateList() *Collection[*models.Template] {
	return NewCollection("template", "templates", Ops[*models.Template]{
		List: func(ctx context.Context, p query.Params) (*query.Result[*models.Template], error) {
			resp, err := c.Templates.ListTemplates(ctx, connect.NewRequest(&p))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		},
		Get: func(ctx context.Context, id string) (*models.Template, error) {
			resp, err := c.Templates.GetTemplate(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Template, nil
		},
		Create: func(ctx context.Context, v *models.Template) (*models.Template, error) {
			resp, err := c.Templates.CreateTemplate(ctx, connect.NewRequest(&api.CreateTemplateRequest{
				Title: v.Title,
				Note:  v.Note,
				Type:  v.Type,
			}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Template, nil
		},
		Update: func(ctx context.Context, v *models.Template) (*models.Template, error) {
			resp, err := c.Templates.UpdateTemplate(ctx, connect.NewRequest(&api.UpdateTemplateRequest{
				ID:    v.ID,
				Title: &v.Title,
				Note:  &v.Note,
				Type:  &v.Type,
			}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.Template, nil
		},
		Delete: func(ctx context.Context, id string) error {
			_, err := c.Templates.DeleteTemplate(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			return err
		},
		ID: func(v *models.Template) string { return idOf(v, func(v *models.Template) string { return v.ID }) },
	})
}

// WorkOrderList returns a collection of work orders backed by c.
func (c *Client) WorkOrderList() *Collection[*models.WorkOrder] {
	return NewCollection("work order", "work orders", Ops[*models.WorkOrder]{
		List: func(ctx context.Context, p query.Params) (*query.Result[*models.WorkOrder], error) {
			resp, err := c.WorkOrders.ListWorkOrders(ctx, connect.NewRequest(&p))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		},
		Get: func(ctx context.Context, id string) (*models.WorkOrder, error) {
			resp, err := c.WorkOrders.GetWorkOrder(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.WorkOrder, nil
		},
		Create: func(ctx context.Context, v *models.WorkOrder) (*models.WorkOrder, error) {
			resp, err := c.WorkOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
				Title:       v.Title,
				Description: v.Description,
				ClientID:    v.ClientID,
				AdvisorID:   v.AdvisorID,
				TemplateID:  v.TemplateID,
				Priority:    v.Priority,
				DueDate:     v.DueDate,
			}))
			if err != nil {
				return nil, err
			}
			return resp.Msg.WorkOrder, nil
		},
		Update: func(ctx context.Context, v *models.WorkOrder) (*models.WorkOrder, error) {
			req := &api.UpdateWorkOrderRequest{
				ID:           v.ID,
				Title:        &v.Title,
				Description:  &v.Description,
				Status:       &v.Status,
				Priority:     &v.Priority,
				DueDate:      v.DueDate,
				ClearDueDate: v.DueDate == nil,
				ClientID:     &v.ClientID,
				AdvisorID:    &v.AdvisorID,
				TemplateID:   &v.TemplateID,
			}
			resp, err := c.WorkOrders.UpdateWorkOrder(ctx, connect.NewRequest(req))
			if err != nil {
				return nil, err
			}
			return resp.Msg.WorkOrder, nil
		},
		Delete: func(ctx context.Context, id string) error {
			_, err := c.WorkOrders.DeleteWorkOrder(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
			return err
		},
		ID: func(v *models.WorkOrder) string { return idOf(v, func(v *models.WorkOrder) string { return v.ID }) },
	})
}

// idOf returns "" for nil records so an empty Current never matches.
func idOf[T any](v *T, id func(*T) string) string {
	if v == nil {
		return ""
	}
	return id(v)
}
