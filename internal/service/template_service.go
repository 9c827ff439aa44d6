package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/filestore"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/pkg/api"
)

// TemplateService implements the Connect TemplateService.
// Every change appends an entry to the template's history.
type TemplateService struct {
	store storage.Store
	files filestore.Store
}

var _ api.TemplateServiceHandler = (*TemplateService)(nil)

// NewTemplateService creates a new TemplateService with the given storage backends.
func NewTemplateService(store storage.Store, files filestore.Store) *TemplateService {
	return &TemplateService{store: store, files: files}
}

// ListTemplates returns one page of templates after search, filters and sort.
func (s *TemplateService) ListTemplates(ctx context.Context, req *connect.Request[api.ListRequest]) (*connect.Response[api.ListTemplatesResponse], error) {
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, failed("ListTemplates", err)
	}
	result := query.Run(templates, query.Templates, *req.Msg)
	return connect.NewResponse(&result), nil
}

// GetTemplate retrieves a template with its history.
func (s *TemplateService) GetTemplate(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.TemplateResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	tmpl, err := s.store.GetTemplate(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("GetTemplate", err, "template_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.TemplateResponse{Template: tmpl}), nil
}

// CreateTemplate stores a new template created by the caller.
func (s *TemplateService) CreateTemplate(ctx context.Context, req *connect.Request[api.CreateTemplateRequest]) (*connect.Response[api.TemplateResponse], error) {
	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, invalidArgument("template title is required")
	}
	if !req.Msg.Type.Valid() {
		return nil, invalidArgument("unknown template type: " + string(req.Msg.Type))
	}

	creator := actorName(ctx)
	created := now()
	tmpl := &models.Template{
		Title:     title,
		Note:      req.Msg.Note,
		Type:      req.Msg.Type,
		Creator:   creator,
		CreatedAt: created,
		History: []models.TemplateHistoryEntry{
			{Date: created, User: creator, Change: models.ChangeCreated},
		},
	}

	if err := s.store.CreateTemplate(ctx, tmpl); err != nil {
		return nil, failed("CreateTemplate", err)
	}

	slog.Info("Template created", "template_id", tmpl.ID, "title", tmpl.Title)
	return connect.NewResponse(&api.TemplateResponse{Template: tmpl}), nil
}

// UpdateTemplate applies the fields that are set and records the change.
func (s *TemplateService) UpdateTemplate(ctx context.Context, req *connect.Request[api.UpdateTemplateRequest]) (*connect.Response[api.TemplateResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	tmpl, err := s.store.GetTemplate(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("UpdateTemplate", err, "template_id", req.Msg.ID)
	}

	if req.Msg.Title != nil {
		title := strings.TrimSpace(*req.Msg.Title)
		if title == "" {
			return nil, invalidArgument("template title is required")
		}
		tmpl.Title = title
	}
	if req.Msg.Note != nil {
		tmpl.Note = *req.Msg.Note
	}
	if req.Msg.Type != nil {
		if !req.Msg.Type.Valid() {
			return nil, invalidArgument("unknown template type: " + string(*req.Msg.Type))
		}
		tmpl.Type = *req.Msg.Type
	}

	if err := s.record(ctx, tmpl, models.ChangeUpdated); err != nil {
		return nil, failed("UpdateTemplate", err, "template_id", tmpl.ID)
	}

	slog.Info("Template updated", "template_id", tmpl.ID)
	return connect.NewResponse(&api.TemplateResponse{Template: tmpl}), nil
}

// record appends a history entry for the caller and saves the template.
func (s *TemplateService) record(ctx context.Context, tmpl *models.Template, change string) error {
	tmpl.History = append(tmpl.History, models.TemplateHistoryEntry{
		Date:   now(),
		User:   actorName(ctx),
		Change: change,
	})
	return s.store.UpdateTemplate(ctx, tmpl)
}

// DeleteTemplate removes a template, its history and its file.
func (s *TemplateService) DeleteTemplate(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	tmpl, err := s.store.GetTemplate(ctx, req.Msg.ID)
	if err != nil {
		return nil, failed("DeleteTemplate", err, "template_id", req.Msg.ID)
	}
	if err := s.store.DeleteTemplate(ctx, tmpl.ID); err != nil {
		return nil, failed("DeleteTemplate", err, "template_id", tmpl.ID)
	}
	if tmpl.FileKey != "" {
		if err := s.files.Delete(ctx, tmpl.FileKey); err != nil {
			slog.Warn("Failed to delete template file", "template_id", tmpl.ID, "key", tmpl.FileKey, "error", err)
		}
	}

	slog.Info("Template deleted", "template_id", tmpl.ID)
	return connect.NewResponse(&api.Empty{}), nil
}

// ListTemplateTypes returns the template categories.
func (s *TemplateService) ListTemplateTypes(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.TemplateTypesResponse], error) {
	return connect.NewResponse(&api.TemplateTypesResponse{Types: models.TemplateTypes}), nil
}

// ListCreators returns the distinct creators of all templates, sorted.
func (s *TemplateService) ListCreators(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.CreatorsResponse], error) {
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, failed("ListCreators", err)
	}
	creators := make([]string, 0, len(templates))
	for _, t := range templates {
		if t.Creator != "" {
			creators = append(creators, t.Creator)
		}
	}
	slices.Sort(creators)
	return connect.NewResponse(&api.CreatorsResponse{Creators: slices.Compact(creators)}), nil
}
