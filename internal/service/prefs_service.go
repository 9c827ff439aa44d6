package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/middleware"
	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/storage"
	"github.com/mmynk/kanzlei/pkg/api"
)

// PrefsService implements the Connect PrefsService.
// Each preference field is stored as JSON under its own key, e.g. "docs.pageSize".
type PrefsService struct {
	store storage.PrefsStore
}

var _ api.PrefsServiceHandler = (*PrefsService)(nil)

func NewPrefsService(store storage.PrefsStore) *PrefsService {
	return &PrefsService{store: store}
}

// GetTablePrefs returns the caller's preferences for an entity.
// Each stored field replaces the default wholesale; unreadable values are ignored.
func (s *PrefsService) GetTablePrefs(ctx context.Context, req *connect.Request[api.TablePrefsRequest]) (*connect.Response[api.TablePrefsResponse], error) {
	userID, err := prefsCaller(ctx, req.Msg.Entity)
	if err != nil {
		return nil, err
	}
	prefs, err := s.load(ctx, userID, req.Msg.Entity)
	if err != nil {
		return nil, failed("GetTablePrefs", err, "user_id", userID, "entity", req.Msg.Entity)
	}
	return connect.NewResponse(&api.TablePrefsResponse{Entity: req.Msg.Entity, Prefs: prefs}), nil
}

// UpdateTablePrefs merges the given fields into the caller's preferences and stores the result.
func (s *PrefsService) UpdateTablePrefs(ctx context.Context, req *connect.Request[api.UpdateTablePrefsRequest]) (*connect.Response[api.TablePrefsResponse], error) {
	entity := req.Msg.Entity
	userID, err := prefsCaller(ctx, entity)
	if err != nil {
		return nil, err
	}
	current, err := s.load(ctx, userID, entity)
	if err != nil {
		return nil, failed("UpdateTablePrefs", err, "user_id", userID, "entity", entity)
	}

	merged := current.Merge(req.Msg.Prefs)
	values := make(map[string][]byte)
	for _, key := range entity.StorageKeys() {
		raw, err := json.Marshal(prefField(&merged, key))
		if err != nil {
			return nil, failed("UpdateTablePrefs", err, "key", key)
		}
		values[key] = raw
	}
	if err := s.store.SetPrefs(ctx, userID, values); err != nil {
		return nil, failed("UpdateTablePrefs", err, "user_id", userID, "entity", entity)
	}

	slog.Debug("Table prefs updated", "user_id", userID, "entity", entity, "page_size", merged.PageSize)
	return connect.NewResponse(&api.TablePrefsResponse{Entity: entity, Prefs: merged}), nil
}

// ResetTablePrefs deletes the caller's stored preferences and returns the defaults.
func (s *PrefsService) ResetTablePrefs(ctx context.Context, req *connect.Request[api.TablePrefsRequest]) (*connect.Response[api.TablePrefsResponse], error) {
	entity := req.Msg.Entity
	userID, err := prefsCaller(ctx, entity)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeletePrefs(ctx, userID, entity.StorageKeys()); err != nil {
		return nil, failed("ResetTablePrefs", err, "user_id", userID, "entity", entity)
	}
	slog.Info("Table prefs reset", "user_id", userID, "entity", entity)
	return connect.NewResponse(&api.TablePrefsResponse{Entity: entity, Prefs: models.DefaultTablePrefs(entity)}), nil
}

func prefsCaller(ctx context.Context, entity models.Entity) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	if !entity.Valid() {
		return "", invalidArgument(fmt.Sprintf("unknown entity: %q", entity))
	}
	return userID, nil
}

func (s *PrefsService) load(ctx context.Context, userID string, entity models.Entity) (models.TablePrefs, error) {
	prefs := models.DefaultTablePrefs(entity)
	stored, err := s.store.GetPrefs(ctx, userID, entity.StorageKeys())
	if err != nil {
		return prefs, err
	}
	for key, raw := range stored {
		field := prefField(&prefs, key)
		if field == nil {
			continue
		}
		// Decode into a copy so a broken value leaves the default in place.
		if err := decodeInto(field, raw); err != nil {
			slog.Warn("Ignoring unreadable table pref", "user_id", userID, "key", key, "error", err)
		}
	}
	return prefs, nil
}

// prefField returns a pointer to the field of p stored under key.
func prefField(p *models.TablePrefs, key string) any {
	_, name, _ := strings.Cut(key, ".")
	switch name {
	case "visibleColumns", "visibleMeta":
		return &p.VisibleColumns
	case "columnWidths":
		return &p.ColumnWidths
	case "columnOrder":
		return &p.ColumnOrder
	case "pageSize":
		return &p.PageSize
	default:
		return nil
	}
}

func decodeInto(field any, raw []byte) error {
	switch f := field.(type) {
	case *map[string]bool:
		var v map[string]bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*f = v
	case *map[string]int:
		var v map[string]int
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*f = v
	case *[]string:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*f = v
	case *int:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("invalid page size %d", v)
		}
		*f = v
	default:
		return fmt.Errorf("unsupported field type %T", field)
	}
	return nil
}
