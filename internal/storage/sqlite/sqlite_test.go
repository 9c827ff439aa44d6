package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateDocument fills defaults", func(t *testing.T) {
		doc := &models.Document{Name: "Jahresabschluss 2023", Owner: "Anna Schmidt"}
		require.NoError(t, store.CreateDocument(ctx, doc))

		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, models.StatusNotStarted, doc.Status)
		assert.False(t, doc.CreatedAt.IsZero())
		assert.Equal(t, doc.CreatedAt, doc.ModifiedAt)
	})

	t.Run("GetDocument round-trips every field", func(t *testing.T) {
		deadline := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
		original := &models.Document{
			Name:        "Umsatzsteuervoranmeldung",
			Description: "Q1",
			Status:      models.StatusToBeReviewed,
			Owner:       "Max Weber",
			ClientID:    "client-1",
			Deadline:    &deadline,
			TemplateID:  "tmpl-1",
			WorkOrderID: "wo-1",
			FileName:    "ustva.pdf",
			FileKey:     "documents/abc",
		}
		require.NoError(t, store.CreateDocument(ctx, original))

		got, err := store.GetDocument(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	})

	t.Run("GetDocument returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetDocument(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateDocument bumps ModifiedAt", func(t *testing.T) {
		doc := &models.Document{Name: "Lohnabrechnung"}
		require.NoError(t, store.CreateDocument(ctx, doc))

		later := doc.ModifiedAt.Add(2 * time.Hour)
		store.now = func() time.Time { return later }
		defer func() { store.now = time.Now }()

		doc.Status = models.StatusFinished
		doc.Deadline = nil
		require.NoError(t, store.UpdateDocument(ctx, doc))

		got, err := store.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFinished, got.Status)
		assert.Equal(t, later.UTC().Truncate(time.Second), got.ModifiedAt)
		assert.Nil(t, got.Deadline)
	})

	t.Run("UpdateDocument and DeleteDocument report missing rows", func(t *testing.T) {
		err := store.UpdateDocument(ctx, &models.Document{ID: "missing"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		err = store.DeleteDocument(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListDocumentsByWorkOrder filters by work order", func(t *testing.T) {
		for _, name := range []string{"Anlage A", "Anlage B"} {
			require.NoError(t, store.CreateDocument(ctx, &models.Document{Name: name, WorkOrderID: "wo-list"}))
		}
		docs, err := store.ListDocumentsByWorkOrder(ctx, "wo-list")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "Anlage A", docs[0].Name)

		none, err := store.ListDocumentsByWorkOrder(ctx, "wo-empty")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}

func TestClients(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("natural person round-trip", func(t *testing.T) {
		client := &models.Client{
			Type:      models.ClientTypeNaturalPerson,
			Address:   models.Address{Zip: "80331", City: "München", Street: "Marienplatz", Number: "1"},
			Email:     "hans@example.de",
			TaxNumber: "143/123/45678",
			TaxOffice: models.TaxOffice{Address: models.Address{City: "München"}, Email: "fa@example.de"},
			Person:    &models.NaturalPerson{Salutation: "Herr", FirstName: "Hans", LastName: "Müller", BirthDate: "1970-01-01"},
			AdvisorID: "adv-1",
		}
		require.NoError(t, store.CreateClient(ctx, client))

		got, err := store.GetClient(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client, got)
		assert.Nil(t, got.Business)
	})

	t.Run("business participants keep their order", func(t *testing.T) {
		client := &models.Client{
			Type:    models.ClientTypeBusiness,
			Address: models.Address{City: "Hamburg"},
			Business: &models.BusinessEntity{
				CompanyName: "Nordlicht GmbH",
				LegalForm:   models.LegalForms[3],
				Participants: []models.Participant{
					{FirstName: "Eva", LastName: "Klein", Role: models.ParticipantRoles[9]},
					{FirstName: "Jan", LastName: "Groß", Role: models.ParticipantRoles[3]},
				},
			},
		}
		require.NoError(t, store.CreateClient(ctx, client))
		assert.NotEmpty(t, client.Business.Participants[0].ID)

		got, err := store.GetClient(ctx, client.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Business)
		require.Len(t, got.Business.Participants, 2)
		assert.Equal(t, "Eva", got.Business.Participants[0].FirstName)
		assert.Equal(t, "Jan", got.Business.Participants[1].FirstName)
		assert.Equal(t, models.LegalForms[3], got.Business.LegalForm)

		client.Business.Participants = client.Business.Participants[1:]
		require.NoError(t, store.UpdateClient(ctx, client))

		clients, err := store.ListClients(ctx)
		require.NoError(t, err)
		var found *models.Client
		for _, c := range clients {
			if c.ID == client.ID {
				found = c
			}
		}
		require.NotNil(t, found)
		require.Len(t, found.Business.Participants, 1)
		assert.Equal(t, "Jan", found.Business.Participants[0].FirstName)
	})

	t.Run("DeleteClient removes participants", func(t *testing.T) {
		client := &models.Client{
			Type: models.ClientTypeBusiness,
			Business: &models.BusinessEntity{
				CompanyName:  "Alt AG",
				Participants: []models.Participant{{FirstName: "Otto", Role: models.ParticipantRoles[2]}},
			},
		}
		require.NoError(t, store.CreateClient(ctx, client))
		require.NoError(t, store.DeleteClient(ctx, client.ID))

		_, err := store.GetClient(ctx, client.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		var n int
		require.NoError(t, store.db.QueryRow(
			`SELECT COUNT(*) FROM client_participants WHERE client_id = ?`, client.ID).Scan(&n))
		assert.Zero(t, n)
	})
}

func TestTemplates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	tmpl := &models.Template{
		Title:     "Mandantenanschreiben",
		Creator:   "Anna Schmidt",
		Type:      models.TemplateTypeDocuments,
		CreatedAt: created,
		History: []models.TemplateHistoryEntry{
			{Date: created, User: "Anna Schmidt", Change: models.ChangeCreated},
		},
	}
	require.NoError(t, store.CreateTemplate(ctx, tmpl))
	firstEntryID := tmpl.History[0].ID
	require.NotEmpty(t, firstEntryID)

	t.Run("UpdateTemplate appends history", func(t *testing.T) {
		tmpl.Note = "überarbeitet"
		tmpl.History = append(tmpl.History, models.TemplateHistoryEntry{
			Date: created.Add(time.Hour), User: "Max Weber", Change: models.ChangeUpdated,
		})
		require.NoError(t, store.UpdateTemplate(ctx, tmpl))

		got, err := store.GetTemplate(ctx, tmpl.ID)
		require.NoError(t, err)
		assert.Equal(t, "überarbeitet", got.Note)
		require.Len(t, got.History, 2)
		assert.Equal(t, firstEntryID, got.History[0].ID)
		assert.Equal(t, models.ChangeCreated, got.History[0].Change)
		assert.Equal(t, models.ChangeUpdated, got.History[1].Change)
	})

	t.Run("existing history entries are never rewritten", func(t *testing.T) {
		tmpl.History[0].Change = "tampered"
		require.NoError(t, store.UpdateTemplate(ctx, tmpl))

		got, err := store.GetTemplate(ctx, tmpl.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ChangeCreated, got.History[0].Change)
	})

	t.Run("ListTemplates loads history", func(t *testing.T) {
		other := &models.Template{Title: "Briefkopf", Creator: "Max Weber", Type: models.TemplateTypeLayouts}
		require.NoError(t, store.CreateTemplate(ctx, other))

		list, err := store.ListTemplates(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, item := range list {
			assert.NotNil(t, item.History)
			if item.ID == tmpl.ID {
				assert.Len(t, item.History, 2)
			} else {
				assert.Empty(t, item.History)
			}
		}
	})

	t.Run("DeleteTemplate", func(t *testing.T) {
		require.NoError(t, store.DeleteTemplate(ctx, tmpl.ID))
		_, err := store.GetTemplate(ctx, tmpl.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteTemplate(ctx, tmpl.ID), storage.ErrNotFound)
	})
}

func TestListTemplatesBeyondVariableLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// More templates than SQLite allows bound variables in one statement.
	const n = 33000
	_, err := store.db.ExecContext(ctx, `
		WITH RECURSIVE seq(i) AS (SELECT 1 UNION ALL SELECT i + 1 FROM seq WHERE i < ?)
		INSERT INTO templates (id, title, template_type, creator, created_at)
		SELECT printf('tmpl-%05d', i), 'Vorlage', ?, 'Anna Schmidt', i FROM seq`,
		n, string(models.TemplateTypeDocuments))
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, `
		INSERT INTO template_history (id, template_id, changed_at, user_name, change)
		SELECT 'h-' || id, id, created_at, creator, ? FROM templates`,
		models.ChangeCreated)
	require.NoError(t, err)

	list, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)
	assert.Equal(t, "tmpl-33000", list[0].ID, "newest first")
	for _, tmpl := range []*models.Template{list[0], list[n-1]} {
		require.Len(t, tmpl.History, 1)
		assert.Equal(t, "h-"+tmpl.ID, tmpl.History[0].ID)
	}
}

func TestWorkOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	order := &models.WorkOrder{Title: "Jahresabschluss", ClientID: "client-1", AdvisorID: "adv-1"}
	require.NoError(t, store.CreateWorkOrder(ctx, order))
	assert.Equal(t, models.WorkOrderOpen, order.Status)
	assert.Equal(t, models.PriorityMedium, order.Priority)

	t.Run("UpdateWorkOrder", func(t *testing.T) {
		due := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		order.Status = models.WorkOrderInProgress
		order.DueDate = &due
		require.NoError(t, store.UpdateWorkOrder(ctx, order))

		got, err := store.GetWorkOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.WorkOrderInProgress, got.Status)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(*got.DueDate))
	})

	t.Run("DeleteWorkOrder detaches documents", func(t *testing.T) {
		doc := &models.Document{Name: "Belege", WorkOrderID: order.ID}
		require.NoError(t, store.CreateDocument(ctx, doc))

		require.NoError(t, store.DeleteWorkOrder(ctx, order.ID))

		got, err := store.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Empty(t, got.WorkOrderID)

		orders, err := store.ListWorkOrders(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.ErrorIs(t, store.DeleteWorkOrder(ctx, order.ID), storage.ErrNotFound)
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	anna := models.NewUser("anna@kanzlei.de", "Anna Schmidt", "hash")
	anna.Role = models.RoleAdvisor
	require.NoError(t, store.CreateUser(ctx, anna))

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "anna@kanzlei.de")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, anna.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		missing, err := store.GetUserByEmail(ctx, "nobody@kanzlei.de")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("anna@kanzlei.de", "Other", "hash")
		assert.Error(t, store.CreateUser(ctx, dup))
	})

	t.Run("ListUsersByRole", func(t *testing.T) {
		plain := models.NewUser("max@kanzlei.de", "Max Weber", "hash")
		require.NoError(t, store.CreateUser(ctx, plain))

		advisors, err := store.ListUsersByRole(ctx, models.RoleAdvisor)
		require.NoError(t, err)
		require.Len(t, advisors, 1)
		assert.Equal(t, anna.ID, advisors[0].ID)

		all, err := store.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("UpdateUser", func(t *testing.T) {
		anna.Language = "en"
		require.NoError(t, store.UpdateUser(ctx, anna))
		got, err := store.GetUserByID(ctx, anna.ID)
		require.NoError(t, err)
		assert.Equal(t, "en", got.Language)

		_, err = store.GetUserByID(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestPrefs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetPrefs(ctx, "u1", map[string][]byte{
		"docs.pageSize":    []byte("50"),
		"docs.columnOrder": []byte(`["name"]`),
	}))
	require.NoError(t, store.SetPrefs(ctx, "u1", map[string][]byte{"docs.pageSize": []byte("10")}))
	require.NoError(t, store.SetPrefs(ctx, "u2", map[string][]byte{"docs.pageSize": []byte("99")}))

	got, err := store.GetPrefs(ctx, "u1", []string{"docs.pageSize", "docs.columnOrder", "docs.columnWidths"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"docs.pageSize":    []byte("10"),
		"docs.columnOrder": []byte(`["name"]`),
	}, got)

	require.NoError(t, store.DeletePrefs(ctx, "u1", []string{"docs.pageSize", "docs.columnOrder"}))
	got, err = store.GetPrefs(ctx, "u1", []string{"docs.pageSize"})
	require.NoError(t, err)
	assert.Empty(t, got)

	other, err := store.GetPrefs(ctx, "u2", []string{"docs.pageSize"})
	require.NoError(t, err)
	assert.Equal(t, []byte("99"), other["docs.pageSize"])
}
