package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/pkg/api"
)

func TestCreateWorkOrder(t *testing.T) {
	env := newTestEnv(t, models.RoleAdvisor)
	ctx := context.Background()
	client := env.createClient(t, "Erika", "Mustermann")

	t.Run("defaults", func(t *testing.T) {
		resp, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
			Title:    "Einkommensteuer 2023",
			ClientID: client.ID,
		}))
		require.NoError(t, err)

		order := resp.Msg.WorkOrder
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, models.WorkOrderOpen, order.Status)
		assert.Equal(t, models.PriorityMedium, order.Priority)
		assert.Equal(t, env.user.ID, order.AdvisorID, "first advisor is assigned")
		assert.Nil(t, order.DueDate)
	})

	t.Run("client is required", func(t *testing.T) {
		_, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{Title: "x"}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("client must exist", func(t *testing.T) {
		_, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
			Title:    "x",
			ClientID: "missing",
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("template must exist", func(t *testing.T) {
		_, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
			Title:      "x",
			ClientID:   client.ID,
			TemplateID: "missing",
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
			Title:    "x",
			ClientID: client.ID,
			Priority: "urgent",
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})
}

func TestCreateWorkOrderWithoutAdvisor(t *testing.T) {
	env := newTestEnv(t, models.RoleUser)
	ctx := context.Background()
	client := env.createClient(t, "Erika", "Mustermann")

	_, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
		Title:    "Einkommensteuer 2023",
		ClientID: client.ID,
	}))
	assertCode(t, connect.CodeFailedPrecondition, err)

	_, err = env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
		Title:     "Einkommensteuer 2023",
		ClientID:  client.ID,
		AdvisorID: env.user.ID,
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestUpdateWorkOrder(t *testing.T) {
	env := newTestEnv(t, models.RoleAdvisor)
	ctx := context.Background()
	client := env.createClient(t, "Erika", "Mustermann")

	due := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)
	created, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
		Title:    "Jahresabschluss",
		ClientID: client.ID,
		Priority: models.PriorityHigh,
		DueDate:  &due,
	}))
	require.NoError(t, err)
	id := created.Msg.WorkOrder.ID
	require.NotNil(t, created.Msg.WorkOrder.DueDate)
	assert.True(t, due.Equal(*created.Msg.WorkOrder.DueDate))

	status := models.WorkOrderInProgress
	resp, err := env.workOrders.UpdateWorkOrder(ctx, connect.NewRequest(&api.UpdateWorkOrderRequest{
		ID:     id,
		Status: &status,
	}))
	require.NoError(t, err)
	assert.Equal(t, status, resp.Msg.WorkOrder.Status)
	assert.Equal(t, models.PriorityHigh, resp.Msg.WorkOrder.Priority)
	assert.NotNil(t, resp.Msg.WorkOrder.DueDate)

	resp, err = env.workOrders.UpdateWorkOrder(ctx, connect.NewRequest(&api.UpdateWorkOrderRequest{
		ID:           id,
		DueDate:      &due,
		ClearDueDate: true,
	}))
	require.NoError(t, err)
	assert.Nil(t, resp.Msg.WorkOrder.DueDate, "clearing wins over a new date")

	got, err := env.workOrders.GetWorkOrder(ctx, connect.NewRequest(&api.IDRequest{ID: id}))
	require.NoError(t, err)
	assert.Nil(t, got.Msg.WorkOrder.DueDate)
	assert.Equal(t, status, got.Msg.WorkOrder.Status)

	bad := models.WorkOrderStatus("archived")
	_, err = env.workOrders.UpdateWorkOrder(ctx, connect.NewRequest(&api.UpdateWorkOrderRequest{ID: id, Status: &bad}))
	assertCode(t, connect.CodeInvalidArgument, err)

	missing := "missing"
	_, err = env.workOrders.UpdateWorkOrder(ctx, connect.NewRequest(&api.UpdateWorkOrderRequest{ID: id, ClientID: &missing}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestListWorkOrders(t *testing.T) {
	env := newTestEnv(t, models.RoleAdvisor)
	ctx := context.Background()
	client := env.createClient(t, "Erika", "Mustermann")

	for _, p := range []models.Priority{models.PriorityLow, models.PriorityHigh, models.PriorityHigh} {
		_, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
			Title:    "Auftrag " + string(p),
			ClientID: client.ID,
			Priority: p,
		}))
		require.NoError(t, err)
	}

	resp, err := env.workOrders.ListWorkOrders(ctx, connect.NewRequest(&api.ListRequest{
		Filters: map[string][]string{"priority": {string(models.PriorityHigh)}},
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Msg.Total)
}

func TestWorkOrderDocuments(t *testing.T) {
	env := newTestEnv(t, models.RoleAdvisor)
	ctx := context.Background()
	client := env.createClient(t, "Erika", "Mustermann")

	created, err := env.workOrders.CreateWorkOrder(ctx, connect.NewRequest(&api.CreateWorkOrderRequest{
		Title:    "Einkommensteuer 2023",
		ClientID: client.ID,
	}))
	require.NoError(t, err)
	orderID := created.Msg.WorkOrder.ID

	doc := uploadDocument(t, env, "/api/work-orders/"+orderID+"/documents", "beleg.pdf", "x", nil)
	loose := uploadDocument(t, env, "/api/documents/upload", "fremd.pdf", "y", nil)

	t.Run("document of another work order", func(t *testing.T) {
		_, err := env.workOrders.DeleteWorkOrderDocument(ctx, connect.NewRequest(&api.WorkOrderDocumentRequest{
			WorkOrderID: orderID,
			DocumentID:  loose.ID,
		}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("delete removes record and file", func(t *testing.T) {
		_, err := env.workOrders.DeleteWorkOrderDocument(ctx, connect.NewRequest(&api.WorkOrderDocumentRequest{
			WorkOrderID: orderID,
			DocumentID:  doc.ID,
		}))
		require.NoError(t, err)

		list, err := env.workOrders.ListWorkOrderDocuments(ctx, connect.NewRequest(&api.IDRequest{ID: orderID}))
		require.NoError(t, err)
		assert.Empty(t, list.Msg.Documents)

		_, err = env.files.Open(ctx, doc.FileKey)
		assert.Error(t, err)
	})

	t.Run("deleting the work order keeps its documents", func(t *testing.T) {
		kept := uploadDocument(t, env, "/api/work-orders/"+orderID+"/documents", "bleibt.pdf", "z", nil)

		_, err := env.workOrders.DeleteWorkOrder(ctx, connect.NewRequest(&api.IDRequest{ID: orderID}))
		require.NoError(t, err)

		got, err := env.docs.GetDocument(ctx, connect.NewRequest(&api.IDRequest{ID: kept.ID}))
		require.NoError(t, err)
		assert.Empty(t, got.Msg.Document.WorkOrderID)

		_, err = env.workOrders.ListWorkOrderDocuments(ctx, connect.NewRequest(&api.IDRequest{ID: orderID}))
		assertCode(t, connect.CodeNotFound, err)
	})
}
