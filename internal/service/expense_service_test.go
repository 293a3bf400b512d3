package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasko/gatherly/internal/models"
)

func TestLoad_EmptySheetForNewEvent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	members := NewMembershipService(store)
	expenses := NewExpenseService(store)

	event, err := members.CreateEvent(ctx, "u1", CreateEventRequest{Title: "Picnic"})
	require.NoError(t, err)

	sheet, err := expenses.Load(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, sheet.EventID)
	assert.Empty(t, sheet.Items)
	assert.Equal(t, 1, sheet.DivideBy)
	assert.Equal(t, float64(0), sheet.TotalCost)
}

func TestLoad_UnknownEvent(t *testing.T) {
	ctx := context.Background()
	expenses := NewExpenseService(newTestStore(t))

	_, err := expenses.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSheetEditing(t *testing.T) {
	sheet := models.NewExpense("ev1")

	sheet.AddItem()
	sheet.AddItem()
	sheet.UpdateItemName(0, "Tent")
	sheet.UpdateItemPrice(0, "10.00")
	sheet.UpdateItemName(1, "Firewood")
	sheet.UpdateItemPrice(1, "5.50")
	sheet.SetAttendees([]string{"u1", "u2", "u3"})

	assert.Equal(t, 15.50, sheet.TotalCost)
	assert.Equal(t, 5.17, sheet.CostPerPerson)

	// Malformed price coerces to zero, no error raised.
	sheet.UpdateItemPrice(1, "abc")
	assert.Equal(t, 10.00, sheet.TotalCost)
	assert.Equal(t, 3.33, sheet.CostPerPerson)

	// Out-of-range indexes are a silent no-op.
	sheet.UpdateItemPrice(5, "99")
	sheet.UpdateItemName(-1, "ghost")
	assert.Len(t, sheet.Items, 2)
	assert.Equal(t, 10.00, sheet.TotalCost)

	// No attendees: full total reported for a single payer.
	sheet.SetAttendees(nil)
	assert.Equal(t, 10.00, sheet.CostPerPerson)

	// DivideBy is informational and coerced, never part of the split.
	sheet.SetDivideBy("abc")
	assert.Equal(t, 1, sheet.DivideBy)
	sheet.SetDivideBy("4")
	assert.Equal(t, 4, sheet.DivideBy)
	assert.Equal(t, 10.00, sheet.CostPerPerson)
}

func TestSaveAndReload(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	members := NewMembershipService(store)
	expenses := NewExpenseService(store)

	event, err := members.CreateEvent(ctx, "u1", CreateEventRequest{Title: "Camping"})
	require.NoError(t, err)

	sheet, err := expenses.Load(ctx, event.ID)
	require.NoError(t, err)
	sheet.SetTitle("Supplies")
	sheet.AddItem()
	sheet.UpdateItemName(0, "Tent")
	sheet.UpdateItemPrice(0, "10.00")
	sheet.AddItem()
	sheet.UpdateItemName(1, "Food")
	sheet.UpdateItemPrice(1, "5.50")
	sheet.SetAttendees([]string{"u1", "u2", "u3"})

	require.NoError(t, expenses.Save(ctx, sheet))

	// Reloading reports the same rounded numbers.
	reloaded, err := expenses.Load(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Supplies", reloaded.Title)
	assert.Equal(t, 15.50, reloaded.TotalCost)
	assert.Equal(t, 5.17, reloaded.CostPerPerson)
	assert.Len(t, reloaded.Items, 2)

	// The event's cached summary was refreshed on save.
	got, err := members.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "15.50", got.ExpenseSummary.TotalCost)
	assert.Equal(t, "5.17", got.ExpenseSummary.CostPerPerson)
	assert.True(t, got.ExpenseSummary.HasExpenses())
}

func TestSave_OverwritesSingleDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	members := NewMembershipService(store)
	expenses := NewExpenseService(store)

	event, err := members.CreateEvent(ctx, "u1", CreateEventRequest{})
	require.NoError(t, err)

	first, _ := expenses.Load(ctx, event.ID)
	first.AddItem()
	first.UpdateItemPrice(0, "20")
	require.NoError(t, expenses.Save(ctx, first))

	second, err := expenses.Load(ctx, event.ID)
	require.NoError(t, err)
	second.AddItem()
	second.UpdateItemPrice(1, "30")
	require.NoError(t, expenses.Save(ctx, second))

	reloaded, err := expenses.Load(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, reloaded.ID, "one sheet per event, overwritten in place")
	assert.Equal(t, 50.00, reloaded.TotalCost)
}

func TestSave_UnknownEvent(t *testing.T) {
	ctx := context.Background()
	expenses := NewExpenseService(newTestStore(t))

	sheet := models.NewExpense("missing")
	assert.ErrorIs(t, expenses.Save(ctx, sheet), ErrEventNotFound)
}
