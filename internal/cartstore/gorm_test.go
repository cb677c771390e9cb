package cartstore

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MKovalyov/food_delivery/internal/cart"
	"github.com/MKovalyov/food_delivery/internal/models"
)

func newTestStore(t *testing.T) *GormStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.CartItem{}, &models.MenuItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return New(db)
}

func TestListLines_InsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.NewString()

	// distinct created_at values so the ordering contract is observable
	base := time.Now().Add(-time.Hour).UTC()
	var want []string
	for i := 0; i < 5; i++ {
		line := models.CartItem{
			UserID:       userID,
			MenuItemID:   uuid.NewString(),
			RestaurantID: "r1",
			Quantity:     1,
			UnitPrice:    1,
			TotalPrice:   1,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.InsertLine(ctx, &line))
		want = append(want, line.ID)
	}

	lines, err := store.ListLines(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 5)
	for i, l := range lines {
		assert.Equal(t, want[i], l.ID)
	}
}

func TestListLines_ScopedToUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	for _, u := range []string{alice, bob, alice} {
		require.NoError(t, store.InsertLine(ctx, &models.CartItem{
			UserID: u, MenuItemID: uuid.NewString(), RestaurantID: "r1",
			Quantity: 1, UnitPrice: 2, TotalPrice: 2,
		}))
	}

	lines, err := store.ListLines(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestUpdateLine(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	line := models.CartItem{
		UserID: uuid.NewString(), MenuItemID: uuid.NewString(), RestaurantID: "r1",
		Quantity: 1, UnitPrice: 4, TotalPrice: 4, Note: "old",
	}
	require.NoError(t, store.InsertLine(ctx, &line))

	line.Quantity = 3
	line.TotalPrice = 12
	line.Note = "new"
	require.NoError(t, store.UpdateLine(ctx, &line))

	lines, err := store.ListLines(ctx, line.UserID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 12.0, lines[0].TotalPrice)
	assert.Equal(t, "new", lines[0].Note)
}

func TestDeleteLine_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	line := models.CartItem{
		UserID: uuid.NewString(), MenuItemID: uuid.NewString(), RestaurantID: "r1",
		Quantity: 1, UnitPrice: 1, TotalPrice: 1,
	}
	require.NoError(t, store.InsertLine(ctx, &line))

	// deleting with the wrong user leaves the line alone
	require.NoError(t, store.DeleteLine(ctx, uuid.NewString(), line.ID))
	lines, err := store.ListLines(ctx, line.UserID)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	require.NoError(t, store.DeleteLine(ctx, line.UserID, line.ID))
	require.NoError(t, store.DeleteLine(ctx, line.UserID, line.ID))
	require.NoError(t, store.DeleteLine(ctx, line.UserID, uuid.NewString()))

	lines, err = store.ListLines(ctx, line.UserID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDeleteAllForUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	for _, u := range []string{alice, alice, bob} {
		require.NoError(t, store.InsertLine(ctx, &models.CartItem{
			UserID: u, MenuItemID: uuid.NewString(), RestaurantID: "r1",
			Quantity: 1, UnitPrice: 1, TotalPrice: 1,
		}))
	}

	require.NoError(t, store.DeleteAllForUser(ctx, alice))
	require.NoError(t, store.DeleteAllForUser(ctx, alice))

	aliceLines, err := store.ListLines(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceLines)

	bobLines, err := store.ListLines(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, bobLines, 1)
}

func TestPriceOf(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := models.MenuItem{
		RestaurantID: uuid.NewString(),
		Name:         "Margherita",
		Price:        9.5,
	}
	require.NoError(t, store.DB.Create(&item).Error)

	quote, err := store.PriceOf(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.5, quote.UnitPrice)
	assert.Equal(t, item.RestaurantID, quote.RestaurantID)
}

func TestPriceOf_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.PriceOf(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, cart.ErrItemNotFound)
}
