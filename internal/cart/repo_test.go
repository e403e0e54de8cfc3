package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

func TestOwnerValid(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	token := "tok"

	require.True(t, OwnerForUser(userID).Valid())
	require.True(t, OwnerForGuest(token).Valid())
	require.False(t, Owner{}.Valid())
	require.False(t, Owner{UserID: &userID, GuestToken: &token}.Valid())
}

func TestRepositoryLineLifecycle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateTestProduct(t, db, 4990, 0)
	owner := OwnerForGuest("guest-" + uuid.NewString()[:8])

	item, err := repo.CreateItem(ctx, owner, product.ID, enums.SizeM, 2)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, item.ID)

	found, err := repo.FindItem(ctx, owner, product.ID, enums.SizeM)
	require.NoError(t, err)
	require.Equal(t, 2, found.Quantity)

	require.NoError(t, repo.UpdateQuantity(ctx, item.ID, 5))
	found, err = repo.FindItem(ctx, owner, product.ID, enums.SizeM)
	require.NoError(t, err)
	require.Equal(t, 5, found.Quantity)

	deleted, err := repo.DeleteItem(ctx, owner, product.ID, enums.SizeM)
	require.NoError(t, err)
	require.True(t, deleted)

	// Deleting again reports no rows but no error.
	deleted, err = repo.DeleteItem(ctx, owner, product.ID, enums.SizeM)
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = repo.FindItem(ctx, owner, product.ID, enums.SizeM)
	require.True(t, IsNotFound(err))
}

func TestRepositoryScopesByOwner(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateTestProduct(t, db, 2990, 0)
	guestOwner := OwnerForGuest("guest-" + uuid.NewString()[:8])
	userOwner := OwnerForUser(uuid.New())

	_, err := repo.CreateItem(ctx, guestOwner, product.ID, enums.SizeS, 1)
	require.NoError(t, err)
	_, err = repo.CreateItem(ctx, userOwner, product.ID, enums.SizeS, 3)
	require.NoError(t, err)

	guestItems, err := repo.ListItems(ctx, guestOwner)
	require.NoError(t, err)
	require.Len(t, guestItems, 1)
	require.Equal(t, 1, guestItems[0].Quantity)

	userItems, err := repo.ListItems(ctx, userOwner)
	require.NoError(t, err)
	require.Len(t, userItems, 1)
	require.Equal(t, 3, userItems[0].Quantity)

	require.NoError(t, repo.Clear(ctx, guestOwner))
	guestItems, err = repo.ListItems(ctx, guestOwner)
	require.NoError(t, err)
	require.Empty(t, guestItems)

	// The user's cart is untouched by the guest clear.
	userItems, err = repo.ListItems(ctx, userOwner)
	require.NoError(t, err)
	require.Len(t, userItems, 1)
}

func TestListLineRecords(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateTestProduct(t, db, 5000, 10)
	mustSeedSize(t, db, product.ID, enums.SizeL, 7)
	owner := OwnerForUser(uuid.New())

	_, err := repo.CreateItem(ctx, owner, product.ID, enums.SizeL, 2)
	require.NoError(t, err)
	// A line whose size has no stock row still shows up, with zero available.
	_, err = repo.CreateItem(ctx, owner, product.ID, enums.SizeXS, 1)
	require.NoError(t, err)

	records, err := repo.ListLineRecords(ctx, owner)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, product.ID, records[0].ProductID)
	require.Equal(t, enums.SizeL, records[0].Size)
	require.Equal(t, 2, records[0].Quantity)
	require.Equal(t, 5000, records[0].PriceCents)
	require.Equal(t, 10, records[0].DiscountPercent)
	require.Equal(t, 7, records[0].Available)

	require.Equal(t, enums.SizeXS, records[1].Size)
	require.Equal(t, 0, records[1].Available)
}

func TestDeleteGuestItemsOlderThan(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateTestProduct(t, db, 1990, 0)
	staleToken := "stale-" + uuid.NewString()[:8]
	freshToken := "fresh-" + uuid.NewString()[:8]
	userOwner := OwnerForUser(uuid.New())

	_, err := repo.CreateItem(ctx, OwnerForGuest(staleToken), product.ID, enums.SizeM, 1)
	require.NoError(t, err)
	_, err = repo.CreateItem(ctx, OwnerForGuest(freshToken), product.ID, enums.SizeM, 1)
	require.NoError(t, err)
	_, err = repo.CreateItem(ctx, userOwner, product.ID, enums.SizeM, 1)
	require.NoError(t, err)

	stale := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("guest_token = ?", staleToken).
		Update("updated_at", stale).Error)

	removed, err := repo.DeleteGuestItemsOlderThan(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	_, err = repo.FindItem(ctx, OwnerForGuest(staleToken), product.ID, enums.SizeM)
	require.True(t, IsNotFound(err))

	// Fresh guest lines and user lines survive the purge.
	_, err = repo.FindItem(ctx, OwnerForGuest(freshToken), product.ID, enums.SizeM)
	require.NoError(t, err)
	_, err = repo.FindItem(ctx, userOwner, product.ID, enums.SizeM)
	require.NoError(t, err)
}
