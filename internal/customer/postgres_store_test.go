//go:build integration

package customer

import (
	"context"
	"testing"
	"time"

	"github.com/mbd888/hispayment/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Lifecycle(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	c := &Customer{
		ID:           "5b7f2c1e-0000-4000-8000-000000000001",
		FirstName:    "Ada",
		LastName:     "Smith",
		Email:        "ada@example.com",
		PaymentToken: "tok_1",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Create(ctx, c))

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)
	assert.Nil(t, got.BlockedUntil)

	until := c.CreatedAt.Add(2 * time.Minute)
	got, err = store.Update(ctx, c.ID, Patch{BlockedUntil: &until})
	require.NoError(t, err)
	require.NotNil(t, got.BlockedUntil)
	assert.True(t, until.Equal(*got.BlockedUntil))

	got, err = store.Update(ctx, c.ID, Patch{ClearBlock: true})
	require.NoError(t, err)
	assert.Nil(t, got.BlockedUntil)

	_, err = store.Get(ctx, "5b7f2c1e-0000-4000-8000-00000000ffff")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = store.Update(ctx, "5b7f2c1e-0000-4000-8000-00000000ffff", Patch{ClearBlock: true})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	list, err := store.List(ctx, nil, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
