package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/testhelpers"
)

func TestSubscribe(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")

	follow, err := svc.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, follow.ID)
	assert.Equal(t, "bob", follow.Username)
	assert.True(t, follow.IsSubscribed)
	assert.Empty(t, follow.Recipes)
	assert.EqualValues(t, 0, follow.RecipesCount)

	_, err = svc.Subscribe(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Subscribe(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = svc.Subscribe(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")

	_, err := svc.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, alice.ID, bob.ID), ErrNotFound)
}

func TestFollowResponseRecipePreview(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	chef := testhelpers.CreateUser(t, db, "chef")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	dinner := testhelpers.CreateTag(t, db, "Dinner", "dinner")
	for i := 0; i < 5; i++ {
		testhelpers.CreateRecipe(t, db, chef, fmt.Sprintf("Dish %d", i), dinner, map[uuid.UUID]int{flour.ID: 10})
	}

	follow, err := svc.Subscribe(ctx, alice.ID, chef.ID)
	require.NoError(t, err)

	// The preview is capped at 3 recipes while the count is the full total.
	assert.Len(t, follow.Recipes, 3)
	assert.EqualValues(t, 5, follow.RecipesCount)
}

func TestSubscriptions(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	carol := testhelpers.CreateUser(t, db, "carol")

	_, err := svc.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	follows, total, err := svc.Subscriptions(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, follows, 2)
	for _, f := range follows {
		assert.True(t, f.IsSubscribed)
	}

	follows, total, err = svc.Subscriptions(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, follows)
}

func TestGetUserSubscribedFlag(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")

	_, err := svc.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	profile, err := svc.Get(ctx, bob.ID, &alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	anon, err := svc.Get(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	_, err = svc.Get(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsersOrderedByUsername(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	testhelpers.CreateUser(t, db, "zoe")
	testhelpers.CreateUser(t, db, "adam")
	testhelpers.CreateUser(t, db, "mia")

	users, total, err := svc.List(ctx, 1, 10, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 3)
	assert.Equal(t, "adam", users[0].Username)
	assert.Equal(t, "mia", users[1].Username)
	assert.Equal(t, "zoe", users[2].Username)
}
