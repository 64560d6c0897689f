package repository

import (
	"context"
	"testing"

	apperrors "krushak/internal/errors"
	"krushak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser(username, email string) *models.User {
	return &models.User{
		DisplayName: "Ramesh Patel",
		Username:    username,
		Email:       email,
		Password:    "$2a$10$hashedpasswordplaceholder",
		Phone:       "+919876543210",
		Role:        models.RoleFarmer,
	}
}

func TestUserRepository_Create(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	t.Run("successfully creates user", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		user := testUser("ramesh1", "ramesh@example.com")
		err := repo.Create(ctx, user)

		require.NoError(t, err)
		assert.False(t, user.ID.IsZero())
		assert.NotZero(t, user.CreatedAt)
		assert.NotNil(t, user.Favorites)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		require.NoError(t, repo.Create(ctx, testUser("ramesh1", "ramesh@example.com")))

		err := repo.Create(ctx, testUser("someoneelse", "ramesh@example.com"))
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		require.NoError(t, repo.Create(ctx, testUser("ramesh1", "ramesh@example.com")))

		err := repo.Create(ctx, testUser("ramesh1", "other@example.com"))
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})
}

func TestUserRepository_Find(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	user := testUser("ramesh1", "ramesh@example.com")
	require.NoError(t, repo.Create(ctx, user))

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ramesh1", found.Username)
	})

	t.Run("by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ramesh@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("by username", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "ramesh1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

		_, err = repo.FindByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserRepository_Updates(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	t.Run("profile fields", func(t *testing.T) {
		tdb.ClearCollection(t, "users")
		user := testUser("ramesh1", "ramesh@example.com")
		require.NoError(t, repo.Create(ctx, user))

		name := "Ramesh P."
		updated, err := repo.UpdateProfile(ctx, user.ID, &models.UpdateProfileRequest{DisplayName: &name})
		require.NoError(t, err)
		assert.Equal(t, "Ramesh P.", updated.DisplayName)
		assert.Equal(t, "+919876543210", updated.Phone, "untouched fields survive")
	})

	t.Run("role", func(t *testing.T) {
		tdb.ClearCollection(t, "users")
		user := testUser("ramesh1", "ramesh@example.com")
		require.NoError(t, repo.Create(ctx, user))

		require.NoError(t, repo.UpdateRole(ctx, user.ID, models.RoleEquipmentOwner))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleEquipmentOwner, found.Role)
	})

	t.Run("media fields", func(t *testing.T) {
		tdb.ClearCollection(t, "users")
		user := testUser("ramesh1", "ramesh@example.com")
		require.NoError(t, repo.Create(ctx, user))

		require.NoError(t, repo.UpdateMedia(ctx, user.ID, "avatar", "https://cdn.example.com/a.jpg"))
		require.NoError(t, repo.UpdateMedia(ctx, user.ID, "coverImage", "https://cdn.example.com/c.jpg"))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/a.jpg", found.Avatar)
		assert.Equal(t, "https://cdn.example.com/c.jpg", found.CoverImage)
	})

	t.Run("missing user", func(t *testing.T) {
		err := repo.UpdatePassword(ctx, primitive.NewObjectID(), "hash")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserRepository_ToggleFavorite(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	user := testUser("ramesh1", "ramesh@example.com")
	require.NoError(t, repo.Create(ctx, user))
	eqID := primitive.NewObjectID()

	isFavorite, err := repo.ToggleFavorite(ctx, user.ID, eqID)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, found.Favorites, eqID)

	// Second toggle removes it.
	isFavorite, err = repo.ToggleFavorite(ctx, user.ID, eqID)
	require.NoError(t, err)
	assert.False(t, isFavorite)

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotContains(t, found.Favorites, eqID)
}

func TestUserRepository_PushRecentlyViewed(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	user := testUser("ramesh1", "ramesh@example.com")
	require.NoError(t, repo.Create(ctx, user))

	t.Run("newest first and deduplicated", func(t *testing.T) {
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()

		require.NoError(t, repo.PushRecentlyViewed(ctx, user.ID, first))
		require.NoError(t, repo.PushRecentlyViewed(ctx, user.ID, second))
		// Viewing the first again moves it back to the front.
		require.NoError(t, repo.PushRecentlyViewed(ctx, user.ID, first))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, found.RecentlyViewed, 2)
		assert.Equal(t, first, found.RecentlyViewed[0].EquipmentID)
		assert.Equal(t, second, found.RecentlyViewed[1].EquipmentID)
	})

	t.Run("list is capped", func(t *testing.T) {
		for i := 0; i < maxRecentlyViewed+5; i++ {
			require.NoError(t, repo.PushRecentlyViewed(ctx, user.ID, primitive.NewObjectID()))
		}

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, found.RecentlyViewed, maxRecentlyViewed)
	})
}

func TestUserRepository_FindAllIDs(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	u1 := testUser("ramesh1", "ramesh@example.com")
	u2 := testUser("kiran22", "kiran@example.com")
	require.NoError(t, repo.Create(ctx, u1))
	require.NoError(t, repo.Create(ctx, u2))

	ids, err := repo.FindAllIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{u1.ID, u2.ID}, ids)
}
