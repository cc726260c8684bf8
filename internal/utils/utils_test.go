package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("SetUserContext and GetUserIDFromContext", func(t *testing.T) {
		ctx := context.Background()

		userID := uint(42)
		email := "buyer@example.com"
		role := RoleUser

		ctx = SetUserContext(ctx, userID, email, role)

		id, ok := GetUserIDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, userID, id)
		assert.Equal(t, email, GetUserEmailFromContext(ctx))
		assert.Equal(t, role, GetUserRoleFromContext(ctx))
		assert.False(t, IsAdmin(ctx))
	})

	t.Run("GetUserIDFromContext with empty context", func(t *testing.T) {
		ctx := context.Background()
		_, ok := GetUserIDFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("IsAdmin", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), 1, "ops@example.com", RoleAdmin)
		assert.True(t, IsAdmin(ctx))
	})
}

func TestResolveImageURL(t *testing.T) {
	base := "https://cdn.example.com/"

	assert.Equal(t, "", ResolveImageURL(base, ""))
	assert.Equal(t,
		"https://cdn.example.com/products/ao-thun.jpg",
		ResolveImageURL(base, "/products/ao-thun.jpg"),
	)
	assert.Equal(t,
		"https://other.example.com/x.png",
		ResolveImageURL(base, "https://other.example.com/x.png"),
	)

	urls := ResolveImageURLs(base, []string{"a.jpg", "b.jpg"})
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, urls)
}

func TestToUint(t *testing.T) {
	n, err := ToUint("15")
	require.NoError(t, err)
	assert.Equal(t, uint(15), n)

	_, err = ToUint("abc")
	assert.Error(t, err)
}
