package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenStore_WithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	assert.NoError(t, store.StoreRefreshToken(ctx, "id", "alice", time.Minute))

	_, err := store.GetRefreshToken(ctx, "id")
	assert.Error(t, err)

	assert.NoError(t, store.DeleteRefreshToken(ctx, "id"))
	assert.NoError(t, store.BlacklistAccessToken(ctx, "id", time.Minute))

	revoked, err := store.IsAccessTokenBlacklisted(ctx, "id")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
