package userctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserEmail(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Anonymous, GetUserEmail(ctx))
	assert.Equal(t, Anonymous, GetUserEmail(SetUserEmail(ctx, "")))
	assert.Equal(t, "ana@example.com", GetUserEmail(SetUserEmail(ctx, "ana@example.com")))
}

func TestUserIDAndRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetRequestID(ctx))

	ctx = SetRequestID(SetUserID(ctx, "auth|42"), "req-1")
	assert.Equal(t, "auth|42", GetUserID(ctx))
	assert.Equal(t, "req-1", GetRequestID(ctx))
}
