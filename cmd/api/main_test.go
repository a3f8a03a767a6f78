package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/config"
	"blog-api/repositories"
)

func TestNewPostStoreInMemory(t *testing.T) {
	store, health, closeStore, err := newPostStore(context.Background(), config.MongoConfig{URI: config.MemoryURI})
	require.NoError(t, err)

	assert.IsType(t, &repositories.MemoryPostRepository{}, store)
	assert.Nil(t, health)
	assert.NoError(t, closeStore(context.Background()))
}
