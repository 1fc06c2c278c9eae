package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

type exampleDoc struct {
	ID   int
	Path string
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, exampleDoc]("doc-cache", DefaultExpiration, DefaultCleanupInterval)
	doc := exampleDoc{Path: "notes.md"}
	cache.Set(context.Background(), "doc:1", doc, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "doc:1")
	require.True(t, ok)
	require.Equal(t, doc, got)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "doc", "notes.md", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "doc")
	require.True(t, ok)
	require.Equal(t, "notes.md", got)
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "doc")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("doc", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "doc")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetMultipleWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetMultipleCacheHit(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("a", "a.md", DefaultExpiration)
	cache.cache.Set("b", "b.md", DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"a", "b", "missing"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"a": "a.md", "b": "b.md"}, got)
}

func TestInMemoryCacheManager_GetMultipleCacheMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{"a", "b", "missing"})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetMultipleWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("a", "a.md", DefaultExpiration)
	cache.cache.Set("b", 123, DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"a", "b"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"a": "a.md"}, got)
}

func TestInMemoryCacheManager_GetWithRefresh_WithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetWithRefresh(context.Background(), "doc", time.Minute*60)
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestInMemoryCacheManager_GetWithRefresh_WithExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "doc", "notes.md", DefaultExpiration)

	got, ok := cache.GetWithRefresh(context.Background(), "doc", time.Minute*60)
	require.True(t, ok)
	require.Equal(t, "notes.md", got)
}

func TestInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)

	require.NoError(t, cache.Delete(context.Background()))
}

func TestInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "doc", "notes.md", DefaultExpiration)

	require.NoError(t, cache.Delete(context.Background(), "doc"))

	got, ok := cache.Get(context.Background(), "doc")
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("doc-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "doc", "notes.md", DefaultExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	got, ok := cache.Get(context.Background(), "doc")
	require.False(t, ok)
	require.Equal(t, "", got)
}
