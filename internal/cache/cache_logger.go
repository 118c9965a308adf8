package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateAlumniCache drops the cached record and the directory aggregates
// after a write to a single alumni row
func InvalidateAlumniCache(ctx context.Context, cm *CacheManager, alumniID uint) {
	SafeDelete(ctx, cm.Alumni, AlumniIDKey(alumniID))
	SafeDelete(ctx, cm.Stats, DirectoryAggregatesKey)
}

// InvalidateDirectoryCache drops every alumni and stats entry, used after bulk writes
func InvalidateDirectoryCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Alumni, "*")
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}
