package cache

import (
	"context"
	"fmt"
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

// InvalidateSlotCache drops all cached slot listings for a mentor after a
// slot is created, deleted or consumed.
func InvalidateSlotCache(ctx context.Context, cm *CacheManager, mentorID string) {
	SafeInvalidatePattern(ctx, cm.Slot, fmt.Sprintf("mentor:%s:*", mentorID))
	SafeInvalidatePattern(ctx, cm.Slot, "list:*")
}

// InvalidateProfileCache drops the cached profile for a user after an update.
func InvalidateProfileCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.Profile, fmt.Sprintf("user:%s", userID))
}
