package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	EntryKeyPrefix     = "entry:%d"
	EntryListKeyPrefix = "entries:%s:%d"
)

const (
	EntryTTL     = 30 * time.Minute
	EntryListTTL = 2 * time.Minute
)

func EntryKey(entryID uint) string {
	return fmt.Sprintf(EntryKeyPrefix, entryID)
}

// EntryListKey caches the plain owner page; the limit is part of the key so
// pages of different sizes never alias.
func EntryListKey(userEmail string, limit int) string {
	return fmt.Sprintf(EntryListKeyPrefix, userEmail, limit)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateEntry(ctx context.Context, entryID uint) {
	Invalidate(ctx, EntryKey(entryID))
}

// InvalidateEntryLists drops every cached entry list. List keys are
// per-owner, but feeling/location/date filters make precise invalidation
// impractical, so any mutation clears them all.
func InvalidateEntryLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "entries:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
