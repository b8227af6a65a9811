// Package cache provides a keyed recency list for least-recently-used
// eviction.
//
//	var idle cache.LRU[*Target]
//	idle.Touch(t)              // t is now the most recent
//	oldest, ok := idle.Oldest() // eviction candidate
//
// LRU is not safe for concurrent use; callers hold their own lock.
package cache
