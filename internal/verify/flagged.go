package verify

import (
	"sort"
	"sync"

	"github.com/hyperjump/kensho/internal/models"
)

const topReasons = 5

// FlaggedLog is a fixed-capacity ring buffer of flagged verifications.
// When full, the oldest entry is evicted regardless of score; append and
// eviction happen inside one critical section so no reader observes the log
// over capacity.
type FlaggedLog struct {
	mu       sync.Mutex
	entries  []*models.FlaggedEntry
	start    int
	size     int
	capacity int
}

// NewFlaggedLog creates a log holding at most capacity entries.
func NewFlaggedLog(capacity int) *FlaggedLog {
	if capacity <= 0 {
		capacity = 100
	}
	return &FlaggedLog{
		entries:  make([]*models.FlaggedEntry, capacity),
		capacity: capacity,
	}
}

// Add appends entry, evicting the oldest when the log is full.
func (l *FlaggedLog) Add(entry *models.FlaggedEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := (l.start + l.size) % l.capacity
	if l.size == l.capacity {
		l.start = (l.start + 1) % l.capacity
	} else {
		l.size++
	}
	l.entries[idx] = entry
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (l *FlaggedLog) Recent(limit int) []*models.FlaggedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > l.size {
		limit = l.size
	}
	out := make([]*models.FlaggedEntry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (l.start + l.size - 1 - i + l.capacity) % l.capacity
		out = append(out, l.entries[idx])
	}
	return out
}

// Len returns the number of stored entries.
func (l *FlaggedLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Stats summarizes the log: total count, the five most frequent flag
// reasons, and the mean score across all stored entries (0 when empty).
func (l *FlaggedLog) Stats() *models.FlaggedStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := &models.FlaggedStats{TotalFlagged: l.size}
	if l.size == 0 {
		return stats
	}

	counts := make(map[string]int)
	sum := 0.0
	for i := 0; i < l.size; i++ {
		entry := l.entries[(l.start+i)%l.capacity]
		sum += entry.Score
		for _, reason := range entry.FlagReasons {
			counts[reason]++
		}
	}
	stats.AverageScore = sum / float64(l.size)

	for reason, count := range counts {
		stats.CommonReasons = append(stats.CommonReasons, models.ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(stats.CommonReasons, func(i, j int) bool {
		if stats.CommonReasons[i].Count != stats.CommonReasons[j].Count {
			return stats.CommonReasons[i].Count > stats.CommonReasons[j].Count
		}
		return stats.CommonReasons[i].Reason < stats.CommonReasons[j].Reason
	})
	if len(stats.CommonReasons) > topReasons {
		stats.CommonReasons = stats.CommonReasons[:topReasons]
	}
	return stats
}
