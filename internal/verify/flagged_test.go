package verify

import (
	"fmt"
	"testing"
	"time"

	"github.com/hyperjump/kensho/internal/models"
)

func entry(i int, score float64, reasons ...string) *models.FlaggedEntry {
	return &models.FlaggedEntry{
		ArticleID:   fmt.Sprintf("article-%d", i),
		Title:       fmt.Sprintf("title %d", i),
		FlaggedAt:   time.Now().UTC(),
		Score:       score,
		FlagReasons: reasons,
	}
}

func TestFlaggedLogBounded(t *testing.T) {
	log := NewFlaggedLog(100)
	for i := 0; i < 150; i++ {
		log.Add(entry(i, 0.5))
	}

	if log.Len() != 100 {
		t.Fatalf("expected exactly 100 entries, got %d", log.Len())
	}

	recent := log.Recent(0)
	if len(recent) != 100 {
		t.Fatalf("expected all 100 entries, got %d", len(recent))
	}
	// The survivors are the 100 most recent, newest first.
	if recent[0].ArticleID != "article-149" {
		t.Errorf("newest entry should come first, got %s", recent[0].ArticleID)
	}
	if recent[99].ArticleID != "article-50" {
		t.Errorf("oldest surviving entry should be article-50, got %s", recent[99].ArticleID)
	}
}

func TestFlaggedLogRecentLimit(t *testing.T) {
	log := NewFlaggedLog(100)
	for i := 0; i < 10; i++ {
		log.Add(entry(i, 0.5))
	}

	recent := log.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}
	if recent[0].ArticleID != "article-9" || recent[2].ArticleID != "article-7" {
		t.Errorf("unexpected ordering: %s, %s", recent[0].ArticleID, recent[2].ArticleID)
	}
}

func TestFlaggedLogStats(t *testing.T) {
	log := NewFlaggedLog(100)

	log.Add(entry(0, 0.4, "reason-a", "reason-b"))
	log.Add(entry(1, 0.6, "reason-a"))
	log.Add(entry(2, 0.5, "reason-a", "reason-c"))

	stats := log.Stats()
	if stats.TotalFlagged != 3 {
		t.Errorf("expected total 3, got %d", stats.TotalFlagged)
	}
	if stats.AverageScore < 0.499 || stats.AverageScore > 0.501 {
		t.Errorf("expected mean 0.5, got %v", stats.AverageScore)
	}
	if len(stats.CommonReasons) == 0 || stats.CommonReasons[0].Reason != "reason-a" {
		t.Errorf("reason-a should rank first: %+v", stats.CommonReasons)
	}
	if stats.CommonReasons[0].Count != 3 {
		t.Errorf("reason-a count should be 3: %+v", stats.CommonReasons[0])
	}
}

func TestFlaggedLogStatsEmpty(t *testing.T) {
	stats := NewFlaggedLog(10).Stats()
	if stats.TotalFlagged != 0 || stats.AverageScore != 0 || len(stats.CommonReasons) != 0 {
		t.Errorf("empty log stats should be zero: %+v", stats)
	}
}

func TestFlaggedLogStatsTopFive(t *testing.T) {
	log := NewFlaggedLog(100)
	for i := 0; i < 7; i++ {
		log.Add(entry(i, 0.5, fmt.Sprintf("reason-%d", i)))
	}
	if got := len(log.Stats().CommonReasons); got != 5 {
		t.Errorf("expected top 5 reasons, got %d", got)
	}
}
