package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFeedingFrenzy  BookmarkType = "feeding_frenzy"
	BookmarkFishExtinct    BookmarkType = "fish_extinct"
	BookmarkPopulationBoom BookmarkType = "population_boom"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	SimTimeSec  float64      `csv:"sim_time" json:"sim_time"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"sim_time", b.SimTimeSec,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the tank.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentFishMin int  // minimum fish count since the last boom
	hadFish       bool // fish were present in the previous window
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		recentFishMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Feeding frenzy: bites > 2x rolling average
	if b := bd.checkFeedingFrenzy(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Extinction: fish were present last window, none now
	fish := stats.FishTotal()
	if bd.hadFish && fish == 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFishExtinct,
			SimTimeSec:  stats.SimTimeSec,
			Description: "No fish left in the tank",
		})
	}
	bd.hadFish = fish > 0

	// Boom: at least 3x the recent minimum
	if b := bd.checkPopulationBoom(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if bd.recentFishMin < 0 || fish < bd.recentFishMin {
		bd.recentFishMin = fish
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFeedingFrenzy(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Bites
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Bites) > avg*2.0 && stats.Bites >= 3 {
		return &Bookmark{
			Type:        BookmarkFeedingFrenzy,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("%d bites is %.1fx average (%.2f)", stats.Bites, float64(stats.Bites)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationBoom(stats WindowStats) *Bookmark {
	if bd.recentFishMin < 0 {
		return nil
	}

	fish := stats.FishTotal()
	threshold := bd.recentFishMin * 3
	if threshold < 6 {
		threshold = 6
	}
	if fish < threshold {
		return nil
	}

	oldMin := bd.recentFishMin
	bd.recentFishMin = fish
	return &Bookmark{
		Type:        BookmarkPopulationBoom,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Fish population grew from %d to %d", oldMin, fish),
	}
}
