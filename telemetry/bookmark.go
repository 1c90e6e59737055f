package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/ooze/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkMergeCascade    BookmarkType = "merge_cascade"
	BookmarkGiant           BookmarkType = "giant"
	BookmarkPopulationCrash BookmarkType = "population_crash"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentOozePeak int  // peak ooze count since the last crash
	giantActive    bool // an ooze at or above the giant size exists
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkMergeCascade(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkGiant(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPopulationCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Oozes > bd.recentOozePeak {
		bd.recentOozePeak = stats.Oozes
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

// checkMergeCascade fires when a window merges far more than the rolling average.
func (bd *BookmarkDetector) checkMergeCascade(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Merges < bd.cfg.MergeCascade.MinMerges {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Merges
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.Merges) <= avg*bd.cfg.MergeCascade.Multiplier {
		return nil
	}

	return &Bookmark{
		Type:        BookmarkMergeCascade,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d merges vs rolling average %.1f", stats.Merges, avg),
	}
}

// checkGiant fires once each time the largest ooze crosses the giant size.
func (bd *BookmarkDetector) checkGiant(stats WindowStats) *Bookmark {
	threshold := float64(bd.cfg.Giant.Size)
	if stats.SizeMax < threshold {
		bd.giantActive = false
		return nil
	}
	if bd.giantActive {
		return nil
	}
	bd.giantActive = true

	return &Bookmark{
		Type:        BookmarkGiant,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Ooze reached size %.0f", stats.SizeMax),
	}
}

// checkPopulationCrash fires when the ooze count falls sharply from its recent peak.
func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentOozePeak == 0 {
		return nil
	}

	drop := bd.recentOozePeak - stats.Oozes
	dropPercent := float64(drop) / float64(bd.recentOozePeak)
	if dropPercent < bd.cfg.PopulationCrash.DropPercent || drop < bd.cfg.PopulationCrash.MinDrop {
		return nil
	}

	oldPeak := bd.recentOozePeak
	bd.recentOozePeak = stats.Oozes

	return &Bookmark{
		Type:        BookmarkPopulationCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Oozes crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Oozes),
	}
}
