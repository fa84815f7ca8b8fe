package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/lenia/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction    BookmarkType = "extinction"
	BookmarkSaturation    BookmarkType = "saturation"
	BookmarkMassCrash     BookmarkType = "mass_crash"
	BookmarkStableSoliton BookmarkType = "stable_soliton"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Step        int          `csv:"step" json:"step"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments from a stream of windows.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak   float64 // peak window-end mass since the last crash
	extinct      bool
	saturated    bool
	stableStreak int // consecutive windows that look like a moving soliton
}

// NewBookmarkDetector creates a detector with the given history size and
// thresholds.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest window and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkMassCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStableSoliton(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Mass > bd.recentPeak {
		bd.recentPeak = stats.Mass
	}

	return bookmarks
}

// Reset forgets history, for use after the field is cleared or reseeded.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentPeak = 0
	bd.extinct = false
	bd.saturated = false
	bd.stableStreak = 0
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

// checkExtinction fires once when mass first falls below the floor.
func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	dead := stats.Mass < bd.cfg.Extinction.MinMass
	fire := dead && !bd.extinct && len(bd.getHistory()) > 0
	bd.extinct = dead
	if !fire {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Step:        stats.WindowEndStep,
		Description: fmt.Sprintf("Mass fell to %.4f (peak %.2f)", stats.Mass, bd.recentPeak),
	}
}

// checkSaturation fires once when the mean cell value crosses the fill limit.
func (bd *BookmarkDetector) checkSaturation(stats WindowStats) *Bookmark {
	full := stats.Fill > bd.cfg.Saturation.Fill
	fire := full && !bd.saturated
	bd.saturated = full
	if !fire {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSaturation,
		Step:        stats.WindowEndStep,
		Description: fmt.Sprintf("Field %.0f%% full", stats.Fill*100),
	}
}

func (bd *BookmarkDetector) checkMassCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak <= 0 {
		return nil
	}

	drop := 1 - stats.Mass/bd.recentPeak
	if drop <= bd.cfg.MassCrash.DropPercent {
		return nil
	}

	// Reset peak after crash
	oldPeak := bd.recentPeak
	bd.recentPeak = stats.Mass

	return &Bookmark{
		Type:        BookmarkMassCrash,
		Step:        stats.WindowEndStep,
		Description: fmt.Sprintf("Mass crashed %.0f%% from peak %.2f to %.2f", drop*100, oldPeak, stats.Mass),
	}
}

// checkStableSoliton looks for a pattern that keeps its mass while moving.
func (bd *BookmarkDetector) checkStableSoliton(stats WindowStats) *Bookmark {
	cfg := bd.cfg.StableSoliton
	if stats.Mass < bd.cfg.Extinction.MinMass || stats.Fill > bd.cfg.Saturation.Fill {
		bd.stableStreak = 0
		return nil
	}

	// Window-to-window drift counts as instability too
	steady := stats.CV() < cfg.CVThreshold
	if history := bd.getHistory(); steady && len(history) > 0 {
		prev := bd.history[(bd.historyIdx+bd.historySize-1)%bd.historySize]
		if prev.MassMean > 0 {
			drift := (stats.MassMean - prev.MassMean) / prev.MassMean
			steady = drift < cfg.CVThreshold && drift > -cfg.CVThreshold
		}
	}

	if steady && stats.MeanSpeed >= cfg.MinSpeed {
		bd.stableStreak++
	} else {
		bd.stableStreak = 0
	}

	if bd.stableStreak != cfg.StableWindows { // trigger exactly once per streak
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStableSoliton,
		Step:        stats.WindowEndStep,
		Description: fmt.Sprintf("Soliton with mass %.2f moving %.3f cells/step over %d windows", stats.MassMean, stats.MeanSpeed, cfg.StableWindows),
	}
}
