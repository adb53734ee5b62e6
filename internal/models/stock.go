package models

import "github.com/jinzhu/gorm"

// StockItem represents one ingredient in storage. Level is a fill
// percentage clamped to [0,100]; it is adjusted by direct staff edits only,
// never decremented automatically when orders are fulfilled.
type StockItem struct {
	gorm.Model
	Name         string `json:"name"`
	Level        int    `json:"level"`
	ThresholdPct int    `json:"thresholdPct"`
	Unit         string `json:"unit"`
}

// ClampLevel bounds a stock level to the valid percentage range.
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// Low reports whether the item sits at or below its low-stock threshold.
func (s *StockItem) Low() bool {
	return s.Level <= s.ThresholdPct
}
