package jlpt

import (
	"encoding/json"
	"fmt"
	"os"
)

// KanjiInfo is the subset of kanji metadata the tool reads.
type KanjiInfo struct {
	Strokes int `json:"strokes"`
	Grade   int `json:"grade"`
	Freq    int `json:"freq"`
	JLPTOld int `json:"jlpt_old"`
	JLPTNew int `json:"jlpt_new"`
	WKLevel int `json:"wk_level"`
}

// KanjiLevels maps a kanji to its WaniKani level.
type KanjiLevels struct {
	levels map[string]int
	max    int
}

// NewKanjiLevels builds KanjiLevels from a char → level map. Non-positive
// levels are treated as unknown.
func NewKanjiLevels(m map[string]int) KanjiLevels {
	kl := KanjiLevels{levels: make(map[string]int, len(m))}
	for k, lvl := range m {
		if lvl <= 0 {
			continue
		}
		kl.levels[k] = lvl
		kl.max = max(kl.max, lvl)
	}
	return kl
}

// LoadKanjiLevels reads a kanji metadata file keyed by character.
func LoadKanjiLevels(path string) (KanjiLevels, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return KanjiLevels{}, err
	}
	var info map[string]KanjiInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return KanjiLevels{}, fmt.Errorf("parse %s: %w", path, err)
	}
	m := make(map[string]int, len(info))
	for k, v := range info {
		m[k] = v.WKLevel
	}
	return NewKanjiLevels(m), nil
}

// Level returns the level of k and whether it is known.
func (kl KanjiLevels) Level(k string) (int, bool) {
	lvl, ok := kl.levels[k]
	return lvl, ok
}

// Max returns the highest known level.
func (kl KanjiLevels) Max() int { return kl.max }

// Len returns the number of kanji with a known level.
func (kl KanjiLevels) Len() int { return len(kl.levels) }
