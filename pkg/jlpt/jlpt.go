// Package jlpt loads the static JLPT vocabulary lists and derives the
// canonical surface form ("normalized slug") used to match them against
// WaniKani subjects.
package jlpt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// KanaOnlyTag marks senses usually written without kanji.
const KanaOnlyTag = "Usually written using kana alone"

// Entry matches the jisho.org word search result format the tier files use.
type Entry struct {
	Slug     string     `json:"slug"`
	IsCommon bool       `json:"is_common"`
	Tags     []string   `json:"tags"`
	JLPT     []string   `json:"jlpt"`
	Japanese []Japanese `json:"japanese"`
	Senses   []Sense    `json:"senses"`

	// Tier is the JLPT level of the file the entry came from (5 = easiest).
	// Zero means the entry did not come from a tier file.
	Tier int `json:"-"`
	// Normalized is the canonical surface form, set by Normalize.
	Normalized string `json:"-"`
}

// Japanese is one written form and its reading.
type Japanese struct {
	Word    string `json:"word,omitempty"`
	Reading string `json:"reading"`
}

// Sense is one group of meanings sharing usage tags.
type Sense struct {
	EnglishDefinitions []string `json:"english_definitions"`
	PartsOfSpeech      []string `json:"parts_of_speech"`
	Tags               []string `json:"tags"`
}

// Reading returns the reading of the first form.
func (e Entry) Reading() string {
	if len(e.Japanese) == 0 {
		return ""
	}
	return e.Japanese[0].Reading
}

// Forms renders every form as "word (reading)", or just the reading for kana words.
func (e Entry) Forms() []string {
	out := make([]string, 0, len(e.Japanese))
	for _, j := range e.Japanese {
		if j.Word == "" {
			out = append(out, j.Reading)
			continue
		}
		out = append(out, fmt.Sprintf("%s (%s)", j.Word, j.Reading))
	}
	return out
}

// tierFiles lists the tier files from easiest to hardest.
var tierFiles = []struct {
	tier int
	name string
}{
	{5, "jlpt-n5.json"},
	{4, "jlpt-n4.json"},
	{3, "jlpt-n3.json"},
}

// ValidLevel reports whether maxLevel selects at least the N5 file.
func ValidLevel(maxLevel int) bool {
	return maxLevel >= 1 && maxLevel <= 5
}

// LoadTiers reads the tier files under dir up to maxLevel. N5 is always
// loaded; N4 only when maxLevel <= 4 and N3 only when maxLevel <= 3.
// Every returned entry is normalized.
func LoadTiers(dir string, maxLevel int) ([]Entry, error) {
	var out []Entry
	for _, tf := range tierFiles {
		if tf.tier != 5 && maxLevel > tf.tier {
			continue
		}
		entries, err := LoadFile(filepath.Join(dir, tf.name))
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].Tier = tf.tier
		}
		out = append(out, entries...)
	}
	return out, nil
}

// LoadFile reads a JSON array of entries and normalizes each one.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range entries {
		entries[i].Normalized = Normalize(entries[i])
	}
	return entries, nil
}

// Slugs returns the set of normalized slugs.
func Slugs(entries []Entry) map[string]struct{} {
	s := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		s[e.Normalized] = struct{}{}
	}
	return s
}
