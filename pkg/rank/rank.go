// Package rank orders vocabulary into a custom study list.
package rank

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/japaniel/wkjlpt/pkg/index"
	"github.com/japaniel/wkjlpt/pkg/jlpt"
	"github.com/japaniel/wkjlpt/pkg/reconcile"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

// Item is a ranked vocabulary entry.
type Item struct {
	Entry            jlpt.Entry
	Slug             string
	Level            int
	PresentInService bool
	ContainsKatakana bool
}

// ServiceVocab indexes vocabulary subjects by their characters.
func ServiceVocab(subjects []wanikani.Subject) *index.Index[string, wanikani.Subject] {
	return index.By(subjects, func(s wanikani.Subject) string { return s.Data.Characters })
}

// Level computes the level of a slug the service does not teach: the
// highest level among its kanji, or one past the highest known level if
// any kanji is unknown. Kana-only slugs are level 0.
func Level(slug string, kanji jlpt.KanjiLevels) int {
	level := 0
	for _, k := range reconcile.Kanji(slug) {
		lvl, ok := kanji.Level(k)
		if !ok {
			return kanji.Max() + 1
		}
		level = max(level, lvl)
	}
	return level
}

// PresentOrder controls how entries the service already teaches are
// ordered among themselves.
type PresentOrder int

const (
	// PresentDescending puts the highest service level first.
	PresentDescending PresentOrder = iota
	// PresentAscending puts the lowest service level first.
	PresentAscending
)

// String returns the flag spelling of o.
func (o PresentOrder) String() string {
	if o == PresentAscending {
		return "asc"
	}
	return "desc"
}

// ParsePresentOrder parses "asc" or "desc".
func ParsePresentOrder(s string) (PresentOrder, error) {
	switch s {
	case "", "desc":
		return PresentDescending, nil
	case "asc":
		return PresentAscending, nil
	}
	return 0, fmt.Errorf("unknown order %q (want asc or desc)", s)
}

// Rank decorates entries with a level and sorts them into study order.
func Rank(entries []jlpt.Entry, vocab *index.Index[string, wanikani.Subject], kanji jlpt.KanjiLevels) []Item {
	return RankOrdered(entries, vocab, kanji, PresentDescending)
}

// RankOrdered is Rank with an explicit ordering for service vocabulary.
func RankOrdered(entries []jlpt.Entry, vocab *index.Index[string, wanikani.Subject], kanji jlpt.KanjiLevels, order PresentOrder) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		it := Item{
			Entry:            e,
			Slug:             e.Normalized,
			ContainsKatakana: reconcile.ContainsKatakana(e.Normalized),
		}
		if s, ok := vocab.Get(e.Normalized); ok {
			it.PresentInService = true
			it.Level = s.Data.Level
		} else {
			it.Level = Level(e.Normalized, kanji)
		}
		items = append(items, it)
	}
	Sort(items, order)
	return items
}

// Sort orders items in place. Ties keep their input order.
func Sort(items []Item, order PresentOrder) {
	fn := Compare
	if order == PresentAscending {
		fn = compareAscending
	}
	slices.SortStableFunc(items, fn)
}

// Compare orders items not taught by the service first, easiest first,
// then items the service teaches, highest level first.
func Compare(a, b Item) int {
	switch {
	case !a.PresentInService && b.PresentInService:
		return -1
	case a.PresentInService && !b.PresentInService:
		return 1
	case a.PresentInService:
		return b.Level - a.Level
	default:
		return a.Level - b.Level
	}
}

func compareAscending(a, b Item) int {
	if a.PresentInService && b.PresentInService {
		return a.Level - b.Level
	}
	return Compare(a, b)
}

// WriteCSV writes one "slug,level" line per item.
func WriteCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)
	for _, it := range items {
		if err := cw.Write([]string{it.Slug, strconv.Itoa(it.Level)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
