package reconcile

import (
	"github.com/japaniel/wkjlpt/pkg/index"
	"github.com/japaniel/wkjlpt/pkg/jlpt"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

// LearnedKanji returns the characters of the kanji subjects that have a
// started assignment.
func LearnedKanji(started []wanikani.Assignment, kanji []wanikani.Subject) index.Set[string] {
	byID := index.Filtered(started,
		func(a wanikani.Assignment) int { return a.Data.SubjectID },
		wanikani.Assignment.Started)

	learned := index.Set[string]{}
	for _, s := range kanji {
		if byID.Has(s.ID) {
			learned.Add(s.Data.Characters)
		}
	}
	return learned
}

// SelectComprehensible returns the entries a learner can read with the
// kanji already started but which the service does not teach as vocabulary.
func SelectComprehensible(started []wanikani.Assignment, kanji, vocab []wanikani.Subject, entries []jlpt.Entry) []jlpt.Entry {
	learned := LearnedKanji(started, kanji)
	known := index.SetOf(vocab, func(s wanikani.Subject) string { return s.Data.Characters })

	var out []jlpt.Entry
	for _, e := range entries {
		if known.Has(e.Normalized) {
			continue
		}
		if allLearned(e.Normalized, learned) {
			out = append(out, e)
		}
	}
	return out
}

func allLearned(slug string, learned index.Set[string]) bool {
	for _, k := range Kanji(slug) {
		if !learned.Has(k) {
			return false
		}
	}
	return true
}
